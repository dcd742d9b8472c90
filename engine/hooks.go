// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
)

// generic hook structure
type Hook struct {
	Init bool // is initialized
	Idx  int  // index in the hook array
	Val  any  // for useRef
}

// RenderContextImpl is the per-component render context handed to hooks
// (implements vdomctx.VDomContext).  a new one is made for every component
// render so hook indexes restart at 0.
type RenderContextImpl struct {
	Root       *RootElem
	Comp       *ComponentImpl
	HookIdx    int
	RenderOpts *RenderOpts
}

func makeContextVal(root *RootElem, comp *ComponentImpl, opts *RenderOpts) *RenderContextImpl {
	return &RenderContextImpl{
		Root:       root,
		Comp:       comp,
		HookIdx:    0,
		RenderOpts: opts,
	}
}

func (vc *RenderContextImpl) GetCompWaveId() string {
	if vc.Comp == nil {
		return ""
	}
	return vc.Comp.WaveId
}

func (vc *RenderContextImpl) getOrderedHook() *Hook {
	if vc.Comp == nil {
		panic("hooks must be called within a component (vc.Comp is nil)")
	}
	for len(vc.Comp.Hooks) <= vc.HookIdx {
		vc.Comp.Hooks = append(vc.Comp.Hooks, &Hook{Idx: len(vc.Comp.Hooks)})
	}
	hookVal := vc.Comp.Hooks[vc.HookIdx]
	vc.HookIdx++
	return hookVal
}

func (vc *RenderContextImpl) UseRenderTs(ctx context.Context) int64 {
	return vc.Root.RenderTs
}

func (vc *RenderContextImpl) UseId(ctx context.Context) string {
	return vc.GetCompWaveId()
}

func (vc *RenderContextImpl) UseRef(ctx context.Context, hookInitialVal any) any {
	hookVal := vc.getOrderedHook()
	if !hookVal.Init {
		hookVal.Init = true
		hookVal.Val = hookInitialVal
	}
	return hookVal.Val
}
