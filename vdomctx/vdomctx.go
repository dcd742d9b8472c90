// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package vdomctx

import (
	"context"
)

type vdomContextKeyType struct{}

var vdomContextKey = vdomContextKeyType{}

type VDomContext interface {
	UseRenderTs(ctx context.Context) int64
	UseId(ctx context.Context) string
	UseRef(ctx context.Context, initialVal any) any
}

func WithRenderContext(ctx context.Context, vc VDomContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, vdomContextKey, vc)
}

func GetRenderContext(ctx context.Context) VDomContext {
	if ctx == nil {
		return nil
	}
	v := ctx.Value(vdomContextKey)
	if v == nil {
		return nil
	}
	return v.(VDomContext)
}
