// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package vdom

import (
	"context"
	"fmt"
)

// contexts carry a value from a provider element down to every component
// rendered inside it.  values ride on context.Context, so a lookup walks
// outward to the nearest enclosing provider.

type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "vdom.Context(" + k.name + ")"
}

// wraps provider values so a provided nil is distinguishable from "no provider"
type providerVal struct {
	val any
}

type Context[T any] struct {
	key *contextKey
}

func CreateContext[T any](name string) *Context[T] {
	return &Context[T]{key: &contextKey{name: name}}
}

func (c *Context[T]) Name() string {
	return c.key.name
}

// Provider returns a #provider element that makes value visible to the
// children (and their descendants) via UseContext.
func (c *Context[T]) Provider(value T, children ...any) *VDomElem {
	props := map[string]any{
		ProviderContextPropKey: c.key,
		ProviderValuePropKey:   value,
	}
	return H(ProviderTag, props, children...)
}

// WithValue is the non-element form of Provider (used by hosts that
// render outside of an engine and in tests).
func (c *Context[T]) WithValue(ctx context.Context, value T) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, c.key, providerVal{val: value})
}

// UseContext returns the value of the nearest enclosing provider for c.
// ok is false when there is no provider.
func UseContext[T any](ctx context.Context, c *Context[T]) (T, bool) {
	var zero T
	if ctx == nil || c == nil {
		return zero, false
	}
	pv, ok := ctx.Value(c.key).(providerVal)
	if !ok {
		return zero, false
	}
	if pv.val == nil {
		return zero, true
	}
	typedVal, ok := pv.val.(T)
	if !ok {
		panic(fmt.Sprintf("context %q value type mismatch (expected %T, got %T)", c.key.name, zero, pv.val))
	}
	return typedVal, true
}

// WithProviderElem derives the context for the children of a #provider element.
func WithProviderElem(ctx context.Context, elem *VDomElem) (context.Context, error) {
	if elem == nil || elem.Tag != ProviderTag {
		return ctx, fmt.Errorf("not a provider element")
	}
	key, ok := elem.Props[ProviderContextPropKey].(*contextKey)
	if !ok || key == nil {
		return ctx, fmt.Errorf("provider element is missing its context")
	}
	return context.WithValue(ctx, key, providerVal{val: elem.Props[ProviderValuePropKey]}), nil
}
