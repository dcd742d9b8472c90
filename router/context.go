// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package router

import (
	"context"
	"errors"

	"github.com/wavetermdev/activelink/vdom"
)

var ErrNoRouter = errors.New("UseRouter must be called inside a router.Provider")

var RouterContext = vdom.CreateContext[Router]("router")

// Provider makes r the current router for children.
func Provider(r Router, children ...any) *vdom.VDomElem {
	return RouterContext.Provider(r, children...)
}

// WithRouter attaches r to ctx (for hosts that pass it to RootElem.Render).
func WithRouter(ctx context.Context, r Router) context.Context {
	return RouterContext.WithValue(ctx, r)
}

func GetRouter(ctx context.Context) (Router, error) {
	r, ok := vdom.UseContext(ctx, RouterContext)
	if !ok || r == nil {
		return nil, ErrNoRouter
	}
	return r, nil
}

// UseRouter returns the router of the enclosing provider.  it panics when
// called outside one.
func UseRouter(ctx context.Context) Router {
	r, err := GetRouter(ctx)
	if err != nil {
		panic(err)
	}
	return r
}
