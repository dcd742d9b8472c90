// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package activelink provides ActiveLink, a Link that knows whether it points
// at the current page, and UseActiveLink, which lets any component rendered
// inside it read that flag.
//
// By default a link is active when its pathname equals the current pathname,
// ignoring the query string, the hash and a single trailing slash.  Pass
// IsMatchingRoute to change that (see IsMatchingPathnamePrefix).
//
//	func ActiveAnchor(ctx context.Context, props map[string]any) any {
//		isActive := activelink.UseActiveLink(ctx)
//		return vdom.H("a", map[string]any{
//			"aria-current": vdom.Ternary(isActive, "page", ""),
//			"href":         props["href"],
//			"onClick":      props["onClick"],
//		}, props["children"])
//	}
//
//	activelink.New(activelink.ActiveLinkProps{
//		Href:     router.Href{Pathname: "/docs/[slug]"},
//		As:       router.ParseHref("/docs/intro"),
//		PassHref: true,
//	}, vdom.E("ActiveAnchor", "Click me"))
package activelink

import (
	"context"
	"errors"

	"github.com/wavetermdev/activelink/engine"
	"github.com/wavetermdev/activelink/link"
	"github.com/wavetermdev/activelink/router"
	"github.com/wavetermdev/activelink/vdom"
)

const ActiveLinkTag = "ActiveLink"

var ErrNoActiveLinkProvider = errors.New("UseActiveLink must be nested inside an ActiveLinkContext provider")

var ActiveLinkContext = vdom.CreateContext[bool]("activelink")

type ActiveLinkProps struct {
	Href      router.Href     `json:"href"`
	As        router.Href     `json:"as,omitempty"`
	Replace   bool            `json:"replace,omitempty"`
	PassHref  bool            `json:"passHref,omitempty"`
	Prefetch  bool            `json:"prefetch,omitempty"`
	ClassName string          `json:"className,omitempty"`
	Children  []vdom.VDomElem `json:"children,omitempty"`

	// nil means IsMatchingPathnameExactly
	IsMatchingRoute RouteMatcher `json:"isMatchingRoute,omitempty"`
}

func (p ActiveLinkProps) linkProps() link.LinkProps {
	return link.LinkProps{
		Href:      p.Href,
		As:        p.As,
		Replace:   p.Replace,
		PassHref:  p.PassHref,
		Prefetch:  p.Prefetch,
		ClassName: p.ClassName,
	}
}

// Register adds ActiveLink (and the Link it renders) to root.
func Register(root *engine.RootElem) error {
	if _, ok := root.CFuncs[link.LinkTag]; !ok {
		if err := link.Register(root); err != nil {
			return err
		}
	}
	return root.RegisterComponent(ActiveLinkTag, ActiveLink)
}

func New(props ActiveLinkProps, children ...any) *vdom.VDomElem {
	return vdom.E(ActiveLinkTag, vdom.Props(props), children)
}

// ActiveLink provides a flag whether the current page matches the link's
// href.  it is recomputed on every render.
func ActiveLink(ctx context.Context, props ActiveLinkProps) any {
	r := router.UseRouter(ctx)
	isMatching := props.IsMatchingRoute
	if isMatching == nil {
		isMatching = IsMatchingPathnameExactly
	}
	isActive := isMatching(RouteMatcherParams{
		Current: r,
		Href:    props.Href,
		As:      props.As,
	})
	return ActiveLinkContext.Provider(isActive, link.New(props.linkProps(), props.Children))
}

// ActiveLinkState reads the active flag of the enclosing ActiveLink.
func ActiveLinkState(ctx context.Context) (bool, error) {
	isActive, ok := vdom.UseContext(ctx, ActiveLinkContext)
	if !ok {
		return false, ErrNoActiveLinkProvider
	}
	return isActive, nil
}

// UseActiveLink returns the active flag of the enclosing ActiveLink.  it
// panics with ErrNoActiveLinkProvider when there is none.
func UseActiveLink(ctx context.Context) bool {
	isActive, err := ActiveLinkState(ctx)
	if err != nil {
		panic(err)
	}
	return isActive
}
