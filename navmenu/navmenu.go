// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package navmenu renders a navigation menu from a nav config, marking the
// link for the current page with the active class and aria-current="page".
package navmenu

import (
	"context"
	"fmt"

	"github.com/wavetermdev/activelink/activelink"
	"github.com/wavetermdev/activelink/engine"
	"github.com/wavetermdev/activelink/navconfig"
	"github.com/wavetermdev/activelink/router"
	"github.com/wavetermdev/activelink/vdom"
)

const NavMenuTag = "NavMenu"
const NavAnchorTag = "NavAnchor"

type NavMenuProps struct {
	Links       []navconfig.NavLink `json:"links"`
	ClassName   string              `json:"className,omitempty"`
	ActiveClass string              `json:"activeClass,omitempty"`
}

type NavAnchorProps struct {
	Href        string               `json:"href"`
	OnClick     func(vdom.VDomEvent) `json:"onClick,omitempty"`
	ActiveClass string               `json:"activeClass,omitempty"`
	Children    []vdom.VDomElem      `json:"children,omitempty"`
}

func Register(root *engine.RootElem) error {
	if err := activelink.Register(root); err != nil {
		return err
	}
	if err := root.RegisterComponent(NavAnchorTag, NavAnchor); err != nil {
		return err
	}
	return root.RegisterComponent(NavMenuTag, NavMenu)
}

// NavAnchor is the <a> inside each menu ActiveLink.
func NavAnchor(ctx context.Context, props NavAnchorProps) any {
	isActive := activelink.UseActiveLink(ctx)
	anchorProps := map[string]any{
		"href":    props.Href,
		"onClick": props.OnClick,
	}
	if isActive {
		anchorProps["className"] = props.ActiveClass
		anchorProps["aria-current"] = "page"
	}
	return vdom.H("a", anchorProps, props.Children)
}

func NavMenu(ctx context.Context, props NavMenuProps) any {
	items := vdom.ForEach(props.Links, func(navLink navconfig.NavLink, idx int) any {
		label, err := vdom.BindE(navLink.Label, nil)
		if err != nil {
			panic(fmt.Errorf("link[%d] label: %w", idx, err))
		}
		anchor := vdom.E(NavAnchorTag, vdom.P("activeClass", props.ActiveClass), label)
		item := activelink.New(activelink.ActiveLinkProps{
			Href:            navLink.LinkHref(),
			As:              navLink.LinkAs(),
			PassHref:        true,
			IsMatchingRoute: navLink.Matcher(),
		}, anchor)
		return vdom.H("li", nil, item).WithKey(fmt.Sprintf("%d:%s", idx, navLink.Href))
	})
	var navProps map[string]any
	if props.ClassName != "" {
		navProps = map[string]any{"className": props.ClassName}
	}
	return vdom.H("nav", navProps, vdom.H("ul", nil, items))
}

func New(cfg *navconfig.NavConfig) *vdom.VDomElem {
	return vdom.E(NavMenuTag, vdom.Props(NavMenuProps{
		Links:       cfg.Links,
		ClassName:   cfg.ClassName,
		ActiveClass: cfg.ActiveClass,
	}))
}

// Renderer renders a nav config against a router.  it keeps one engine
// root so repeated renders (e.g. after navigation) reconcile in place.
type Renderer struct {
	Root   *engine.RootElem
	Router router.Router
}

func MakeRenderer(r router.Router) (*Renderer, error) {
	root := engine.MakeRoot()
	if err := Register(root); err != nil {
		return nil, err
	}
	return &Renderer{Root: root, Router: r}, nil
}

func (nr *Renderer) Render(ctx context.Context, cfg *navconfig.NavConfig) error {
	nr.Root.Render(ctx, router.Provider(nr.Router, New(cfg)), nil)
	if errs := nr.Root.RenderErrors(); len(errs) > 0 {
		return fmt.Errorf("rendering nav menu: %w", errs[0])
	}
	return nil
}

// RenderHTML renders cfg for the router's current location as HTML.
func (nr *Renderer) RenderHTML(ctx context.Context, cfg *navconfig.NavConfig) (string, error) {
	if err := nr.Render(ctx, cfg); err != nil {
		return "", err
	}
	return nr.Root.RenderHTMLString()
}

// NewRouter builds a memory router for cfg's routes positioned at path.
func NewRouter(cfg *navconfig.NavConfig, path string) (*router.MemoryRouter, error) {
	return router.NewMemoryRouter(path, cfg.Routes...)
}
