// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package link is the router-aware link primitive: it renders an anchor
// (or decorates the caller's anchor) whose clicks navigate the router
// instead of loading a new page.
package link

import (
	"context"
	"fmt"
	"log"

	"github.com/wavetermdev/activelink/engine"
	"github.com/wavetermdev/activelink/router"
	"github.com/wavetermdev/activelink/vdom"
)

const LinkTag = "Link"

type LinkProps struct {
	Href      router.Href     `json:"href"`
	As        router.Href     `json:"as,omitempty"`
	Replace   bool            `json:"replace,omitempty"`
	PassHref  bool            `json:"passHref,omitempty"`
	Prefetch  bool            `json:"prefetch,omitempty"`
	ClassName string          `json:"className,omitempty"`
	Children  []vdom.VDomElem `json:"children,omitempty"`
}

func Register(root *engine.RootElem) error {
	return root.RegisterComponent(LinkTag, Link)
}

// New returns a Link element (the component must be registered on the root).
func New(props LinkProps, children ...any) *vdom.VDomElem {
	return vdom.E(LinkTag, vdom.Props(props), children)
}

func Link(ctx context.Context, props LinkProps) any {
	r := router.UseRouter(ctx)
	resolved, err := router.ResolveHref(props.Href, props.As)
	if err != nil {
		panic(fmt.Errorf("link: %w", err))
	}
	onClick := makeClickHandler(r, props)
	children := props.Children
	if len(children) == 1 {
		child := &children[0]
		if child.Tag == "a" || (props.PassHref && child.IsComponent()) {
			return decorateChild(child, resolved, props, onClick)
		}
		if child.IsComponent() {
			clone := child.Clone()
			setProp(clone, "onClick", composeHandlers(clone.Props["onClick"], onClick))
			return clone
		}
	}
	anchorProps := map[string]any{
		"href":    resolved,
		"onClick": onClick,
	}
	if props.ClassName != "" {
		anchorProps["className"] = props.ClassName
	}
	if props.Prefetch {
		anchorProps["data-prefetch"] = true
	}
	return vdom.H("a", anchorProps, children)
}

func decorateChild(child *vdom.VDomElem, resolved string, props LinkProps, onClick func(vdom.VDomEvent)) *vdom.VDomElem {
	clone := child.Clone()
	if _, hasHref := clone.Props["href"]; !hasHref || props.PassHref {
		setProp(clone, "href", resolved)
	}
	setProp(clone, "onClick", composeHandlers(clone.Props["onClick"], onClick))
	if props.ClassName != "" {
		if _, hasClass := clone.Props["className"]; !hasClass {
			setProp(clone, "className", props.ClassName)
		}
	}
	if props.Prefetch {
		setProp(clone, "data-prefetch", true)
	}
	return clone
}

func setProp(elem *vdom.VDomElem, key string, val any) {
	if elem.Props == nil {
		elem.Props = make(map[string]any)
	}
	elem.Props[key] = val
}

func makeClickHandler(r router.Router, props LinkProps) func(vdom.VDomEvent) {
	return func(event vdom.VDomEvent) {
		if event.MouseData.IsModified() {
			// new tab, new window, etc.
			return
		}
		var err error
		if props.Replace {
			err = r.Replace(props.Href, props.As)
		} else {
			err = r.Push(props.Href, props.As)
		}
		if err != nil {
			log.Printf("[link] navigation to %s failed: %v\n", props.Href.String(), err)
		}
	}
}

// the child's own handler runs first
func composeHandlers(childHandler any, linkHandler func(vdom.VDomEvent)) func(vdom.VDomEvent) {
	switch fn := childHandler.(type) {
	case func(vdom.VDomEvent):
		return func(event vdom.VDomEvent) {
			fn(event)
			linkHandler(event)
		}
	case func():
		return func(event vdom.VDomEvent) {
			fn()
			linkHandler(event)
		}
	case nil:
		return linkHandler
	default:
		log.Printf("[link] ignoring child onClick of unsupported type %T\n", childHandler)
		return linkHandler
	}
}
