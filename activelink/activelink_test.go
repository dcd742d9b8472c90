// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package activelink

import (
	"context"
	"errors"
	"testing"

	"github.com/wavetermdev/activelink/engine"
	"github.com/wavetermdev/activelink/router"
	"github.com/wavetermdev/activelink/rpctypes"
	"github.com/wavetermdev/activelink/vdom"
)

func activeAnchor(ctx context.Context, props map[string]any) any {
	isActive := UseActiveLink(ctx)
	aprops := map[string]any{
		"href":    props["href"],
		"onClick": props["onClick"],
	}
	if isActive {
		aprops["aria-current"] = "page"
	}
	return vdom.H("a", aprops, props["children"])
}

func makeProbe(results map[string]bool) func(context.Context, map[string]any) any {
	return func(ctx context.Context, props map[string]any) any {
		label, _ := props["label"].(string)
		results[label] = UseActiveLink(ctx)
		return vdom.H("span", nil, label)
	}
}

func makeTestRoot(t *testing.T) *engine.RootElem {
	t.Helper()
	root := engine.MakeRoot()
	if err := Register(root); err != nil {
		t.Fatalf("error registering ActiveLink: %v", err)
	}
	if err := root.RegisterComponent("ActiveAnchor", activeAnchor); err != nil {
		t.Fatalf("error registering ActiveAnchor: %v", err)
	}
	return root
}

func renderString(t *testing.T, root *engine.RootElem, r router.Router, elem *vdom.VDomElem) string {
	t.Helper()
	root.Render(context.Background(), router.Provider(r, elem), nil)
	html, err := root.RenderHTMLString()
	if err != nil {
		t.Fatalf("error rendering html: %v", err)
	}
	return html
}

func findElem(elem *rpctypes.RenderedElem, tag string, href string) *rpctypes.RenderedElem {
	if elem == nil {
		return nil
	}
	if elem.Tag == tag && elem.Props["href"] == href {
		return elem
	}
	for i := range elem.Children {
		if found := findElem(&elem.Children[i], tag, href); found != nil {
			return found
		}
	}
	return nil
}

func newMemoryRouter(t *testing.T, path string, patterns ...string) *router.MemoryRouter {
	t.Helper()
	r, err := router.NewMemoryRouter(path, patterns...)
	if err != nil {
		t.Fatalf("error creating router: %v", err)
	}
	return r
}

func TestActiveLinkRender(t *testing.T) {
	tests := []struct {
		name    string
		current string
		props   ActiveLinkProps
		want    string
	}{
		{
			name:    "active",
			current: "/docs",
			props:   ActiveLinkProps{Href: router.ParseHref("/docs"), PassHref: true},
			want:    `<a aria-current="page" href="/docs">Docs</a>`,
		},
		{
			name:    "inactive",
			current: "/about",
			props:   ActiveLinkProps{Href: router.ParseHref("/docs"), PassHref: true},
			want:    `<a href="/docs">Docs</a>`,
		},
		{
			name:    "query and hash ignored",
			current: "/docs",
			props:   ActiveLinkProps{Href: router.ParseHref("/docs?x=1#y"), PassHref: true},
			want:    `<a aria-current="page" href="/docs?x=1#y">Docs</a>`,
		},
		{
			name:    "trailing slash ignored",
			current: "/docs/",
			props:   ActiveLinkProps{Href: router.ParseHref("/docs"), PassHref: true},
			want:    `<a aria-current="page" href="/docs">Docs</a>`,
		},
		{
			name:    "as overrides href",
			current: "/docs/intro",
			props: ActiveLinkProps{
				Href:     router.ParseHref("/docs/[slug]"),
				As:       router.ParseHref("/docs/intro"),
				PassHref: true,
			},
			want: `<a aria-current="page" href="/docs/intro">Docs</a>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := makeTestRoot(t)
			r := newMemoryRouter(t, tc.current)
			got := renderString(t, root, r, New(tc.props, vdom.E("ActiveAnchor", "Docs")))
			if got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
			if errs := root.RenderErrors(); len(errs) != 0 {
				t.Errorf("unexpected render errors: %v", errs)
			}
		})
	}
}

func TestActiveLinkWrapsPlainChildren(t *testing.T) {
	root := makeTestRoot(t)
	r := newMemoryRouter(t, "/docs")
	got := renderString(t, root, r, New(ActiveLinkProps{Href: router.ParseHref("/docs"), ClassName: "nav"}, "Docs"))
	want := `<a class="nav" href="/docs">Docs</a>`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestActiveLinkFollowsNavigation(t *testing.T) {
	root := makeTestRoot(t)
	r := newMemoryRouter(t, "/docs")
	tree := func() *vdom.VDomElem {
		return vdom.H("nav", nil,
			New(ActiveLinkProps{Href: router.ParseHref("/docs"), PassHref: true}, vdom.E("ActiveAnchor", "Docs")),
			New(ActiveLinkProps{Href: router.ParseHref("/about"), PassHref: true}, vdom.E("ActiveAnchor", "About")),
		)
	}
	got := renderString(t, root, r, tree())
	want := `<nav><a aria-current="page" href="/docs">Docs</a><a href="/about">About</a></nav>`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	about := findElem(root.MakeRendered(), "a", "/about")
	if about == nil {
		t.Fatalf("could not find the /about anchor")
	}
	if err := root.Event(about.WaveId, "onClick", vdom.VDomEvent{}); err != nil {
		t.Fatalf("error dispatching click: %v", err)
	}
	if r.AsPath() != "/about" {
		t.Fatalf("expected router at /about, got %s", r.AsPath())
	}
	got = renderString(t, root, r, tree())
	want = `<nav><a href="/docs">Docs</a><a aria-current="page" href="/about">About</a></nav>`
	if got != want {
		t.Errorf("after navigation got %s, want %s", got, want)
	}
}

func TestActiveLinkModifiedClickIgnored(t *testing.T) {
	root := makeTestRoot(t)
	r := newMemoryRouter(t, "/docs")
	renderString(t, root, r, New(ActiveLinkProps{Href: router.ParseHref("/about")}, "About"))
	about := findElem(root.MakeRendered(), "a", "/about")
	if about == nil {
		t.Fatalf("could not find the /about anchor")
	}
	event := vdom.VDomEvent{MouseData: &vdom.VDomPointerData{Meta: true}}
	if err := root.Event(about.WaveId, "onClick", event); err != nil {
		t.Fatalf("error dispatching click: %v", err)
	}
	if r.AsPath() != "/docs" {
		t.Errorf("modified click should not navigate, router at %s", r.AsPath())
	}
}

func TestActiveLinkCustomMatcher(t *testing.T) {
	root := makeTestRoot(t)
	results := make(map[string]bool)
	root.RegisterComponent("Probe", makeProbe(results))
	r := newMemoryRouter(t, "/elsewhere")

	var calls int
	var gotParams RouteMatcherParams
	matcher := func(params RouteMatcherParams) bool {
		calls++
		gotParams = params
		return true
	}
	props := ActiveLinkProps{
		Href:            router.ParseHref("/docs"),
		As:              router.ParseHref("/docs/intro"),
		IsMatchingRoute: matcher,
	}
	renderString(t, root, r, New(props, vdom.E("Probe", map[string]any{"label": "docs"})))
	if calls != 1 {
		t.Fatalf("expected matcher to be called once, got %d", calls)
	}
	if !results["docs"] {
		t.Errorf("expected matcher result to be provided to descendants")
	}
	if gotParams.Current == nil || gotParams.Current.AsPath() != "/elsewhere" {
		t.Errorf("matcher got wrong router: %v", gotParams.Current)
	}
	if gotParams.Href.Path != "/docs" || gotParams.As.Path != "/docs/intro" {
		t.Errorf("matcher got wrong href/as: %v %v", gotParams.Href, gotParams.As)
	}

	// recomputed on every render
	renderString(t, root, r, New(props, vdom.E("Probe", map[string]any{"label": "docs"})))
	if calls != 2 {
		t.Errorf("expected matcher to be called again on re-render, got %d calls", calls)
	}
}

func TestActiveLinkPrefixMatcher(t *testing.T) {
	root := makeTestRoot(t)
	results := make(map[string]bool)
	root.RegisterComponent("Probe", makeProbe(results))
	r := newMemoryRouter(t, "/docs/intro")
	renderString(t, root, r, vdom.H("div", nil,
		New(ActiveLinkProps{Href: router.ParseHref("/docs"), IsMatchingRoute: IsMatchingPathnamePrefix},
			vdom.E("Probe", map[string]any{"label": "prefix"})),
		New(ActiveLinkProps{Href: router.ParseHref("/docs")},
			vdom.E("Probe", map[string]any{"label": "exact"})),
	))
	if !results["prefix"] {
		t.Errorf("expected prefix matcher to mark /docs active at /docs/intro")
	}
	if results["exact"] {
		t.Errorf("expected default matcher to mark /docs inactive at /docs/intro")
	}
}

func TestActiveLinkNestedProviders(t *testing.T) {
	root := makeTestRoot(t)
	results := make(map[string]bool)
	root.RegisterComponent("Probe", makeProbe(results))
	r := newMemoryRouter(t, "/about")
	tree := New(ActiveLinkProps{Href: router.ParseHref("/docs")},
		New(ActiveLinkProps{Href: router.ParseHref("/about")},
			vdom.E("Probe", map[string]any{"label": "inner"})),
		vdom.E("Probe", map[string]any{"label": "outer"}),
	)
	renderString(t, root, r, tree)
	if errs := root.RenderErrors(); len(errs) != 0 {
		t.Fatalf("unexpected render errors: %v", errs)
	}
	if !results["inner"] {
		t.Errorf("expected inner probe to see the nearest (active) provider")
	}
	if results["outer"] {
		t.Errorf("expected outer probe to see the outer (inactive) provider")
	}
}

func TestUseActiveLinkWithoutProvider(t *testing.T) {
	root := makeTestRoot(t)
	results := make(map[string]bool)
	root.RegisterComponent("Probe", makeProbe(results))
	r := newMemoryRouter(t, "/docs")
	tree := vdom.H("div", nil,
		New(ActiveLinkProps{Href: router.ParseHref("/docs")}, "Docs"),
		vdom.E("Probe", map[string]any{"label": "orphan"}),
	)
	// fails the same way on every render
	for i := 0; i < 2; i++ {
		html := renderString(t, root, r, tree)
		errs := root.RenderErrors()
		if len(errs) != 1 {
			t.Fatalf("render %d: expected 1 render error, got %v", i, errs)
		}
		if !errors.Is(errs[0], ErrNoActiveLinkProvider) {
			t.Errorf("render %d: expected ErrNoActiveLinkProvider, got %v", i, errs[0])
		}
		if _, ok := results["orphan"]; ok {
			t.Errorf("render %d: probe should not have produced a value", i)
		}
		if html == "" {
			t.Errorf("render %d: expected an error element in the output", i)
		}
	}
}

func TestActiveLinkWithoutRouter(t *testing.T) {
	root := makeTestRoot(t)
	root.Render(context.Background(), New(ActiveLinkProps{Href: router.ParseHref("/docs")}, "Docs"), nil)
	errs := root.RenderErrors()
	if len(errs) != 1 || !errors.Is(errs[0], router.ErrNoRouter) {
		t.Fatalf("expected ErrNoRouter, got %v", errs)
	}
}

func TestActiveLinkState(t *testing.T) {
	if _, err := ActiveLinkState(context.Background()); !errors.Is(err, ErrNoActiveLinkProvider) {
		t.Errorf("expected ErrNoActiveLinkProvider, got %v", err)
	}
	ctx := ActiveLinkContext.WithValue(context.Background(), true)
	isActive, err := ActiveLinkState(ctx)
	if err != nil || !isActive {
		t.Errorf("expected (true, nil), got (%v, %v)", isActive, err)
	}
	ctx = ActiveLinkContext.WithValue(ctx, false)
	if !UseActiveLink(ActiveLinkContext.WithValue(ctx, true)) {
		t.Errorf("expected nearest value (true)")
	}
	if UseActiveLink(ctx) {
		t.Errorf("expected nearest value (false)")
	}
}

func TestUseActiveLinkPanics(t *testing.T) {
	defer func() {
		rec := recover()
		err, ok := rec.(error)
		if !ok || !errors.Is(err, ErrNoActiveLinkProvider) {
			t.Fatalf("expected ErrNoActiveLinkProvider panic, got %v", rec)
		}
		if err.Error() != "UseActiveLink must be nested inside an ActiveLinkContext provider" {
			t.Errorf("unexpected message: %s", err.Error())
		}
	}()
	UseActiveLink(context.Background())
}
