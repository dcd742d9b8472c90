// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package router

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/google/uuid"
)

var ErrNoRoute = errors.New("no route for path")
var ErrNoHistory = errors.New("no history entry")

// Router is the host router as seen by components.
type Router interface {
	// AsPath is the path shown in the address bar (with query and hash).
	AsPath() string
	// Pathname is the route pattern of the current page (e.g. "/docs/[slug]").
	Pathname() string
	// Query holds the route params merged with the url query.
	Query() map[string]string
	Push(href Href, as Href) error
	Replace(href Href, as Href) error
	Back() error
}

type Location struct {
	Pathname string            `json:"pathname"`
	AsPath   string            `json:"aspath"`
	Query    map[string]string `json:"query,omitempty"`
}

type RouteChangeFn func(loc Location)

// dummy base url, only used to make relative paths parseable
var baseUrl = &url.URL{Scheme: "https", Host: "example.org", Path: "/"}

// MemoryRouter keeps its history in memory (server-side rendering, tests,
// and hosts that sync the address bar themselves).
type MemoryRouter struct {
	lock     sync.Mutex
	routes   []*Route
	current  Location
	back     *arraystack.Stack
	forward  *arraystack.Stack
	handlers map[string]RouteChangeFn
}

var _ Router = (*MemoryRouter)(nil)

// NewMemoryRouter creates a router for the given route patterns and
// navigates (without history) to initialPath.  with no patterns every path
// is accepted as its own route.
func NewMemoryRouter(initialPath string, patterns ...string) (*MemoryRouter, error) {
	rtn := &MemoryRouter{
		back:     arraystack.New(),
		forward:  arraystack.New(),
		handlers: make(map[string]RouteChangeFn),
	}
	for _, pattern := range patterns {
		if err := rtn.RegisterRoute(pattern); err != nil {
			return nil, err
		}
	}
	if initialPath == "" {
		initialPath = "/"
	}
	loc, err := rtn.resolve(ParseHref(initialPath), Href{})
	if err != nil {
		return nil, err
	}
	rtn.current = loc
	return rtn, nil
}

func (r *MemoryRouter) RegisterRoute(pattern string) error {
	route, err := ParseRoute(pattern)
	if err != nil {
		return err
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.routes {
		if existing.Pattern == pattern {
			return fmt.Errorf("route %q already registered", pattern)
		}
	}
	r.routes = append(r.routes, route)
	return nil
}

func (r *MemoryRouter) AsPath() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.current.AsPath
}

func (r *MemoryRouter) Pathname() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.current.Pathname
}

func (r *MemoryRouter) Query() map[string]string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return copyQuery(r.current.Query)
}

func (r *MemoryRouter) Location() Location {
	r.lock.Lock()
	defer r.lock.Unlock()
	loc := r.current
	loc.Query = copyQuery(loc.Query)
	return loc
}

// OnRouteChange registers fn to be called after every navigation.  the
// returned func unregisters it.
func (r *MemoryRouter) OnRouteChange(fn RouteChangeFn) func() {
	id := uuid.New().String()
	r.lock.Lock()
	defer r.lock.Unlock()
	r.handlers[id] = fn
	return func() {
		r.lock.Lock()
		defer r.lock.Unlock()
		delete(r.handlers, id)
	}
}

func (r *MemoryRouter) Push(href Href, as Href) error {
	return r.navigate(href, as, true)
}

func (r *MemoryRouter) Replace(href Href, as Href) error {
	return r.navigate(href, as, false)
}

func (r *MemoryRouter) navigate(href Href, as Href, push bool) error {
	r.lock.Lock()
	loc, err := r.resolve(href, as)
	if err != nil {
		r.lock.Unlock()
		log.Printf("[router] cannot navigate to %s: %v\n", href.String(), err)
		return err
	}
	if push {
		r.back.Push(r.current)
		r.forward.Clear()
	}
	r.current = loc
	handlers := r.getHandlers()
	r.lock.Unlock()

	log.Printf("[router] navigated to %s (route %s)\n", loc.AsPath, loc.Pathname)
	notifyHandlers(handlers, loc)
	return nil
}

func (r *MemoryRouter) Back() error {
	return r.travel(r.back, r.forward)
}

func (r *MemoryRouter) Forward() error {
	return r.travel(r.forward, r.back)
}

func (r *MemoryRouter) travel(from *arraystack.Stack, to *arraystack.Stack) error {
	r.lock.Lock()
	val, ok := from.Pop()
	if !ok {
		r.lock.Unlock()
		return ErrNoHistory
	}
	to.Push(r.current)
	r.current = val.(Location)
	loc := r.current
	handlers := r.getHandlers()
	r.lock.Unlock()

	notifyHandlers(handlers, loc)
	return nil
}

func (r *MemoryRouter) HistoryLen() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.back.Size()
}

// must hold lock
func (r *MemoryRouter) getHandlers() []RouteChangeFn {
	handlers := make([]RouteChangeFn, 0, len(r.handlers))
	for _, fn := range r.handlers {
		handlers = append(handlers, fn)
	}
	return handlers
}

func notifyHandlers(handlers []RouteChangeFn, loc Location) {
	for _, fn := range handlers {
		fn(loc)
	}
}

// must hold lock
func (r *MemoryRouter) findRoute(pathname string) (*Route, map[string]string) {
	var best *Route
	var bestParams map[string]string
	for _, route := range r.routes {
		params, ok := route.Match(pathname)
		if !ok {
			continue
		}
		if best == nil || route.moreSpecificThan(best) {
			best = route
			bestParams = params
		}
	}
	return best, bestParams
}

// must hold lock
func (r *MemoryRouter) findPattern(pattern string) *Route {
	for _, route := range r.routes {
		if route.Pattern == pattern {
			return route
		}
	}
	return nil
}

type resolvedUrl struct {
	pathname string
	query    map[string]string
	rawQuery string
	hash     string
}

func (ru resolvedUrl) asPath() string {
	var sb strings.Builder
	sb.WriteString(ru.pathname)
	if ru.rawQuery != "" {
		sb.WriteString("?")
		sb.WriteString(ru.rawQuery)
	}
	if ru.hash != "" {
		sb.WriteString("#")
		sb.WriteString(ru.hash)
	}
	return sb.String()
}

// must hold lock (reads r.current for relative paths)
func (r *MemoryRouter) resolveUrl(href Href) (resolvedUrl, error) {
	if !href.IsLiteral() {
		pathname := href.Pathname
		if pathname == "" {
			pathname = r.current.Pathname
		}
		return resolvedUrl{
			pathname: pathname,
			query:    copyQuery(href.Query),
			rawQuery: encodeQuery(href.Query),
			hash:     strings.TrimPrefix(href.Hash, "#"),
		}, nil
	}
	base := baseUrl
	if r.current.AsPath != "" {
		if cur, err := baseUrl.Parse(r.current.AsPath); err == nil {
			base = cur
		}
	}
	u, err := base.Parse(href.Path)
	if err != nil {
		return resolvedUrl{}, fmt.Errorf("invalid href %q: %w", href.Path, err)
	}
	if u.Host != baseUrl.Host || u.Scheme != baseUrl.Scheme {
		return resolvedUrl{}, fmt.Errorf("href %q is not a local path", href.Path)
	}
	pathname := u.EscapedPath()
	if pathname == "" {
		pathname = "/"
	}
	return resolvedUrl{
		pathname: pathname,
		query:    decodeQuery(u.Query()),
		rawQuery: u.RawQuery,
		hash:     u.Fragment,
	}, nil
}

// must hold lock
func (r *MemoryRouter) resolve(href Href, as Href) (Location, error) {
	target, err := r.resolveUrl(href)
	if err != nil {
		return Location{}, err
	}
	if isPattern(target.pathname) {
		return r.resolvePattern(target, as)
	}
	if !as.IsZero() {
		// as without a pattern href: the as path is the real destination
		asTarget, err := r.resolveUrl(as)
		if err != nil {
			return Location{}, err
		}
		target = asTarget
	}
	query := copyQuery(target.query)
	pathname := target.pathname
	if len(r.routes) > 0 {
		route, params := r.findRoute(target.pathname)
		if route == nil {
			return Location{}, fmt.Errorf("%w: %s", ErrNoRoute, target.pathname)
		}
		pathname = route.Pattern
		query = mergeParams(query, params)
	}
	return Location{Pathname: pathname, AsPath: target.asPath(), Query: query}, nil
}

// must hold lock
func (r *MemoryRouter) resolvePattern(target resolvedUrl, as Href) (Location, error) {
	route := r.findPattern(target.pathname)
	if route == nil {
		parsed, err := ParseRoute(target.pathname)
		if err != nil {
			return Location{}, err
		}
		if len(r.routes) > 0 {
			return Location{}, fmt.Errorf("%w: %s", ErrNoRoute, target.pathname)
		}
		route = parsed
	}
	if !as.IsZero() {
		asTarget, err := r.resolveUrl(as)
		if err != nil {
			return Location{}, err
		}
		params, ok := route.Match(asTarget.pathname)
		if !ok {
			return Location{}, fmt.Errorf("as path %q does not match route %q", asTarget.pathname, route.Pattern)
		}
		query := mergeParams(mergeParams(nil, target.query), asTarget.query)
		return Location{Pathname: route.Pattern, AsPath: asTarget.asPath(), Query: mergeParams(query, params)}, nil
	}
	path, rest, err := route.Interpolate(target.query)
	if err != nil {
		return Location{}, err
	}
	resolved := resolvedUrl{pathname: path, query: rest, rawQuery: encodeQuery(rest), hash: target.hash}
	return Location{Pathname: route.Pattern, AsPath: resolved.asPath(), Query: copyQuery(target.query)}, nil
}

func mergeParams(query map[string]string, params map[string]string) map[string]string {
	if len(params) == 0 {
		return query
	}
	if query == nil {
		query = make(map[string]string, len(params))
	}
	for k, v := range params {
		query[k] = v
	}
	return query
}

// ResolveHref returns the path a link to href/as points at (As when set,
// else the href with any pattern params interpolated from its query).
func ResolveHref(href Href, as Href) (string, error) {
	if !as.IsZero() {
		return as.String(), nil
	}
	if href.IsLiteral() {
		if !isPattern(href.Path) {
			return href.Path, nil
		}
		u, err := url.Parse(href.Path)
		if err != nil {
			return "", fmt.Errorf("invalid href %q: %w", href.Path, err)
		}
		href = Href{Pathname: u.Path, Query: decodeQuery(u.Query()), Hash: u.Fragment}
	}
	if !isPattern(href.Pathname) {
		return href.String(), nil
	}
	route, err := ParseRoute(href.Pathname)
	if err != nil {
		return "", err
	}
	path, rest, err := route.Interpolate(href.Query)
	if err != nil {
		return "", err
	}
	return Href{Pathname: path, Query: rest, Hash: href.Hash}.String(), nil
}
