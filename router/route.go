// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package router

import (
	"fmt"
	"strings"
)

type segmentKind int

const (
	segStatic segmentKind = iota
	segParam
	segCatchAll
	segOptionalCatchAll
)

type segment struct {
	kind segmentKind
	name string // literal text for static segments, param name otherwise
}

// Route is a parsed route pattern.  Dynamic segments use brackets:
// "[slug]" matches one segment, "[...parts]" one or more trailing segments,
// "[[...parts]]" zero or more.
type Route struct {
	Pattern  string
	segments []segment
}

func ParseRoute(pattern string) (*Route, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("route pattern %q must start with /", pattern)
	}
	rtn := &Route{Pattern: pattern}
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return rtn, nil
	}
	seen := make(map[string]bool)
	parts := strings.Split(trimmed, "/")
	for idx, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, fmt.Errorf("route pattern %q: %w", pattern, err)
		}
		if seg.kind != segStatic {
			if seen[seg.name] {
				return nil, fmt.Errorf("route pattern %q: duplicate param %q", pattern, seg.name)
			}
			seen[seg.name] = true
		}
		if (seg.kind == segCatchAll || seg.kind == segOptionalCatchAll) && idx != len(parts)-1 {
			return nil, fmt.Errorf("route pattern %q: catch-all %q must be the last segment", pattern, part)
		}
		rtn.segments = append(rtn.segments, seg)
	}
	return rtn, nil
}

func MustParseRoute(pattern string) *Route {
	rtn, err := ParseRoute(pattern)
	if err != nil {
		panic(err)
	}
	return rtn
}

func parseSegment(part string) (segment, error) {
	if part == "" {
		return segment{}, fmt.Errorf("empty segment")
	}
	if !strings.ContainsAny(part, "[]") {
		return segment{kind: segStatic, name: part}, nil
	}
	if strings.HasPrefix(part, "[[...") && strings.HasSuffix(part, "]]") {
		name := part[len("[[...") : len(part)-2]
		return makeParamSegment(segOptionalCatchAll, name, part)
	}
	if strings.HasPrefix(part, "[...") && strings.HasSuffix(part, "]") {
		name := part[len("[...") : len(part)-1]
		return makeParamSegment(segCatchAll, name, part)
	}
	if strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]") {
		name := part[1 : len(part)-1]
		return makeParamSegment(segParam, name, part)
	}
	return segment{}, fmt.Errorf("malformed segment %q", part)
}

func makeParamSegment(kind segmentKind, name string, part string) (segment, error) {
	if name == "" || strings.ContainsAny(name, "[]./") {
		return segment{}, fmt.Errorf("malformed segment %q", part)
	}
	return segment{kind: kind, name: name}, nil
}

func (r *Route) IsDynamic() bool {
	for _, seg := range r.segments {
		if seg.kind != segStatic {
			return true
		}
	}
	return false
}

func splitPath(pathname string) []string {
	pathname = strings.Trim(pathname, "/")
	if pathname == "" {
		return nil
	}
	return strings.Split(pathname, "/")
}

// Match reports whether pathname (no query or fragment) matches the route
// and returns the extracted params.  catch-all params are joined with "/".
func (r *Route) Match(pathname string) (map[string]string, bool) {
	parts := splitPath(pathname)
	params := make(map[string]string)
	for idx, seg := range r.segments {
		switch seg.kind {
		case segStatic:
			if idx >= len(parts) || parts[idx] != seg.name {
				return nil, false
			}
		case segParam:
			if idx >= len(parts) {
				return nil, false
			}
			params[seg.name] = parts[idx]
		case segCatchAll:
			if idx >= len(parts) {
				return nil, false
			}
			params[seg.name] = strings.Join(parts[idx:], "/")
			return params, true
		case segOptionalCatchAll:
			if idx < len(parts) {
				params[seg.name] = strings.Join(parts[idx:], "/")
			}
			return params, true
		}
	}
	if len(parts) != len(r.segments) {
		return nil, false
	}
	return params, true
}

// Interpolate fills the dynamic segments from query.  it returns the
// resolved path and the query entries that were not consumed by the pattern.
func (r *Route) Interpolate(query map[string]string) (string, map[string]string, error) {
	rest := copyQuery(query)
	var parts []string
	for _, seg := range r.segments {
		if seg.kind == segStatic {
			parts = append(parts, seg.name)
			continue
		}
		val, ok := query[seg.name]
		delete(rest, seg.name)
		if !ok || val == "" {
			if seg.kind == segOptionalCatchAll {
				continue
			}
			return "", nil, fmt.Errorf("route %q: missing param %q", r.Pattern, seg.name)
		}
		if seg.kind == segParam && strings.Contains(val, "/") {
			return "", nil, fmt.Errorf("route %q: param %q must be a single segment, got %q", r.Pattern, seg.name, val)
		}
		parts = append(parts, val)
	}
	if len(rest) == 0 {
		rest = nil
	}
	return "/" + strings.Join(parts, "/"), rest, nil
}

// compares specificity, static segments beat params which beat catch-alls
func (r *Route) moreSpecificThan(other *Route) bool {
	for idx := 0; idx < len(r.segments) && idx < len(other.segments); idx++ {
		a, b := r.segments[idx].kind, other.segments[idx].kind
		if a != b {
			return a < b
		}
	}
	return len(r.segments) > len(other.segments)
}

func isPattern(pathname string) bool {
	return strings.Contains(pathname, "[")
}
