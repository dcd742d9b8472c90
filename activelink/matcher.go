// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package activelink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/wavetermdev/activelink/router"
)

var ErrInvalidHref = errors.New("invalid link target")

type RouteMatcherParams struct {
	Current router.Router
	Href    router.Href
	As      router.Href
}

// RouteMatcher decides whether a link points at the current page.
type RouteMatcher func(params RouteMatcherParams) bool

// dummy base url, only used to make relative paths parseable
var baseUrl = &url.URL{Scheme: "https", Host: "example.org", Path: "/"}

// RemoveTrailingSlash drops exactly one trailing "/".  nothing else about
// the path changes.
func RemoveTrailingSlash(str string) string {
	if str != "" && strings.HasSuffix(str, "/") {
		return str[:len(str)-1]
	}
	return str
}

// hasPathname is false for a structured target that only carries a query or
// hash.  such a target never matches, not even the root.
func hasPathname(to router.Href) bool {
	return to.IsLiteral() || to.Pathname != ""
}

func linkPathname(to router.Href) (string, error) {
	if !to.IsLiteral() {
		return to.Pathname, nil
	}
	return resolvePathname(to.Path)
}

func resolvePathname(path string) (string, error) {
	u, err := baseUrl.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidHref, path, err)
	}
	pathname := u.EscapedPath()
	if pathname == "" {
		pathname = "/"
	}
	return pathname, nil
}

// MatchPathname compares the pathnames of the current location and a link
// target, ignoring query, fragment and one trailing slash.
func MatchPathname(currentAsPath string, to router.Href) (bool, error) {
	if !hasPathname(to) {
		return false, nil
	}
	linkPath, err := linkPathname(to)
	if err != nil {
		return false, err
	}
	routePath, err := resolvePathname(currentAsPath)
	if err != nil {
		return false, err
	}
	return RemoveTrailingSlash(routePath) == RemoveTrailingSlash(linkPath), nil
}

func effectiveTarget(params RouteMatcherParams) router.Href {
	if !params.As.IsZero() {
		return params.As
	}
	return params.Href
}

// IsMatchingPathnameExactly matches the pathname only, ignoring query params
// and hash.  As wins over Href when set.  it panics (wrapping
// ErrInvalidHref) when the target can't be parsed.
func IsMatchingPathnameExactly(params RouteMatcherParams) bool {
	matched, err := MatchPathname(params.Current.AsPath(), effectiveTarget(params))
	if err != nil {
		panic(err)
	}
	return matched
}

// IsMatchingPathnamePrefix is active on the target page and on every page
// below it ("/docs" is active for "/docs/intro" but not for "/docsearch").
func IsMatchingPathnamePrefix(params RouteMatcherParams) bool {
	to := effectiveTarget(params)
	if !hasPathname(to) {
		return false
	}
	linkPath, err := linkPathname(to)
	if err != nil {
		panic(err)
	}
	routePath, err := resolvePathname(params.Current.AsPath())
	if err != nil {
		panic(err)
	}
	linkPath = RemoveTrailingSlash(linkPath)
	routePath = RemoveTrailingSlash(routePath)
	if routePath == linkPath {
		return true
	}
	if linkPath == "" {
		// root link, only active on the root
		return false
	}
	return strings.HasPrefix(routePath, linkPath+"/")
}
