// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package router

import (
	"net/url"
	"strings"
)

// Href is a link destination.  Either Path is set (a literal, possibly
// relative, path which may carry a query and fragment) or the structured
// fields are.  Pathname may be a route pattern such as "/docs/[slug]", in
// which case the params are taken from Query.
type Href struct {
	Path     string            `json:"path,omitempty"`
	Pathname string            `json:"pathname,omitempty"`
	Query    map[string]string `json:"query,omitempty"`
	Hash     string            `json:"hash,omitempty"`
}

func ParseHref(path string) Href {
	return Href{Path: path}
}

// UnmarshalText lets a plain string prop decode into an Href.
func (h *Href) UnmarshalText(text []byte) error {
	*h = Href{Path: string(text)}
	return nil
}

func (h Href) IsZero() bool {
	return h.Path == "" && h.Pathname == "" && len(h.Query) == 0 && h.Hash == ""
}

func (h Href) IsLiteral() bool {
	return h.Path != ""
}

func (h Href) String() string {
	if h.Path != "" {
		return h.Path
	}
	var sb strings.Builder
	sb.WriteString(h.Pathname)
	if qs := encodeQuery(h.Query); qs != "" {
		sb.WriteString("?")
		sb.WriteString(qs)
	}
	if h.Hash != "" {
		if !strings.HasPrefix(h.Hash, "#") {
			sb.WriteString("#")
		}
		sb.WriteString(h.Hash)
	}
	return sb.String()
}

// encodes with sorted keys (url.Values.Encode sorts)
func encodeQuery(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}
	vals := make(url.Values, len(query))
	for k, v := range query {
		vals.Set(k, v)
	}
	return vals.Encode()
}

func decodeQuery(vals url.Values) map[string]string {
	if len(vals) == 0 {
		return nil
	}
	rtn := make(map[string]string, len(vals))
	for k, v := range vals {
		if len(v) > 0 {
			rtn[k] = v[0]
		}
	}
	return rtn
}

func copyQuery(query map[string]string) map[string]string {
	if query == nil {
		return nil
	}
	rtn := make(map[string]string, len(query))
	for k, v := range query {
		rtn[k] = v
	}
	return rtn
}
