// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

// Package navconfig reads navigation menu definitions from JSON files.
package navconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/wavetermdev/activelink/activelink"
	"github.com/wavetermdev/activelink/router"
)

const (
	Match_Exact  = "exact"
	Match_Prefix = "prefix"
)

const DefaultActiveClass = "active"

type NavLink struct {
	Label string `json:"label"` // html fragment
	Href  string `json:"href"`
	As    string `json:"as,omitempty"`
	Match string `json:"match,omitempty"` // "exact" (default) or "prefix"
}

type NavConfig struct {
	Routes      []string  `json:"routes,omitempty"`
	Links       []NavLink `json:"links"`
	ClassName   string    `json:"classname,omitempty"`
	ActiveClass string    `json:"activeclass,omitempty"`
}

func ReadNavConfig(fileName string) (*NavConfig, error) {
	barr, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("reading nav config: %w", err)
	}
	cfg, err := ParseNavConfig(barr)
	if err != nil {
		return nil, fmt.Errorf("nav config %s: %w", fileName, err)
	}
	return cfg, nil
}

func ParseNavConfig(barr []byte) (*NavConfig, error) {
	var cfg NavConfig
	if err := json.Unmarshal(barr, &cfg); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *NavConfig) applyDefaults() {
	if cfg.ActiveClass == "" {
		cfg.ActiveClass = DefaultActiveClass
	}
	for idx := range cfg.Links {
		if cfg.Links[idx].Match == "" {
			cfg.Links[idx].Match = Match_Exact
		}
	}
}

func (cfg *NavConfig) Validate() error {
	for _, pattern := range cfg.Routes {
		if _, err := router.ParseRoute(pattern); err != nil {
			return err
		}
	}
	if len(cfg.Links) == 0 {
		return fmt.Errorf("no links defined")
	}
	for idx, navLink := range cfg.Links {
		if strings.TrimSpace(navLink.Href) == "" {
			return fmt.Errorf("link[%d]: href is required", idx)
		}
		if navLink.Label == "" {
			return fmt.Errorf("link[%d] (%s): label is required", idx, navLink.Href)
		}
		if navLink.Match != Match_Exact && navLink.Match != Match_Prefix {
			return fmt.Errorf("link[%d] (%s): invalid match %q (must be %q or %q)", idx, navLink.Href, navLink.Match, Match_Exact, Match_Prefix)
		}
		if _, err := router.ResolveHref(navLink.LinkHref(), navLink.LinkAs()); err != nil {
			return fmt.Errorf("link[%d]: %w", idx, err)
		}
	}
	return nil
}

func (l NavLink) LinkHref() router.Href {
	return router.ParseHref(l.Href)
}

// LinkAs returns the resolved path for the link.  a pattern href without an
// explicit "as" is resolved from its own query ("/docs/[slug]?slug=intro").
func (l NavLink) LinkAs() router.Href {
	if l.As != "" {
		return router.ParseHref(l.As)
	}
	if !strings.Contains(l.Href, "[") {
		return router.Href{}
	}
	resolved, err := router.ResolveHref(l.LinkHref(), router.Href{})
	if err != nil {
		return router.Href{}
	}
	return router.ParseHref(resolved)
}

func (l NavLink) Matcher() activelink.RouteMatcher {
	if l.Match == Match_Prefix {
		return activelink.IsMatchingPathnamePrefix
	}
	return activelink.IsMatchingPathnameExactly
}
