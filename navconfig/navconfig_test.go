// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package navconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wavetermdev/activelink/activelink"
	"github.com/wavetermdev/activelink/router"
)

const testConfig = `{
	"routes": ["/", "/docs", "/docs/[slug]"],
	"classname": "menu",
	"links": [
		{"label": "Home", "href": "/"},
		{"label": "Docs", "href": "/docs", "match": "prefix"},
		{"label": "Intro", "href": "/docs/[slug]", "as": "/docs/intro"},
		{"label": "Setup", "href": "/docs/[slug]?slug=setup"}
	]
}`

func TestParseNavConfig(t *testing.T) {
	cfg, err := ParseNavConfig([]byte(testConfig))
	if err != nil {
		t.Fatalf("ParseNavConfig: %v", err)
	}
	if cfg.ActiveClass != DefaultActiveClass || cfg.ClassName != "menu" {
		t.Errorf("classes: %q %q", cfg.ClassName, cfg.ActiveClass)
	}
	if len(cfg.Links) != 4 || len(cfg.Routes) != 3 {
		t.Fatalf("cfg: %+v", cfg)
	}
	if cfg.Links[0].Match != Match_Exact || cfg.Links[1].Match != Match_Prefix {
		t.Errorf("match defaults: %q %q", cfg.Links[0].Match, cfg.Links[1].Match)
	}
	if cfg.Links[2].LinkAs().String() != "/docs/intro" {
		t.Errorf("explicit as: %v", cfg.Links[2].LinkAs())
	}
	if cfg.Links[3].LinkAs().String() != "/docs/setup" {
		t.Errorf("interpolated as: %v", cfg.Links[3].LinkAs())
	}
	if !cfg.Links[0].LinkAs().IsZero() {
		t.Errorf("plain href should have no as: %v", cfg.Links[0].LinkAs())
	}
}

func TestNavLinkMatcher(t *testing.T) {
	r, err := router.NewMemoryRouter("/docs/intro")
	if err != nil {
		t.Fatalf("NewMemoryRouter: %v", err)
	}
	params := activelink.RouteMatcherParams{Current: r, Href: router.ParseHref("/docs")}
	if (NavLink{Match: Match_Prefix}).Matcher()(params) != true {
		t.Errorf("prefix matcher should match /docs at /docs/intro")
	}
	if (NavLink{Match: Match_Exact}).Matcher()(params) != false {
		t.Errorf("exact matcher should not match /docs at /docs/intro")
	}
}

func TestParseNavConfigErrors(t *testing.T) {
	bad := map[string]string{
		"bad json":        `{"links": [}`,
		"no links":        `{"links": []}`,
		"missing href":    `{"links": [{"label": "x"}]}`,
		"missing label":   `{"links": [{"href": "/x"}]}`,
		"bad match":       `{"links": [{"label": "x", "href": "/x", "match": "fuzzy"}]}`,
		"bad route":       `{"routes": ["docs"], "links": [{"label": "x", "href": "/x"}]}`,
		"missing params":  `{"links": [{"label": "x", "href": "/docs/[slug]"}]}`,
		"malformed route": `{"links": [{"label": "x", "href": "/docs/[slug", "as": ""}]}`,
	}
	for name, js := range bad {
		if _, err := ParseNavConfig([]byte(js)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestReadNavConfig(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "nav.json")
	if _, err := ReadNavConfig(fileName); err == nil {
		t.Errorf("expected error for missing file")
	}
	if err := os.WriteFile(fileName, []byte(testConfig), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := ReadNavConfig(fileName)
	if err != nil {
		t.Fatalf("ReadNavConfig: %v", err)
	}
	if len(cfg.Links) != 4 {
		t.Errorf("links: %v", cfg.Links)
	}
}

type watchUpdate struct {
	cfg *NavConfig
	err error
}

func waitForConfig(t *testing.T, updates chan watchUpdate, label string) *NavConfig {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case upd := <-updates:
			if upd.err == nil && upd.cfg != nil && upd.cfg.Links[0].Label == label {
				return upd.cfg
			}
		case <-timeout:
			t.Fatalf("timed out waiting for config with label %q", label)
			return nil
		}
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "nav.json")
	writeLabel := func(label string) {
		js := `{"links": [{"label": "` + label + `", "href": "/"}]}`
		if err := os.WriteFile(fileName, []byte(js), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	writeLabel("first")

	updates := make(chan watchUpdate, 32)
	w, err := MakeWatcher(fileName, func(cfg *NavConfig, err error) {
		select {
		case updates <- watchUpdate{cfg: cfg, err: err}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("MakeWatcher: %v", err)
	}
	defer w.Close()
	w.Start()
	waitForConfig(t, updates, "first")

	// other files in the directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	writeLabel("second")
	waitForConfig(t, updates, "second")
	if w.GetConfig().Links[0].Label != "second" {
		t.Errorf("GetConfig: %v", w.GetConfig())
	}

	// a broken file keeps the last good config
	if err := os.WriteFile(fileName, []byte("{"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	timeout := time.After(5 * time.Second)
	for sawErr := false; !sawErr; {
		select {
		case upd := <-updates:
			sawErr = upd.err != nil
		case <-timeout:
			t.Fatalf("timed out waiting for parse error")
		}
	}
	if w.GetConfig().Links[0].Label != "second" {
		t.Errorf("config replaced by a broken file: %v", w.GetConfig())
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestWatcherCloseWithoutStart(t *testing.T) {
	w, err := MakeWatcher(filepath.Join(t.TempDir(), "nav.json"), nil)
	if err != nil {
		t.Fatalf("MakeWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
