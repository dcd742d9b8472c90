// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"errors"
	"net/netip"
	"testing"
)

type testProps struct {
	Name    string         `json:"name"`
	Count   int            `json:"count,omitempty"`
	Addr    netip.Addr     `json:"addr,omitempty"`
	OnClick func()         `json:"onClick,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

func TestMapToStruct(t *testing.T) {
	clicked := false
	in := map[string]any{
		"name":    "docs",
		"count":   3,
		"addr":    "127.0.0.1",
		"onClick": func() { clicked = true },
		"unknown": true,
	}
	var props testProps
	if err := MapToStruct(in, &props); err != nil {
		t.Fatalf("MapToStruct: %v", err)
	}
	if props.Name != "docs" || props.Count != 3 {
		t.Errorf("props: %+v", props)
	}
	// strings decode through encoding.TextUnmarshaler
	if props.Addr != netip.MustParseAddr("127.0.0.1") {
		t.Errorf("addr: %v", props.Addr)
	}
	props.OnClick()
	if !clicked {
		t.Errorf("onClick not decoded")
	}

	if err := MapToStruct(in, props); err == nil {
		t.Errorf("expected error for non-pointer")
	}
	var notStruct map[string]any
	if err := MapToStruct(in, &notStruct); err == nil {
		t.Errorf("expected error for pointer to non-struct")
	}
	if err := MapToStruct(map[string]any{"count": "three"}, &props); err == nil {
		t.Errorf("expected error for mistyped value")
	}
}

func TestPanicHandler(t *testing.T) {
	if PanicHandler("nothing", nil) != nil {
		t.Errorf("expected nil for no panic")
	}
	errBase := errors.New("base")
	err := PanicHandler("op", errBase)
	if !errors.Is(err, errBase) {
		t.Errorf("expected wrapped error, got %v", err)
	}
	if err := PanicHandler("op", "str"); err == nil || err.Error() != "panic in op: str" {
		t.Errorf("unexpected error: %v", err)
	}
}
