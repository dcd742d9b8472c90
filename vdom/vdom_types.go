// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package vdom

const TextTag = "#text"
const FragmentTag = "#fragment"
const ProviderTag = "#provider"

const KeyPropKey = "key"
const ChildrenPropKey = "children"

// provider props (see vdom_context.go)
const ProviderContextPropKey = "#context"
const ProviderValuePropKey = "#value"

const ObjectType_Func = "func"

// vdom element
type VDomElem struct {
	Tag      string         `json:"tag"`
	Props    map[string]any `json:"props,omitempty"`
	Children []VDomElem     `json:"children,omitempty"`
	Text     string         `json:"text,omitempty"`
}

// used in props
type VDomFunc struct {
	Fn              any    `json:"-"` // server side function (called with reflection)
	Type            string `json:"type" tstype:"\"func\""`
	StopPropagation bool   `json:"stoppropagation,omitempty"` // set to call e.stopPropagation() on the client side
	PreventDefault  bool   `json:"preventdefault,omitempty"`  // set to call e.preventDefault() on the client side
}

type VDomSimpleRef[T any] struct {
	Current T `json:"current"`
}

type VDomEvent struct {
	WaveId    string           `json:"waveid"`
	EventType string           `json:"eventtype"` // usually the prop name (e.g. onClick)
	MouseData *VDomPointerData `json:"mousedata,omitempty"`
}

type VDomPointerData struct {
	Button  int `json:"button"`
	Buttons int `json:"buttons"`

	// Modifiers
	Shift   bool `json:"shift,omitempty"`
	Control bool `json:"control,omitempty"`
	Alt     bool `json:"alt,omitempty"`
	Meta    bool `json:"meta,omitempty"`
}

// IsModified reports whether the click should be left to the browser
// (new tab, new window, download, or a non-primary button).
func (pd *VDomPointerData) IsModified() bool {
	if pd == nil {
		return false
	}
	return pd.Meta || pd.Control || pd.Shift || pd.Alt || pd.Button != 0
}
