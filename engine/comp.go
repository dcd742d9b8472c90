// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import "github.com/wavetermdev/activelink/vdom"

// so components either render to another component (or fragment)
// or to a base element (text or vdom).  base elements can then render children

type ChildKey struct {
	Tag string
	Idx int
	Key string
}

// ComponentImpl is a node in the persistent shadow component tree.  It keeps
// component identity and hooks across renders while the VDomElem
// input/output structures are ephemeral.
type ComponentImpl struct {
	WaveId         string         // Unique identifier for this component instance
	Tag            string         // Component type (HTML tag, custom component name, "#text", etc.)
	Key            string         // User-provided key for reconciliation
	ContainingComp string         // Tag of the custom component whose output contains this node
	Elem           *vdom.VDomElem // Reference to the current input VDomElem being rendered

	Hooks []*Hook

	// Component content - exactly ONE of these patterns is used:

	// Pattern 1: Text nodes
	Text string

	// Pattern 2: Base/DOM elements (and fragments, providers) with children
	Children []*ComponentImpl

	// Pattern 3: Custom components that render to other components
	RenderedComp *ComponentImpl
}

func (c *ComponentImpl) compMatch(tag string, key string) bool {
	if c == nil {
		return false
	}
	return c.Tag == tag && c.Key == key
}
