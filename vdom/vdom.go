// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package vdom

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/wavetermdev/activelink/vdomctx"
)

// ReactNode types = nil | string | Elem

type Component[P any] func(props P, children ...any) *VDomElem

func (e *VDomElem) Key() string {
	keyVal, ok := e.Props[KeyPropKey]
	if !ok {
		return ""
	}
	keyStr, ok := keyVal.(string)
	if ok {
		return keyStr
	}
	return ""
}

func (e *VDomElem) WithKey(key string) *VDomElem {
	if e == nil {
		return nil
	}
	if e.Props == nil {
		e.Props = make(map[string]any)
	}
	e.Props[KeyPropKey] = key
	return e
}

// Clone returns a copy of the element with its own props map.
// Children are shared (elements are treated as immutable once rendered).
func (e *VDomElem) Clone() *VDomElem {
	if e == nil {
		return nil
	}
	rtn := &VDomElem{Tag: e.Tag, Children: e.Children, Text: e.Text}
	if e.Props != nil {
		rtn.Props = make(map[string]any, len(e.Props))
		for k, v := range e.Props {
			rtn.Props[k] = v
		}
	}
	return rtn
}

func (e *VDomElem) IsComponent() bool {
	if e == nil || e.Tag == "" {
		return false
	}
	first := e.Tag[0]
	return first >= 'A' && first <= 'Z'
}

func TextElem(text string) VDomElem {
	return VDomElem{Tag: TextTag, Text: text}
}

func mergeProps(props *map[string]any, newProps map[string]any) {
	if *props == nil {
		*props = make(map[string]any)
	}
	for k, v := range newProps {
		if v == nil {
			delete(*props, k)
			continue
		}
		(*props)[k] = v
	}
}

// E creates an element, any map[string]any parts are merged into the props
// and everything else is converted to children.
func E(tag string, parts ...any) *VDomElem {
	rtn := &VDomElem{Tag: tag}
	for _, part := range parts {
		if part == nil {
			continue
		}
		props, ok := part.(map[string]any)
		if ok {
			mergeProps(&rtn.Props, props)
			continue
		}
		elems := PartToElems(part)
		rtn.Children = append(rtn.Children, elems...)
	}
	return rtn
}

func P(propName string, propVal any) map[string]any {
	return map[string]any{propName: propVal}
}

func Classes(classes ...any) string {
	var parts []string
	for _, class := range classes {
		switch c := class.(type) {
		case nil:
			continue
		case string:
			if c != "" {
				parts = append(parts, c)
			}
		}
		// Ignore any other types
	}
	return strings.Join(parts, " ")
}

func H(tag string, props map[string]any, children ...any) *VDomElem {
	rtn := &VDomElem{Tag: tag, Props: props}
	if len(children) > 0 {
		for _, part := range children {
			elems := PartToElems(part)
			rtn.Children = append(rtn.Children, elems...)
		}
	}
	return rtn
}

func If(cond bool, part any) any {
	if cond {
		return part
	}
	return nil
}

func IfElse(cond bool, part any, elsePart any) any {
	if cond {
		return part
	}
	return elsePart
}

func Ternary[T any](cond bool, trueRtn T, falseRtn T) T {
	if cond {
		return trueRtn
	} else {
		return falseRtn
	}
}

func ForEach[T any](items []T, fn func(T, int) any) []any {
	elems := make([]any, 0, len(items))
	for idx, item := range items {
		elems = append(elems, fn(item, idx))
	}
	return elems
}

// Props converts a props struct into a props map (keyed by json tags).
// Function and interface valued fields are carried over as-is.
func Props(props any) map[string]any {
	if props == nil {
		return nil
	}
	var m map[string]any
	dconfig := &mapstructure.DecoderConfig{
		Result:  &m,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(dconfig)
	if err != nil {
		return nil
	}
	if err := decoder.Decode(props); err != nil {
		return nil
	}
	return m
}

func UseId(ctx context.Context) string {
	rc := vdomctx.GetRenderContext(ctx)
	if rc == nil {
		panic("UseId must be called within a component (no context)")
	}
	return rc.UseId(ctx)
}

func UseRenderTs(ctx context.Context) int64 {
	rc := vdomctx.GetRenderContext(ctx)
	if rc == nil {
		panic("UseRenderTs must be called within a component (no context)")
	}
	return rc.UseRenderTs(ctx)
}

func UseRef[T any](ctx context.Context, val T) *VDomSimpleRef[T] {
	rc := vdomctx.GetRenderContext(ctx)
	if rc == nil {
		panic("UseRef must be called within a component (no context)")
	}
	refVal := rc.UseRef(ctx, &VDomSimpleRef[T]{Current: val})
	typedRef, ok := refVal.(*VDomSimpleRef[T])
	if !ok {
		panic("UseRef hook value is not a ref (possible out of order or conditional hooks)")
	}
	return typedRef
}

// ToElems converts the return value of a component into a list of elements.
func ToElems(part any) []VDomElem {
	return PartToElems(part)
}

func PartToElems(part any) []VDomElem {
	if part == nil {
		return nil
	}
	switch partTyped := part.(type) {
	case string:
		return []VDomElem{TextElem(partTyped)}
	case bool:
		// matches react
		if partTyped {
			return []VDomElem{TextElem("true")}
		}
		return nil
	case VDomElem:
		return []VDomElem{partTyped}
	case *VDomElem:
		if partTyped == nil {
			return nil
		}
		return []VDomElem{*partTyped}
	default:
		partVal := reflect.ValueOf(part)
		if partVal.Kind() == reflect.Slice {
			var rtn []VDomElem
			for i := 0; i < partVal.Len(); i++ {
				rtn = append(rtn, PartToElems(partVal.Index(i).Interface())...)
			}
			return rtn
		}
		return []VDomElem{TextElem(fmt.Sprint(part))}
	}
}
