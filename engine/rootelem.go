// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"unicode"

	"github.com/wavetermdev/activelink/vdom"
)

const ChildrenPropKey = vdom.ChildrenPropKey

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

// RootElem owns a component tree.  it is not safe for concurrent use, hosts
// render and dispatch events from a single goroutine.
type RootElem struct {
	Root     *ComponentImpl
	RenderTs int64
	CFuncs   map[string]any            // component name => render function
	CompMap  map[string]*ComponentImpl // component waveid -> component

	renderErrors []error
}

func MakeRoot() *RootElem {
	return &RootElem{
		Root:    nil,
		CFuncs:  make(map[string]any),
		CompMap: make(map[string]*ComponentImpl),
	}
}

func validateCFunc(cfunc any) error {
	if cfunc == nil {
		return fmt.Errorf("component function cannot be nil")
	}
	rval := reflect.ValueOf(cfunc)
	if rval.Kind() != reflect.Func {
		return fmt.Errorf("component function must be a function")
	}
	rtype := rval.Type()
	if rtype.NumIn() != 2 {
		return fmt.Errorf("component function must take exactly 2 arguments")
	}
	if rtype.NumOut() != 1 {
		return fmt.Errorf("component function must return exactly 1 value")
	}
	if rtype.In(0) != contextType {
		return fmt.Errorf("component function first argument must be context.Context")
	}
	// second argument can be a map[string]any, or a struct, or ptr to struct (we'll reflect the value into it)
	arg2Type := rtype.In(1)
	if arg2Type.Kind() == reflect.Ptr {
		arg2Type = arg2Type.Elem()
	}
	if arg2Type.Kind() == reflect.Map {
		if arg2Type.Key().Kind() != reflect.String ||
			!(arg2Type.Elem().Kind() == reflect.Interface && arg2Type.Elem().NumMethod() == 0) {
			return fmt.Errorf("map argument must be map[string]any")
		}
	} else if arg2Type.Kind() != reflect.Struct &&
		!(arg2Type.Kind() == reflect.Interface && arg2Type.NumMethod() == 0) {
		return fmt.Errorf("component function second argument must be map[string]any, struct, or any")
	}
	return nil
}

func (r *RootElem) RegisterComponent(name string, cfunc any) error {
	if name == "" {
		return fmt.Errorf("component name cannot be empty")
	}
	if !unicode.IsUpper(rune(name[0])) {
		return fmt.Errorf("component name %q must start with an uppercase letter", name)
	}
	if err := validateCFunc(cfunc); err != nil {
		return fmt.Errorf("component %q: %w", name, err)
	}
	r.CFuncs[name] = cfunc
	return nil
}

// DefineComponent registers renderFn under name and returns a typed element
// constructor for it.  it panics on an invalid name (programming error).
func DefineComponent[P any](r *RootElem, name string, renderFn func(ctx context.Context, props P) any) vdom.Component[P] {
	if err := r.RegisterComponent(name, renderFn); err != nil {
		panic(err)
	}
	return func(props P, children ...any) *vdom.VDomElem {
		return vdom.E(name, vdom.Props(props), children)
	}
}

// RenderErrors returns the component panics recovered during the last Render.
func (r *RootElem) RenderErrors() []error {
	return r.renderErrors
}

func (r *RootElem) addRenderError(err error) {
	r.renderErrors = append(r.renderErrors, err)
}

// Event dispatches a client event to the prop handler (e.g. "onClick") of
// the element with the given waveid.
func (r *RootElem) Event(waveId string, eventType string, event vdom.VDomEvent) error {
	comp := r.CompMap[waveId]
	if comp == nil || comp.Elem == nil {
		return fmt.Errorf("event %q: no component with waveid %s", eventType, waveId)
	}
	fnVal := comp.Elem.Props[eventType]
	if fnVal == nil {
		return fmt.Errorf("event %q: component %s has no handler", eventType, comp.Tag)
	}
	event.WaveId = waveId
	event.EventType = eventType
	return callVDomFn(fnVal, event)
}

func callVDomFn(fnVal any, data vdom.VDomEvent) (rtnErr error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			log.Printf("[engine] panic in event handler %q: %v\n", data.EventType, panicErr)
			rtnErr = fmt.Errorf("event handler %q: %v", data.EventType, panicErr)
		}
	}()
	fn := fnVal
	if vdf, ok := fnVal.(*vdom.VDomFunc); ok {
		fn = vdf.Fn
	}
	if vdf, ok := fnVal.(vdom.VDomFunc); ok {
		fn = vdf.Fn
	}
	if fn == nil {
		return nil
	}
	rval := reflect.ValueOf(fn)
	if rval.Kind() != reflect.Func {
		return fmt.Errorf("event handler %q is not a function", data.EventType)
	}
	rtype := rval.Type()
	if rtype.NumIn() == 0 {
		rval.Call(nil)
		return nil
	}
	if rtype.NumIn() == 1 && reflect.TypeOf(data).AssignableTo(rtype.In(0)) {
		rval.Call([]reflect.Value{reflect.ValueOf(data)})
		return nil
	}
	return fmt.Errorf("event handler %q has an unsupported signature %s", data.EventType, rtype)
}
