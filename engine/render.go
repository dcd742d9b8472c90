// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"log"
	"reflect"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/wavetermdev/activelink/rpctypes"
	"github.com/wavetermdev/activelink/util"
	"github.com/wavetermdev/activelink/vdom"
	"github.com/wavetermdev/activelink/vdomctx"
)

type RenderOpts struct {
	Resync bool
}

// Render reconciles elem against the current component tree.  ctx is the
// outermost context every component sees (providers rendered above the
// root can be attached to it with vdom.Context.WithValue).
func (r *RootElem) Render(ctx context.Context, elem *vdom.VDomElem, opts *RenderOpts) {
	if ctx == nil {
		ctx = context.Background()
	}
	r.RenderTs = time.Now().UnixMilli()
	r.renderErrors = nil
	r.render(ctx, elem, &r.Root, "root", opts)
}

func getElemKey(elem *vdom.VDomElem) string {
	if elem == nil {
		return ""
	}
	keyVal, ok := elem.Props[vdom.KeyPropKey]
	if !ok {
		return ""
	}
	return fmt.Sprint(keyVal)
}

func (r *RootElem) render(ctx context.Context, elem *vdom.VDomElem, comp **ComponentImpl, containingComp string, opts *RenderOpts) {
	if elem == nil || elem.Tag == "" {
		r.unmount(comp)
		return
	}
	elemKey := getElemKey(elem)
	if *comp == nil || !(*comp).compMatch(elem.Tag, elemKey) {
		r.unmount(comp)
		r.createComp(elem.Tag, elemKey, containingComp, comp)
	}
	(*comp).Elem = elem
	if elem.Tag == vdom.TextTag {
		// Pattern 1: Text Nodes
		r.renderText(elem.Text, comp)
		return
	}
	if elem.Tag == vdom.ProviderTag {
		// Pattern 2 (children see the provided value)
		providerCtx, err := vdom.WithProviderElem(ctx, elem)
		if err != nil {
			log.Printf("[engine] bad provider in %s: %v\n", containingComp, err)
			r.addRenderError(fmt.Errorf("provider in %s: %w", containingComp, err))
		}
		r.renderSimple(providerCtx, elem, comp, containingComp, opts)
		return
	}
	if isBaseTag(elem.Tag) {
		// Pattern 2: Base elements
		r.renderSimple(ctx, elem, comp, containingComp, opts)
		return
	}
	cfunc := r.CFuncs[elem.Tag]
	if cfunc == nil {
		r.renderMissing(ctx, elem, comp, opts)
		return
	}
	// Pattern 3: components
	r.renderComponent(ctx, cfunc, elem, comp, opts)
}

// Pattern 1
func (r *RootElem) renderText(text string, comp **ComponentImpl) {
	if (*comp).Text != text {
		(*comp).Text = text
	}
}

// unregistered tags render a "<Tag>" placeholder text node in place of the component
func (r *RootElem) renderMissing(ctx context.Context, elem *vdom.VDomElem, comp **ComponentImpl, opts *RenderOpts) {
	for _, child := range (*comp).Children {
		r.unmount(&child)
	}
	(*comp).Children = nil
	placeholder := &vdom.VDomElem{Tag: vdom.TextTag, Text: fmt.Sprintf("<%s>", elem.Tag)}
	r.render(ctx, placeholder, &(*comp).RenderedComp, elem.Tag, opts)
}

// Pattern 2
func (r *RootElem) renderSimple(ctx context.Context, elem *vdom.VDomElem, comp **ComponentImpl, containingComp string, opts *RenderOpts) {
	if (*comp).RenderedComp != nil {
		// Clear Comp since base elements don't use it
		r.unmount(&(*comp).RenderedComp)
	}
	(*comp).Children = r.renderChildren(ctx, elem.Children, (*comp).Children, containingComp, opts)
}

// Pattern 3
func (r *RootElem) renderComponent(ctx context.Context, cfunc any, elem *vdom.VDomElem, comp **ComponentImpl, opts *RenderOpts) {
	if (*comp).Children != nil {
		// Clear Children since custom components don't use them
		for _, child := range (*comp).Children {
			r.unmount(&child)
		}
		(*comp).Children = nil
	}
	props := make(map[string]any)
	for k, v := range elem.Props {
		props[k] = v
	}
	props[ChildrenPropKey] = elem.Children
	vc := makeContextVal(r, *comp, opts)
	compCtx := vdomctx.WithRenderContext(ctx, vc)
	renderedElem, err := callCFuncWithErrorGuard(compCtx, cfunc, props, elem.Tag)
	if err != nil {
		r.addRenderError(err)
	}
	rtnElemArr := vdom.ToElems(renderedElem)
	var rtnElem *vdom.VDomElem
	if len(rtnElemArr) == 0 {
		rtnElem = nil
	} else if len(rtnElemArr) == 1 {
		rtnElem = &rtnElemArr[0]
	} else {
		rtnElem = &vdom.VDomElem{Tag: vdom.FragmentTag, Children: rtnElemArr}
	}
	r.render(ctx, rtnElem, &(*comp).RenderedComp, elem.Tag, opts)
}

func (r *RootElem) unmount(comp **ComponentImpl) {
	if *comp == nil {
		return
	}
	waveId := (*comp).WaveId
	if (*comp).RenderedComp != nil {
		r.unmount(&(*comp).RenderedComp)
	}
	if (*comp).Children != nil {
		for _, child := range (*comp).Children {
			r.unmount(&child)
		}
	}
	delete(r.CompMap, waveId)
	*comp = nil
}

func (r *RootElem) createComp(tag string, key string, containingComp string, comp **ComponentImpl) {
	*comp = &ComponentImpl{WaveId: uuid.New().String(), Tag: tag, Key: key, ContainingComp: containingComp}
	r.CompMap[(*comp).WaveId] = *comp
}

// handles reconcilation
// maps children via key or index (exclusively)
func (r *RootElem) renderChildren(ctx context.Context, elems []vdom.VDomElem, curChildren []*ComponentImpl, containingComp string, opts *RenderOpts) []*ComponentImpl {
	newChildren := make([]*ComponentImpl, len(elems))
	curCM := make(map[ChildKey]*ComponentImpl)
	usedMap := make(map[*ComponentImpl]bool)
	for idx, child := range curChildren {
		if child == nil {
			continue
		}
		if child.Key != "" {
			curCM[ChildKey{Tag: child.Tag, Idx: 0, Key: child.Key}] = child
		} else {
			curCM[ChildKey{Tag: child.Tag, Idx: idx, Key: ""}] = child
		}
	}
	for idx := range elems {
		elem := &elems[idx]
		elemKey := getElemKey(elem)
		var curChild *ComponentImpl
		if elemKey != "" {
			curChild = curCM[ChildKey{Tag: elem.Tag, Idx: 0, Key: elemKey}]
		} else {
			curChild = curCM[ChildKey{Tag: elem.Tag, Idx: idx, Key: ""}]
		}
		if curChild != nil {
			usedMap[curChild] = true
		}
		newChildren[idx] = curChild
		r.render(ctx, elem, &newChildren[idx], containingComp, opts)
	}
	for _, child := range curChildren {
		if child != nil && !usedMap[child] {
			r.unmount(&child)
		}
	}
	return newChildren
}

// creates an error component for display when a component panics
func renderErrorComponent(componentName string, errorMsg string) any {
	return vdom.H("div", map[string]any{
		"className": "component-error",
		"role":      "alert",
	},
		vdom.H("div", map[string]any{
			"className": "component-error-title",
		}, fmt.Sprintf("Component Error: %s", componentName)),
		vdom.H("div", nil, errorMsg),
	)
}

// safely calls the component function with panic recovery
func callCFuncWithErrorGuard(ctx context.Context, cfunc any, props map[string]any, componentName string) (result any, rtnErr error) {
	defer func() {
		if panicErr := util.PanicHandler(fmt.Sprintf("render component '%s'", componentName), recover()); panicErr != nil {
			result = renderErrorComponent(componentName, panicErr.Error())
			rtnErr = panicErr
		}
	}()
	return callCFunc(ctx, cfunc, props)
}

// uses reflection to call the component function
func callCFunc(ctx context.Context, cfunc any, props map[string]any) (any, error) {
	rval := reflect.ValueOf(cfunc)
	argType := rval.Type().In(1)

	var arg2Val reflect.Value
	switch {
	case argType.Kind() == reflect.Interface && argType.NumMethod() == 0:
		arg2Val = reflect.ValueOf(props)
	case argType.Kind() == reflect.Map:
		arg2Val = reflect.ValueOf(props)
	case argType.Kind() == reflect.Ptr:
		arg2Val = reflect.New(argType.Elem())
		if err := util.MapToStruct(props, arg2Val.Interface()); err != nil {
			log.Printf("[engine] error converting props: %v\n", err)
			return nil, fmt.Errorf("converting props: %w", err)
		}
	default:
		ptrVal := reflect.New(argType)
		if err := util.MapToStruct(props, ptrVal.Interface()); err != nil {
			log.Printf("[engine] error converting props: %v\n", err)
			return nil, fmt.Errorf("converting props: %w", err)
		}
		arg2Val = ptrVal.Elem()
	}
	rtnVal := rval.Call([]reflect.Value{reflect.ValueOf(ctx), arg2Val})
	if len(rtnVal) == 0 {
		return nil, nil
	}
	return rtnVal[0].Interface(), nil
}

func convertPropsToVDom(props map[string]any) map[string]any {
	if len(props) == 0 {
		return nil
	}
	vdomProps := make(map[string]any)
	for k, v := range props {
		if v == nil || k == vdom.KeyPropKey {
			continue
		}
		if vdomFunc, ok := v.(vdom.VDomFunc); ok {
			// ensure Type is set on all VDomFuncs
			vdomFunc.Type = vdom.ObjectType_Func
			vdomProps[k] = vdomFunc
			continue
		}
		if vdomFunc, ok := v.(*vdom.VDomFunc); ok {
			fnCopy := *vdomFunc
			fnCopy.Type = vdom.ObjectType_Func
			vdomProps[k] = fnCopy
			continue
		}
		val := reflect.ValueOf(v)
		if val.Kind() == reflect.Func {
			// convert go functions passed to event handlers to VDomFuncs
			vdomProps[k] = vdom.VDomFunc{Type: vdom.ObjectType_Func}
			continue
		}
		vdomProps[k] = v
	}
	return vdomProps
}

func (r *RootElem) MakeRendered() *rpctypes.RenderedElem {
	if r.Root == nil {
		return nil
	}
	return r.convertCompToRendered(r.Root)
}

func (r *RootElem) convertCompToRendered(c *ComponentImpl) *rpctypes.RenderedElem {
	if c == nil {
		return nil
	}
	if c.RenderedComp != nil {
		return r.convertCompToRendered(c.RenderedComp)
	}
	if len(c.Children) == 0 && r.CFuncs[c.Tag] != nil {
		return nil
	}
	return r.convertBaseToRendered(c)
}

func (r *RootElem) convertBaseToRendered(c *ComponentImpl) *rpctypes.RenderedElem {
	elem := &rpctypes.RenderedElem{WaveId: c.WaveId, Tag: c.Tag}
	if c.Tag == vdom.ProviderTag {
		// providers have no DOM presence
		elem.Tag = vdom.FragmentTag
	} else if c.Elem != nil {
		elem.Props = convertPropsToVDom(c.Elem.Props)
	}
	for _, child := range c.Children {
		childElem := r.convertCompToRendered(child)
		if childElem != nil {
			elem.Children = append(elem.Children, *childElem)
		}
	}
	if c.Tag == vdom.TextTag {
		elem.WaveId = ""
		elem.Text = c.Text
	}
	return elem
}

func isBaseTag(tag string) bool {
	if tag == "" {
		return false
	}
	if tag == vdom.TextTag || tag == vdom.FragmentTag {
		return true
	}
	if tag[0] == '#' {
		return true
	}
	firstChar := rune(tag[0])
	return unicode.IsLower(firstChar)
}
