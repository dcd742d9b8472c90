// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/wavetermdev/activelink/rpctypes"
	"github.com/wavetermdev/activelink/vdom"
)

// writes rendered elements out as static HTML (no client runtime).
// event handlers are dropped, fragments have no markup of their own.

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

var attrNameMap = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

func (r *RootElem) RenderHTML(w io.Writer) error {
	return RenderHTML(w, r.MakeRendered())
}

func (r *RootElem) RenderHTMLString() (string, error) {
	var sb strings.Builder
	if err := r.RenderHTML(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func RenderHTML(w io.Writer, elem *rpctypes.RenderedElem) error {
	if elem == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	writeElemHTML(bw, elem)
	return bw.Flush()
}

func writeElemHTML(w *bufio.Writer, elem *rpctypes.RenderedElem) {
	switch {
	case elem.Tag == vdom.TextTag:
		w.WriteString(html.EscapeString(elem.Text))
		return
	case elem.Tag == vdom.FragmentTag:
		writeChildrenHTML(w, elem.Children)
		return
	case strings.HasPrefix(elem.Tag, "#"):
		return
	}
	w.WriteString("<")
	w.WriteString(elem.Tag)
	writeAttrsHTML(w, elem.Props)
	w.WriteString(">")
	if voidTags[elem.Tag] {
		return
	}
	writeChildrenHTML(w, elem.Children)
	w.WriteString("</")
	w.WriteString(elem.Tag)
	w.WriteString(">")
}

func writeChildrenHTML(w *bufio.Writer, children []rpctypes.RenderedElem) {
	for i := range children {
		writeElemHTML(w, &children[i])
	}
}

func writeAttrsHTML(w *bufio.Writer, props map[string]any) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		name, val, ok := attrToHTML(k, props[k])
		if !ok {
			continue
		}
		w.WriteString(" ")
		w.WriteString(name)
		if val == nil {
			continue
		}
		w.WriteString(`="`)
		w.WriteString(html.EscapeString(*val))
		w.WriteString(`"`)
	}
}

// returns attribute name, value (nil for a bare boolean attribute), and whether to write it
func attrToHTML(key string, val any) (string, *string, bool) {
	if key == vdom.KeyPropKey || key == vdom.ChildrenPropKey || strings.HasPrefix(key, "#") {
		return "", nil, false
	}
	name := key
	if mapped, ok := attrNameMap[key]; ok {
		name = mapped
	}
	switch v := val.(type) {
	case nil:
		return "", nil, false
	case vdom.VDomFunc, *vdom.VDomFunc:
		return "", nil, false
	case bool:
		if !v {
			return "", nil, false
		}
		if strings.HasPrefix(name, "aria-") || strings.HasPrefix(name, "data-") {
			str := "true"
			return name, &str, true
		}
		return name, nil, true
	case string:
		return name, &v, true
	case int, int32, int64, float32, float64, uint, uint32, uint64:
		str := fmt.Sprint(v)
		return name, &str, true
	default:
		return "", nil, false
	}
}
