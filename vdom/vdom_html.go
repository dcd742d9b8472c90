// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package vdom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wavetermdev/htmltoken"
)

// can tokenize and bind HTML to Elems

const Html_ParamPrefix = "#param:"
const Html_BindParamTagName = "bindparam"

// open elements while binding, the bottom entry is the fragment root
type bindStack []*VDomElem

func makeBindStack() bindStack {
	return bindStack{&VDomElem{Tag: FragmentTag}}
}

func (s bindStack) top() *VDomElem {
	return s[len(s)-1]
}

func (s bindStack) appendChild(child *VDomElem) {
	if child == nil {
		return
	}
	parent := s.top()
	parent.Children = append(parent.Children, *child)
}

func (s bindStack) push(elem *VDomElem) bindStack {
	if elem == nil {
		return s
	}
	return append(s, elem)
}

// closes the innermost open element (the root is never popped)
func (s bindStack) pop() bindStack {
	if len(s) <= 1 {
		return s
	}
	closed := s.top()
	s = s[:len(s)-1]
	s.appendChild(closed)
	return s
}

// closes any unclosed elements, a single root child is returned unwrapped
func (s bindStack) finalize() *VDomElem {
	for len(s) > 1 {
		s = s.pop()
	}
	root := s[0]
	switch len(root.Children) {
	case 0:
		return nil
	case 1:
		return &root.Children[0]
	default:
		return root
	}
}

func getAttrString(token htmltoken.Token, key string) string {
	for _, attr := range token.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func attrToProp(attrVal string, isJson bool, params map[string]any) any {
	if isJson {
		var val any
		err := json.Unmarshal([]byte(attrVal), &val)
		if err != nil {
			return nil
		}
		unmStrVal, ok := val.(string)
		if !ok {
			return val
		}
		attrVal = unmStrVal
		// fallthrough using the json str val
	}
	if strings.HasPrefix(attrVal, Html_ParamPrefix) {
		bindKey := attrVal[len(Html_ParamPrefix):]
		bindVal, ok := params[bindKey]
		if !ok {
			return nil
		}
		return bindVal
	}
	return attrVal
}

func tokenToElem(token htmltoken.Token, params map[string]any) *VDomElem {
	elem := &VDomElem{Tag: token.Data}
	if len(token.Attr) > 0 {
		elem.Props = make(map[string]any)
	}
	for _, attr := range token.Attr {
		if attr.Key == "" || attr.Val == "" {
			continue
		}
		propVal := attrToProp(attr.Val, attr.IsJson, params)
		if propVal == nil {
			continue
		}
		elem.Props[attr.Key] = propVal
	}
	return elem
}

func isWsChar(char rune) bool {
	return char == ' ' || char == '\t' || char == '\n' || char == '\r'
}

// leading whitespace is dropped before a tag, trailing whitespace after one.
// text next to a tag keeps its spacing.
func trimLine(line string) string {
	content := strings.TrimFunc(line, isWsChar)
	if content == "" {
		return ""
	}
	if strings.HasPrefix(content, "<") {
		line = strings.TrimLeftFunc(line, isWsChar)
	}
	if strings.HasSuffix(content, ">") {
		line = strings.TrimRightFunc(line, isWsChar)
	}
	return line
}

// joins template lines, dropping the indentation around tags
func processWhitespace(htmlStr string) string {
	var sb strings.Builder
	for _, line := range strings.Split(htmlStr, "\n") {
		sb.WriteString(trimLine(line + "\n"))
	}
	return sb.String()
}

// text tokens collapse to their trimmed content (or one space)
func processTextStr(s string) string {
	if s == "" {
		return ""
	}
	trimmed := strings.TrimFunc(s, isWsChar)
	if trimmed == "" {
		return " "
	}
	return trimmed
}

// Bind parses an HTML fragment into elements.  Attribute values of the form
// "#param:name" and <bindparam key="name"/> tags are filled from params.
// Parse errors are rendered as a trailing text node.
func Bind(htmlStr string, params map[string]any) *VDomElem {
	rtn, err := BindE(htmlStr, params)
	if err != nil {
		errTextElem := TextElem(err.Error())
		if rtn == nil {
			return &errTextElem
		}
		if rtn.Tag != FragmentTag {
			rtn = &VDomElem{Tag: FragmentTag, Children: []VDomElem{*rtn}}
		}
		rtn.Children = append(rtn.Children, errTextElem)
	}
	return rtn
}

var errBindParamNotSelfClosing = errors.New("bindparam tags must be self closing")

// BindE is Bind with the parse error returned instead of rendered.
func BindE(htmlStr string, params map[string]any) (*VDomElem, error) {
	tokenizer := htmltoken.NewTokenizer(strings.NewReader(processWhitespace(htmlStr)))
	stack := makeBindStack()
	for {
		tokenType := tokenizer.Next()
		token := tokenizer.Token()
		var err error
		switch tokenType {
		case htmltoken.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return stack.finalize(), nil
			}
			err = tokenizer.Err()
		case htmltoken.StartTagToken:
			stack, err = stack.openTag(token, params)
		case htmltoken.EndTagToken:
			stack, err = stack.closeTag(token)
		case htmltoken.SelfClosingTagToken:
			stack.selfClosingTag(token, params)
		case htmltoken.TextToken:
			stack.text(token.Data)
		case htmltoken.DoctypeToken:
			err = errors.New("doctype not supported")
		case htmltoken.CommentToken:
			continue
		}
		if err != nil {
			return stack.finalize(), err
		}
	}
}

func (s bindStack) openTag(token htmltoken.Token, params map[string]any) (bindStack, error) {
	if token.Data == Html_BindParamTagName {
		return s, errBindParamNotSelfClosing
	}
	return s.push(tokenToElem(token, params)), nil
}

func (s bindStack) closeTag(token htmltoken.Token) (bindStack, error) {
	if token.Data == Html_BindParamTagName {
		return s, errBindParamNotSelfClosing
	}
	if len(s) <= 1 {
		return s, fmt.Errorf("end tag %q without start tag", token.Data)
	}
	if s.top().Tag != token.Data {
		return s, fmt.Errorf("end tag %q does not match start tag %q", token.Data, s.top().Tag)
	}
	return s.pop(), nil
}

// <bindparam key="name"/> splices params[name] in as children
func (s bindStack) selfClosingTag(token htmltoken.Token, params map[string]any) {
	if token.Data != Html_BindParamTagName {
		s.appendChild(tokenToElem(token, params))
		return
	}
	for _, elem := range PartToElems(params[getAttrString(token, "key")]) {
		s.appendChild(&elem)
	}
}

func (s bindStack) text(data string) {
	if textStr := processTextStr(data); textStr != "" {
		textElem := TextElem(textStr)
		s.appendChild(&textElem)
	}
}
