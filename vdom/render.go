//go:build js || wasm
// +build js wasm

package vdom

import (
	"strings"
	"syscall/js"

	"github.com/declarui/declarui/console"
)

// RenderToSelector mounts n under the first element matching selector,
// replacing any existing content there.
func RenderToSelector(selector string, n *VNode) {
	if selector == "" {
		return
	}
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return
	}
	mount := doc.Call("querySelector", selector)
	if !mount.Truthy() {
		console.Error("Mount element not found for selector:", selector)
		return
	}
	RenderTo(mount, n)
}

// RenderTo clears mount and appends the DOM subtree built from n.
func RenderTo(mount js.Value, n *VNode) {
	mount.Set("innerHTML", "")
	if n == nil {
		return
	}
	for _, el := range createElements(n) {
		mount.Call("appendChild", el)
	}
}

// Patch reconciles oldTree into newTree in place under mount and returns
// newTree, the tree callers should keep for the next patch call. A nil
// oldTree falls back to a fresh render.
func Patch(mount js.Value, oldTree, newTree *VNode) *VNode {
	if oldTree == nil {
		RenderTo(mount, newTree)
		return newTree
	}
	if newTree == nil {
		deepReleaseCallbacks(oldTree)
		mount.Set("innerHTML", "")
		return nil
	}
	patchOne(mount, oldTree, newTree, 0)
	return newTree
}

// createElements expands n into zero or more DOM nodes — fragments and
// components contribute their children directly with no wrapper
// element, matching spec §4.5's "iteration yields a fragment, it does
// not wrap in a container element".
func createElements(n *VNode) []js.Value {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case FragmentNode, ComponentNode:
		var out []js.Value
		for _, c := range n.Children {
			out = append(out, createElements(c)...)
		}
		return out
	case TextNode:
		doc := js.Global().Get("document")
		return []js.Value{doc.Call("createTextNode", n.Content)}
	default:
		return []js.Value{createElement(n)}
	}
}

func createElement(n *VNode) js.Value {
	doc := js.Global().Get("document")
	if !doc.Truthy() {
		return js.Undefined()
	}
	if n.Tag == "" {
		console.Error("vdom: element node with empty tag")
		return js.Undefined()
	}
	el := doc.Call("createElement", n.Tag)
	for k, v := range n.Attributes {
		setAttributeValue(el, k, v)
	}
	attachEventListeners(el, n)
	if len(n.Children) == 0 && n.Content != "" {
		el.Set("textContent", n.Content)
	} else {
		for _, child := range n.Children {
			for _, childEl := range createElements(child) {
				el.Call("appendChild", childEl)
			}
		}
	}
	return el
}

// setAttributeValue applies HTML's boolean-attribute convention: a
// Go bool true sets the attribute present with an empty value, false
// omits it entirely, everything else is stringified as-is.
func setAttributeValue(el js.Value, key string, val any) {
	switch v := val.(type) {
	case bool:
		if v {
			el.Call("setAttribute", key, "")
		} else {
			el.Call("removeAttribute", key)
		}
	case string:
		el.Call("setAttribute", key, v)
	default:
		el.Call("setAttribute", key, toAttrString(v))
	}
}

func attachEventListeners(el js.Value, n *VNode) {
	for name, handler := range n.Events {
		handler := handler
		cb := js.FuncOf(func(this js.Value, args []js.Value) any {
			if len(args) > 0 {
				handler(DOMEvent{V: args[0]})
			} else {
				handler(nil)
			}
			return nil
		})
		el.Call("addEventListener", eventNameFor(name), cb)
		n.AddEventCallback(cb)
	}
}

// eventNameFor turns an authored "onClick"-style attribute name into
// the DOM event name "click".
func eventNameFor(attrName string) string {
	trimmed := strings.TrimPrefix(strings.ToLower(attrName), "on")
	return trimmed
}

func releaseCallbacks(n *VNode) {
	for _, cb := range n.EventCallbacks() {
		if fn, ok := cb.(js.Func); ok {
			fn.Release()
		}
	}
	n.ClearEventCallbacks()
}

func deepReleaseCallbacks(n *VNode) {
	if n == nil {
		return
	}
	releaseCallbacks(n)
	for _, c := range n.Children {
		deepReleaseCallbacks(c)
	}
}

// patchOne reconciles old into new at DOM position index within
// parent's current children, replacing parent's DOM child in place when
// the two nodes are not compatible for an in-place patch.
func patchOne(parent js.Value, old, next *VNode, index int) {
	domChildren := parent.Get("childNodes")
	if index >= domChildren.Length() {
		for _, el := range createElements(next) {
			parent.Call("appendChild", el)
		}
		return
	}
	domNode := domChildren.Index(index)

	if !compatible(old, next) {
		deepReleaseCallbacks(old)
		replaced := createElements(next)
		if len(replaced) == 0 {
			parent.Call("removeChild", domNode)
			return
		}
		parent.Call("replaceChild", replaced[0], domNode)
		for _, extra := range replaced[1:] {
			parent.Call("insertBefore", extra, domNode.Get("nextSibling"))
		}
		return
	}

	switch next.Kind {
	case TextNode:
		if old.Content != next.Content {
			domNode.Set("textContent", next.Content)
		}
	case FragmentNode, ComponentNode:
		patchChildren(parent, old.Children, next.Children, index)
	default:
		patchAttributes(domNode, old.Attributes, next.Attributes)
		releaseCallbacks(old)
		attachEventListeners(domNode, next)
		patchValueHoldingElement(domNode, next)
		patchChildren(domNode, old.Children, next.Children, 0)
		if len(next.Children) == 0 && old.Content != next.Content {
			domNode.Set("textContent", next.Content)
		}
	}
}

// compatible reports whether old can be patched in place into next's
// shape, versus requiring a full subtree replace. A ComponentKey
// mismatch forces a replace even when Kind and Tag agree, since two
// different component definitions rendering into the same slot share no
// internal structure worth preserving.
func compatible(old, next *VNode) bool {
	if old.Kind != next.Kind {
		return false
	}
	if old.Kind == ComponentNode && old.ComponentKey != next.ComponentKey {
		return false
	}
	if old.Kind == ElementNode && old.Tag != next.Tag {
		return false
	}
	return true
}

// patchValueHoldingElement preserves in-progress user input: a focused
// text input or textarea keeps its live DOM value rather than being
// overwritten by a stale re-render, and a select's selected option is
// re-derived from the new "value" attribute rather than left to the
// browser's default selection.
func patchValueHoldingElement(el js.Value, next *VNode) {
	tag := strings.ToLower(next.Tag)
	switch tag {
	case "input", "textarea":
		active := js.Global().Get("document").Get("activeElement")
		if active.Truthy() && active.Equal(el) {
			return
		}
		if v, ok := next.Attributes["value"]; ok {
			el.Set("value", toAttrString(v))
		}
	case "select":
		if v, ok := next.Attributes["value"]; ok {
			el.Set("value", toAttrString(v))
		}
	}
}

func patchAttributes(el js.Value, old, next map[string]any) {
	for k := range old {
		if _, ok := next[k]; !ok {
			el.Call("removeAttribute", k)
		}
	}
	for k, v := range next {
		if old == nil {
			setAttributeValue(el, k, v)
			continue
		}
		if ov, ok := old[k]; !ok || ov != v {
			setAttributeValue(el, k, v)
		}
	}
}

// patchChildren index-aligns old and next child slices, recursing where
// both sides have a node at an index, inserting where only next does,
// and removing (with callback release) where only old does.
func patchChildren(parent js.Value, old, next []*VNode, baseIndex int) {
	max := len(old)
	if len(next) > max {
		max = len(next)
	}
	for i := 0; i < max; i++ {
		var o, nn *VNode
		if i < len(old) {
			o = old[i]
		}
		if i < len(next) {
			nn = next[i]
		}
		switch {
		case o == nil && nn != nil:
			for _, el := range createElements(nn) {
				parent.Call("appendChild", el)
			}
		case o != nil && nn == nil:
			deepReleaseCallbacks(o)
			domChildren := parent.Get("childNodes")
			if idx := baseIndex + len(next); idx < domChildren.Length() {
				parent.Call("removeChild", domChildren.Index(idx))
			}
		case o != nil && nn != nil:
			patchOne(parent, o, nn, baseIndex+i)
		}
	}
}

func toAttrString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return js.ValueOf(t).String()
	}
}
