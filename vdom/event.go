//go:build js || wasm
// +build js wasm

package vdom

import "syscall/js"

// DOMEvent wraps a raw DOM Event so host-agnostic packages (render,
// form) can act on it through small structural interfaces —
// PreventDefault, target value/checked/files reads — without importing
// syscall/js themselves. It is what attachEventListeners now passes as
// an EventHandler's event argument in place of the bare js.Value.
type DOMEvent struct {
	V js.Value
}

// PreventDefault suppresses the event's default browser action, used by
// the form tag's submit interception (spec §4.6).
func (e DOMEvent) PreventDefault() {
	e.V.Call("preventDefault")
}

// StringValue reads event.target.value.
func (e DOMEvent) StringValue() string {
	return e.V.Get("target").Get("value").String()
}

// BoolValue reads event.target.checked.
func (e DOMEvent) BoolValue() bool {
	return e.V.Get("target").Get("checked").Bool()
}

// SelectedValues reads a multi-select's selected option values.
func (e DOMEvent) SelectedValues() []string {
	opts := e.V.Get("target").Get("selectedOptions")
	n := opts.Get("length").Int()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, opts.Index(i).Get("value").String())
	}
	return out
}

// Files reads a file input's selected files as a slice of plain
// name/size/type descriptors — the FileList itself is not something a
// host-agnostic caller could do anything useful with.
func (e DOMEvent) Files() any {
	files := e.V.Get("target").Get("files")
	n := files.Get("length").Int()
	out := make([]any, 0, n)
	for i := 0; i < n; i++ {
		f := files.Index(i)
		out = append(out, map[string]any{
			"name": f.Get("name").String(),
			"size": f.Get("size").Int(),
			"type": f.Get("type").String(),
		})
	}
	return out
}
