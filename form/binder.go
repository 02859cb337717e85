// Package form implements spec §4.6's field-type table as pure,
// host-agnostic logic: classifying a field element into a Role and
// computing the read/write behavior for that role. It never touches a
// live document — package render calls it while walking a form's
// children, and package vdom's DOMEvent (js/wasm build) is what
// satisfies EventReader against a real browser event.
package form

import (
	"fmt"
	"strings"

	"github.com/declarui/declarui/exprlang"
)

// Role is a field's type-specific read/write behavior (spec §4.6's
// table).
type Role int

const (
	// RoleNone marks an element form does not auto-bind.
	RoleNone Role = iota
	RoleText
	RoleCheckbox
	RoleRadio
	RoleFile
	RoleSelectMultiple
	// RoleCustom is a non-native custom element: value property only,
	// no auto-wired events.
	RoleCustom
)

// ClassifyField reports the auto-binding role for an element, given its
// tag, its "type" attribute (input only), whether it carries "multiple"
// (select only), and whether it has a "name" attribute at all — a field
// with no name is never eligible.
func ClassifyField(tag, typeAttr string, multiple, hasName bool) (Role, bool) {
	if !hasName {
		return RoleNone, false
	}
	switch strings.ToLower(tag) {
	case "input":
		switch strings.ToLower(typeAttr) {
		case "checkbox":
			return RoleCheckbox, true
		case "radio":
			return RoleRadio, true
		case "file":
			return RoleFile, true
		default:
			return RoleText, true
		}
	case "textarea":
		return RoleText, true
	case "select":
		if multiple {
			return RoleSelectMultiple, true
		}
		return RoleText, true
	}
	if strings.Contains(tag, "-") {
		return RoleCustom, true
	}
	return RoleNone, false
}

// EventNames lists the on*-style event attributes a role auto-wires.
// RoleCustom and RoleNone wire nothing — spec §4.6: "Custom elements
// receive only the value property and no auto-wired event handlers."
func EventNames(role Role) []string {
	switch role {
	case RoleText:
		return []string{"oninput", "onchange"}
	case RoleCheckbox, RoleRadio, RoleFile, RoleSelectMultiple:
		return []string{"onchange"}
	default:
		return nil
	}
}

// ReadProps computes the element properties driven by the field
// handle's current value, keyed the way vdom.VNode.Attributes expects.
// File and select-multiple fields have no value-holding property to
// set (spec §4.6: "no value bind").
func ReadProps(role Role, current any, staticValue string) map[string]any {
	switch role {
	case RoleText, RoleCustom:
		if current == nil {
			return nil
		}
		return map[string]any{"value": current}
	case RoleCheckbox:
		return map[string]any{"checked": exprlang.Truthy(current)}
	case RoleRadio:
		return map[string]any{"checked": fmt.Sprint(current) == staticValue}
	default:
		return nil
	}
}

// EventReader abstracts the parts of a DOM change/input event a field's
// write-back needs to read, independent of syscall/js so this package
// and render's dispatch stay testable on a native build. vdom.DOMEvent
// satisfies this structurally on the js/wasm build.
type EventReader interface {
	StringValue() string
	BoolValue() bool
	SelectedValues() []string
	Files() any
}

// ExtractWrite computes the value a field's change event should write
// and whether it should write at all — a radio only writes when its own
// input became checked (spec §4.6: "on change, if checked").
func ExtractWrite(role Role, ev EventReader, staticValue string) (any, bool) {
	switch role {
	case RoleText, RoleCustom:
		return ev.StringValue(), true
	case RoleCheckbox:
		return ev.BoolValue(), true
	case RoleRadio:
		if !ev.BoolValue() {
			return nil, false
		}
		return staticValue, true
	case RoleFile:
		return ev.Files(), true
	case RoleSelectMultiple:
		return ev.SelectedValues(), true
	default:
		return nil, false
	}
}
