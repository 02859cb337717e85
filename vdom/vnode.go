// Package vdom is the virtual-DOM node type and its DOM application
// (js/wasm build only — see render.go). Generalized from the teacher's
// VNode (vcrobe-nojs-lab/vdom/vnode.go), which modeled a fixed small set
// of demo tags with one hard-coded OnClick field, into a shape that can
// represent any element this runtime's declarative HTML produces: plain
// elements, bare text, iteration/fragment output, and expanded
// components carrying an identity key for reconciliation.
package vdom

// Kind distinguishes the four node shapes render.Walker produces.
type Kind int

const (
	ElementNode Kind = iota
	TextNode
	FragmentNode
	ComponentNode
)

// EventHandler receives the event object bound by an `on*="@{…}"`
// wrapper (spec §4.4 step 4). It is `any` rather than a DOM-specific
// type because the same VNode tree is built (and tested) without a live
// document; the js/wasm build passes a DOMEvent wrapping the raw js.Value.
type EventHandler func(event any)

// VNode is one node of the tree render.Walker builds by walking the
// authored template. Key is the node's SID string, used for
// reconciliation identity. ComponentKey is set only on ComponentNode
// nodes and names which component definition expanded here; a mismatch
// between an old and new ComponentKey at the same Key forces a full
// subtree replace rather than an attempted patch (spec's supplemented
// "component key mismatch" behavior, see DESIGN.md).
type VNode struct {
	Kind         Kind
	Tag          string
	Key          string
	ComponentKey string
	Attributes   map[string]any
	Events       map[string]EventHandler
	Children     []*VNode
	Content      string

	eventCallbacks []any
}

// NewElement builds an ElementNode.
func NewElement(tag, key string, attrs map[string]any, events map[string]EventHandler, children []*VNode) *VNode {
	return &VNode{Kind: ElementNode, Tag: tag, Key: key, Attributes: attrs, Events: events, Children: children}
}

// NewText builds a TextNode.
func NewText(key, content string) *VNode {
	return &VNode{Kind: TextNode, Key: key, Content: content}
}

// NewFragment builds a FragmentNode — the shape iteration expansion
// yields (spec §4.5: "Iteration yields a fragment ... it does not wrap
// in a container element").
func NewFragment(key string, children []*VNode) *VNode {
	return &VNode{Kind: FragmentNode, Key: key, Children: children}
}

// NewComponent builds a ComponentNode wrapping an expanded component's
// rendered children under componentKey identity. attrs carries the
// use-site's passthrough attributes — those neither declared as
// component parameters nor reserved (spec §4.5).
func NewComponent(name, key, componentKey string, attrs map[string]any, children []*VNode) *VNode {
	return &VNode{Kind: ComponentNode, Tag: name, Key: key, ComponentKey: componentKey, Attributes: attrs, Children: children}
}

// ErrorIndicator builds the node a production render's error boundary
// swaps in for a subtree whose render panicked, carrying the recovered
// message as both content and a data attribute so it is inspectable
// without a live console.
func ErrorIndicator(key, message string) *VNode {
	return NewElement("div", key, map[string]any{
		"class":      "declarui-render-error",
		"data-error": message,
	}, nil, []*VNode{NewText(key+"/msg", message)})
}

// AddEventCallback records an opaque platform callback handle (a
// js.Func on the js/wasm build) so it can be released on unmount or
// re-patch without vdom itself depending on syscall/js.
func (v *VNode) AddEventCallback(cb any) {
	v.eventCallbacks = append(v.eventCallbacks, cb)
}

// EventCallbacks returns the recorded platform callback handles.
func (v *VNode) EventCallbacks() []any { return v.eventCallbacks }

// ClearEventCallbacks drops the recorded handles after they've been
// released.
func (v *VNode) ClearEventCallbacks() { v.eventCallbacks = nil }
