package render

import (
	"strings"

	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/declarui/declarui/vdom"
)

// expandSlot implements spec §4.5's slot expansion: caller-provided
// content for a matching slot name, or the template's own fallback
// children when none was provided, wrapped in a neutral container
// element keyed by the slot's own SID.
func (w *Walker) expandSlot(ctx *Context, node *htmlsrc.Node, segment string) (*vdom.VNode, error) {
	id := ctx.SID.Child(segment)
	name := strings.TrimSuffix(node.Tag, ":slot")

	var content []*vdom.VNode
	if ctx.Slots != nil {
		if provided, ok := ctx.Slots[name]; ok && len(provided) > 0 {
			content = provided
		}
	}
	if content == nil {
		childCtx := &Context{Scope: ctx.Scope, SID: id, Slots: ctx.Slots, ComponentName: ctx.ComponentName}
		rendered, err := w.walkChildren(childCtx, node.Children)
		if err != nil {
			return nil, err
		}
		content = rendered
	}
	return vdom.NewElement("div", id.String(), map[string]any{"data-slot": name}, nil, content), nil
}
