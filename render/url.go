package render

import (
	"strings"

	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/declarui/declarui/vdom"
)

// expandURL implements spec §4.7's renderer-side half: the URL tag
// annotates its subtree with the included/transient key lists as data
// attributes on a neutral container so package urlsync can discover
// them by walking the live DOM.
func (w *Walker) expandURL(ctx *Context, node *htmlsrc.Node, segment string) (*vdom.VNode, error) {
	id := ctx.SID.Child(segment)
	sc, err := w.forkAndProcess(ctx, node, id)
	if err != nil {
		return nil, err
	}

	attrs := make(map[string]any)
	if included, ok := node.Attr("included"); ok {
		if list := splitList(included); len(list) > 0 {
			attrs["data-url-included"] = strings.Join(list, ",")
		}
	}
	if transient, ok := node.Attr("transient"); ok {
		if list := splitList(transient); len(list) > 0 {
			attrs["data-url-transient"] = strings.Join(list, ",")
		}
	}

	childCtx := &Context{Scope: sc, SID: id, Slots: ctx.Slots, ComponentName: ctx.ComponentName}
	children, err := w.walkChildren(childCtx, node.Children)
	if err != nil {
		return nil, err
	}
	return vdom.NewElement("div", id.String(), attrs, nil, children), nil
}
