package render

import (
	"github.com/declarui/declarui/compile"
	"github.com/declarui/declarui/exprlang"
	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/declarui/declarui/vdom"
)

// expandConditionalChain implements spec §4.5's conditional chain: the
// first branch (a `When`, or a trailing `Else`) whose test evaluates
// truthy — or a test-less `Else`, the fallback — renders its children;
// every other branch renders nothing but still consumes its own SID
// segment, which is what keeps a later sibling's SID independent of
// which branch matched (spec §4.4's neighbor-stability invariant).
func (w *Walker) expandConditionalChain(ctx *Context, group []*htmlsrc.Node, baseIndex int) ([]*vdom.VNode, error) {
	matched := false
	var out []*vdom.VNode

	for k, branch := range group {
		segment := sourceSegment(branch, baseIndex+k)
		id := ctx.SID.Child(segment)
		sc, err := w.forkAndProcess(ctx, branch, id)
		if err != nil {
			return nil, err
		}

		if matched {
			continue
		}

		takeBranch := false
		if testAttr, ok := branch.Attr("test"); ok {
			v, err := compile.InterpolateValue(w.Interp, w.Exprs, testAttr, w.pureParams(sc))
			if err != nil {
				return nil, err
			}
			takeBranch = exprlang.Truthy(v)
		} else if branch.Tag == "else" {
			// A test-less Else is the chain's unconditional fallback.
			takeBranch = true
		}

		if !takeBranch {
			continue
		}
		matched = true

		childCtx := &Context{Scope: sc, SID: id, Slots: ctx.Slots, ComponentName: ctx.ComponentName}
		rendered, err := w.walkChildren(childCtx, branch.Children)
		if err != nil {
			return nil, err
		}
		out = append(out, rendered...)
	}
	return out, nil
}

// expandElseFallback renders a lone Else's children in place of a Loop
// that produced zero rows (spec §4.5: "If the iteration produces zero
// items and the next sibling is <Else>, that <Else> renders as its
// fallback").
func (w *Walker) expandElseFallback(ctx *Context, elseNode *htmlsrc.Node, segment string) ([]*vdom.VNode, error) {
	id := ctx.SID.Child(segment)
	sc, err := w.forkAndProcess(ctx, elseNode, id)
	if err != nil {
		return nil, err
	}
	childCtx := &Context{Scope: sc, SID: id, Slots: ctx.Slots, ComponentName: ctx.ComponentName}
	return w.walkChildren(childCtx, elseNode.Children)
}
