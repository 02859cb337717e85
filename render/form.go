package render

import (
	"strings"

	"github.com/declarui/declarui/compile"
	"github.com/declarui/declarui/derrors"
	"github.com/declarui/declarui/exprlang"
	"github.com/declarui/declarui/form"
	"github.com/declarui/declarui/handle"
	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/declarui/declarui/internal/obs"
	"github.com/declarui/declarui/scope"
	"github.com/declarui/declarui/vdom"
)

// preventDefaulter is the structural half of vdom.DOMEvent this package
// needs for submit interception, without importing vdom's js/wasm build.
type preventDefaulter interface {
	PreventDefault()
}

// expandForm implements spec §4.6: the form receives either a
// bind-supplied handle or a local namespace keyed by its own SID, bound
// into scope under the reserved name Form; submission is intercepted to
// suppress default navigation; children are walked through
// walkFormChildren so unbound inputs auto-bind to a field of Form named
// after their own "name" attribute.
func (w *Walker) expandForm(ctx *Context, node *htmlsrc.Node, segment string) (*vdom.VNode, error) {
	id := ctx.SID.Child(segment)
	sc := ctx.Scope.Fork()

	if node.HasAttr("clear-on-unmount") {
		w.trackedForClear[id] = true
	}

	if imp, ok := node.Attr("import"); ok {
		for _, name := range splitList(imp) {
			sc.BindImport(name)
		}
	}

	var formHandle handle.Handle
	if bindAttr, ok := node.Attr("bind"); ok {
		if node.HasAttr("init") {
			return nil, derrors.InitShape(id.String(), "init on a bound form")
		}
		h, err := parseHandleExpr(ctx.Scope, bindAttr)
		if err != nil {
			return nil, err
		}
		formHandle = h
	} else {
		formHandle = handle.New(localNamespace(id))
		if initExpr, ok := node.Attr("init"); ok {
			if err := w.runInitOnce(id, initExpr, w.pureParams(sc)); err != nil {
				return nil, err
			}
		} else {
			w.Store.EnsureNamespace(localNamespace(id), nil)
		}
	}
	if err := sc.BindHandle("Form", formHandle); err != nil {
		return nil, err
	}

	if defAttr, ok := node.Attr("def"); ok {
		if err := w.applyDef(sc, defAttr, id); err != nil {
			return nil, err
		}
	}

	if testAttr, ok := node.Attr("test"); ok {
		v, err := compile.InterpolateValue(w.Interp, w.Exprs, testAttr, w.pureParams(sc))
		if err != nil {
			return nil, err
		}
		if !exprlang.Truthy(v) {
			return nil, nil
		}
	}

	attrs, events, err := w.buildProperties(sc, node)
	if err != nil {
		return nil, err
	}
	wrapSubmit(events)

	childCtx := &Context{Scope: sc, SID: id, Slots: ctx.Slots, ComponentName: ctx.ComponentName}
	children, err := w.walkFormChildren(childCtx, node.Children, formHandle)
	if err != nil {
		return nil, err
	}

	w.markActive(id)
	return vdom.NewElement(node.Tag, id.String(), attrs, events, children), nil
}

// wrapSubmit suppresses the browser's default navigation on every
// submit, then runs any author-provided handler already captured by
// buildProperties under "onsubmit".
func wrapSubmit(events map[string]vdom.EventHandler) {
	inner := events["onsubmit"]
	events["onsubmit"] = func(event any) {
		if pd, ok := event.(preventDefaulter); ok {
			pd.PreventDefault()
		}
		if inner != nil {
			inner(event)
		}
	}
}

// walkFormChildren mirrors walkChildren but recurses through plain
// wrapper elements looking for auto-bindable fields. Structural
// boundaries — When/Loop/Url/slot placeholders and component use-sites
// — fall back to the ordinary walk, so field auto-binding does not
// reach across them: those nodes get their own fresh scope and no
// visibility into the enclosing form's handle.
func (w *Walker) walkFormChildren(ctx *Context, nodes []*htmlsrc.Node, formHandle handle.Handle) ([]*vdom.VNode, error) {
	var out []*vdom.VNode
	for i, n := range nodes {
		if n.IsElement() && w.isPlainFormDescendant(n) {
			vn, err := w.expandFormElement(ctx, n, sourceSegment(n, i), formHandle)
			if err != nil {
				return nil, err
			}
			if vn != nil {
				out = append(out, vn)
			}
			continue
		}
		vn, err := w.walkNode(ctx, n, sourceSegment(n, i))
		if err != nil {
			return nil, err
		}
		if vn != nil {
			out = append(out, vn)
		}
	}
	return out, nil
}

func (w *Walker) isPlainFormDescendant(n *htmlsrc.Node) bool {
	switch n.Tag {
	case "when", "else", "loop", "url", "form":
		return false
	}
	if strings.HasSuffix(n.Tag, ":slot") {
		return false
	}
	if _, isComponent := w.Components.Lookup(n.Tag); isComponent {
		return false
	}
	return true
}

// expandFormElement is walkElement's counterpart within a form's
// subtree: same reserved-attribute processing and property build, plus
// auto-binding when the element classifies as a field, and it recurses
// through walkFormChildren rather than walkChildren so binding reaches
// fields nested under a plain wrapper.
func (w *Walker) expandFormElement(ctx *Context, node *htmlsrc.Node, segment string, formHandle handle.Handle) (*vdom.VNode, error) {
	id := ctx.SID.Child(segment)
	sc, err := w.forkAndProcess(ctx, node, id)
	if err != nil {
		return nil, err
	}

	if testAttr, ok := node.Attr("test"); ok {
		v, err := compile.InterpolateValue(w.Interp, w.Exprs, testAttr, w.pureParams(sc))
		if err != nil {
			return nil, err
		}
		if !exprlang.Truthy(v) {
			return nil, nil
		}
	}

	attrs, events, err := w.buildProperties(sc, node)
	if err != nil {
		return nil, err
	}

	typeAttr, _ := node.Attr("type")
	_, hasName := node.Attr("name")
	role, eligible := form.ClassifyField(node.Tag, typeAttr, node.HasAttr("multiple"), hasName)
	if eligible {
		if err := w.applyFieldBinding(sc, node, formHandle, role, attrs, events); err != nil {
			return nil, err
		}
	}

	childCtx := &Context{Scope: sc, SID: id, Slots: ctx.Slots, ComponentName: ctx.ComponentName}
	children, err := w.walkFormChildren(childCtx, node.Children, formHandle)
	if err != nil {
		return nil, err
	}

	w.markActive(id)
	return vdom.NewElement(node.Tag, id.String(), attrs, events, children), nil
}

// applyFieldBinding wires a classified field's value-holding property
// and change events to its field handle: the use-site's own "bind"
// attribute if present, otherwise Form extended with the field's "name"
// (spec §4.6).
func (w *Walker) applyFieldBinding(sc *scope.Scope, node *htmlsrc.Node, formHandle handle.Handle, role form.Role, attrs map[string]any, events map[string]vdom.EventHandler) error {
	var fieldHandle handle.Handle
	if bindAttr, ok := node.Attr("bind"); ok {
		h, err := parseHandleExpr(sc, bindAttr)
		if err != nil {
			return err
		}
		fieldHandle = h
	} else {
		name, _ := node.Attr("name")
		fieldHandle = formHandle.Child(name)
	}

	staticValue, _ := node.Attr("value")
	current := handle.NewView(w.Store, fieldHandle, handle.Pure).Value()
	for k, v := range form.ReadProps(role, current, staticValue) {
		attrs[k] = v
	}

	for _, evName := range form.EventNames(role) {
		events[evName] = w.makeFieldWriteHandler(fieldHandle, role, staticValue)
	}
	return nil
}

func (w *Walker) makeFieldWriteHandler(fieldHandle handle.Handle, role form.Role, staticValue string) vdom.EventHandler {
	return func(event any) {
		reader, ok := event.(form.EventReader)
		if !ok {
			obs.Warnw("form field event missing EventReader adapter", "field", fieldHandle.String())
			return
		}
		value, write := form.ExtractWrite(role, reader, staticValue)
		if !write {
			return
		}
		if err := handle.NewView(w.Store, fieldHandle, handle.Effect).WriteSelf(value); err != nil {
			obs.Warnw("form field write failed", "field", fieldHandle.String(), "error", err)
		}
		w.Store.Flush()
	}
}
