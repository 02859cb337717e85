// Package render implements spec §4.4-§4.5: the SID algorithm and the
// recursive walk over an authored template that produces a virtual-DOM
// tree every render pass. Walker never touches the live document —
// package vdom is the only thing that does, on the js/wasm build — so
// the same Walker runs, and is testable, on a native build too.
package render

import (
	"fmt"
	"strings"

	"github.com/declarui/declarui/compile"
	"github.com/declarui/declarui/derrors"
	"github.com/declarui/declarui/exprlang"
	"github.com/declarui/declarui/handle"
	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/declarui/declarui/internal/obs"
	"github.com/declarui/declarui/reactive"
	"github.com/declarui/declarui/scope"
	"github.com/declarui/declarui/sid"
	"github.com/declarui/declarui/vdom"
)

// reservedAttrs are processed by the walker itself and never become
// plain element properties (spec §4.4 step 2, §6's reserved list).
var reservedAttrs = map[string]bool{
	"import":           true,
	"init":             true,
	"def":              true,
	"test":             true,
	"each":             true,
	"params":           true,
	"bind":             true,
	"marker":           true,
	"clear-on-unmount": true,
	"included":         true,
	"transient":        true,
}

// booleanAttrs omit on any falsy variant and render as a bare presence
// marker otherwise (spec §4.4 step 3).
var booleanAttrs = map[string]bool{
	"disabled": true, "checked": true, "selected": true, "readonly": true,
	"required": true, "multiple": true, "autofocus": true, "autoplay": true,
	"controls": true, "default": true, "hidden": true, "ismap": true,
	"loop": true, "muted": true, "novalidate": true, "open": true,
	"reversed": true, "scoped": true, "async": true, "defer": true,
	"itemscope": true,
}

// Context threads the state that changes as the walk descends: the
// current lexical scope, the growing SID, and — while inside an
// expanded component's template — the slot content available to
// `*:slot` placeholders.
type Context struct {
	Scope         *scope.Scope
	SID           sid.ID
	Slots         map[string][]*vdom.VNode
	ComponentName string
}

// Walker owns everything shared across an entire render pass: the
// expression cache, the component registry, and the store every
// evaluated expression reads and writes through.
type Walker struct {
	Exprs      *compile.Cache
	Interp     *compile.InterpCache
	Store      *reactive.Store
	Components *Registry
	Imports    compile.ImportResolver
	Dev        bool

	initDone         map[sid.ID]bool
	trackedForClear  map[sid.ID]bool
	activeThisPass   map[sid.ID]bool
}

// New builds a Walker sharing store and an expression cache pair.
func New(store *reactive.Store, exprs *compile.Cache, imports compile.ImportResolver) *Walker {
	return &Walker{
		Exprs:           exprs,
		Interp:          compile.NewInterpCache(exprs),
		Store:           store,
		Components:      NewRegistry(),
		Imports:         imports,
		initDone:        make(map[sid.ID]bool),
		trackedForClear: make(map[sid.ID]bool),
	}
}

func localNamespace(id sid.ID) string { return "local:" + id.String() }

// BeginPass starts a render pass's active-SID tracking, the substrate
// for the "instance/local-namespace reuse and cleanup" supplemented
// feature (SPEC_FULL.md).
func (w *Walker) BeginPass() {
	w.activeThisPass = make(map[sid.ID]bool)
}

// EndPass clears local namespaces belonging to a `clear-on-unmount` SID
// that went untouched during the pass just finished, adapted from
// vcrobe-nojs-lab/runtime/renderer_impl.go's activeKeys/
// cleanupUnmountedComponents pattern.
func (w *Walker) EndPass() {
	for id := range w.trackedForClear {
		if !w.activeThisPass[id] {
			w.Store.ClearNamespace(localNamespace(id))
			delete(w.trackedForClear, id)
			delete(w.initDone, id)
		}
	}
}

func (w *Walker) markActive(id sid.ID) {
	if w.activeThisPass != nil {
		w.activeThisPass[id] = true
	}
}

// Walk renders nodes (the children of a declarative root, or of a
// component template) against ctx and returns the resulting flat
// virtual-DOM child list.
func (w *Walker) Walk(ctx *Context, nodes []*htmlsrc.Node) ([]*vdom.VNode, error) {
	return w.walkChildren(ctx, nodes)
}

func sourceSegment(n *htmlsrc.Node, index int) string {
	tag := "#text"
	if n.IsElement() {
		tag = n.Tag
	}
	return fmt.Sprintf("%s#%d", tag, index)
}

// walkChildren processes nodes left to right, recognizing the two
// sibling-chain structural forms (`When`→`Else*`, and `Loop`→optional
// `Else` fallback on zero rows) before falling through to per-node
// dispatch (spec §4.4 step 5, §4.5).
func (w *Walker) walkChildren(ctx *Context, nodes []*htmlsrc.Node) ([]*vdom.VNode, error) {
	var out []*vdom.VNode
	i := 0
	for i < len(nodes) {
		n := nodes[i]

		if n.IsElement() && n.Tag == "when" {
			group := []*htmlsrc.Node{n}
			j := i + 1
			for j < len(nodes) && nodes[j].IsElement() && nodes[j].Tag == "else" {
				group = append(group, nodes[j])
				j++
			}
			rendered, err := w.expandConditionalChain(ctx, group, i)
			if err != nil {
				return nil, err
			}
			out = append(out, rendered...)
			i = j
			continue
		}

		if n.IsElement() && n.Tag == "loop" {
			rows, produced, err := w.expandLoop(ctx, n, sourceSegment(n, i))
			if err != nil {
				return nil, err
			}
			if !produced && i+1 < len(nodes) && nodes[i+1].IsElement() && nodes[i+1].Tag == "else" {
				elseNode := nodes[i+1]
				fallback, err := w.expandElseFallback(ctx, elseNode, sourceSegment(elseNode, i+1))
				if err != nil {
					return nil, err
				}
				out = append(out, fallback...)
				i += 2
				continue
			}
			out = append(out, rows...)
			i++
			continue
		}

		vn, err := w.walkNode(ctx, n, sourceSegment(n, i))
		if err != nil {
			return nil, err
		}
		if vn != nil {
			out = append(out, vn)
		}
		i++
	}
	return out, nil
}

// MountRoot processes a declarative root element's own reserved
// attributes (import → init → def, spec §4.4 step 2) against rootCtx,
// the way any element's opening tag would be processed mid-walk. It
// exists so package bootstrap — which owns the root's lifecycle, not
// its markup — can reuse forkAndProcess without duplicating it or
// exporting it directly.
func (w *Walker) MountRoot(rootCtx *Context, rootID string, attrs map[string]string) (*Context, error) {
	node := &htmlsrc.Node{
		Kind:      htmlsrc.ElementNode,
		Tag:       rootID,
		Attrs:     attrs,
		AttrOrder: attrOrderOf(attrs),
	}
	sc, err := w.forkAndProcess(rootCtx, node, rootCtx.SID)
	if err != nil {
		return nil, err
	}
	return &Context{Scope: sc, SID: rootCtx.SID}, nil
}

func attrOrderOf(attrs map[string]string) []string {
	out := make([]string, 0, len(attrs))
	for k := range attrs {
		out = append(out, k)
	}
	return out
}

// walkNode dispatches a single node to the right structural expansion,
// or renders it as a plain element/text node.
func (w *Walker) walkNode(ctx *Context, node *htmlsrc.Node, segment string) (*vdom.VNode, error) {
	if node.IsText() {
		id := ctx.SID.Child(segment)
		text := compile.InterpolateText(w.Interp, w.Exprs, node.Text, w.pureParams(ctx.Scope))
		return vdom.NewText(id.String(), text), nil
	}

	switch {
	case node.Tag == "else":
		// A stray Else outside a When/Loop chain contributes nothing.
		return nil, nil
	case strings.HasSuffix(node.Tag, ":slot"):
		return w.expandSlot(ctx, node, segment)
	case node.Tag == "url":
		return w.expandURL(ctx, node, segment)
	case node.Tag == "form":
		return w.expandForm(ctx, node, segment)
	}
	if _, ok := w.Components.Lookup(node.Tag); ok {
		return w.expandComponent(ctx, node, segment)
	}
	return w.walkElement(ctx, node, segment)
}

func (w *Walker) pureParams(sc *scope.Scope) compile.Params {
	return compile.Params{Scope: sc, Store: w.Store, Mode: handle.Pure, Imports: w.Imports}
}

// walkElement is the default path: an ordinary tag with no structural
// meaning (spec §4.4 steps 1-5 in full).
func (w *Walker) walkElement(ctx *Context, node *htmlsrc.Node, segment string) (*vdom.VNode, error) {
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

	childCtx := &Context{Scope: sc, SID: id, Slots: ctx.Slots, ComponentName: ctx.ComponentName}
	children, err := w.walkChildren(childCtx, node.Children)
	if err != nil {
		return nil, err
	}

	w.markActive(id)
	return vdom.NewElement(node.Tag, id.String(), attrs, events, children), nil
}

// forkAndProcess implements the import → init → def prefix of spec
// §4.4 step 2, shared by plain elements, When/Else branches, Loop, Url,
// and a declarative root (MountRoot). Forms (expandForm) and component
// use-sites (expandComponent) do their own reserved-attribute handling.
func (w *Walker) forkAndProcess(ctx *Context, node *htmlsrc.Node, id sid.ID) (*scope.Scope, error) {
	sc := ctx.Scope.Fork()

	if node.HasAttr("clear-on-unmount") {
		w.trackedForClear[id] = true
	}

	if imp, ok := node.Attr("import"); ok {
		for _, name := range splitList(imp) {
			sc.BindImport(name)
		}
	}

	if initExpr, ok := node.Attr("init"); ok {
		if err := w.runInitOnce(id, initExpr, w.pureParams(sc)); err != nil {
			return nil, err
		}
	}

	if defAttr, ok := node.Attr("def"); ok {
		if err := w.applyDef(sc, defAttr, id); err != nil {
			return nil, err
		}
	}

	return sc, nil
}

// runInitOnce evaluates an `init` expression exactly once per SID
// (spec §4.4 step 2: "never re-runs for the same SID") and seeds that
// SID's local namespace with the resulting object.
func (w *Walker) runInitOnce(id sid.ID, expr string, params compile.Params) error {
	if w.initDone[id] {
		return nil
	}
	v, err := compile.InterpolateValue(w.Interp, w.Exprs, expr, params)
	if err != nil {
		return err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return derrors.InitShape(id.String(), "init must evaluate to an object")
	}
	w.Store.EnsureNamespace(localNamespace(id), obj)
	w.initDone[id] = true
	return nil
}

// applyDef implements the three `def` declaration forms of spec §4.2.
func (w *Walker) applyDef(sc *scope.Scope, raw string, id sid.ID) error {
	for _, decl := range splitTopLevel(raw) {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		switch {
		case strings.HasPrefix(decl, "@") && strings.HasSuffix(decl, "as local"):
			name := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(decl, "@"), "as local"))
			w.Store.EnsureNamespace(localNamespace(id), nil)
			if err := sc.BindHandle(name, handle.New(localNamespace(id))); err != nil {
				return err
			}
		case strings.HasPrefix(decl, "@") && strings.Contains(decl, ":="):
			parts := strings.SplitN(decl, ":=", 2)
			name := strings.TrimSpace(strings.TrimPrefix(parts[0], "@"))
			h, err := parseHandleExpr(sc, parts[1])
			if err != nil {
				return err
			}
			if err := sc.BindHandle(name, h); err != nil {
				return err
			}
		case strings.HasPrefix(decl, "$") && strings.Contains(decl, ":="):
			parts := strings.SplitN(decl, ":=", 2)
			name := strings.TrimSpace(strings.TrimPrefix(parts[0], "$"))
			body := unbrace(parts[1])
			val, err := w.Exprs.Eval(body, w.pureParams(sc))
			if err != nil {
				return err
			}
			if err := sc.BindValue(name, val); err != nil {
				return err
			}
		default:
			return derrors.SyntaxShape("def", "unrecognized declaration form: "+decl)
		}
	}
	return nil
}

// parseHandleExpr resolves "@Alias.path.segments" against sc, the form
// spec §4.2's "@NAME := @HANDLE.path" right-hand side takes.
func parseHandleExpr(sc *scope.Scope, expr string) (handle.Handle, error) {
	expr = strings.TrimPrefix(strings.TrimSpace(expr), "@")
	segs := strings.Split(expr, ".")
	h, ok := sc.LookupHandle(segs[0])
	if !ok {
		return handle.Handle{}, derrors.SyntaxShape("def", "unknown handle alias '"+segs[0]+"'")
	}
	if len(segs) > 1 {
		h = h.Extend(segs[1:]...)
	}
	return h, nil
}

// buildProperties implements spec §4.4 steps 3-4: the property map for
// non-reserved attributes, and event-handler wrapping for `on*="@{…}"`.
func (w *Walker) buildProperties(sc *scope.Scope, node *htmlsrc.Node) (map[string]any, map[string]vdom.EventHandler, error) {
	attrs := make(map[string]any)
	events := make(map[string]vdom.EventHandler)
	sig := sc.Signature()
	params := w.pureParams(sc)

	for _, name := range node.AttrOrder {
		if reservedAttrs[name] {
			continue
		}
		text := node.Attrs[name]

		if strings.HasPrefix(name, "on") {
			trimmed := strings.TrimSpace(text)
			if strings.HasPrefix(trimmed, "@{") && strings.HasSuffix(trimmed, "}") {
				body := trimmed[2 : len(trimmed)-1]
				events[name] = w.makeEventHandler(sc, body)
			}
			continue
		}

		in := w.Interp.Parse(text, sig)
		v, err := compile.InterpolateValue(w.Interp, w.Exprs, text, params)
		if err != nil {
			return nil, nil, err
		}
		if _, single := in.IsSingleExpr(); single {
			if booleanAttrs[name] {
				if exprlang.Truthy(v) {
					attrs[name] = true
				}
				continue
			}
			if v == nil {
				continue
			}
			attrs[name] = v
			continue
		}
		attrs[name] = v
	}
	return attrs, events, nil
}

// makeEventHandler builds the wrapper spec §4.4 step 4 describes: a
// scope fork with the event bound to a reserved name, evaluated in
// effect mode on each invocation.
func (w *Walker) makeEventHandler(sc *scope.Scope, body string) vdom.EventHandler {
	evScope := sc.Fork()
	return func(event any) {
		evScope.BindValue("event", event)
		params := compile.Params{Scope: evScope, Store: w.Store, Mode: handle.Effect, Imports: w.Imports}
		if _, err := w.Exprs.Eval(body, params); err != nil {
			obs.Warnw("event handler evaluation failed", "expr", body, "error", err)
		}
		w.Store.Flush()
	}
}

// splitList splits a comma-separated attribute value, trimming and
// dropping empty entries (used for `import`, `included`, `transient`).
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitTopLevel splits raw on commas that are not nested inside
// {}, [], (), or quotes — `def` declarations and `each` binding lists
// may embed object/array literals containing their own commas.
func splitTopLevel(raw string) []string {
	var out []string
	var depth int
	var quote byte
	start := 0
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case quote != 0:
			if c == quote && (i == 0 || raw[i-1] != '\\') {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '{' || c == '[' || c == '(':
			depth++
		case c == '}' || c == ']' || c == ')':
			depth--
		case c == ',' && depth == 0:
			out = append(out, raw[start:i])
			start = i + 1
		}
	}
	out = append(out, raw[start:])
	return out
}

// unbrace strips one layer of surrounding "{" "}" from a def
// value's right-hand side and trims the result, e.g. "{ $x + 1 }" -> "$x + 1".
func unbrace(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
