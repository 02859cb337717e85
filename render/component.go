package render

import (
	"strings"
	"sync"

	"github.com/declarui/declarui/derrors"
	"github.com/declarui/declarui/handle"
	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/declarui/declarui/scope"
	"github.com/declarui/declarui/vdom"
)

// ParamSpec is one declared name from a component's `params` attribute.
type ParamSpec struct {
	Name     string
	IsHandle bool
}

// ComponentDef is a definition tag's captured shape (spec §4.5:
// "captures its parameter list, optional template-level init
// expression, and child template nodes").
type ComponentDef struct {
	Name      string
	Params    []ParamSpec
	InitExpr  string
	Template  []*htmlsrc.Node
	SlotNames map[string]bool
}

// Registry is the "registered with the virtual-DOM engine" component
// table from spec §4.5, keyed by the lower-cased component name.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*ComponentDef
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ComponentDef)}
}

func (r *Registry) Register(def *ComponentDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Name] = def
}

func (r *Registry) Lookup(name string) (*ComponentDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[name]
	return d, ok
}

// Prepare recursively scans nodes for definition tags (name suffixed
// ":template") and registers each one, returning the tree with those
// tags removed — "the element is then removed from the live document"
// (spec §4.5). Call this once per declarative root or component
// template at mount/parse time, before any Walk of the same tree.
func (w *Walker) Prepare(nodes []*htmlsrc.Node) []*htmlsrc.Node {
	out := make([]*htmlsrc.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.IsElement() && strings.HasSuffix(n.Tag, ":template") {
			w.registerTemplate(n)
			continue
		}
		if n.IsElement() {
			n.Children = w.Prepare(n.Children)
		}
		out = append(out, n)
	}
	return out
}

func (w *Walker) registerTemplate(n *htmlsrc.Node) {
	name := strings.TrimSuffix(n.Tag, ":template")
	initExpr, _ := n.Attr("init")
	paramsAttr, _ := n.Attr("params")

	template := w.Prepare(n.Children)
	def := &ComponentDef{
		Name:      name,
		Params:    parseParamList(paramsAttr),
		InitExpr:  initExpr,
		Template:  template,
		SlotNames: discoverSlots(template),
	}
	w.Components.Register(def)
}

func parseParamList(raw string) []ParamSpec {
	var out []ParamSpec
	for _, tok := range splitList(raw) {
		if strings.HasPrefix(tok, "@") {
			out = append(out, ParamSpec{Name: strings.TrimPrefix(tok, "@"), IsHandle: true})
		} else {
			out = append(out, ParamSpec{Name: strings.TrimPrefix(tok, "$")})
		}
	}
	return out
}

func discoverSlots(nodes []*htmlsrc.Node) map[string]bool {
	names := make(map[string]bool)
	var walk func([]*htmlsrc.Node)
	walk = func(ns []*htmlsrc.Node) {
		for _, n := range ns {
			if n.IsElement() {
				if strings.HasSuffix(n.Tag, ":slot") {
					names[strings.TrimSuffix(n.Tag, ":slot")] = true
				}
				walk(n.Children)
			}
		}
	}
	walk(nodes)
	return names
}

// expandComponent implements the use-site half of spec §4.5: classify
// children into named slots vs. the default slot (rendered in the
// caller's scope), bind parameters and handles into a fresh scope, run
// init once per SID, and render the template's children in that scope.
func (w *Walker) expandComponent(ctx *Context, node *htmlsrc.Node, segment string) (*vdom.VNode, error) {
	def, ok := w.Components.Lookup(node.Tag)
	if !ok {
		return nil, derrors.TemplateNotFound(node.Tag)
	}
	id := ctx.SID.Child(segment)

	slotContent := make(map[string][]*vdom.VNode)
	var defaultChildren []*htmlsrc.Node
	for _, c := range node.Children {
		if c.IsElement() && def.SlotNames[c.Tag] {
			rendered, err := w.walkChildren(ctx, []*htmlsrc.Node{c})
			if err != nil {
				return nil, err
			}
			slotContent[c.Tag] = append(slotContent[c.Tag], rendered...)
			continue
		}
		defaultChildren = append(defaultChildren, c)
	}
	defaultRendered, err := w.walkChildren(ctx, defaultChildren)
	if err != nil {
		return nil, err
	}
	slotContent[def.Name] = defaultRendered

	useInit, useHasInit := node.Attr("init")
	if def.InitExpr != "" && useHasInit {
		return nil, derrors.InitShape(id.String(), "init declared on both component template and use-site")
	}
	initExpr := def.InitExpr
	if useHasInit {
		initExpr = useInit
	}

	globalHandle, _ := ctx.Scope.LookupHandle("global")
	urlHandle, _ := ctx.Scope.LookupHandle("url")

	compScope := scope.Root()
	if err := compScope.BindHandle("global", globalHandle); err != nil {
		return nil, err
	}
	if err := compScope.BindHandle("url", urlHandle); err != nil {
		return nil, err
	}
	if err := compScope.BindHandle(def.Name, handle.New(localNamespace(id))); err != nil {
		return nil, err
	}

	paramNames := make(map[string]bool, len(def.Params))
	for _, p := range def.Params {
		paramNames[p.Name] = true
		attrVal, present := node.Attr(p.Name)
		if !present {
			continue
		}
		if p.IsHandle {
			h, err := parseHandleExpr(ctx.Scope, attrVal)
			if err != nil {
				return nil, err
			}
			if err := compScope.BindHandle(p.Name, h); err != nil {
				return nil, err
			}
			continue
		}
		val, err := w.evalParamValue(ctx.Scope, attrVal)
		if err != nil {
			return nil, err
		}
		if err := compScope.BindValue(p.Name, val); err != nil {
			return nil, err
		}
	}

	// Passthrough attributes: neither a declared parameter nor reserved
	// (spec §4.5: "the virtual component node carries ... any
	// passthrough attributes"), evaluated the same way a plain value
	// parameter is (spec §4.5's "other parameters receive values" rule).
	var passthrough map[string]any
	for _, name := range node.AttrOrder {
		if paramNames[name] || reservedAttrs[name] {
			continue
		}
		attrVal, _ := node.Attr(name)
		val, err := w.evalParamValue(ctx.Scope, attrVal)
		if err != nil {
			return nil, err
		}
		if passthrough == nil {
			passthrough = make(map[string]any)
		}
		passthrough[name] = val
	}

	if initExpr != "" {
		if err := w.runInitOnce(id, initExpr, w.pureParams(compScope)); err != nil {
			return nil, err
		}
	} else {
		w.Store.EnsureNamespace(localNamespace(id), nil)
	}
	w.markActive(id)

	childCtx := &Context{Scope: compScope, SID: id, Slots: slotContent, ComponentName: def.Name}
	children, err := w.walkChildren(childCtx, def.Template)
	if err != nil {
		return nil, err
	}
	return vdom.NewComponent(node.Tag, id.String(), def.Name, passthrough, children), nil
}

// evalParamValue evaluates a use-site attribute value in the caller's
// scope: a single-expression value is evaluated in pure mode, anything
// else is passed through as the raw attribute string (spec §4.5).
func (w *Walker) evalParamValue(callerScope *scope.Scope, text string) (any, error) {
	in := w.Interp.Parse(text, callerScope.Signature())
	if expr, ok := in.IsSingleExpr(); ok {
		return w.Exprs.Eval(expr, w.pureParams(callerScope))
	}
	return text, nil
}
