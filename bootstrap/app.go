// Package bootstrap implements spec §4.8: page-level setup shared by
// every declarative root — the reactive substrate, the expression
// cache, the at-most-one global-init tag, and the per-root mount
// lifecycle. Grounded on vcrobe-nojs-lab/main.go's
// App/RegisterComponents/Mount sequencing, generalized from
// registering compile-time component factories to preparing an
// interpreted component registry and mounting declarative roots
// directly (REDESIGN FLAGS).
package bootstrap

import (
	"sync"

	"dario.cat/mergo"
	"github.com/declarui/declarui/compile"
	"github.com/declarui/declarui/derrors"
	"github.com/declarui/declarui/handle"
	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/declarui/declarui/internal/obs"
	"github.com/declarui/declarui/reactive"
	"github.com/declarui/declarui/render"
	"github.com/declarui/declarui/scope"
	"github.com/declarui/declarui/sid"
)

// App owns the page-wide shared state spec §4.8 requires: "the runtime
// lazily creates the shared reactive substrate on first need: the
// global and URL namespaces are created up front and used by all
// declarative roots on the page."
type App struct {
	Store *reactive.Store
	Exprs *compile.Cache
	opts  Options

	walker *render.Walker

	mu             sync.Mutex
	globalInitSet  bool
	anyRootMounted bool
	roots          map[string]*Root
	hookInstalled  bool
}

// New builds an App. The global and url namespaces are created
// immediately, ahead of any explicit global-init or root mount, per
// spec §4.8's "regardless" clause.
func New(opts Options) *App {
	if opts.Logger != nil {
		obs.SetLogger(opts.Logger)
	}
	if opts.Dev != isDevBuild {
		obs.Warnw("Options.Dev disagrees with the compiled render policy",
			"options.dev", opts.Dev, "compiled.dev", isDevBuild)
	}

	store := reactive.New()
	exprs := compile.NewCache()
	a := &App{
		Store:  store,
		Exprs:  exprs,
		opts:   opts,
		walker: render.New(store, exprs, opts.Imports),
		roots:  make(map[string]*Root),
	}
	a.Store.EnsureNamespace("global", nil)
	a.Store.EnsureNamespace("url", nil)
	return a
}

// SetGlobalInit implements spec §4.8's global-init tag: src is the raw
// markup of that single element (e.g. `<global-init init="{…}">`); its
// `init` expression is evaluated once, in pure mode, and deep-merged
// into the global namespace. It must run before any root is mounted —
// "must precede any declarative root" — and at most once per page.
func (a *App) SetGlobalInit(src string) error {
	a.mu.Lock()
	if a.anyRootMounted {
		a.mu.Unlock()
		return derrors.Structural("global-init must precede any declarative root")
	}
	if a.globalInitSet {
		a.mu.Unlock()
		return derrors.Structural("a page may contain at most one global-init tag")
	}
	a.mu.Unlock()

	nodes, err := htmlsrc.ParseFragment(src)
	if err != nil {
		return err
	}
	if len(nodes) != 1 || !nodes[0].IsElement() {
		return derrors.SyntaxShape("global-init", "must be a single element")
	}
	initExpr, ok := nodes[0].Attr("init")
	if !ok {
		return derrors.SyntaxShape("global-init", "missing init attribute")
	}

	params := compile.Params{Scope: scope.Root(), Store: a.Store, Mode: handle.Pure, Imports: a.opts.Imports}
	v, err := compile.InterpolateValue(a.walker.Interp, a.Exprs, initExpr, params)
	if err != nil {
		return err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return derrors.InitShape("global-init", "init must evaluate to an object")
	}

	existing := a.Store.EnsureNamespace("global", nil)
	if err := mergo.Merge(&existing, obj, mergo.WithOverride); err != nil {
		return derrors.Wrap(err, derrors.CodeInitShape, "global-init merge failed")
	}
	a.Store.ResetNamespace("global", existing)

	a.mu.Lock()
	a.globalInitSet = true
	a.mu.Unlock()
	return nil
}

// MountRoot implements spec §4.8's per-root mount: it clones the root's
// children (childrenSrc, parsed fresh so the live container's own
// clearing on mount never touches the authored template), hoists any
// component definitions found within, builds a top-level scope carrying
// the global and url handles, and processes the root's own reserved
// attributes in the same fixed order as any element.
func (a *App) MountRoot(id string, attrs map[string]string, childrenSrc string) (*Root, error) {
	a.mu.Lock()
	a.anyRootMounted = true
	a.mu.Unlock()

	nodes, err := htmlsrc.ParseFragment(childrenSrc)
	if err != nil {
		return nil, err
	}
	nodes = a.walker.Prepare(nodes)

	rootScope := scope.Root()
	if err := rootScope.BindHandle("global", handle.New("global")); err != nil {
		return nil, err
	}
	if err := rootScope.BindHandle("url", handle.New("url")); err != nil {
		return nil, err
	}

	rootCtx := &render.Context{Scope: rootScope, SID: sid.Root(id)}
	processedCtx, err := a.walker.MountRoot(rootCtx, id, attrs)
	if err != nil {
		return nil, err
	}

	root := &Root{id: id, app: a, ctx: processedCtx, template: nodes}
	a.mu.Lock()
	a.roots[id] = root
	a.mu.Unlock()
	return root, nil
}
