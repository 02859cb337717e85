package bootstrap

import (
	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/declarui/declarui/render"
	"github.com/declarui/declarui/vdom"
)

// Root is one mounted declarative root: its own top-level scope
// (global/url handles plus whatever its own reserved attributes bound),
// its cloned template, and — once mounted to a live document — the
// mount point and the last tree patched into it.
type Root struct {
	id       string
	app      *App
	ctx      *render.Context
	template []*htmlsrc.Node

	mountEl  any // js.Value on the js/wasm build; unused natively
	lastTree *vdom.VNode
}

// ID returns the root's declared id.
func (r *Root) ID() string { return r.id }

// Render runs one full pass over the root's template: a fresh
// BeginPass/EndPass bracket (the "instance/local-namespace reuse and
// cleanup" supplemented feature) around the walk, wrapped in the
// dev/prod panic policy (lifecycle_dev.go / lifecycle_prod.go).
func (r *Root) Render() ([]*vdom.VNode, error) {
	return renderWithPolicy(func() ([]*vdom.VNode, error) {
		r.app.walker.BeginPass()
		defer r.app.walker.EndPass()
		return r.app.walker.Walk(r.ctx, r.template)
	}, r.id)
}
