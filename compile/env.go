package compile

import (
	"strings"

	"github.com/declarui/declarui/exprlang"
	"github.com/declarui/declarui/handle"
	"github.com/declarui/declarui/reactive"
	"github.com/declarui/declarui/scope"
)

// ImportResolver satisfies an `import`-declared identifier from outside
// the reactive substrate entirely (spec §4.2's "ambient external
// binding"). Bootstrap installs one when wiring host-provided functions
// or values into a page.
type ImportResolver func(name string) (any, bool)

// Params bundles everything Evaluation (spec §4.3) needs to build an
// environment for one call: which scope to resolve names against, which
// store backs any handle proxies it mints, which mode (Pure for `{…}`,
// Effect for `@{…}`) those proxies open in, and how to satisfy imports.
type Params struct {
	Scope   *scope.Scope
	Store   *reactive.Store
	Mode    handle.Mode
	Imports ImportResolver
}

// scopeEnv adapts a Params bundle to exprlang.Env. Spec §4.3's textual
// "@Foo.bar → RESERVED_Foo.bar" rewrite exists to make expressions valid
// input for a foreign source compiler; since exprlang resolves `$name`
// and `@name` identifiers directly (see SPEC_FULL.md's REDESIGN FLAGS),
// this is where that resolution actually happens, at evaluation time
// rather than as a text-preprocessing step.
type scopeEnv struct {
	p Params
}

// NewEnv builds the exprlang.Env used to evaluate a Program under p.
func NewEnv(p Params) exprlang.Env {
	return scopeEnv{p: p}
}

func (e scopeEnv) Resolve(name string) (any, bool) {
	switch {
	case strings.HasPrefix(name, "$"):
		return e.p.Scope.LookupValue(name[1:])
	case strings.HasPrefix(name, "@"):
		h, ok := e.p.Scope.LookupHandle(name[1:])
		if !ok {
			return nil, false
		}
		return handle.NewView(e.p.Store, h, e.p.Mode), true
	default:
		if !e.p.Scope.IsImport(name) {
			return nil, false
		}
		if e.p.Imports == nil {
			return nil, false
		}
		return e.p.Imports(name)
	}
}
