// Package scope implements spec §3's Scope and §4.2's declaration forms.
// A Scope is a lexical chain of Frames; lookups walk from the innermost
// frame outward. Case-insensitivity for `$`-values and handle aliases is
// implemented by folding every stored key to upper-case internally while
// keeping the author's original-case spelling alongside it, mirroring how
// the compiler (package compile) needs both forms: the canonical key for
// parameter naming and cache signatures, the original for alias mapping.
package scope

import (
	"sort"
	"strings"

	"github.com/declarui/declarui/derrors"
	"github.com/declarui/declarui/handle"
)

// binding pairs a value with the exact case the author used to declare it.
type binding struct {
	original string
	value    any
}

type handleBinding struct {
	original string
	h        handle.Handle
}

// Frame is one lexical level: a component instance, an iteration row, an
// element carrying `def`/`import`. Frames are never mutated after being
// observed by a compiled expression's cache signature without also
// invalidating that scope's flattened-view cache (see Scope.invalidate).
type Frame struct {
	values  map[string]binding       // canonical upper-case name -> binding
	handles map[string]handleBinding // canonical upper-case name -> binding
	imports map[string]bool          // case-sensitive import names
}

func newFrame() *Frame {
	return &Frame{
		values:  make(map[string]binding),
		handles: make(map[string]handleBinding),
		imports: make(map[string]bool),
	}
}

// Scope is an ordered chain of frames, root-most last is never nil since
// the chain always terminates.
type Scope struct {
	parent *Scope
	frame  *Frame

	flatValues  map[string]binding
	flatHandles map[string]handleBinding
	flatImports map[string]bool
	flatValid   bool
}

// Root creates a scope with no parent — the top-level scope built by
// bootstrap for each declarative root (spec §4.8).
func Root() *Scope {
	return &Scope{frame: newFrame()}
}

// Fork produces a child scope with a fresh empty local frame, per spec §3
// ("Scopes fork to produce children"). The parent is left untouched.
func (s *Scope) Fork() *Scope {
	return &Scope{parent: s, frame: newFrame()}
}

func canon(name string) string { return strings.ToUpper(name) }

// BindValue declares $NAME := value in this scope's local frame. Returns
// derrors.NameCollision if a case-insensitively equal name is already
// bound in this frame under a different case, whatever its value, per
// spec §4.2; rebinding the exact same spelling replaces the value.
func (s *Scope) BindValue(name string, value any) error {
	key := canon(name)
	if existing, ok := s.frame.values[key]; ok && existing.original != name {
		return derrors.NameCollision(name, "conflicts with existing binding '"+existing.original+"' in the same frame")
	}
	s.frame.values[key] = binding{original: name, value: value}
	s.invalidate()
	return nil
}

// BindHandle declares @NAME as an alias for h in this scope's local frame.
// A case-insensitive redeclaration in the same frame is only a collision
// when the two spellings name different handles; re-binding the same
// handle under another case (e.g. two `def` entries that happen to
// resolve to the same path) is a harmless no-op, per spec §4.3's
// "unless their referents are strictly equal".
func (s *Scope) BindHandle(name string, h handle.Handle) error {
	key := canon(name)
	if existing, ok := s.frame.handles[key]; ok && existing.original != name && !existing.h.Equal(h) {
		return derrors.NameCollision(name, "conflicts with existing handle alias '"+existing.original+"' in the same frame")
	}
	s.frame.handles[key] = handleBinding{original: name, h: h}
	s.invalidate()
	return nil
}

// BindImport declares an external identifier available for lookup. Import
// names are case-sensitive (spec §4.2), so they get their own namespace
// rather than folding into values/handles.
func (s *Scope) BindImport(name string) {
	s.frame.imports[name] = true
	s.invalidate()
}

func (s *Scope) invalidate() {
	s.flatValid = false
}

// flatten computes (and caches) the parent ⨁ local view, with local
// bindings shadowing parent ones by canonical name. Spec §3: "the cache
// is invalidated on any local mutation" — we invalidate lazily by
// recomputing whenever flatValid is false, which after BindValue/
// BindHandle/BindImport is always true until the next flatten.
func (s *Scope) flatten() {
	if s.flatValid {
		return
	}
	values := make(map[string]binding)
	handles := make(map[string]handleBinding)
	imports := make(map[string]bool)

	if s.parent != nil {
		s.parent.flatten()
		for k, v := range s.parent.flatValues {
			values[k] = v
		}
		for k, v := range s.parent.flatHandles {
			handles[k] = v
		}
		for k := range s.parent.flatImports {
			imports[k] = true
		}
	}
	for k, v := range s.frame.values {
		values[k] = v
	}
	for k, v := range s.frame.handles {
		handles[k] = v
	}
	for k := range s.frame.imports {
		imports[k] = true
	}

	s.flatValues = values
	s.flatHandles = handles
	s.flatImports = imports
	s.flatValid = true
}

// LookupValue resolves a $-prefixed name case-insensitively. ok is false
// if no frame in the chain bound it.
func (s *Scope) LookupValue(name string) (any, bool) {
	s.flatten()
	b, ok := s.flatValues[canon(name)]
	if !ok {
		return nil, false
	}
	return b.value, true
}

// LookupHandle resolves a handle alias case-insensitively.
func (s *Scope) LookupHandle(name string) (handle.Handle, bool) {
	s.flatten()
	b, ok := s.flatHandles[canon(name)]
	if !ok {
		return handle.Handle{}, false
	}
	return b.h, true
}

// IsImport reports whether name was declared via an `import` attribute
// anywhere in the chain (case-sensitive).
func (s *Scope) IsImport(name string) bool {
	s.flatten()
	return s.flatImports[name]
}

// HandleAliases returns every visible handle alias's original-case
// spelling paired with its canonical (upper-case) form.
type HandleAlias struct {
	Original  string
	Canonical string
	Handle    handle.Handle
}

func (s *Scope) HandleAliases() []HandleAlias {
	s.flatten()
	out := make([]HandleAlias, 0, len(s.flatHandles))
	for canonical, b := range s.flatHandles {
		out = append(out, HandleAlias{Original: b.original, Canonical: canonical, Handle: b.h})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Canonical < out[j].Canonical })
	return out
}

// Signature is the expression-cache key component from spec §4.3: "the
// sorted, upper-cased concatenation of handle-alias names visible in
// scope." Values do not participate — the compiled function is
// scope-structural, not value-structural.
func (s *Scope) Signature() string {
	aliases := s.HandleAliases()
	names := make([]string, len(aliases))
	for i, a := range aliases {
		names[i] = a.Canonical
	}
	return strings.Join(names, "|")
}
