// Package handle implements spec §4.1: a value-less reference to a place
// in reactive state (Handle), and the two-mode proxy (View) that
// evaluated expressions actually touch. Separating "where" from "what" is
// the central design decision of the runtime (spec §9) — a Handle is pure
// data (safe to pass around, compare, put in a map key), a View is the
// live façade bound to one Store for the duration of one evaluation.
package handle

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/declarui/declarui/derrors"
	"github.com/declarui/declarui/reactive"
)

// Handle is the pair (root namespace name, path segments) from spec §3.
// Identity is structural: two Handles with equal Root and Path are the
// same handle even if constructed independently, which is what lets
// "def" aliasing and component self-handles compare cleanly.
type Handle struct {
	Root string
	Path []string
}

// New constructs a root handle (no path) into the given namespace.
func New(root string) Handle {
	return Handle{Root: root}
}

// Child extends the handle by one path segment, as spec §3 requires
// ("Handles are extended by path-segment append").
func (h Handle) Child(seg string) Handle {
	next := make([]string, len(h.Path)+1)
	copy(next, h.Path)
	next[len(h.Path)] = seg
	return Handle{Root: h.Root, Path: next}
}

// Extend appends every segment of other's path onto h, used by "@NAME :=
// @HANDLE.path" declarations which concatenate paths under a shared root
// (spec §4.2).
func (h Handle) Extend(segs ...string) Handle {
	next := make([]string, len(h.Path)+len(segs))
	copy(next, h.Path)
	copy(next[len(h.Path):], segs)
	return Handle{Root: h.Root, Path: next}
}

// Equal reports structural equality.
func (h Handle) Equal(o Handle) bool {
	if h.Root != o.Root || len(h.Path) != len(o.Path) {
		return false
	}
	for i := range h.Path {
		if h.Path[i] != o.Path[i] {
			return false
		}
	}
	return true
}

// String renders a handle as "@root.a.b" for diagnostics.
func (h Handle) String() string {
	if len(h.Path) == 0 {
		return "@" + h.Root
	}
	return "@" + h.Root + "." + strings.Join(h.Path, ".")
}

// Mode distinguishes the two proxy modes of spec §4.1.
type Mode int

const (
	Pure Mode = iota
	Effect
)

// View is the live, mode-tagged proxy over a Handle against a Store. Every
// expression parameter bound to a handle alias evaluates to a *View
// (compile §4.3's "Evaluation" step): pure-mode for `{…}` bodies,
// effect-mode for `@{…}` bodies.
type View struct {
	store *reactive.Store
	h     Handle
	mode  Mode
}

// NewView wraps h for reading/writing through store in the given mode.
func NewView(store *reactive.Store, h Handle, mode Mode) *View {
	return &View{store: store, h: h, mode: mode}
}

// Handle returns the underlying value-less reference.
func (v *View) Handle() Handle { return v.h }

// Mode returns which proxy mode this view is in.
func (v *View) Mode() Mode { return v.mode }

// Value reads the value the handle currently points at, or nil if any
// intermediate segment is missing (spec §4.1's null-safe read).
func (v *View) Value() any {
	val, ok := v.store.Read(v.h.Root, v.h.Path)
	if !ok {
		return nil
	}
	return val
}

// Get performs property access: object-valued results yield a nested View
// over the extended handle (null-safe chaining continues even through a
// missing intermediate); everything else — primitives, slices, funcs — is
// returned as-is, exactly as spec §4.1 describes for both modes (reads
// never differ between Pure and Effect).
func (v *View) Get(name string) any {
	child := v.h.Child(name)
	val, ok := v.store.Read(child.Root, child.Path)
	if !ok {
		return NewView(v.store, child, v.mode)
	}
	if _, isMap := val.(map[string]any); isMap {
		return NewView(v.store, child, v.mode)
	}
	return val
}

// Index performs `handle[key]` access. Numeric keys address array
// elements (converted to a decimal path segment, per reactive.Store's
// array-aware Read); any other key is stringified and treated as a
// property name.
func (v *View) Index(key any) any {
	return v.Get(segmentOf(key))
}

// Set writes value at handle.name. Only legal in Effect mode; a Pure-mode
// call returns derrors.PureMutation and leaves the store untouched, which
// is how "{ (@Global.x = 1) }" is rejected per spec Testable Property
// "Pure purity" and end-to-end scenario 5.
func (v *View) Set(name string, value any) error {
	if v.mode == Pure {
		return derrors.PureMutation(v.h.Child(name).String())
	}
	child := v.h.Child(name)
	v.store.Write(child.Root, child.Path, value)
	return nil
}

// SetIndex is Set's counterpart for `handle[key] = value`.
func (v *View) SetIndex(key any, value any) error {
	return v.Set(segmentOf(key), value)
}

// WriteSelf writes value at the handle's own path (used for a bare
// "@Local = {…}" assignment target rather than a member of it).
func (v *View) WriteSelf(value any) error {
	if v.mode == Pure {
		return derrors.PureMutation(v.h.String())
	}
	if len(v.h.Path) == 0 {
		v.store.ResetNamespace(v.h.Root, toMap(value))
		return nil
	}
	v.store.Write(v.h.Root, v.h.Path, value)
	return nil
}

// String coerces to a string-hint primitive: the current value's default
// string form, or "" if the handle currently reads as null/undefined —
// spec §4.1's "coercion to primitive returns the current value (or empty
// string for string-hint on null)".
func (v *View) String() string {
	val := v.Value()
	if val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprint(val)
}

// Snapshot returns a deep, independent copy of the current value — the
// "conceptual valueOf that returns a deep-frozen snapshot" from spec
// §4.1. Go has no runtime freeze; independence of the copy is what makes
// mutating the returned value safe (it never aliases store state).
func (v *View) Snapshot() any {
	return deepCopy(v.Value())
}

func segmentOf(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case int:
		return strconv.Itoa(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case float64:
		if k == float64(int64(k)) {
			return strconv.FormatInt(int64(k), 10)
		}
		return strconv.FormatFloat(k, 'g', -1, 64)
	default:
		return fmt.Sprint(k)
	}
}

func toMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
