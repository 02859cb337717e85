// Package sid implements spec §4.4's Structural Identifier algorithm: a
// stable per-node identifier computed from a parent SID, the node's
// *source* position (never its rendered position), and an optional
// iteration key. Grounded on the teacher's closest analog — RendererImpl.
// RenderChild's plain fmt.Sprintf-composed key in
// vcrobe-nojs-lab/runtime/renderer_impl.go — generalized from "one
// composite string per child call" into a proper chained ID type so
// render.Walker can carry it down through nested structural tags without
// re-deriving the parent chain each time.
package sid

import (
	"fmt"
	"strconv"
)

// ID is an opaque, stable structural identifier. Two IDs are the same
// node identity iff their string forms are equal.
type ID string

// Root is the SID of a declarative root, keyed by the root element's own
// identifier (its DOM id or a bootstrap-assigned mount name).
func Root(rootName string) ID {
	return ID(rootName)
}

// Child extends id by segment — the node's fixed source-position marker
// (e.g. a stable per-template child index or tag path), never a
// currently-rendered sibling index. This is what spec's "SID stability
// under neighbor change" invariant depends on: a conditional or
// iteration sibling that stops rendering must not shift any other
// child's segment.
func (id ID) Child(segment string) ID {
	if id == "" {
		return ID(segment)
	}
	return ID(string(id) + "/" + segment)
}

// Iteration extends id by segment (render's Loop passes a fixed "row"
// segment under the Loop's own SID) and then by the per-row marker key, so each
// expanded row gets its own stable identity independent of row order
// (spec's end-to-end scenario 2: reordering `users` keeps each row's
// input bound to its own id).
func (id ID) Iteration(segment string, marker any) ID {
	return id.Child(segment).withMarker(marker)
}

func (id ID) withMarker(marker any) ID {
	return ID(string(id) + "[" + Stringify(marker) + "]")
}

// Stringify renders an iteration marker (or any comparable authored
// value) to a stable string. Spec §9's open question notes markers may
// be arbitrary expressions; today's stable-stringification behavior is
// kept, per DESIGN.md's decision on that open question.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// String returns the SID's opaque string form.
func (id ID) String() string { return string(id) }
