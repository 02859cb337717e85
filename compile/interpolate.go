package compile

import (
	"fmt"
	"strings"
	"sync"

	"github.com/declarui/declarui/console"
)

// Segment is one piece of a parsed interpolation: either a literal run
// of text or an expression body to evaluate.
type Segment struct {
	Literal string
	IsExpr  bool
	Expr    string
}

// Interpolation is a string's parsed literal/expression segments, spec
// §4.3's "Parsed interpolation structure".
type Interpolation struct {
	Segments []Segment
}

// IsSingleExpr reports whether the whole interpolation is exactly one
// expression segment with no surrounding literal text — the case
// interpolateValue needs to preserve the evaluated value's own type.
func (in *Interpolation) IsSingleExpr() (string, bool) {
	if len(in.Segments) == 1 && in.Segments[0].IsExpr {
		return in.Segments[0].Expr, true
	}
	return "", false
}

// InterpCache caches parsed Interpolations by (text, handle-signature),
// separately from Cache's compiled Programs, since parsing an
// interpolation's segment boundaries and compiling each segment's body
// are distinct steps that spec §4.3 both calls out as cacheable.
type InterpCache struct {
	mu    sync.RWMutex
	exprs *Cache
	byKey map[cacheKey]*Interpolation
}

// NewInterpCache builds an InterpCache that compiles expression segments
// through exprs (so segment compilation shares the same expression
// cache and miss counters as everything else).
func NewInterpCache(exprs *Cache) *InterpCache {
	return &InterpCache{exprs: exprs, byKey: make(map[cacheKey]*Interpolation)}
}

// Parse returns the cached Interpolation for (text, signature), applying
// the "first-that-compiles" rule (spec §4.3) on a cache miss: starting
// at each `{`, try each subsequent `}` in source order and accept the
// first span that compiles as a valid expression under signature; if
// none compiles, the `{` is literal text.
func (ic *InterpCache) Parse(text, signature string) *Interpolation {
	key := cacheKey{text: text, sig: signature}

	ic.mu.RLock()
	if in, ok := ic.byKey[key]; ok {
		ic.mu.RUnlock()
		return in
	}
	ic.mu.RUnlock()

	ic.mu.Lock()
	defer ic.mu.Unlock()
	if in, ok := ic.byKey[key]; ok {
		return in
	}
	in := &Interpolation{Segments: ic.split(text, signature)}
	ic.byKey[key] = in
	return in
}

func (ic *InterpCache) split(text, signature string) []Segment {
	var segs []Segment
	var lit strings.Builder
	n := len(text)
	i := 0
	for i < n {
		if text[i] != '{' {
			lit.WriteByte(text[i])
			i++
			continue
		}
		expr, end, ok := ic.exprs.FirstCompilingBrace(text, i, signature)
		if !ok {
			lit.WriteByte(text[i])
			i++
			continue
		}
		if lit.Len() > 0 {
			segs = append(segs, Segment{Literal: lit.String()})
			lit.Reset()
		}
		segs = append(segs, Segment{IsExpr: true, Expr: expr})
		i = end
	}
	if lit.Len() > 0 {
		segs = append(segs, Segment{Literal: lit.String()})
	}
	return segs
}

// InterpolateText stringifies every segment of text (spec §4.3): a
// segment that errors is rendered as a bracketed marker and reported on
// the console side channel, so one bad expression never blanks the rest
// of a text node. This runs on the pure-evaluation hot path, so the
// side channel is the browser console (a no-op on native builds), never
// internal/obs — obs is process-level logging for code with no document
// to write to, and pure evaluation must stay allocation-light.
func InterpolateText(ic *InterpCache, exprs *Cache, text string, p Params) string {
	in := ic.Parse(text, p.Scope.Signature())
	var out strings.Builder
	for _, seg := range in.Segments {
		if !seg.IsExpr {
			out.WriteString(seg.Literal)
			continue
		}
		v, err := exprs.Eval(seg.Expr, p)
		if err != nil {
			console.Warn("interpolation segment failed:", seg.Expr, err.Error())
			out.WriteString("[Error: " + err.Error() + "]")
			continue
		}
		out.WriteString(displayString(v))
	}
	return out.String()
}

// InterpolateValue returns the raw evaluated value of text when text is
// exactly one expression segment (preserving its type); otherwise it
// falls back to text stringification like InterpolateText. Errors are
// not tolerated here — spec §4.3: "interpolateValue ... Errors are
// thrown" — since a value-typed attribute has no sensible bracketed
// fallback the way text content does.
func InterpolateValue(ic *InterpCache, exprs *Cache, text string, p Params) (any, error) {
	in := ic.Parse(text, p.Scope.Signature())
	if expr, ok := in.IsSingleExpr(); ok {
		return exprs.Eval(expr, p)
	}
	var out strings.Builder
	for _, seg := range in.Segments {
		if !seg.IsExpr {
			out.WriteString(seg.Literal)
			continue
		}
		v, err := exprs.Eval(seg.Expr, p)
		if err != nil {
			return nil, err
		}
		out.WriteString(displayString(v))
	}
	return out.String(), nil
}

func displayString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
