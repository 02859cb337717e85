package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/declarui/declarui/compile"
	"github.com/declarui/declarui/derrors"
	"github.com/declarui/declarui/handle"
	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/declarui/declarui/scope"
	"github.com/declarui/declarui/sid"
	"github.com/declarui/declarui/vdom"
)

type bindingRole struct {
	name string
	role string
}

const (
	markerIndex = "index"
	markerField = "field"
	markerExpr  = "expr"
)

type eachSpec struct {
	bindings       []bindingRole
	collectionExpr string
	markerKind     string
	markerExpr     string
}

// parseEachGrammar parses spec §4.5's `each` grammar: "BINDINGS of {EXPR}
// marked by MARKER". Both bracketed clauses are extracted with the same
// first-that-compiles, balanced-brace-tolerant rule spec.md mandates for
// this grammar and §4.3 defines for general interpolation
// (compile.Cache.FirstCompilingBrace) — a `{...}` span is accepted only
// once its contents actually compile under signature, so a nested
// string or object literal that happens to contain the literal text
// " of " or " marked by " never gets mistaken for the real keyword.
func parseEachGrammar(raw string, exprs *compile.Cache, signature string) (eachSpec, error) {
	ofIdx := findTopLevelKeyword(raw, " of ")
	if ofIdx < 0 {
		return eachSpec{}, derrors.SyntaxShape("each", "missing 'of'")
	}
	bindingsPart := strings.TrimSpace(raw[:ofIdx])
	rest := strings.TrimLeft(raw[ofIdx+len(" of "):], " \t")

	collectionExpr, afterColl, ok := exprs.FirstCompilingBrace(rest, 0, signature)
	if !ok {
		return eachSpec{}, derrors.SyntaxShape("each", "'of' expression must be braced")
	}
	afterCollStr := strings.TrimLeft(rest[afterColl:], " \t")
	const markedByKw = "marked by "
	if !strings.HasPrefix(afterCollStr, markedByKw) {
		return eachSpec{}, derrors.SyntaxShape("each", "missing 'marked by'")
	}
	markerPart := strings.TrimSpace(afterCollStr[len(markedByKw):])

	spec := eachSpec{collectionExpr: collectionExpr}

	switch markerPart {
	case markerIndex:
		spec.markerKind = markerIndex
	case markerField:
		spec.markerKind = markerField
	default:
		expr, end, ok := exprs.FirstCompilingBrace(markerPart, 0, signature)
		if !ok || strings.TrimSpace(markerPart[end:]) != "" {
			return eachSpec{}, derrors.SyntaxShape("each", "'marked by' must be 'index', 'field', or a braced expression")
		}
		spec.markerKind = markerExpr
		spec.markerExpr = expr
	}

	for _, tok := range splitTopLevel(bindingsPart) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		var b bindingRole
		if idx := strings.Index(tok, " as "); idx >= 0 {
			b.name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tok[:idx]), "$"))
			b.role = strings.TrimSpace(tok[idx+len(" as "):])
		} else {
			b.name = strings.TrimSpace(strings.TrimPrefix(tok, "$"))
			b.role = "value"
		}
		spec.bindings = append(spec.bindings, b)
	}
	return spec, nil
}

// findTopLevelKeyword returns the index of kw's first occurrence in s
// that sits outside any {}/[]/() nesting and outside any quoted string,
// or -1 if none is found — the same depth/quote tracking splitTopLevel
// uses, applied to keyword search instead of comma splitting so a
// binding alias or expression body can safely contain the literal text
// of a grammar keyword.
func findTopLevelKeyword(s, kw string) int {
	var depth int
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
			continue
		case c == '\'' || c == '"':
			quote = c
			continue
		case c == '{' || c == '[' || c == '(':
			depth++
			continue
		case c == '}' || c == ']' || c == ')':
			depth--
			continue
		}
		if depth == 0 && strings.HasPrefix(s[i:], kw) {
			return i
		}
	}
	return -1
}

// expandLoop implements iteration (spec §4.5). It returns the flat
// fragment of children produced across all rows and whether any row
// was produced at all, so the caller can trigger a following `<Else>`
// fallback on zero rows.
func (w *Walker) expandLoop(ctx *Context, node *htmlsrc.Node, segment string) ([]*vdom.VNode, bool, error) {
	id := ctx.SID.Child(segment)
	sc, err := w.forkAndProcess(ctx, node, id)
	if err != nil {
		return nil, false, err
	}

	eachAttr, ok := node.Attr("each")
	if !ok {
		return nil, false, derrors.SyntaxShape("each", "Loop element missing each attribute")
	}
	spec, err := parseEachGrammar(eachAttr, w.Exprs, sc.Signature())
	if err != nil {
		return nil, false, err
	}

	collVal, err := w.Exprs.Eval(spec.collectionExpr, w.pureParams(sc))
	if err != nil {
		return nil, false, err
	}
	if view, ok := collVal.(*handle.View); ok {
		collVal = view.Value()
	}

	type row struct {
		key   string
		index int
		value any
	}
	var rows []row
	isArray := false

	switch coll := collVal.(type) {
	case []any:
		isArray = true
		for i, v := range coll {
			rows = append(rows, row{index: i, value: v})
		}
	case map[string]any:
		keys := make([]string, 0, len(coll))
		for k := range coll {
			keys = append(keys, k)
		}
		// Go maps carry no insertion order; keys are sorted for
		// deterministic, reproducible iteration across renders.
		sort.Strings(keys)
		for i, k := range keys {
			rows = append(rows, row{key: k, index: i, value: coll[k]})
		}
	case nil:
		// empty collection, no rows
	default:
		return nil, false, derrors.SyntaxShape("each", fmt.Sprintf("'of' expression did not evaluate to an array or object (got %T)", collVal))
	}

	if spec.markerKind == markerIndex && !isArray {
		return nil, false, derrors.SyntaxShape("each", "'marked by index' requires an array")
	}
	if spec.markerKind == markerField && isArray {
		return nil, false, derrors.SyntaxShape("each", "'marked by field' requires an object")
	}

	seenMarkers := make(map[string]bool)
	var out []*vdom.VNode

	for _, r := range rows {
		rowScope := sc.Fork()
		isFirst := r.index == 0
		isLast := r.index == len(rows)-1
		for _, b := range spec.bindings {
			if err := bindRole(rowScope, b, isArray, r.key, r.index, r.value, isFirst, isLast); err != nil {
				return nil, false, err
			}
		}

		var markerVal any
		switch spec.markerKind {
		case markerIndex:
			markerVal = r.index
		case markerField:
			markerVal = r.key
		default:
			markerVal, err = w.Exprs.Eval(spec.markerExpr, w.pureParams(rowScope))
			if err != nil {
				return nil, false, err
			}
		}
		ms := sid.Stringify(markerVal)
		if seenMarkers[ms] {
			return nil, false, derrors.DuplicateMarker(ms)
		}
		seenMarkers[ms] = true

		rowID := id.Iteration("row", markerVal)
		childCtx := &Context{Scope: rowScope, SID: rowID, Slots: ctx.Slots, ComponentName: ctx.ComponentName}
		rendered, err := w.walkChildren(childCtx, node.Children)
		if err != nil {
			return nil, false, err
		}
		out = append(out, rendered...)
	}

	return out, len(rows) > 0, nil
}

func bindRole(sc *scope.Scope, b bindingRole, isArray bool, key string, index int, value any, isFirst, isLast bool) error {
	switch b.role {
	case "value":
		return sc.BindValue(b.name, value)
	case "index":
		return sc.BindValue(b.name, index)
	case "field":
		if isArray {
			return derrors.SyntaxShape("each", "role 'field' is only valid for object iteration")
		}
		return sc.BindValue(b.name, key)
	case "isFirst":
		return sc.BindValue(b.name, isFirst)
	case "isLast":
		return sc.BindValue(b.name, isLast)
	default:
		return derrors.SyntaxShape("each", "unknown binding role '"+b.role+"'")
	}
}
