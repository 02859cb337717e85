// Package urlsync implements spec §4.7: two-way synchronization between
// the URL fragment and the "url" reactive namespace. The parsing and
// serialization logic here is pure and host-agnostic; the js/wasm-only
// half (sync_wasm.go) discovers the mounted URL-annotation nodes in the
// live document and wires this package to `window.location.hash` and
// the `hashchange` event.
package urlsync

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// List is one URL tag's included/transient key lists, as recorded on
// its rendered container's data attributes (render/url.go).
type List struct {
	Included  []string
	Transient []string
}

// ParseFragment implements spec §4.7's inbound half: the fragment's
// leading "#" and every "#"-joined segment are parsed and merged into a
// single flat map, which becomes the entire url namespace ("set...
// never partially"). A segment is either a URL-safe query string or a
// URL-encoded JSON object literal; both forms are accepted regardless
// of which produced it.
func ParseFragment(fragment string) (map[string]any, error) {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return map[string]any{}, nil
	}
	out := make(map[string]any)
	for _, seg := range strings.Split(fragment, "#") {
		if seg == "" {
			continue
		}
		parsed, err := parseSegment(seg)
		if err != nil {
			return nil, err
		}
		for k, v := range parsed {
			out[k] = v
		}
	}
	return out, nil
}

func parseSegment(seg string) (map[string]any, error) {
	if decoded, err := url.QueryUnescape(seg); err == nil {
		trimmed := strings.TrimSpace(decoded)
		if strings.HasPrefix(trimmed, "{") {
			var m map[string]any
			if err := json.Unmarshal([]byte(trimmed), &m); err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	values, err := url.ParseQuery(seg)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) == 0 {
			continue
		}
		// spec.md's worked example (#tab=profile&count=3) parses count as
		// the string "3", not a number — a query-string segment's scalars
		// stay strings; only a JSON segment (see parseSegment above)
		// preserves numeric/boolean types.
		out[k] = vs[0]
	}
	return out, nil
}

// BuildFragment implements spec §4.7's outbound half: the union of
// included keys across every mounted list becomes one segment, the
// union of transient keys becomes another, each filtered from namespace
// and serialized independently, joined by "#" with a single leading
// "#". An empty union contributes no segment; no keys at all yields "".
func BuildFragment(namespace map[string]any, lists []List) string {
	included := union(lists, func(l List) []string { return l.Included })
	transient := union(lists, func(l List) []string { return l.Transient })

	var segs []string
	if s := serializeKeys(namespace, included); s != "" {
		segs = append(segs, s)
	}
	if s := serializeKeys(namespace, transient); s != "" {
		segs = append(segs, s)
	}
	if len(segs) == 0 {
		return ""
	}
	return "#" + strings.Join(segs, "#")
}

func union(lists []List, pick func(List) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		for _, k := range pick(l) {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}

// serializeKeys filters namespace to keys and serializes the result: a
// query string for a purely scalar map, a URL-encoded JSON object when
// any value is a map or slice (spec §4.7). Keys are sorted for stable
// output.
func serializeKeys(namespace map[string]any, keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	filtered := make(map[string]any, len(keys))
	complex := false
	for _, k := range keys {
		v, ok := namespace[k]
		if !ok {
			continue
		}
		filtered[k] = v
		switch v.(type) {
		case map[string]any, []any:
			complex = true
		}
	}
	if len(filtered) == 0 {
		return ""
	}
	if complex {
		b, err := json.Marshal(filtered)
		if err != nil {
			return ""
		}
		return url.QueryEscape(string(b))
	}

	sortedKeys := make([]string, 0, len(filtered))
	for k := range filtered {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)
	var parts []string
	for _, k := range sortedKeys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(scalarString(filtered[k])))
	}
	return strings.Join(parts, "&")
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
