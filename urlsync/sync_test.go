package urlsync_test

import (
	"testing"

	"github.com/declarui/declarui/urlsync"
	"github.com/stretchr/testify/require"
)

func TestParseFragmentScalarSegment(t *testing.T) {
	data, err := urlsync.ParseFragment("#tab=settings&page=2")
	require.NoError(t, err)
	require.Equal(t, "settings", data["tab"])
	require.Equal(t, "2", data["page"])
}

func TestParseFragmentJSONSegment(t *testing.T) {
	data, err := urlsync.ParseFragment("#" + `%7B%22filters%22%3A%5B%22a%22%2C%22b%22%5D%7D`)
	require.NoError(t, err)
	require.Equal(t, []any{"a", "b"}, data["filters"])
}

func TestParseFragmentEmpty(t *testing.T) {
	data, err := urlsync.ParseFragment("")
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestBuildFragmentUnionsAcrossLists(t *testing.T) {
	ns := map[string]any{"tab": "settings", "page": int64(2), "draft": "x"}
	lists := []urlsync.List{
		{Included: []string{"tab"}},
		{Included: []string{"page"}},
		{Transient: []string{"draft"}},
	}
	frag := urlsync.BuildFragment(ns, lists)
	require.Equal(t, "#page=2&tab=settings#draft=x", frag)
}

func TestBuildFragmentComplexValueUsesJSON(t *testing.T) {
	ns := map[string]any{"filters": []any{"a", "b"}}
	lists := []urlsync.List{{Included: []string{"filters"}}}
	frag := urlsync.BuildFragment(ns, lists)
	require.Equal(t, "#"+`%7B%22filters%22%3A%5B%22a%22%2C%22b%22%5D%7D`, frag)
}

func TestBuildFragmentEmptyWhenNoKeys(t *testing.T) {
	require.Equal(t, "", urlsync.BuildFragment(map[string]any{"a": 1}, nil))
}

func TestRoundTripThroughFragment(t *testing.T) {
	// A query-string segment's scalars come back as strings even when the
	// namespace held a number before serialization — matching spec.md's
	// own worked example (#tab=profile&count=3 parses to
	// {tab:"profile", count:"3"}), not the numeric type of the source.
	ns := map[string]any{"tab": "settings", "page": int64(2)}
	lists := []urlsync.List{{Included: []string{"tab", "page"}}}
	frag := urlsync.BuildFragment(ns, lists)
	back, err := urlsync.ParseFragment(frag)
	require.NoError(t, err)
	require.Equal(t, ns["tab"], back["tab"])
	require.Equal(t, "2", back["page"])
}

func TestParseFragmentNumericLookingScalarStaysString(t *testing.T) {
	data, err := urlsync.ParseFragment("#tab=profile&count=3")
	require.NoError(t, err)
	require.Equal(t, "profile", data["tab"])
	require.Equal(t, "3", data["count"])
}
