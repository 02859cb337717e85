package reactive_test

import (
	"testing"

	"github.com/declarui/declarui/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	s := reactive.New()
	s.Write("global", []string{"user", "name"}, "Ada")

	v, ok := s.Read("global", []string{"user", "name"})
	require.True(t, ok)
	assert.Equal(t, "Ada", v)
}

func TestReadMissingIntermediateIsUndefined(t *testing.T) {
	s := reactive.New()
	_, ok := s.Read("global", []string{"a", "b", "c"})
	assert.False(t, ok)
}

func TestWriteNotifiesSubscribersOnFlush(t *testing.T) {
	s := reactive.New()
	fired := 0
	unsub := s.Subscribe("global", func() { fired++ })
	defer unsub()

	s.Write("global", []string{"x"}, 1)
	s.Write("global", []string{"y"}, 2)
	assert.Equal(t, 0, fired, "notification is batched, not synchronous")

	s.Flush()
	assert.Equal(t, 1, fired, "two writes to one root fire the subscriber once")
}

func TestUnsubscribeStopsNotification(t *testing.T) {
	s := reactive.New()
	fired := 0
	unsub := s.Subscribe("global", func() { fired++ })
	unsub()

	s.Write("global", []string{"x"}, 1)
	s.Flush()
	assert.Equal(t, 0, fired)
}

func TestIndexIntoArray(t *testing.T) {
	s := reactive.New()
	s.ResetNamespace("global", map[string]any{
		"users": []any{
			map[string]any{"name": "A"},
			map[string]any{"name": "B"},
		},
	})

	v, ok := s.Read("global", []string{"users", "1", "name"})
	require.True(t, ok)
	assert.Equal(t, "B", v)

	s.Write("global", []string{"users", "0", "name"}, "Z")
	v, _ = s.Read("global", []string{"users", "0", "name"})
	assert.Equal(t, "Z", v)
}

func TestResetNamespaceReplacesWholesale(t *testing.T) {
	s := reactive.New()
	s.Write("url", []string{"tab"}, "old")
	s.ResetNamespace("url", map[string]any{"count": "3"})

	_, ok := s.Read("url", []string{"tab"})
	assert.False(t, ok)
	v, ok := s.Read("url", []string{"count"})
	require.True(t, ok)
	assert.Equal(t, "3", v)
}
