package handle_test

import (
	"testing"

	"github.com/declarui/declarui/derrors"
	"github.com/declarui/declarui/handle"
	"github.com/declarui/declarui/reactive"
	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPureModeRejectsWrite(t *testing.T) {
	store := reactive.New()
	v := handle.NewView(store, handle.New("global"), handle.Pure)

	err := v.Set("x", 1)
	require.Error(t, err)
	var ce *cuserr.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, derrors.CodePureMutation, ce.Code)

	_, ok := store.Read("global", []string{"x"})
	assert.False(t, ok, "pure mutation must not touch the store")
}

func TestEffectModeWriteIsVisibleToPureRead(t *testing.T) {
	store := reactive.New()
	eff := handle.NewView(store, handle.New("global"), handle.Effect)
	pure := handle.NewView(store, handle.New("global"), handle.Pure)

	require.NoError(t, eff.Set("x", 42))
	assert.Equal(t, 42, pure.Get("x"))
}

func TestNullSafeChaining(t *testing.T) {
	store := reactive.New()
	v := handle.NewView(store, handle.New("global"), handle.Pure)

	nested := v.Get("a")
	nestedView, ok := nested.(*handle.View)
	require.True(t, ok, "missing intermediate yields a nested view, not nil")

	deeper := nestedView.Get("b")
	assert.Nil(t, deeper.(*handle.View).Value())
	assert.Equal(t, "", deeper.(*handle.View).String())
}

func TestObjectValuedReadYieldsNestedView(t *testing.T) {
	store := reactive.New()
	store.Write("global", []string{"user"}, map[string]any{"name": "Ada"})
	v := handle.NewView(store, handle.New("global"), handle.Pure)

	nested := v.Get("user")
	nestedView, ok := nested.(*handle.View)
	require.True(t, ok)
	assert.Equal(t, "Ada", nestedView.Get("name"))
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	store := reactive.New()
	store.Write("global", []string{"list"}, []any{1, 2, 3})
	v := handle.NewView(store, handle.New("global"), handle.Pure)

	snap := v.Get("list")
	// list is a slice (not a map), so Get returns the raw value directly.
	rawList, ok := snap.([]any)
	require.True(t, ok)
	rawList[0] = 999 // mutating the raw read does alias the store...

	listView := handle.NewView(store, handle.New("global").Child("list"), handle.Pure)
	frozen := listView.Snapshot().([]any)
	frozen[0] = -1 // ...but the snapshot copy must not alias it back.

	live, _ := store.Read("global", []string{"list"})
	assert.Equal(t, 999, live.([]any)[0])
}

func TestIndexAccessOnHandle(t *testing.T) {
	store := reactive.New()
	store.Write("global", []string{"users"}, []any{
		map[string]any{"name": "A"},
		map[string]any{"name": "B"},
	})
	v := handle.NewView(store, handle.New("global"), handle.Pure)
	users := v.Get("users").([]any)
	assert.Equal(t, "A", users[0].(map[string]any)["name"])

	usersHandle := handle.NewView(store, handle.New("global").Child("users"), handle.Pure)
	first := usersHandle.Index(0)
	firstView, ok := first.(*handle.View)
	require.True(t, ok)
	assert.Equal(t, "A", firstView.Get("name"))
}
