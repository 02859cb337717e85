package dialogs_test

import (
	"testing"

	"github.com/declarui/declarui/dialogs"
	"github.com/declarui/declarui/exprlang"
	"github.com/stretchr/testify/require"
)

func TestResolverNamesTheThreeDialogPrimitives(t *testing.T) {
	for _, name := range []string{"alert", "confirm", "prompt"} {
		v, ok := dialogs.Resolver(name)
		require.True(t, ok, name)
		_, ok = v.(exprlang.Func)
		require.True(t, ok, "%s must resolve to an exprlang.Func", name)
	}
}

func TestResolverRejectsUnknownName(t *testing.T) {
	_, ok := dialogs.Resolver("nope")
	require.False(t, ok)
}

func TestConfirmResolverCallsThroughToStub(t *testing.T) {
	v, _ := dialogs.Resolver("confirm")
	fn := v.(exprlang.Func)
	result, err := fn("delete it?")
	require.NoError(t, err)
	require.Equal(t, true, result)
}
