package compile_test

import (
	"testing"

	"github.com/declarui/declarui/compile"
	"github.com/declarui/declarui/exprlang"
	"github.com/declarui/declarui/handle"
	"github.com/declarui/declarui/reactive"
	"github.com/declarui/declarui/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheCompilesOncePerSignature(t *testing.T) {
	cache := compile.NewCache()
	store := reactive.New()

	sA := scope.Root()
	sB := scope.Root()

	pA := compile.Params{Scope: sA, Store: store, Mode: handle.Pure}
	pB := compile.Params{Scope: sB, Store: store, Mode: handle.Pure}

	v1, err := cache.Eval("1 + 1", pA)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v1)

	v2, err := cache.Eval("1 + 1", pB)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v2)

	assert.Equal(t, 1, cache.MissCount())
	assert.Equal(t, 1, cache.Size())
}

func TestCacheRecompilesOnDifferentSignature(t *testing.T) {
	cache := compile.NewCache()
	store := reactive.New()

	sA := scope.Root()
	require.NoError(t, sA.BindHandle("Alpha", handle.New("global")))

	sB := scope.Root()

	pA := compile.Params{Scope: sA, Store: store, Mode: handle.Pure}
	pB := compile.Params{Scope: sB, Store: store, Mode: handle.Pure}

	_, err := cache.Eval("1 + 1", pA)
	require.NoError(t, err)
	_, err = cache.Eval("1 + 1", pB)
	require.NoError(t, err)

	assert.Equal(t, 2, cache.MissCount())
}

func TestEvalResolvesDollarValue(t *testing.T) {
	cache := compile.NewCache()
	store := reactive.New()
	s := scope.Root()
	require.NoError(t, s.BindValue("name", "Ada"))

	v, err := cache.Eval("$name", compile.Params{Scope: s, Store: store, Mode: handle.Pure})
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)
}

func TestEvalResolvesHandleAliasAsView(t *testing.T) {
	store := reactive.New()
	store.Write("global", []string{"counter", "count"}, 5.0)
	s := scope.Root()
	require.NoError(t, s.BindHandle("Counter", handle.New("global").Child("counter")))

	cache := compile.NewCache()
	v, err := cache.Eval("@Counter.count", compile.Params{Scope: s, Store: store, Mode: handle.Pure})
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)
}

func TestEffectModeAssignmentWritesThroughHandle(t *testing.T) {
	store := reactive.New()
	store.Write("global", []string{"counter", "count"}, 0.0)
	s := scope.Root()
	require.NoError(t, s.BindHandle("Counter", handle.New("global").Child("counter")))

	cache := compile.NewCache()
	_, err := cache.Eval("@Counter.count = 5", compile.Params{Scope: s, Store: store, Mode: handle.Effect})
	require.NoError(t, err)

	v, ok := store.Read("global", []string{"counter", "count"})
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestEffectModeRequiredForAssignment(t *testing.T) {
	store := reactive.New()
	store.Write("global", []string{"counter", "count"}, 0.0)
	s := scope.Root()
	require.NoError(t, s.BindHandle("Counter", handle.New("global").Child("counter")))

	cache := compile.NewCache()
	_, err := cache.Eval("@Counter.count = 5", compile.Params{Scope: s, Store: store, Mode: handle.Pure})
	require.Error(t, err)
}

func TestImportResolvesThroughAmbientBinding(t *testing.T) {
	store := reactive.New()
	s := scope.Root()
	s.BindImport("greet")

	cache := compile.NewCache()
	resolver := func(name string) (any, bool) {
		if name == "greet" {
			return exprlang.Func(func(args ...any) (any, error) { return "hi", nil }), true
		}
		return nil, false
	}
	v, err := cache.Eval("greet()", compile.Params{Scope: s, Store: store, Mode: handle.Pure, Imports: resolver})
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}
