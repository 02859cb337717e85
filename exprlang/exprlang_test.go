package exprlang_test

import (
	"testing"

	"github.com/declarui/declarui/exprlang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapEnv map[string]any

func (m mapEnv) Resolve(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

func eval(t *testing.T, env exprlang.Env, src string) any {
	t.Helper()
	node, err := exprlang.Parse(src)
	require.NoError(t, err)
	v, err := exprlang.New(env).Eval(node)
	require.NoError(t, err)
	return v
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected any
	}{
		{"string double", `"hello"`, "hello"},
		{"string single", `'hi'`, "hi"},
		{"integer", "42", 42.0},
		{"float", "3.14", 3.14},
		{"true", "true", true},
		{"false", "false", false},
		{"nil", "nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, eval(t, mapEnv{}, tt.input))
		})
	}
}

func TestIdentifierLookup(t *testing.T) {
	env := mapEnv{"name": "Ada", "count": 3.0}
	assert.Equal(t, "Ada", eval(t, env, "name"))
	assert.Equal(t, 3.0, eval(t, env, "count"))
}

func TestUndeclaredIdentifierIsNilNotError(t *testing.T) {
	assert.Nil(t, eval(t, mapEnv{}, "missing"))
}

func TestArithmeticPrecedence(t *testing.T) {
	assert.Equal(t, 14.0, eval(t, mapEnv{}, "2 + 3 * 4"))
	assert.Equal(t, 20.0, eval(t, mapEnv{}, "(2 + 3) * 4"))
	assert.Equal(t, 1.0, eval(t, mapEnv{}, "7 % 3"))
}

func TestStringConcatenation(t *testing.T) {
	env := mapEnv{"n": "Ada"}
	assert.Equal(t, "Hello, Ada", eval(t, env, `"Hello, " + n`))
}

func TestComparisonAndLogic(t *testing.T) {
	assert.Equal(t, true, eval(t, mapEnv{}, "1 < 2 && 2 < 3"))
	assert.Equal(t, false, eval(t, mapEnv{}, "1 > 2 || 2 > 3"))
	assert.Equal(t, true, eval(t, mapEnv{}, `"a" == "a"`))
	assert.Equal(t, true, eval(t, mapEnv{}, "!false"))
}

func TestTernary(t *testing.T) {
	env := mapEnv{"open": true}
	assert.Equal(t, "shown", eval(t, env, `open ? "shown" : "hidden"`))
}

func TestObjectAndArrayLiterals(t *testing.T) {
	v := eval(t, mapEnv{}, `{ open: false, count: 1 + 1 }`)
	obj, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, obj["open"])
	assert.Equal(t, 2.0, obj["count"])

	arr := eval(t, mapEnv{}, `[1, 2, 1 + 2]`).([]any)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, arr)
}

func TestArrayIndexing(t *testing.T) {
	env := mapEnv{"list": []any{"a", "b", "c"}}
	assert.Equal(t, "b", eval(t, env, "list[1]"))
	assert.Nil(t, eval(t, env, "list[99]"))
}

func TestMemberAccessOnPlainMap(t *testing.T) {
	env := mapEnv{"user": map[string]any{"name": "Grace"}}
	assert.Equal(t, "Grace", eval(t, env, "user.name"))
}

type fakeHandle struct {
	m map[string]any
}

func (f *fakeHandle) Get(name string) any { return f.m[name] }
func (f *fakeHandle) Set(name string, value any) error {
	f.m[name] = value
	return nil
}
func (f *fakeHandle) WriteSelf(value any) error {
	if m, ok := value.(map[string]any); ok {
		f.m = m
		return nil
	}
	return nil
}

func TestMemberAssignmentThroughSetter(t *testing.T) {
	h := &fakeHandle{m: map[string]any{"open": false}}
	env := mapEnv{"Counter": h}

	node, err := exprlang.Parse("Counter.open = true")
	require.NoError(t, err)
	_, err = exprlang.New(env).Eval(node)
	require.NoError(t, err)
	assert.Equal(t, true, h.m["open"])
}

func TestUnknownTrailingTokenIsSyntaxError(t *testing.T) {
	_, err := exprlang.Parse("1 + 2 )")
	assert.Error(t, err)
}

func TestAssignToLiteralIsRejected(t *testing.T) {
	_, err := exprlang.Parse(`1 = 2`)
	assert.Error(t, err)
}
