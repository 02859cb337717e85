//go:build !dev

package bootstrap

import (
	"testing"

	"github.com/declarui/declarui/vdom"
	"github.com/stretchr/testify/require"
)

func TestRenderWithPolicyRecoversPanicIntoErrorIndicator(t *testing.T) {
	out, err := renderWithPolicy(func() ([]*vdom.VNode, error) {
		panic("boom")
	}, "app-root")

	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, vdom.ElementNode, out[0].Kind)
	require.Contains(t, out[0].Attributes["data-error"].(string), "boom")
}

func TestRenderWithPolicyPassesThroughOnSuccess(t *testing.T) {
	want := []*vdom.VNode{vdom.NewText("k", "hi")}
	out, err := renderWithPolicy(func() ([]*vdom.VNode, error) {
		return want, nil
	}, "app-root")

	require.NoError(t, err)
	require.Equal(t, want, out)
}
