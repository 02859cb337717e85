package bootstrap_test

import (
	"testing"

	"github.com/declarui/declarui/bootstrap"
	"github.com/stretchr/testify/require"
)

func TestGlobalInitMergesIntoGlobalNamespace(t *testing.T) {
	app := bootstrap.New(bootstrap.Options{})
	err := app.SetGlobalInit(`<global-init init="{ {count: 0, name: 'app'} }"></global-init>`)
	require.NoError(t, err)

	v, ok := app.Store.Read("global", []string{"count"})
	require.True(t, ok)
	require.Equal(t, float64(0), v)
	v, ok = app.Store.Read("global", []string{"name"})
	require.True(t, ok)
	require.Equal(t, "app", v)
}

func TestGlobalInitRejectedAfterRootMount(t *testing.T) {
	app := bootstrap.New(bootstrap.Options{})
	_, err := app.MountRoot("app-root", nil, `<div>hi</div>`)
	require.NoError(t, err)

	err = app.SetGlobalInit(`<global-init init="{ {x: 1} }"></global-init>`)
	require.Error(t, err)
}

func TestGlobalInitRejectedTwice(t *testing.T) {
	app := bootstrap.New(bootstrap.Options{})
	require.NoError(t, app.SetGlobalInit(`<global-init init="{ {x: 1} }"></global-init>`))
	err := app.SetGlobalInit(`<global-init init="{ {x: 2} }"></global-init>`)
	require.Error(t, err)
}

func TestMountRootRendersItsTemplate(t *testing.T) {
	app := bootstrap.New(bootstrap.Options{})
	root, err := app.MountRoot("app-root", nil, `<p>{1+1}</p>`)
	require.NoError(t, err)
	require.Equal(t, "app-root", root.ID())

	out, err := root.Render()
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "2", out[0].Children[0].Content)
}

func TestMountRootBindsGlobalHandle(t *testing.T) {
	app := bootstrap.New(bootstrap.Options{})
	require.NoError(t, app.SetGlobalInit(`<global-init init="{ {greeting: 'hi'} }"></global-init>`))

	root, err := app.MountRoot("app-root", nil, `<p>{@Global.greeting}</p>`)
	require.NoError(t, err)

	out, err := root.Render()
	require.NoError(t, err)
	require.Equal(t, "hi", out[0].Children[0].Content)
}
