package render_test

import (
	"testing"

	"github.com/declarui/declarui/compile"
	"github.com/declarui/declarui/handle"
	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/declarui/declarui/reactive"
	"github.com/declarui/declarui/render"
	"github.com/declarui/declarui/scope"
	"github.com/declarui/declarui/vdom"
	"github.com/stretchr/testify/require"
)

func newWalker() (*render.Walker, *reactive.Store) {
	store := reactive.New()
	return render.New(store, compile.NewCache(), nil), store
}

func rootCtxT(t *testing.T, store *reactive.Store) *render.Context {
	sc := scope.Root()
	require.NoError(t, sc.BindHandle("global", handle.New("global")))
	return &render.Context{Scope: sc, SID: "root"}
}

func parse(t *testing.T, src string) []*htmlsrc.Node {
	nodes, err := htmlsrc.ParseFragment(src)
	require.NoError(t, err)
	return nodes
}

func TestToggleFlipsRenderedText(t *testing.T) {
	w, store := newWalker()
	store.EnsureNamespace("global", map[string]any{"open": false})
	ctx := rootCtxT(t, store)

	src := `<button onclick="@{ @Global.open = !@Global.open }">Toggle</button><p test="{@Global.open}">Open</p><p test="{!@Global.open}">Closed</p>`
	nodes := parse(t, src)

	out, err := w.Walk(ctx, nodes)
	require.NoError(t, err)
	require.Len(t, out, 2, "closed branch renders, open branch does not")
	require.Equal(t, "p", out[1].Tag)
	require.Equal(t, "Closed", out[1].Children[0].Content)

	button := out[0]
	require.Len(t, button.Events, 1)
	handler := button.Events["onclick"]
	require.NotNil(t, handler)
	handler(nil)
	store.Flush()

	v, ok := store.Read("global", []string{"open"})
	require.True(t, ok)
	require.Equal(t, true, v)

	out2, err := w.Walk(ctx, nodes)
	require.NoError(t, err)
	require.Len(t, out2, 2)
	require.Equal(t, "Open", out2[1].Children[0].Content)
}

func TestIterationProducesStableRowIdentity(t *testing.T) {
	w, store := newWalker()
	store.EnsureNamespace("global", map[string]any{
		"users": []any{
			map[string]any{"id": "a", "name": "Ada"},
			map[string]any{"id": "b", "name": "Bo"},
		},
	})
	ctx := rootCtxT(t, store)

	src := `<loop each="$u of {@Global.users} marked by {$u.id}"><li>{$u.name}</li></loop>`
	nodes := parse(t, src)

	out, err := w.Walk(ctx, nodes)
	require.NoError(t, err)
	require.Len(t, out, 2)
	firstID := out[0].Key
	require.Equal(t, "Ada", out[0].Children[0].Content)
	require.Equal(t, "Bo", out[1].Children[0].Content)

	store.Write("global", []string{"users"}, []any{
		map[string]any{"id": "b", "name": "Bo"},
		map[string]any{"id": "a", "name": "Ada"},
	})
	store.Flush()

	out2, err := w.Walk(ctx, nodes)
	require.NoError(t, err)
	require.Len(t, out2, 2)
	require.Equal(t, "Bo", out2[0].Children[0].Content)
	require.Equal(t, "Ada", out2[1].Children[0].Content)
	require.Equal(t, firstID, out2[1].Key, "Ada's row keeps its identity even though its source position moved")
}

func TestDuplicateIterationMarkerErrors(t *testing.T) {
	w, store := newWalker()
	store.EnsureNamespace("global", map[string]any{
		"users": []any{
			map[string]any{"id": "a"},
			map[string]any{"id": "a"},
		},
	})
	ctx := rootCtxT(t, store)

	src := `<loop each="$u of {@Global.users} marked by {$u.id}"><li>x</li></loop>`
	_, err := w.Walk(ctx, parse(t, src))
	require.Error(t, err)
}

func TestConditionalBranchesIsolateStateAndSIDs(t *testing.T) {
	w, store := newWalker()
	store.EnsureNamespace("global", map[string]any{"flag": true})
	ctx := rootCtxT(t, store)

	src := `<when test="{@Global.flag}"><p def="$x := {1}">{$x}</p></when><else><p def="$x := {2}">{$x}</p></else><span>after</span>`
	out, err := w.Walk(ctx, parse(t, src))
	require.NoError(t, err)
	require.Len(t, out, 2, "only the taken branch and the trailing sibling render")
	require.Equal(t, "1", out[0].Children[0].Content)
	afterSID := out[1].Key

	store.Write("global", []string{"flag"}, false)
	store.Flush()
	out2, err := w.Walk(ctx, parse(t, src))
	require.NoError(t, err)
	require.Len(t, out2, 2)
	require.Equal(t, "2", out2[0].Children[0].Content)
	require.Equal(t, afterSID, out2[1].Key, "the sibling after the chain keeps its SID regardless of which branch matched")
}

func TestPureModeRejectsMutationInAttribute(t *testing.T) {
	w, store := newWalker()
	store.EnsureNamespace("global", map[string]any{"x": 1})
	ctx := rootCtxT(t, store)

	src := `<p data-v="{(@Global.x = 2)}">text</p>`
	_, err := w.Walk(ctx, parse(t, src))
	require.Error(t, err)

	v, _ := store.Read("global", []string{"x"})
	require.Equal(t, 1, v, "the rejected write must never reach the store")
}

func TestSlotProjectionUsesProvidedContentOrFallback(t *testing.T) {
	w, store := newWalker()
	ctx := rootCtxT(t, store)

	def := `<card:template params=""><div><card:slot>Default</card:slot></div></card:template>`
	nodes := parse(t, def)
	nodes = w.Prepare(nodes)
	_, ok := w.Components.Lookup("card")
	require.True(t, ok)

	withContent := parse(t, `<card><p>Provided</p></card>`)
	out, err := w.Walk(ctx, withContent)
	require.NoError(t, err)
	require.Len(t, out, 1)
	slotDiv := out[0].Children[0].Children[0]
	require.Equal(t, "Provided", slotDiv.Children[0].Children[0].Content)

	withoutContent := parse(t, `<card></card>`)
	out2, err := w.Walk(ctx, withoutContent)
	require.NoError(t, err)
	slotDiv2 := out2[0].Children[0].Children[0]
	require.Equal(t, "Default", slotDiv2.Children[0].Content)
}

func TestComponentUseSiteCarriesPassthroughAttributes(t *testing.T) {
	w, store := newWalker()
	ctx := rootCtxT(t, store)

	def := `<greet:template params="label"><p>{$label}</p></greet:template>`
	nodes := w.Prepare(parse(t, def))
	_ = nodes

	use := parse(t, `<greet label="hi" class="card" data-id="42"></greet>`)
	out, err := w.Walk(ctx, use)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, vdom.ComponentNode, out[0].Kind)

	require.Equal(t, "card", out[0].Attributes["class"])
	require.Equal(t, "42", out[0].Attributes["data-id"])
	_, isParam := out[0].Attributes["label"]
	require.False(t, isParam, "a declared parameter must not also appear as a passthrough attribute")
}
