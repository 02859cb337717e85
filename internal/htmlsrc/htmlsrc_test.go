package htmlsrc_test

import (
	"testing"

	"github.com/declarui/declarui/internal/htmlsrc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFragmentLowercasesTagsAndAttrs(t *testing.T) {
	nodes, err := htmlsrc.ParseFragment(`<Card:Template Params="$title"><h2>{$title}</h2></Card:Template>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	root := nodes[0]
	assert.True(t, root.IsElement())
	assert.Equal(t, "card:template", root.Tag)
	v, ok := root.Attr("PARAMS")
	require.True(t, ok)
	assert.Equal(t, "$title", v)
}

func TestParseFragmentPreservesNestedTextAndChildren(t *testing.T) {
	nodes, err := htmlsrc.ParseFragment(`<When test="{$open}">Yes</When><Else>No</Else>`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	when := nodes[0]
	assert.Equal(t, "when", when.Tag)
	require.Len(t, when.Children, 1)
	assert.True(t, when.Children[0].IsText())
	assert.Equal(t, "Yes", when.Children[0].Text)

	els := nodes[1]
	assert.Equal(t, "else", els.Tag)
}

func TestHasAttrIsCaseInsensitive(t *testing.T) {
	nodes, err := htmlsrc.ParseFragment(`<div Init="{ {open:false} }"></div>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].HasAttr("init"))
	assert.True(t, nodes[0].HasAttr("INIT"))
}
