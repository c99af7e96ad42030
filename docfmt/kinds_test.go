package docfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/langdef"
	"github.com/ava12/jlx/parser"
)

func TestCheckKinds(t *testing.T) {
	g, e := langdef.Parse(GrammarSource())
	require.NoError(t, e)
	assert.NoError(t, checkKinds(g))

	g.Nodes[1].Name = "heading"
	e = checkKinds(g)
	var je *jlx.Error
	require.ErrorAs(t, e, &je)
	assert.Equal(t, parser.BadGrammarError, je.Code)
	assert.Contains(t, je.Message, `"heading"`)

	g, e = langdef.ParseString("tiny", "$a = /a/; doc = {$a};")
	require.NoError(t, e)
	assert.Error(t, checkKinds(g))
}
