package langdef

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ava12/jlx/source"
)

const cachedGrammar = `
	!version "1";
	$space = /\s+/; $num = /[0-9]+/; $op = /[-+*()]/;
	!aside $space;
	!expression expr operand; !left sum '+' '-'; !left product '*'; !prefix neg '-';
	!nested paren; !inline operand;
	calc = {expr}; operand = $num | paren; paren = '(', expr, ')';
`

func yamlString(t *testing.T, v any) string {
	t.Helper()
	data, e := yaml.Marshal(v)
	require.NoError(t, e)
	return string(data)
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(t.TempDir(), zerolog.Nop())
	src := source.New("calc.llx", []byte(cachedGrammar))

	compiled, e := ParseString("calc.llx", cachedGrammar)
	require.NoError(t, e)

	g, e := c.Load(src)
	require.NoError(t, e)
	assert.FileExists(t, c.Path("calc.llx"))
	assert.Equal(t, yamlString(t, compiled), yamlString(t, g))

	g, e = c.Load(src)
	require.NoError(t, e)
	assert.Equal(t, yamlString(t, compiled), yamlString(t, g))
}

func TestCacheUsesStoredEntry(t *testing.T) {
	c := NewCache(t.TempDir(), zerolog.Nop())
	src := source.New("calc.llx", []byte(cachedGrammar))
	_, e := c.Load(src)
	require.NoError(t, e)

	path := c.Path("calc.llx")
	data, e := os.ReadFile(path)
	require.NoError(t, e)
	var entry cacheEntry
	require.NoError(t, yaml.Unmarshal(data, &entry))
	assert.Equal(t, CacheFormat, entry.Format)
	assert.Equal(t, "1", entry.Version)
	assert.Equal(t, Hash([]byte(cachedGrammar)), entry.Hash)

	entry.Grammar.Version = "from cache"
	require.NoError(t, os.WriteFile(path, []byte(yamlString(t, &entry)), 0o644))

	g, e := c.Load(src)
	require.NoError(t, e)
	assert.Equal(t, "from cache", g.Version)
}

func TestCacheRecompilesStaleEntries(t *testing.T) {
	c := NewCache(t.TempDir(), zerolog.Nop())
	_, e := c.Load(source.New("calc.llx", []byte(cachedGrammar)))
	require.NoError(t, e)

	changed := cachedGrammar + "!version \"2\";"
	g, e := c.Load(source.New("calc.llx", []byte(changed)))
	require.NoError(t, e)
	assert.Equal(t, "2", g.Version)

	require.NoError(t, os.WriteFile(c.Path("calc.llx"), []byte("format: [broken"), 0o644))
	g, e = c.Load(source.New("calc.llx", []byte(changed)))
	require.NoError(t, e)
	assert.Equal(t, "2", g.Version)

	require.NoError(t, os.WriteFile(c.Path("calc.llx"), []byte("format: 99\n"), 0o644))
	g, e = c.Load(source.New("calc.llx", []byte(changed)))
	require.NoError(t, e)
	assert.Equal(t, "calc", g.Nodes[0].Name)
}

func TestCacheDoesNotStoreErrors(t *testing.T) {
	c := NewCache(t.TempDir(), zerolog.Nop())
	_, e := c.Load(source.New("bad.llx", []byte("g = h;")))
	require.Error(t, e)
	assert.Contains(t, errorCodes(e), UnknownNodeError)
	assert.NoFileExists(t, c.Path("bad.llx"))
}

func TestCachePath(t *testing.T) {
	c := NewCache("/tmp/jlx", zerolog.Nop())
	assert.Equal(t, "/tmp/jlx/julia.llx.yaml", c.Path("grammars/julia.llx"))
	assert.Equal(t, "/tmp/jlx/my_grammar.yaml", c.Path("my grammar"))
}

func TestNilCache(t *testing.T) {
	var c *Cache
	g, e := c.Load(source.New("calc.llx", []byte(cachedGrammar)))
	require.NoError(t, e)
	assert.Equal(t, "calc.llx", g.Name)
	assert.Equal(t, "calc", g.Nodes[0].Name)
}
