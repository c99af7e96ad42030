package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ava12/jlx/grammar"
)

const listGrammar = `
!version "2";
$space = /[ \t\n]+/;
$name = /[a-z]+/;
$punct = /[(),]/;

!aside $space;
!class whitespace $space;
!nested list;

list-file = {list};
list = '(', [item, {',', item}], ')';
item = $name | list;
`

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newCommand()
	cmd.SetArgs(append([]string{}, args...))
	return cmd.Execute()
}

func writeGrammar(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	name := filepath.Join(dir, "list.llx")
	require.NoError(t, os.WriteFile(name, []byte(listGrammar), 0o644))
	return dir, name
}

func TestGo(t *testing.T) {
	dir, name := writeGrammar(t)
	require.NoError(t, run(t, "-p", "lists", name))

	content, e := os.ReadFile(filepath.Join(dir, "list.go"))
	require.NoError(t, e)
	text := string(content)
	assert.True(t, strings.HasPrefix(text, "// Code generated with jlxgen. DO NOT EDIT.\n\npackage lists\n"))
	assert.Contains(t, text, "var listfile = &grammar.Grammar{")
	assert.Contains(t, text, `Version: "2",`)
	assert.Contains(t, text, "// item(2)")

	out := filepath.Join(dir, "other.go")
	require.NoError(t, run(t, "-p", "lists", "-v", "Lists", "-o", out, name))
	content, e = os.ReadFile(out)
	require.NoError(t, e)
	assert.Contains(t, string(content), "var Lists = &grammar.Grammar{")
}

func TestYAML(t *testing.T) {
	dir, name := writeGrammar(t)
	require.NoError(t, run(t, "-y", name))

	content, e := os.ReadFile(filepath.Join(dir, "list.yaml"))
	require.NoError(t, e)
	var g grammar.Grammar
	require.NoError(t, yaml.Unmarshal(content, &g))
	assert.Equal(t, "2", g.Version)
	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "list", g.Nodes[1].Name)
	assert.NotEqual(t, grammar.NoIndex, g.TermIndex("$name"))

	again, e := makeYAML(&g)
	require.NoError(t, e)
	assert.Equal(t, string(content), string(again))
}

func TestErrors(t *testing.T) {
	_, name := writeGrammar(t)
	assert.EqualError(t, run(t, "-p", "1st", name), "invalid package name: 1st")
	assert.EqualError(t, run(t, "-p", "lists", "-v", "a-b", name), "invalid variable name: a-b")
	assert.Error(t, run(t, filepath.Join(filepath.Dir(name), "missing.llx")))
	assert.Error(t, run(t))
}
