package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstBytes(t *testing.T) {
	samples := []struct {
		re      string
		yes, no []byte
	}{
		{`[a-z]+`, []byte("az"), []byte("A0 ")},
		{`(?i)k`, []byte{'k', 'K', 0xe2}, []byte("j")},
		{`x?y`, []byte("xy"), []byte("z")},
		{`a{0,2}b`, []byte("ab"), []byte("c")},
		{`[^"$]+`, []byte{'a', '\n', 0xd0, 0xff}, []byte(`"$`)},
		{`ж|\.`, []byte{0xd0, '.'}, []byte("a")},
		{`.`, []byte{0, 'a', 0xf0}, []byte("\n")},
		{`(foo)\(|bar`, []byte("fb"), []byte("(")},
	}

	for _, s := range samples {
		bs := firstBytes("^(?:" + s.re + ")")
		for _, b := range s.yes {
			assert.True(t, bs[b], "%s: %q", s.re, b)
		}
		for _, b := range s.no {
			assert.False(t, bs[b], "%s: %q", s.re, b)
		}
	}
}
