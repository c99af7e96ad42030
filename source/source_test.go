package source

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/jlx"
)

type result struct {
	pos, line, col int
}

func TestSourceLineCol(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 1, 1},
			{100, 1, 1},
			{100, 1, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 2, 1},
			{1, 2, 1},
			{1, 2, 1},
			{100, 2, 1},
			{100, 2, 1},
		},
		"0\n2\n4\n6789abcde\ng\ni\n": {
			{4, 3, 1},
			{5, 3, 2},
			{6, 4, 1},
			{7, 4, 2},
			{8, 4, 3},
			{9, 4, 4},
			{10, 4, 5},
			{11, 4, 6},
			{12, 4, 7},
			{13, 4, 8},
			{14, 4, 9},
			{19, 6, 2},
			{20, 7, 1},
			{9, 4, 4},
			{5, 3, 2},
		},
	}

	for text, results := range samples {
		source := New("", []byte(text))
		for _, res := range results {
			l, c := source.LineCol(res.pos)
			if l != res.line || c != res.col {
				t.Errorf("sample %q: expected %v, got line: %d, col: %d", text, res, l, c)
			}
		}
	}
}

func TestSourcePos(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{0, 1, 2},
			{0, 2, 1},
		},
		" ": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{1, 1, 2},
			{1, 2, 1},
		},
		"\n": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{1, 1, 2},
			{1, 2, 1},
			{1, 2, 2},
			{1, 3, 1},
		},
		"hello\nworld\n": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{1, 1, 2},
			{6, 2, 1},
			{7, 2, 2},
			{12, 2, 10},
			{12, 3, 1},
			{12, 3, 2},
			{12, 4, 1},
		},
	}

	for text, results := range samples {
		source := New("", []byte(text))
		for _, res := range results {
			p := source.Pos(res.line, res.col)
			if p != res.pos {
				t.Errorf("sample %q: expected %v, got pos: %d", text, res, p)
			}
		}
	}
}

func TestSourceText(t *testing.T) {
	s := New("a.jl", []byte("module M\nend\n"))
	assert.Equal(t, "module", s.Text(jlx.Span{Start: 0, End: 6}))
	assert.Equal(t, "end\n", s.Text(jlx.Span{Start: 9, End: 100}))
	assert.Equal(t, "", s.Text(jlx.Span{Start: 5, End: 2}))
	assert.Equal(t, 3, s.NumLines())
	assert.Equal(t, 9, s.LineStart(2))
	assert.Equal(t, 0, s.LineStart(0))
}

func TestSourceLineColRunes(t *testing.T) {
	s := New("", []byte("α = 1\nβ"))
	line, col := s.LineCol(3)
	assert.Equal(t, 1, line)
	assert.Equal(t, 3, col)
	line, col = s.LineCol(len(s.Content()))
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)
}

func TestSourceConcurrentLineCol(t *testing.T) {
	text := []byte("a\nbb\nccc\ndddd\n")
	s := New("", text)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				pos := (i*7 + g) % len(text)
				line, col := s.LineCol(pos)
				require.Equal(t, pos, s.Pos(line, col))
			}
		}(g)
	}
	wg.Wait()
}

func TestPos(t *testing.T) {
	s := New("x.jl", []byte("a\nb"))
	p := NewPos(s, 2)
	assert.Equal(t, "x.jl", p.SourceName())
	assert.Equal(t, 2, p.Line())
	assert.Equal(t, 1, p.Col())
	assert.Equal(t, 2, p.Pos())
	assert.Same(t, s, p.Source())
}
