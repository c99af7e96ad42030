// Package source defines source text and position information.
package source

import (
	"bytes"
	"sort"
	"unicode/utf8"

	"github.com/ava12/jlx"
)

// Source is an immutable named text buffer with a line index.
// It is safe for concurrent use.
type Source struct {
	name       string
	content    []byte
	lineStarts []int
}

// New creates a Source. content must not be modified afterwards.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Content() []byte {
	return s.content
}

func (s *Source) Len() int {
	return len(s.content)
}

// Text returns the text covered by span, clipped to the buffer.
func (s *Source) Text(span jlx.Span) string {
	start, end := s.clip(span.Start), s.clip(span.End)
	if end <= start {
		return ""
	}
	return string(s.content[start:end])
}

// LineCol converts byte offset to 1-based line and column numbers.
// Columns are counted in runes.
func (s *Source) LineCol(pos int) (line, col int) {
	pos = s.clip(pos)
	lineIndex := s.findLineIndex(pos)
	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

// Pos converts 1-based line and byte column to byte offset.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	}
	return res
}

// NumLines returns the number of lines, a trailing newline starts an empty last line.
func (s *Source) NumLines() int {
	return len(s.lineStarts)
}

// LineStart returns the offset of the first byte of the 1-based line.
func (s *Source) LineStart(line int) int {
	if line <= 1 {
		return 0
	}
	if line > len(s.lineStarts) {
		return len(s.content)
	}
	return s.lineStarts[line-1]
}

func (s *Source) clip(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(s.content) {
		return len(s.content)
	}
	return pos
}

func (s *Source) findLineIndex(pos int) int {
	return sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > pos
	}) - 1
}

// Pos is a position in a source, it implements jlx.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

func NewPos(src *Source, pos int) Pos {
	res := Pos{src: src, pos: pos}
	if src != nil {
		res.line, res.col = src.LineCol(pos)
	}
	return res
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}

func (p Pos) Pos() int {
	return p.pos
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}
