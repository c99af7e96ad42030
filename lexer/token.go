package lexer

import (
	"github.com/ava12/jlx"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/source"
)

const (
	// EofTokenType is the type of the zero-width token closing every token stream.
	EofTokenType = -1

	// ErrorTokenType is the type of tokens capturing unrecognized characters and unterminated constructs.
	ErrorTokenType = -2

	EofTokenName   = "-end-of-file-"
	ErrorTokenName = "-error-"
)

// Token is an immutable lexeme. Offsets are global offsets in the source buffer.
type Token struct {
	tokenType int
	typeName  string
	class     grammar.TermClass
	content   []byte
	start     int
	source    *source.Source
	diag      *jlx.Diagnostic
}

// NewToken creates a token. content must be the slice of the source buffer starting at start.
func NewToken(tokenType int, typeName string, class grammar.TermClass, content []byte, start int, src *source.Source) *Token {
	return &Token{tokenType: tokenType, typeName: typeName, class: class, content: content, start: start, source: src}
}

func (t *Token) Type() int {
	return t.tokenType
}

func (t *Token) TypeName() string {
	return t.typeName
}

func (t *Token) Class() grammar.TermClass {
	return t.class
}

func (t *Token) Text() string {
	return string(t.content)
}

// Content returns token bytes, the slice shares memory with the source buffer.
func (t *Token) Content() []byte {
	return t.content
}

func (t *Token) Start() int {
	return t.start
}

func (t *Token) End() int {
	return t.start + len(t.content)
}

func (t *Token) Span() jlx.Span {
	return jlx.Span{Start: t.start, End: t.End()}
}

func (t *Token) Source() *source.Source {
	return t.source
}

func (t *Token) SourceName() string {
	if t.source == nil {
		return ""
	}
	return t.source.Name()
}

func (t *Token) Line() int {
	if t.source == nil {
		return 0
	}
	line, _ := t.source.LineCol(t.start)
	return line
}

func (t *Token) Col() int {
	if t.source == nil {
		return 0
	}
	_, col := t.source.LineCol(t.start)
	return col
}

func (t *Token) IsEOF() bool {
	return t.tokenType == EofTokenType
}

// IsError reports whether the token captures a lexical error.
func (t *Token) IsError() bool {
	return t.diag != nil
}

// Diagnostic returns the lexical diagnostic of an error token or nil.
func (t *Token) Diagnostic() *jlx.Diagnostic {
	return t.diag
}

func eofToken(src *source.Source, pos int) *Token {
	return &Token{tokenType: EofTokenType, typeName: EofTokenName, class: grammar.ClassEOF, content: []byte{}, start: pos, source: src}
}
