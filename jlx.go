/*
Package jlx is a grammar-driven syntax core for the Julia language.

Consists of subpackages:
  - cmd/jlx: command line front end (parse, tokens, check, outline, docs, watch);
  - cmd/jlxgen: console utility converting grammar description to Go source or YAML tables;
  - grammar: compiled lexical and syntactic tables shared by lexer and parser;
  - langdef: converts grammar description (written in EBNF-like language) to grammar tables, caches compiled tables;
  - lexer: mode-aware lexical analyzer;
  - parser: table-driven recursive descent parser with operator precedence and error recovery;
  - source: source text and position information;
  - tree: concrete syntax tree, navigation, walkers and selectors;
  - julia: the Julia dialect (grammar, node kinds, hooks, outline);
  - docfmt: the docstring markup dialect parsed inside Julia docstrings.

Typical usage is:

	lang := julia.MustLanguage()
	res, err := lang.Parse(ctx, julia.Snapshot{Name: "a.jl", Text: text})

A parse pass never fails on malformed input: lexical and syntax errors become
diagnostics and error nodes. The only failure of a pass is cancellation.
*/
package jlx

import (
	"errors"
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors = 1   // used by langdef
	LexicalErrors = 101 // used by lexer
	SyntaxErrors  = 201 // used by parser
	ParserErrors  = 301 // used by parser
	StyleErrors   = 401 // used by julia style checks
)

// ErrCancelled is wrapped by the error returned from a cancelled parse pass.
var ErrCancelled = errors.New("parse pass cancelled")

// Error is the error type used by jlx subpackages for structural (non-recoverable) errors.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	SourceName() string
	Line() int
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// Span is a half-open byte range [Start, End) in the primary buffer.
type Span struct {
	Start, End int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Contains reports whether offset lies inside the span.
// A zero-width span contains its own start offset.
func (s Span) Contains(offset int) bool {
	if s.Start == s.End {
		return offset == s.Start
	}
	return offset >= s.Start && offset < s.End
}

// Covers reports whether t lies entirely inside s.
func (s Span) Covers(t Span) bool {
	return s.Start <= t.Start && t.End <= s.End
}

// Union returns the smallest span containing both s and t.
func (s Span) Union(t Span) Span {
	if t.Start < s.Start {
		s.Start = t.Start
	}
	if t.End > s.End {
		s.End = t.End
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start, s.End)
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic describes a lexical or syntax problem found during a parse pass.
type Diagnostic struct {
	Span     Span
	Severity Severity
	Code     int

	// Message is a human readable description, e.g. "unexpected 'end', expecting ')'".
	Message string

	// Context names the rule or token type being processed when the problem was found.
	Context string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Span, d.Severity, d.Message)
}
