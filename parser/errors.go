package parser

import (
	"github.com/ava12/jlx"
)

// Syntax diagnostic codes:
const (
	UnexpectedTokenError = jlx.SyntaxErrors + iota
	MissingError
	UnexpectedEofError
	UnexpectedOperatorError
	NestingDepthError
)

// Error codes returned by New and Parse:
const (
	UnknownNodeError = jlx.ParserErrors + iota
	BadGrammarError
)

func unknownNodeError(name string) *jlx.Error {
	return jlx.FormatError(UnknownNodeError, "unknown node %q", name)
}

func badGrammarError(msg string, params ...any) *jlx.Error {
	return jlx.FormatError(BadGrammarError, msg, params...)
}
