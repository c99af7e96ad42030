package langdef

import (
	"strings"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/lexer"
)

// Error codes used by langdef:
const (
	UnexpectedEofError = jlx.GrammarErrors + iota
	UnexpectedTokenError
	UnknownTokenError
	WrongTokenError
	TokenDefinedError
	NodeDefinedError
	WrongRegexpError
	UnknownNodeError
	UnusedNodeError
	UnresolvedError
	RecursionError
	UndefinedTokenError
	InvalidEscapeError
	InvalidRuneError
	UnknownTemplateError
	TemplateDefinedError
	UnknownModeError
	UnknownDirectiveError
	UnknownLiteralError
	WrongDirectiveError
	UnknownClassError
	WrongCharError
)

func eofError(token *lexer.Token) *jlx.Error {
	return jlx.FormatErrorPos(token, UnexpectedEofError, "unexpected EoF")
}

func unexpectedTokenError(token *lexer.Token) *jlx.Error {
	return jlx.FormatErrorPos(token, UnexpectedTokenError, "unexpected %s token %q", token.TypeName(), token.Text())
}

func wrongCharError(token *lexer.Token) *jlx.Error {
	return jlx.FormatErrorPos(token, WrongCharError, token.Diagnostic().Message)
}

func tokenError(token *lexer.Token) *jlx.Error {
	return jlx.FormatErrorPos(token, UnknownTokenError, "unknown token %q", token.Text())
}

func wrongTokenError(token *lexer.Token) *jlx.Error {
	return jlx.FormatErrorPos(token, WrongTokenError, "cannot use token %q in definitions", token.Text())
}

func defTokenError(token *lexer.Token) *jlx.Error {
	return jlx.FormatErrorPos(token, TokenDefinedError, "token %q already defined", token.Text())
}

func defNodeError(token *lexer.Token) *jlx.Error {
	return jlx.FormatErrorPos(token, NodeDefinedError, "node %q already defined", token.Text())
}

func regexpError(token *lexer.Token, e error) *jlx.Error {
	return jlx.FormatErrorPos(token, WrongRegexpError, "incorrect RegExp %s (%s)", token.Text(), e.Error())
}

func invalidEscapeError(token *lexer.Token, seq string) *jlx.Error {
	return jlx.FormatErrorPos(token, InvalidEscapeError, "invalid escape sequence %q", seq)
}

func invalidRuneError(token *lexer.Token, code string) *jlx.Error {
	return jlx.FormatErrorPos(token, InvalidRuneError, "invalid code point %q", code)
}

func unknownTemplateError(token *lexer.Token, name string) *jlx.Error {
	return jlx.FormatErrorPos(token, UnknownTemplateError, "unknown template %q", name)
}

func templateDefinedError(token *lexer.Token, name string) *jlx.Error {
	return jlx.FormatErrorPos(token, TemplateDefinedError, "template %q already defined", name)
}

func unknownDirectiveError(token *lexer.Token) *jlx.Error {
	return jlx.FormatErrorPos(token, UnknownDirectiveError, "unknown directive %s", token.Text())
}

func unknownClassError(token *lexer.Token) *jlx.Error {
	return jlx.FormatErrorPos(token, UnknownClassError, "unknown token class %q", token.Text())
}

func wrongDirectiveError(token *lexer.Token, msg string, params ...any) *jlx.Error {
	return jlx.FormatErrorPos(token, WrongDirectiveError, msg, params...)
}

func unknownModeError(name string) *jlx.Error {
	return jlx.FormatError(UnknownModeError, "unknown lexer mode %q", name)
}

func unknownNodeError(names []string) *jlx.Error {
	return jlx.FormatError(UnknownNodeError, "undefined nodes: "+strings.Join(names, ", "))
}

func unusedNodeError(names []string) *jlx.Error {
	return jlx.FormatError(UnusedNodeError, "unused nodes: "+strings.Join(names, ", "))
}

func unresolvedError(names []string) *jlx.Error {
	return jlx.FormatError(UnresolvedError, "cannot resolve first tokens for nodes: "+strings.Join(names, ", "))
}

func recursionError(names []string) *jlx.Error {
	return jlx.FormatError(RecursionError, "found left-recursive nodes: "+strings.Join(names, ", "))
}

func undefinedTokenError(name string) *jlx.Error {
	return jlx.FormatError(UndefinedTokenError, "token %q mentioned but not defined", name)
}

func unknownLiteralError(name string) *jlx.Error {
	return jlx.FormatError(UnknownLiteralError, "no token type can produce literal %q", name)
}

func misplacedError(msg string, params ...any) *jlx.Error {
	return jlx.FormatError(WrongDirectiveError, msg, params...)
}
