// Package lexer defines mode-aware lexical analyzer driven by grammar terms.
package lexer

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/internal/bmap"
	"github.com/ava12/jlx/internal/queue"
	"github.com/ava12/jlx/source"
)

// Error codes used by lexer:
const (
	// WrongCharError indicates that no term matches at current position, a one-rune error token is emitted.
	WrongCharError = jlx.LexicalErrors + iota

	// BadTokenError indicates a token of an error term (e.g. invalid escape sequence).
	BadTokenError

	// UnterminatedError indicates that input ends before a pushed mode is popped.
	UnterminatedError

	// BadRegexpError is returned by New for term regexps that cannot be compiled.
	BadRegexpError
)

type term struct {
	re *regexp.Regexp

	// group is set when the regexp has a capturing group: if the first group participates
	// in a match it starts at match start and defines the token text, the rest is trailing context.
	group bool
}

// Lexer is immutable and safe for concurrent use: all scanning state lives in Scanner.
type Lexer struct {
	grammar  *grammar.Grammar
	terms    []term
	reserved *bmap.BMap[bool]

	// candidates[mode][b] lists terms whose matches can start with byte b.
	candidates [][256][]int
}

// New compiles term regexps of g.
func New(g *grammar.Grammar) (*Lexer, error) {
	l := &Lexer{grammar: g, terms: make([]term, len(g.Terms)), reserved: bmap.New[bool](len(g.Terms))}
	for i, t := range g.Terms {
		if t.Flags&grammar.ReservedTerm != 0 {
			l.reserved.Set([]byte(t.Name), true)
		}
		if t.IsLiteral() || t.Re == "" {
			continue
		}

		re, e := regexp.Compile("^(?:" + t.Re + ")")
		if e != nil {
			return nil, jlx.FormatError(BadRegexpError, "bad regexp for $%s: %s", t.Name, e.Error())
		}
		l.terms[i] = term{re: re, group: re.NumSubexp() > 0}
	}
	if len(g.Modes) == 0 {
		return nil, jlx.FormatError(BadRegexpError, "grammar %q defines no lexer modes", g.Name)
	}
	l.buildCandidates()
	return l, nil
}

func (l *Lexer) Grammar() *grammar.Grammar {
	return l.grammar
}

// IsReserved reports whether text is a reserved word.
func (l *Lexer) IsReserved(text []byte) bool {
	_, has := l.reserved.Get(text)
	return has
}

// Reserved returns reserved words in grammar order.
func (l *Lexer) Reserved() []string {
	return l.reserved.Keys()
}

// Scan creates a scanner over the window [start, end) of src starting in the default mode.
// Token offsets are global offsets in src.
func (l *Lexer) Scan(src *source.Source, start, end int) *Scanner {
	if end > src.Len() || end < 0 {
		end = src.Len()
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	s := &Scanner{lexer: l, src: src, content: src.Content(), end: end, queue: queue.New[*Token]()}
	s.Seek(start, nil)
	return s
}

// Tokens scans the whole source, the result ends with the EoF token.
func (l *Lexer) Tokens(src *source.Source) ([]*Token, []jlx.Diagnostic) {
	s := l.Scan(src, 0, src.Len())
	var result []*Token
	for {
		t := s.Next()
		result = append(result, t)
		if t.IsEOF() {
			return result, s.Diagnostics()
		}
	}
}

// Scanner holds the state of one scanning pass: position, mode stack and lookahead buffer.
type Scanner struct {
	lexer   *Lexer
	src     *source.Source
	content []byte
	pos     int
	end     int
	modes   []int
	queue   *queue.Queue[*Token]
	diags   []jlx.Diagnostic
}

// Seek restarts scanning at offset with the given mode stack (bottom first).
// An empty stack means the default mode.
func (s *Scanner) Seek(offset int, modes []int) {
	if offset < 0 {
		offset = 0
	}
	if offset > s.end {
		offset = s.end
	}
	s.pos = offset
	if len(modes) == 0 {
		s.modes = []int{grammar.DefaultMode}
	} else {
		s.modes = append([]int(nil), modes...)
	}
	s.queue.Clear()
}

// Modes returns a copy of the mode stack, bottom first.
// While lookahead tokens are buffered the stack reflects the state after the last buffered token.
func (s *Scanner) Modes() []int {
	return append([]int(nil), s.modes...)
}

// Diagnostics returns lexical diagnostics for tokens fetched so far.
func (s *Scanner) Diagnostics() []jlx.Diagnostic {
	return s.diags
}

// Next fetches the next token. After the window end it keeps returning EoF tokens.
func (s *Scanner) Next() *Token {
	if t, ok := s.queue.First(); ok {
		return t
	}
	return s.scan(false)
}

func (s *Scanner) report(t *Token, code int, msg string, params ...any) {
	d := jlx.Diagnostic{
		Span:     t.Span(),
		Severity: jlx.SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(msg, params...),
		Context:  t.typeName,
	}
	t.diag = &d
	s.diags = append(s.diags, d)
}

func (s *Scanner) match(pos int) (int, int) {
	text := s.content[pos:s.end]
	best, bestLen := -1, 0
	for _, ti := range s.lexer.candidates[s.modes[len(s.modes)-1]][text[0]] {
		t := &s.lexer.terms[ti]
		var m []int
		if t.group {
			m = t.re.FindSubmatchIndex(text)
		} else {
			m = t.re.FindIndex(text)
		}
		if m == nil {
			continue
		}

		n := m[1]
		if t.group && m[2] == 0 {
			n = m[3]
		}
		if n > bestLen {
			best, bestLen = ti, n
		}
	}
	return best, bestLen
}

func (s *Scanner) scan(lookahead bool) *Token {
	if s.pos >= s.end {
		return eofToken(s.src, s.end)
	}

	g := s.lexer.grammar
	start := s.pos
	ti, n := s.match(start)
	if ti < 0 {
		_, size := utf8.DecodeRune(s.content[start:s.end])
		t := NewToken(ErrorTokenType, ErrorTokenName, grammar.ClassError, s.content[start:start+size], start, s.src)
		s.pos += size
		if r, _ := utf8.DecodeRune(t.content); r == utf8.RuneError && size == 1 {
			s.report(t, WrongCharError, "invalid utf-8 byte 0x%02x", t.content[0])
		} else {
			s.report(t, WrongCharError, "wrong char %q (u+%x)", r, r)
		}
		return t
	}

	gt := &g.Terms[ti]
	t := NewToken(ti, gt.Name, gt.Class, s.content[start:start+n], start, s.src)
	s.pos += n
	if gt.Flags&grammar.NoLiteralsTerm == 0 && s.lexer.IsReserved(t.content) {
		t.class = grammar.ClassKeyword
	}
	if gt.Flags&grammar.ErrorTerm != 0 {
		t.class = grammar.ClassError
		s.report(t, BadTokenError, "bad token %q", t.Text())
	}

	switch gt.Action {
	case grammar.PushMode:
		depth := len(s.modes)
		s.modes = append(s.modes, gt.Target)
		if !lookahead {
			return s.lookahead(t, depth)
		}
	case grammar.PopMode:
		if len(s.modes) > 1 {
			s.modes = s.modes[:len(s.modes)-1]
		}
	case grammar.SwitchMode:
		s.modes[len(s.modes)-1] = gt.Target
	}
	return t
}

// lookahead buffers tokens until the mode pushed by opener is popped.
// If input ends first the opener and everything after it becomes a single error token.
func (s *Scanner) lookahead(opener *Token, depth int) *Token {
	var buf []*Token
	diagCnt := len(s.diags)
	for len(s.modes) > depth {
		t := s.scan(true)
		if t.IsEOF() {
			s.modes = s.modes[:depth]
			s.diags = s.diags[:diagCnt]
			mode := s.lexer.grammar.Modes[s.lexer.grammar.Terms[opener.tokenType].Target].Name
			et := NewToken(ErrorTokenType, ErrorTokenName, grammar.ClassError, s.content[opener.start:s.end], opener.start, s.src)
			s.report(et, UnterminatedError, "unterminated %s", mode)
			return et
		}
		buf = append(buf, t)
	}

	for _, t := range buf {
		s.queue.Append(t)
	}
	return opener
}
