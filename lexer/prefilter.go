package lexer

import (
	"regexp/syntax"
	"unicode"
	"unicode/utf8"
)

// byteSet marks bytes a term match can start with.
type byteSet [256]bool

func (bs *byteSet) fill(from, to int) {
	for b := from; b <= to; b++ {
		bs[b] = true
	}
}

// addRange marks leading bytes of UTF-8 encodings of runes in [lo, hi].
// Invalid input bytes are matched as utf8.RuneError, so a range containing it
// marks every non-ASCII byte.
func (bs *byteSet) addRange(lo, hi rune) {
	if hi > unicode.MaxRune {
		hi = unicode.MaxRune
	}
	for r := lo; r <= hi && r < utf8.RuneSelf; r++ {
		bs[r] = true
	}
	if hi < utf8.RuneSelf {
		return
	}
	if lo <= utf8.RuneError && hi >= utf8.RuneError {
		bs.fill(utf8.RuneSelf, 0xff)
		return
	}
	if lo < utf8.RuneSelf {
		lo = utf8.RuneSelf
	}
	var first, last [utf8.UTFMax]byte
	utf8.EncodeRune(first[:], lo)
	utf8.EncodeRune(last[:], hi)
	bs.fill(int(first[0]), int(last[0]))
}

func (bs *byteSet) addRune(r rune, fold bool) {
	bs.addRange(r, r)
	if fold {
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			bs.addRange(f, f)
		}
	}
}

// collect adds the first bytes of re to bs and reports whether re matches the empty string.
// Unknown operators mark every byte.
func (bs *byteSet) collect(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpNoMatch:
		return false

	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine, syntax.OpBeginText, syntax.OpEndText,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return true

	case syntax.OpLiteral:
		if len(re.Rune) == 0 {
			return true
		}
		bs.addRune(re.Rune[0], re.Flags&syntax.FoldCase != 0)
		return false

	case syntax.OpCharClass:
		for i := 0; i+1 < len(re.Rune); i += 2 {
			bs.addRange(re.Rune[i], re.Rune[i+1])
		}
		return false

	case syntax.OpAnyCharNotNL:
		bs.fill(0, '\n'-1)
		bs.fill('\n'+1, 0xff)
		return false

	case syntax.OpAnyChar:
		bs.fill(0, 0xff)
		return false

	case syntax.OpCapture, syntax.OpPlus:
		return bs.collect(re.Sub[0])

	case syntax.OpStar, syntax.OpQuest:
		bs.collect(re.Sub[0])
		return true

	case syntax.OpRepeat:
		return bs.collect(re.Sub[0]) || re.Min == 0

	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if !bs.collect(sub) {
				return false
			}
		}
		return true

	case syntax.OpAlternate:
		empty := false
		for _, sub := range re.Sub {
			if bs.collect(sub) {
				empty = true
			}
		}
		return empty
	}

	bs.fill(0, 0xff)
	return true
}

// firstBytes returns bytes a non-empty match of pattern can start with.
// Zero-length matches never produce tokens, so nullable patterns need no special care.
func firstBytes(pattern string) *byteSet {
	bs := &byteSet{}
	re, e := syntax.Parse(pattern, syntax.Perl)
	if e != nil {
		bs.fill(0, 0xff)
		return bs
	}
	bs.collect(re.Simplify())
	return bs
}

// buildCandidates maps each mode and first byte to term indexes worth trying, in mode order.
func (l *Lexer) buildCandidates() {
	sets := make([]*byteSet, len(l.terms))
	l.candidates = make([][256][]int, len(l.grammar.Modes))
	for mi, m := range l.grammar.Modes {
		for _, ti := range m.Terms {
			t := &l.terms[ti]
			if t.re == nil {
				continue
			}
			if sets[ti] == nil {
				sets[ti] = firstBytes(t.re.String())
			}
			for b, ok := range sets[ti] {
				if ok {
					l.candidates[mi][b] = append(l.candidates[mi][b], ti)
				}
			}
		}
	}
}
