package langdef

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/lexer"
	"github.com/ava12/jlx/source"
)

// ParseString parses grammar description and returns compiled grammar on success.
// Returns nil and jlx.Error (or a multierror of jlx.Error values) on error.
func ParseString(name, content string) (*grammar.Grammar, error) {
	return Parse(source.New(name, []byte(content)))
}

// ParseBytes parses grammar description and returns compiled grammar on success.
func ParseBytes(name string, content []byte) (*grammar.Grammar, error) {
	return Parse(source.New(name, content))
}

// Parse parses grammar description and returns compiled grammar on success.
// Grammar name is the source name.
func Parse(s *source.Source) (*grammar.Grammar, error) {
	c := newParseContext(s)
	e := c.parse()
	if e != nil {
		return nil, e
	}

	return compile(c.desc)
}

const (
	spaceTok        = "space"
	commentTok      = "comment"
	stringTok       = "string"
	nameTok         = "name"
	dirTok          = "dir"
	templateNameTok = "template-name"
	tokenNameTok    = "token-name"
	regexpTok       = "regexp"
	opTok           = "op"
	eofTok          = lexer.EofTokenName
)

const (
	equTok       = "="
	commaTok     = ","
	semicolonTok = ";"
	colonTok     = ":"
	pipeTok      = "|"
	atTok        = "@"
	lBraceTok    = "("
	rBraceTok    = ")"
	lSquareTok   = "["
	rSquareTok   = "]"
	lCurlyTok    = "{"
	rCurlyTok    = "}"
)

const (
	asideDir      = "!aside"
	blockDir      = "!block"
	classDir      = "!class"
	dottedDir     = "!dotted"
	errorDir      = "!error"
	expressionDir = "!expression"
	inlineDir     = "!inline"
	leftDir       = "!left"
	literalDir    = "!literal"
	modeDir       = "!mode"
	nestedDir     = "!nested"
	newlineDir    = "!newline"
	noneDir       = "!none"
	oprefDir      = "!opref"
	popDir        = "!pop"
	postfixDir    = "!postfix"
	prefixDir     = "!prefix"
	pushDir       = "!push"
	reservedDir   = "!reserved"
	rightDir      = "!right"
	suffixDir     = "!suffix"
	switchDir     = "!switch"
	syncDir       = "!sync"
	ternaryDir    = "!ternary"
	versionDir    = "!version"
)

var langdefLexer *lexer.Lexer

func init() {
	g := &grammar.Grammar{
		Name:  "langdef",
		OpRef: grammar.NoIndex,
		Terms: []grammar.Term{
			{Name: spaceTok, Re: `[ \r\n\t\f]+`, Flags: grammar.AsideTerm},
			{Name: commentTok, Re: `#[^\n]*`, Flags: grammar.AsideTerm},
			{Name: stringTok, Re: `"(?:[^\\"\n]|\\.)*"|'[^'\n]*'`},
			{Name: nameTok, Re: `[a-zA-Z_][a-zA-Z_0-9-]*`},
			{Name: dirTok, Re: `![a-z]+`},
			{Name: templateNameTok, Re: `\$\$[a-zA-Z_][a-zA-Z_0-9-]*`},
			{Name: tokenNameTok, Re: `\$[a-zA-Z_][a-zA-Z_0-9-]*`},
			{Name: regexpTok, Re: `/(?:[^\\/\n]|\\.)+/`},
			{Name: opTok, Re: `[(){}\[\]=|,;@:]`},
		},
		Modes: []grammar.Mode{{Name: "main", Terms: []int{0, 1, 2, 3, 4, 5, 6, 7, 8}}},
	}
	var e error
	langdefLexer, e = lexer.New(g)
	if e != nil {
		panic(e)
	}
}

type parseContext struct {
	scanner    *lexer.Scanner
	desc       *description
	savedToken *lexer.Token
}

func newParseContext(s *source.Source) *parseContext {
	return &parseContext{
		scanner: langdefLexer.Scan(s, 0, s.Len()),
		desc:    newDescription(s.Name()),
	}
}

func (c *parseContext) parse() error {
	for {
		t, e := c.fetch([]string{nameTok, dirTok, templateNameTok, tokenNameTok, eofTok}, true, nil)
		if e != nil {
			return e
		}

		switch t.TypeName() {
		case eofTok:
			if len(c.desc.defs) == 0 {
				return eofError(t)
			}
			return nil

		case dirTok:
			e = c.parseDir(t)

		case templateNameTok:
			name := t.Text()[2:]
			_, has := c.desc.templates[name]
			if has {
				return templateDefinedError(t, name)
			}

			e = c.parseTemplateDef(name)

		case tokenNameTok:
			name := t.Text()[1:]
			if c.desc.termIndex[name] != nil {
				return defTokenError(t)
			}

			e = c.parseTokenDef(t, name)

		case nameTok:
			if c.desc.nodeIndex[t.Text()] != nil {
				return defNodeError(t)
			}

			e = c.parseNodeDef(t)
		}

		if e != nil {
			return e
		}
	}
}

func (c *parseContext) put(t *lexer.Token) {
	if c.savedToken != nil {
		panic("cannot put " + t.TypeName() + " token: already put " + c.savedToken.TypeName())
	}

	c.savedToken = t
}

func (c *parseContext) next() (*lexer.Token, error) {
	for {
		t := c.scanner.Next()
		if t.IsError() {
			return nil, wrongCharError(t)
		}
		if t.IsEOF() || t.TypeName() != spaceTok && t.TypeName() != commentTok {
			return t, nil
		}
	}
}

func (c *parseContext) fetch(types []string, strict bool, e error) (*lexer.Token, error) {
	if e != nil {
		return nil, e
	}

	token := c.savedToken
	if token == nil {
		token, e = c.next()
		if e != nil {
			return nil, e
		}

		if token.TypeName() == stringTok {
			token, e = processStringToken(token)
			if e != nil {
				return nil, e
			}
		}
	} else {
		c.savedToken = nil
	}

	for _, typ := range types {
		if token.TypeName() == typ || (token.TypeName() == opTok && token.Text() == typ) {
			return token, nil
		}
	}

	if token.IsEOF() {
		if strict {
			return nil, eofError(token)
		}
		c.put(token)
		return nil, nil
	}

	if strict {
		return nil, unexpectedTokenError(token)
	}

	c.put(token)
	return nil, nil
}

func (c *parseContext) fetchOne(typ string, strict bool, e error) (*lexer.Token, error) {
	return c.fetch([]string{typ}, strict, e)
}

func (c *parseContext) fetchAll(types []string, e error) ([]*lexer.Token, error) {
	if e != nil {
		return nil, e
	}

	result := make([]*lexer.Token, 0)
	for {
		t, e := c.fetch(types, false, nil)
		if e != nil {
			return nil, e
		}

		if t == nil {
			break
		}

		result = append(result, t)
	}

	return result, nil
}

func (c *parseContext) skipOne(typ string, e error) error {
	if e != nil {
		return e
	}

	_, e = c.fetch([]string{typ}, true, nil)
	return e
}

type escapeCharEntry struct {
	substitute, hexLen byte
}

var escapeCharMap = map[byte]escapeCharEntry{
	'\\': {'\\', 0},
	'"':  {'"', 0},
	'n':  {'\n', 0},
	'r':  {'\r', 0},
	't':  {'\t', 0},
	'x':  {0, 2},
	'u':  {0, 4},
	'U':  {0, 8},
}

// processStringToken replaces a quoted string token with its unquoted value.
func processStringToken(token *lexer.Token) (*lexer.Token, error) {
	content := token.Content()
	content = content[1 : len(content)-1]
	if token.Content()[0] != '"' || bytes.IndexByte(content, '\\') < 0 {
		return lexer.NewToken(token.Type(), stringTok, token.Class(), content, token.Start()+1, token.Source()), nil
	}

	var peekRune = func(content []byte, hexLen int) (rune, error) {
		if len(content) < hexLen+2 {
			return 0, invalidEscapeError(token, string(content))
		}

		codePoint, e := strconv.ParseUint(string(content[2:hexLen+2]), 16, 32)
		if e != nil {
			return 0, invalidEscapeError(token, string(content[:hexLen+2]))
		}

		if utf8.ValidRune(rune(codePoint)) {
			return rune(codePoint), nil
		}
		return 0, invalidRuneError(token, string(content[2:hexLen+2]))
	}

	result := make([]byte, 0, len(content))
	for {
		slashPos := bytes.IndexByte(content, '\\')
		if slashPos < 0 {
			result = append(result, content...)
			break
		}

		result = append(result, content[:slashPos]...)
		content = content[slashPos:]

		entry, valid := escapeCharMap[content[1]]
		if !valid {
			return nil, invalidEscapeError(token, string(content[:2]))
		}

		if entry.hexLen == 0 {
			result = append(result, entry.substitute)
			content = content[2:]
		} else {
			r, e := peekRune(content, int(entry.hexLen))
			if e != nil {
				return nil, e
			}

			result = utf8.AppendRune(result, r)
			content = content[entry.hexLen+2:]
		}
	}

	return lexer.NewToken(token.Type(), stringTok, token.Class(), result, token.Start()+1, token.Source()), nil
}

func (c *parseContext) parseDir(tok *lexer.Token) error {
	switch tok.Text() {
	case asideDir, errorDir, newlineDir, popDir:
		return c.parseTermFlagDir(tok)
	case pushDir, switchDir:
		return c.parseModeActionDir(tok)
	case classDir:
		return c.parseClassDir()
	case modeDir:
		return c.parseModeDir()
	case literalDir:
		return c.parseLiteralDir()
	case reservedDir:
		return c.parseReservedDir()
	case syncDir:
		return c.parseSyncDir()
	case versionDir:
		return c.parseVersionDir()
	case dottedDir:
		return c.parseDottedDir()
	case nestedDir, blockDir, inlineDir, suffixDir:
		return c.parseNodeFlagDir(tok)
	case expressionDir:
		return c.parseExpressionDir()
	case oprefDir:
		return c.parseOprefDir(tok)
	case leftDir, rightDir, noneDir, prefixDir, postfixDir, ternaryDir:
		return c.parseLevelDir(tok)
	default:
		return unknownDirectiveError(tok)
	}
}

func (c *parseContext) fetchTermNames(e error) ([]*lexer.Token, error) {
	tokens, e := c.fetchAll([]string{tokenNameTok}, e)
	e = c.skipOne(semicolonTok, e)
	return tokens, e
}

func (c *parseContext) parseTermFlagDir(dir *lexer.Token) error {
	tokens, e := c.fetchTermNames(nil)
	if e != nil {
		return e
	}

	var apply func(td *termDef)
	switch dir.Text() {
	case asideDir:
		apply = func(td *termDef) { td.flags |= grammar.AsideTerm }
	case errorDir:
		apply = func(td *termDef) { td.flags |= grammar.ErrorTerm | grammar.NoLiteralsTerm }
	case newlineDir:
		apply = func(td *termDef) {
			td.flags |= grammar.NewlineTerm
			if td.class == grammar.ClassNone {
				td.class = grammar.ClassNewline
			}
		}
	case popDir:
		apply = func(td *termDef) { td.action = grammar.PopMode }
	}
	for _, t := range tokens {
		c.desc.markTerm(t, apply)
	}
	return nil
}

func (c *parseContext) parseModeActionDir(dir *lexer.Token) error {
	mode, e := c.fetchOne(nameTok, true, nil)
	tokens, e := c.fetchTermNames(e)
	if e != nil {
		return e
	}

	action := grammar.PushMode
	if dir.Text() == switchDir {
		action = grammar.SwitchMode
	}
	target := mode.Text()
	for _, t := range tokens {
		c.desc.markTerm(t, func(td *termDef) {
			td.action = action
			td.target = target
		})
	}
	return nil
}

func (c *parseContext) parseClassDir() error {
	name, e := c.fetchOne(nameTok, true, nil)
	tokens, e := c.fetchTermNames(e)
	if e != nil {
		return e
	}

	class, valid := grammar.ParseClass(name.Text())
	if !valid {
		return unknownClassError(name)
	}

	for _, t := range tokens {
		c.desc.markTerm(t, func(td *termDef) { td.class = class })
	}
	return nil
}

// parseModeDir handles `!mode name [: base];` (following token definitions go to this mode)
// and `!mode name [: base] $t ...;` (listed terms are added to the mode).
func (c *parseContext) parseModeDir() error {
	name, e := c.fetchOne(nameTok, true, nil)
	if e != nil {
		return e
	}

	m := c.desc.addMode(name.Text())
	colon, e := c.fetchOne(colonTok, false, nil)
	if colon != nil {
		base, e := c.fetchOne(nameTok, true, e)
		if e != nil {
			return e
		}
		if m.base != "" && m.base != base.Text() {
			return wrongDirectiveError(base, "mode %q already extends %q", m.name, m.base)
		}
		m.base = base.Text()
	}

	tokens, e := c.fetchTermNames(e)
	if e != nil {
		return e
	}

	if len(tokens) == 0 {
		c.desc.currentMode = m
		return nil
	}

	for _, t := range tokens {
		m.terms = append(m.terms, t.Text()[1:])
		c.desc.mentionTerm(t)
	}
	return nil
}

func (c *parseContext) parseLiteralDir() error {
	tokens, e := c.fetchTermNames(nil)
	if e != nil {
		return e
	}

	for _, t := range tokens {
		c.desc.literalTypes = append(c.desc.literalTypes, t.Text()[1:])
		c.desc.mentionTerm(t)
	}
	return nil
}

func (c *parseContext) parseReservedDir() error {
	tokens, e := c.fetchAll([]string{stringTok}, nil)
	e = c.skipOne(semicolonTok, e)
	if e != nil {
		return e
	}

	for _, t := range tokens {
		c.desc.addLiteral(t.Text())
		c.desc.reserved[t.Text()] = true
	}
	return nil
}

func (c *parseContext) parseSyncDir() error {
	tokens, e := c.fetchAll([]string{stringTok, tokenNameTok}, nil)
	e = c.skipOne(semicolonTok, e)
	if e != nil {
		return e
	}

	for _, t := range tokens {
		c.desc.sync = append(c.desc.sync, c.termItem(t))
	}
	return nil
}

func (c *parseContext) parseVersionDir() error {
	v, e := c.fetchOne(stringTok, true, nil)
	e = c.skipOne(semicolonTok, e)
	if e != nil {
		return e
	}

	c.desc.version = v.Text()
	return nil
}

func (c *parseContext) parseDottedDir() error {
	v, e := c.fetchOne(stringTok, true, nil)
	e = c.skipOne(semicolonTok, e)
	if e != nil {
		return e
	}

	c.desc.dotted = v.Text()
	return nil
}

func (c *parseContext) parseNodeFlagDir(dir *lexer.Token) error {
	tokens, e := c.fetchAll([]string{nameTok}, nil)
	e = c.skipOne(semicolonTok, e)
	if e != nil {
		return e
	}

	var flag grammar.NodeFlags
	switch dir.Text() {
	case nestedDir:
		flag = grammar.NestedNode
	case blockDir:
		flag = grammar.BlockNode
	case inlineDir:
		flag = grammar.InlineNode
	case suffixDir:
		flag = grammar.SuffixNode
	}
	for _, t := range tokens {
		c.desc.nodeMarks = append(c.desc.nodeMarks, nodeMark{name: t.Text(), tok: t, flag: flag})
		if flag == grammar.SuffixNode {
			c.desc.suffixes = append(c.desc.suffixes, t.Text())
		}
	}
	return nil
}

func (c *parseContext) parseExpressionDir() error {
	name, e := c.fetchOne(nameTok, true, nil)
	operand, e := c.fetchOne(nameTok, true, e)
	e = c.skipOne(semicolonTok, e)
	if e != nil {
		return e
	}

	nd, e := c.desc.addSynthNode(name, grammar.ExpressionNode)
	if e != nil {
		return e
	}

	nd.operand = operand.Text()
	return nil
}

func (c *parseContext) parseOprefDir(dir *lexer.Token) error {
	name, e := c.fetchOne(nameTok, true, nil)
	e = c.skipOne(semicolonTok, e)
	if e != nil {
		return e
	}

	if c.desc.opref != "" {
		return wrongDirectiveError(dir, "operator reference node already defined")
	}

	_, e = c.desc.addSynthNode(name, grammar.OpRefNode)
	c.desc.opref = name.Text()
	return e
}

func (c *parseContext) parseLevelDir(dir *lexer.Token) error {
	name, e := c.fetchOne(nameTok, true, nil)
	ops, e := c.fetchAll([]string{stringTok}, e)
	e = c.skipOne(semicolonTok, e)
	if e != nil {
		return e
	}

	level := &levelDef{node: name.Text(), tok: dir}
	switch dir.Text() {
	case leftDir:
		level.kind, level.assoc = grammar.BinaryOp, grammar.LeftAssoc
	case rightDir:
		level.kind, level.assoc = grammar.BinaryOp, grammar.RightAssoc
	case noneDir:
		level.kind, level.assoc = grammar.BinaryOp, grammar.NonAssoc
	case prefixDir:
		level.kind = grammar.PrefixOp
	case postfixDir:
		level.kind = grammar.PostfixOp
	case ternaryDir:
		level.kind, level.assoc = grammar.TernaryOp, grammar.RightAssoc
		if len(ops) != 2 {
			return wrongDirectiveError(dir, "ternary level needs exactly two operators")
		}
	}
	if len(ops) == 0 {
		return wrongDirectiveError(dir, "operator level %q lists no operators", level.node)
	}

	for _, op := range ops {
		level.ops = append(level.ops, op.Text())
		c.desc.addLiteral(op.Text())
	}

	if nd := c.desc.nodeIndex[level.node]; nd == nil || !nd.synth || nd.flags != grammar.OperatorNode {
		_, e = c.desc.addSynthNode(name, grammar.OperatorNode)
		if e != nil {
			return e
		}
	}
	c.desc.levels = append(c.desc.levels, level)
	return nil
}

func (c *parseContext) parseTemplateDef(name string) error {
	e := c.skipOne(equTok, nil)
	re, e := c.fetchRegexp(e)
	e = c.skipOne(semicolonTok, e)
	if e != nil {
		return e
	}

	c.desc.templates[name] = re
	return nil
}

func (c *parseContext) parseTokenDef(t *lexer.Token, name string) error {
	e := c.skipOne(equTok, nil)
	re, e := c.fetchRegexp(e)
	e = c.skipOne(semicolonTok, e)
	if e != nil {
		return e
	}

	c.desc.addTerm(t, name, re)
	return nil
}

// fetchRegexp concatenates a sequence of regexp literals and template names.
func (c *parseContext) fetchRegexp(e error) (string, error) {
	types := []string{regexpTok, nameTok}
	tokens, e := c.fetchAll(types, e)
	if e != nil {
		return "", e
	}

	if len(tokens) == 0 {
		_, e = c.fetch(types, true, nil)
		return "", e
	}

	var contents []byte
	for _, token := range tokens {
		switch token.TypeName() {
		case regexpTok:
			content := token.Content()
			contents = append(contents, content[1:len(content)-1]...)

		case nameTok:
			content, has := c.desc.templates[token.Text()]
			if !has {
				return "", unknownTemplateError(token, token.Text())
			}

			contents = append(contents, content...)
		}
	}

	re := string(contents)
	e = checkRegexp(re)
	if e != nil {
		return "", regexpError(tokens[0], e)
	}

	return re, nil
}

func (c *parseContext) parseNodeDef(t *lexer.Token) error {
	nd := c.desc.addNode(t)
	e := c.skipOne(equTok, nil)
	if e != nil {
		return e
	}

	nd.body, e = c.parseSequence()
	return c.skipOne(semicolonTok, e)
}

func (c *parseContext) parseSequence() (*itemDef, error) {
	result := &itemDef{kind: grammar.SeqItem}
	for {
		item, e := c.parseVariants()
		if e != nil {
			return nil, e
		}

		result.items = append(result.items, item)
		t, e := c.fetchOne(commaTok, false, nil)
		if t == nil {
			if len(result.items) == 1 {
				return result.items[0], e
			}
			return result, e
		}
	}
}

// parseVariants parses `a | b | c`; variants bind tighter than sequences.
func (c *parseContext) parseVariants() (*itemDef, error) {
	item, e := c.parseVariant()
	t, e := c.fetchOne(pipeTok, false, e)
	if e != nil {
		return nil, e
	} else if t == nil {
		return item, nil
	}

	result := &itemDef{kind: grammar.ChoiceItem, items: []*itemDef{item}}
	for {
		item, e = c.parseVariant()
		t, e = c.fetchOne(pipeTok, false, e)
		if e != nil {
			return nil, e
		}

		result.items = append(result.items, item)
		if t == nil {
			return result, nil
		}
	}
}

func (c *parseContext) termItem(t *lexer.Token) *itemDef {
	if t.TypeName() == stringTok {
		c.desc.addLiteral(t.Text())
		return &itemDef{kind: grammar.TermItem, name: t.Text(), literal: true, tok: t}
	}

	c.desc.mentionTerm(t)
	return &itemDef{kind: grammar.TermItem, name: t.Text()[1:], tok: t}
}

func (c *parseContext) parseVariant() (*itemDef, error) {
	variantHeads := []string{nameTok, tokenNameTok, stringTok, atTok, lBraceTok, lSquareTok, lCurlyTok}
	t, e := c.fetch(variantHeads, true, nil)
	if e != nil {
		return nil, e
	}

	switch t.TypeName() {
	case nameTok:
		return &itemDef{kind: grammar.NodeItem, name: t.Text(), tok: t}, nil

	case tokenNameTok, stringTok:
		return c.termItem(t), nil
	}

	var (
		kind      grammar.ItemKind
		lastToken string
	)
	switch t.Text() {
	case atTok:
		return &itemDef{kind: grammar.LeftItem, tok: t}, nil
	case lCurlyTok:
		kind, lastToken = grammar.RepeatItem, rCurlyTok
	case lSquareTok:
		kind, lastToken = grammar.OptionalItem, rSquareTok
	default:
		kind, lastToken = grammar.SeqItem, rBraceTok
	}

	body, e := c.parseSequence()
	e = c.skipOne(lastToken, e)
	if e != nil {
		return nil, e
	}

	if kind == grammar.SeqItem {
		return body, nil
	}
	return &itemDef{kind: kind, items: []*itemDef{body}, tok: t}, nil
}
