package langdef

import (
	"github.com/ava12/jlx/grammar"
	"github.com/ava12/jlx/lexer"
)

const defaultModeName = "default"

type termDef struct {
	name   string
	re     string
	flags  grammar.TermFlags
	class  grammar.TermClass
	action grammar.ModeAction
	target string
	tok    *lexer.Token
}

type termMark struct {
	name  string
	tok   *lexer.Token
	apply func(*termDef)
}

type modeDef struct {
	name  string
	base  string
	terms []string
}

type itemDef struct {
	kind    grammar.ItemKind
	name    string
	literal bool
	items   []*itemDef
	tok     *lexer.Token
}

type nodeDef struct {
	name    string
	body    *itemDef
	flags   grammar.NodeFlags
	operand string
	synth   bool
	tok     *lexer.Token
}

type nodeMark struct {
	name string
	tok  *lexer.Token
	flag grammar.NodeFlags
}

type levelDef struct {
	node  string
	kind  grammar.OpKind
	assoc grammar.Assoc
	ops   []string
	tok   *lexer.Token
}

// description is the raw, unresolved content of a grammar description.
type description struct {
	name, version string

	terms     []*termDef
	termIndex map[string]*termDef
	termMarks []termMark
	mentioned []*lexer.Token
	templates map[string]string

	modes       []*modeDef
	modeIndex   map[string]*modeDef
	currentMode *modeDef

	literals     []string
	literalIndex map[string]bool
	reserved     map[string]bool
	literalTypes []string

	defs      []*nodeDef
	synth     []*nodeDef
	nodeIndex map[string]*nodeDef
	nodeMarks []nodeMark
	suffixes  []string

	levels []*levelDef
	sync   []*itemDef
	dotted string
	opref  string
}

func newDescription(name string) *description {
	return &description{
		name:         name,
		termIndex:    make(map[string]*termDef),
		templates:    make(map[string]string),
		modeIndex:    make(map[string]*modeDef),
		literalIndex: make(map[string]bool),
		reserved:     make(map[string]bool),
		nodeIndex:    make(map[string]*nodeDef),
	}
}

func (d *description) addMode(name string) *modeDef {
	m := d.modeIndex[name]
	if m == nil {
		m = &modeDef{name: name}
		d.modes = append(d.modes, m)
		d.modeIndex[name] = m
	}
	return m
}

func (d *description) addTerm(t *lexer.Token, name, re string) {
	td := &termDef{name: name, re: re, tok: t}
	d.terms = append(d.terms, td)
	d.termIndex[name] = td
	if d.currentMode == nil {
		d.currentMode = d.addMode(defaultModeName)
	}
	d.currentMode.terms = append(d.currentMode.terms, name)
}

// mentionTerm records a term reference, it must be defined somewhere in the description.
func (d *description) mentionTerm(t *lexer.Token) {
	d.mentioned = append(d.mentioned, t)
}

func (d *description) markTerm(t *lexer.Token, apply func(*termDef)) {
	d.mentionTerm(t)
	d.termMarks = append(d.termMarks, termMark{name: t.Text()[1:], tok: t, apply: apply})
}

func (d *description) addLiteral(text string) {
	if !d.literalIndex[text] {
		d.literalIndex[text] = true
		d.literals = append(d.literals, text)
	}
}

func (d *description) addNode(t *lexer.Token) *nodeDef {
	nd := &nodeDef{name: t.Text(), tok: t}
	d.defs = append(d.defs, nd)
	d.nodeIndex[nd.name] = nd
	return nd
}

func (d *description) addSynthNode(t *lexer.Token, flag grammar.NodeFlags) (*nodeDef, error) {
	if d.nodeIndex[t.Text()] != nil {
		return nil, defNodeError(t)
	}

	nd := &nodeDef{name: t.Text(), flags: flag, synth: true, tok: t}
	d.synth = append(d.synth, nd)
	d.nodeIndex[nd.name] = nd
	return nd, nil
}
