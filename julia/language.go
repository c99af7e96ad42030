// Package julia is the Julia dialect: the embedded grammar, node kinds, tree hooks
// and helpers working on parsed trees.
//
// Hooks reshape the tree produced by the grammar:
//   - a string followed by a definition becomes a docstring child of the definition,
//     its content is parsed with the docfmt dialect;
//   - short function definitions `f(x) = ...` become function-def nodes;
//   - bare and parenthesized comma lists become tuples, `(x for x in y)` becomes a generator,
//     `[x for x in y]` becomes a comprehension and `f.(x)` becomes a broadcast-call;
//   - the string argument of `@doc` becomes a docstring.
package julia

import (
	"context"
	_ "embed"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/docfmt"
	"github.com/ava12/jlx/langdef"
	"github.com/ava12/jlx/lexer"
	"github.com/ava12/jlx/parser"
	"github.com/ava12/jlx/source"
	"github.com/ava12/jlx/tree"
)

const Dialect = "julia"

//go:embed julia.llx
var grammarText []byte

// GrammarSource returns the embedded grammar description.
func GrammarSource() *source.Source {
	return source.New("julia.llx", grammarText)
}

type config struct {
	log      zerolog.Logger
	cache    *langdef.Cache
	maxDepth int
}

type Option func(*config)

// WithLogger sets the logger for both dialects, nothing is logged by default.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WithCache makes NewLanguage load compiled grammar tables through the cache.
func WithCache(c *langdef.Cache) Option {
	return func(cfg *config) {
		cfg.cache = c
	}
}

// WithMaxDepth limits node nesting, see parser.WithMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// Snapshot is an immutable source text version.
type Snapshot struct {
	Name    string
	Version string
	Text    []byte
}

type Result struct {
	// Version is copied from the parsed snapshot.
	Version     string
	Source      *source.Source
	Root        *tree.Node
	Diagnostics []jlx.Diagnostic
	Stats       parser.Stats
}

// Language holds compiled Julia and docfmt parsers. It is immutable and safe for concurrent use.
type Language struct {
	parser *parser.Parser
	doc    *docfmt.Doc
	log    zerolog.Logger
	hooks  *parser.Hooks
}

// NewLanguage compiles both grammars. Any returned error is a structural grammar error.
func NewLanguage(opts ...Option) (*Language, error) {
	cfg := config{log: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}

	doc, e := docfmt.New(docfmt.WithLogger(cfg.log), docfmt.WithCache(cfg.cache))
	if e != nil {
		return nil, e
	}

	g, e := cfg.cache.Load(GrammarSource())
	if e != nil {
		return nil, e
	}
	if e = checkKinds(g); e != nil {
		return nil, e
	}

	log := cfg.log.With().Str("dialect", Dialect).Logger()
	p, e := parser.New(g,
		parser.WithLogger(log),
		parser.WithDialect(Dialect),
		parser.WithMaxDepth(cfg.maxDepth),
	)
	if e != nil {
		return nil, e
	}

	l := &Language{parser: p, doc: doc, log: log}
	l.hooks = l.newHooks()
	log.Debug().Int("nodes", len(g.Nodes)).Int("terms", len(g.Terms)).Msg("grammar compiled")
	return l, nil
}

var (
	defaultOnce sync.Once
	defaultLang *Language
	defaultErr  error
)

// MustLanguage returns the shared Language built with default options, it panics if the
// embedded grammars do not compile.
func MustLanguage() *Language {
	defaultOnce.Do(func() {
		defaultLang, defaultErr = NewLanguage()
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultLang
}

func (l *Language) Parser() *parser.Parser {
	return l.parser
}

func (l *Language) Doc() *docfmt.Doc {
	return l.doc
}

// Parse parses a snapshot. Malformed input yields diagnostics and error nodes,
// the only error is cancellation.
func (l *Language) Parse(ctx context.Context, snap Snapshot) (*Result, error) {
	src := source.New(snap.Name, snap.Text)
	res, e := l.parser.Parse(ctx, src, l.hooks)
	if e != nil {
		l.log.Debug().Str("source", snap.Name).Str("version", snap.Version).Err(e).Msg("pass aborted")
		return nil, e
	}

	return &Result{
		Version:     snap.Version,
		Source:      src,
		Root:        res.Root,
		Diagnostics: res.Diagnostics,
		Stats:       res.Stats,
	}, nil
}

// Tokens returns the token stream of a snapshot including trivia and the final EoF token.
func (l *Language) Tokens(snap Snapshot) ([]*lexer.Token, []jlx.Diagnostic) {
	return l.parser.Lexer().Tokens(source.New(snap.Name, snap.Text))
}
