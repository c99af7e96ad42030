// Package docfmt parses docstring markup: headers, paragraphs, lists, code blocks and spans,
// emphasis, links, cross references and admonitions.
//
// Parsing runs over a window of a primary source, so token offsets of a docfmt tree are offsets
// in the primary buffer and the tree can be attached to a tree of another dialect.
// All docfmt diagnostics are warnings.
//
// Known simplifications: docstring indentation is not removed before parsing, so lines indented
// by four or more spaces are code lines; admonition bodies are kept as raw code lines.
package docfmt

import (
	"context"
	_ "embed"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ava12/jlx"
	"github.com/ava12/jlx/langdef"
	"github.com/ava12/jlx/parser"
	"github.com/ava12/jlx/source"
	"github.com/ava12/jlx/tree"
)

const (
	Dialect = "docfmt"

	// Label marks docfmt roots attached to trees of other dialects.
	Label = "docfmt"
)

//go:embed docfmt.llx
var grammarText []byte

// GrammarSource returns the embedded grammar description.
func GrammarSource() *source.Source {
	return source.New("docfmt.llx", grammarText)
}

type config struct {
	log   zerolog.Logger
	cache *langdef.Cache
}

type Option func(*config)

func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

// WithCache makes New load compiled grammar tables through the cache.
func WithCache(c *langdef.Cache) Option {
	return func(cfg *config) {
		cfg.cache = c
	}
}

// Doc is a compiled docfmt parser. It is immutable and may serve concurrent passes.
type Doc struct {
	parser *parser.Parser
	hooks  *parser.Hooks
}

func New(opts ...Option) (*Doc, error) {
	cfg := config{log: zerolog.Nop()}
	for _, o := range opts {
		o(&cfg)
	}

	g, e := cfg.cache.Load(GrammarSource())
	if e != nil {
		return nil, e
	}
	if e = checkKinds(g); e != nil {
		return nil, e
	}

	p, e := parser.New(g,
		parser.WithLogger(cfg.log.With().Str("dialect", Dialect).Logger()),
		parser.WithDialect(Dialect),
		parser.WithSeverity(jlx.SeverityWarning),
	)
	if e != nil {
		return nil, e
	}

	hooks := &parser.Hooks{Nodes: parser.NodeHooks{
		KindDoc.String():  labelRoot,
		KindLink.String(): crossRef,
	}}
	return &Doc{parser: p, hooks: hooks}, nil
}

func (d *Doc) Parser() *parser.Parser {
	return d.parser
}

// Parse parses the whole source.
func (d *Doc) Parse(ctx context.Context, src *source.Source) (*parser.Result, error) {
	return d.ParseRange(ctx, src, 0, src.Len())
}

// ParseRange parses the [start, end) window of src, the only error is cancellation.
func (d *Doc) ParseRange(ctx context.Context, src *source.Source, start, end int) (*parser.Result, error) {
	return d.parser.ParseRange(ctx, src, start, end, d.hooks)
}

func labelRoot(d *parser.Draft, _ *parser.ParseContext) error {
	d.Label = Label
	return nil
}

func crossRef(d *parser.Draft, _ *parser.ParseContext) error {
	for _, c := range d.Children {
		if KindOf(c) != KindTarget {
			continue
		}

		target := strings.TrimSpace(strings.Trim(tree.Text(c), "()"))
		if strings.HasPrefix(target, "@ref") {
			d.Kind = int(KindCrossRef)
			d.TypeName = KindCrossRef.String()
		}
	}
	return nil
}
