package parser

import (
	"errors"
	"io"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/gqlfront/graphql/ast"
)

var log = commonlog.GetLogger("gqlfront.parser")

// Parser holds an immutable snapshot of Options. It is safe for concurrent
// use; every call builds its own reader, lexer and guard.
type Parser struct {
	opts Options
}

// New snapshots the current process-wide defaults and applies opts on top.
func New(opts ...Option) *Parser {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{opts: o.normalized()}
}

func (p *Parser) Options() Options {
	return p.opts
}

// ParseDocument parses a complete document. Passing a *MultiSourceReader
// keeps its fragment names in locations and previews.
func (p *Parser) ParseDocument(r io.Reader) (*ast.Document, error) {
	src, err := sourceOf(r)
	if err != nil {
		return nil, err
	}
	doc, _, err := run(p.opts, src, (*parser).parseDocument)
	return doc, err
}

func (p *Parser) ParseDocumentString(input, sourceName string) (*ast.Document, error) {
	doc, _, err := run(p.opts, FromString(input, sourceName), (*parser).parseDocument)
	return doc, err
}

// ParseValue parses a single input value. Variables are allowed.
func (p *Parser) ParseValue(input string) (ast.Value, error) {
	v, _, err := run(p.opts, FromString(input, ""), func(ps *parser) ast.Value {
		return ps.parseValue(false)
	})
	return v, err
}

// ParseType parses a single type reference such as [String!]!.
func (p *Parser) ParseType(input string) (ast.Type, error) {
	t, _, err := run(p.opts, FromString(input, ""), (*parser).parseType)
	return t, err
}

// ParseComments parses the document only to collect its line comments. The
// token guard and syntax checks apply as for ParseDocument.
func (p *Parser) ParseComments(r io.Reader) ([]*ast.Comment, error) {
	src, err := sourceOf(r)
	if err != nil {
		return nil, err
	}
	_, comments, err := run(p.opts, src, (*parser).parseDocument)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Parse parses a document with the default options and opts applied.
func Parse(input string, opts ...Option) (*ast.Document, error) {
	return New(opts...).ParseDocumentString(input, "")
}

func ParseValue(input string, opts ...Option) (ast.Value, error) {
	return New(opts...).ParseValue(input)
}

func ParseType(input string, opts ...Option) (ast.Type, error) {
	return New(opts...).ParseType(input)
}

func ParseComments(input string, opts ...Option) ([]*ast.Comment, error) {
	return New(opts...).ParseComments(FromString(input, ""))
}

func sourceOf(r io.Reader) (*MultiSourceReader, error) {
	if src, ok := r.(*MultiSourceReader); ok {
		return src, nil
	}
	return FromReader(r, "")
}

// run applies one entry rule, then the trailing token check. A bailout
// raised anywhere below is turned into the returned error.
func run[T any](opts Options, src *MultiSourceReader, rule func(*parser) T) (result T, comments []*ast.Comment, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		var cancelled *ParseCancelledError
		if errors.As(b.err, &cancelled) {
			log.Warningf("parse cancelled at %s: more than %d tokens", cancelled.Location, opts.MaxTokens)
		}
		var zero T
		result, comments, err = zero, nil, b.err
	}()

	p := newParser(src, opts)
	result = rule(p)
	p.expectEnd()
	return result, p.comments, nil
}
