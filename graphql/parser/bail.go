package parser

import (
	"fmt"

	"github.com/dhamidi/gqlfront/graphql/ast"
)

const previewContextLines = 2

// bailout carries the first error of a parse up to the entry point, which
// recovers it. Grammar functions never return errors themselves.
type bailout struct {
	err error
}

// bailStrategy turns the first problem of a parse into an error. There is
// no recovery: callers panic with the result.
type bailStrategy struct {
	src *MultiSourceReader
}

func (b bailStrategy) location(line, column int) *ast.SourceLocation {
	name, local := b.src.Locate(line)
	return &ast.SourceLocation{Line: local, Column: column, SourceName: name}
}

func (b bailStrategy) newError(tok Token, message string) *InvalidSyntaxError {
	return &InvalidSyntaxError{
		Location:       b.location(tok.Line, tok.Column),
		Message:        message,
		SourcePreview:  b.src.Preview(tok.Line, previewContextLines),
		OffendingToken: tok.display(),
	}
}

func (b bailStrategy) prefix(tok Token) string {
	loc := b.location(tok.Line, tok.Column)
	return fmt.Sprintf("Invalid syntax with offending token '%s' at line %d column %d",
		tok.display(), loc.Line, loc.Column)
}

// mismatch reports a token the grammar did not expect.
func (b bailStrategy) mismatch(tok Token, expected string) *InvalidSyntaxError {
	msg := b.prefix(tok)
	if expected != "" {
		msg += ": expected " + expected
	}
	return b.newError(tok, msg)
}

// lexical reports malformed source text.
func (b bailStrategy) lexical(tok Token, detail string) *InvalidSyntaxError {
	return b.newError(tok, b.prefix(tok)+": "+detail)
}

// trailing reports the first token left over after a complete entry rule.
func (b bailStrategy) trailing(tok Token) *InvalidSyntaxError {
	loc := b.location(tok.Line, tok.Column)
	msg := fmt.Sprintf("Invalid syntax encountered. There are extra tokens in the text that have not been consumed. Offending token '%s' at line %d column %d",
		tok.display(), loc.Line, loc.Column)
	return b.newError(tok, msg)
}
