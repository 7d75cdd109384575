package parser

import (
	"github.com/dhamidi/gqlfront/graphql/ast"
)

// InvalidSyntaxError reports the first lexical or syntactic problem of a
// parse. No partial tree accompanies it.
type InvalidSyntaxError struct {
	Location       *ast.SourceLocation
	Message        string
	SourcePreview  string
	OffendingToken string
}

func (e *InvalidSyntaxError) Error() string {
	return e.Message
}

// ParseCancelledError reports that a parse consumed more significant tokens
// than Options.MaxTokens allows. The input may well be valid.
type ParseCancelledError struct {
	Message        string
	Location       *ast.SourceLocation
	OffendingToken string
}

func (e *ParseCancelledError) Error() string {
	return e.Message
}
