// Package format writes GraphQL syntax trees back out: as GraphQL text, as
// a JSON tree, or as a tab-separated outline.
package format

import (
	"github.com/dhamidi/gqlfront/graphql/ast"
)

type Encoder interface {
	Encode(node ast.Node) error
}

var (
	_ Encoder = (*Printer)(nil)
	_ Encoder = (*ASTJSONEncoder)(nil)
	_ Encoder = (*LineEncoder)(nil)
)
