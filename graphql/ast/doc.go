// Package ast defines the GraphQL syntax tree.
//
// The node set is closed: every variant embeds NodeBase and implements Node,
// and no type outside this package can. Trees are treated as immutable once
// built; transformations take a DeepCopy and change the copy.
package ast
