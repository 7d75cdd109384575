package format

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/dhamidi/gqlfront/graphql/ast"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	if _, err = e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *ASTJSONEncoder) MarshalText(node ast.Node) ([]byte, error) {
	return json.MarshalIndent(NodeToJSON(node), "", "  ")
}

// ASTJSONNode is the JSON shape of a node. Only the attributes that apply
// to the node's kind are set.
type ASTJSONNode struct {
	Kind       string           `json:"kind"`
	Location   *ASTJSONLocation `json:"location,omitempty"`
	Operation  string           `json:"operation,omitempty"`
	Alias      string           `json:"alias,omitempty"`
	Name       string           `json:"name,omitempty"`
	Value      string           `json:"value,omitempty"`
	Type       string           `json:"type,omitempty"`
	Extension  bool             `json:"extension,omitempty"`
	Repeatable bool             `json:"repeatable,omitempty"`
	Locations  []string         `json:"locations,omitempty"`
	Comments   []string         `json:"comments,omitempty"`
	Children   []*ASTJSONNode   `json:"children,omitempty"`
}

type ASTJSONLocation struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Source string `json:"source,omitempty"`
}

// NodeToJSON converts the tree rooted at n. It returns nil for a nil node.
func NodeToJSON(n ast.Node) *ASTJSONNode {
	if n == nil {
		return nil
	}
	jn := &ASTJSONNode{
		Kind: n.Kind().String(),
	}

	header := n.Header()
	if loc := header.Location; loc != nil {
		jn.Location = &ASTJSONLocation{Line: loc.Line, Column: loc.Column, Source: loc.SourceName}
	}
	for _, c := range header.Comments {
		jn.Comments = append(jn.Comments, c.Content)
	}

	switch n := n.(type) {
	case *ast.OperationDefinition:
		jn.Operation = string(n.Operation)
		jn.Name = n.Name
	case *ast.FragmentDefinition:
		jn.Name = n.Name
	case *ast.VariableDefinition:
		jn.Name = n.Name
		jn.Type = typeString(n.Type)
	case *ast.Directive:
		jn.Name = n.Name
	case *ast.Argument:
		jn.Name = n.Name
	case *ast.Field:
		jn.Alias = n.Alias
		jn.Name = n.Name
	case *ast.FragmentSpread:
		jn.Name = n.Name
	case *ast.SchemaDefinition:
		jn.Extension = n.Extension
	case *ast.OperationTypeDefinition:
		jn.Operation = string(n.Operation)
	case *ast.ScalarTypeDefinition:
		jn.Name, jn.Extension = n.Name, n.Extension
	case *ast.ObjectTypeDefinition:
		jn.Name, jn.Extension = n.Name, n.Extension
	case *ast.InterfaceTypeDefinition:
		jn.Name, jn.Extension = n.Name, n.Extension
	case *ast.UnionTypeDefinition:
		jn.Name, jn.Extension = n.Name, n.Extension
	case *ast.EnumTypeDefinition:
		jn.Name, jn.Extension = n.Name, n.Extension
	case *ast.InputObjectTypeDefinition:
		jn.Name, jn.Extension = n.Name, n.Extension
	case *ast.DirectiveDefinition:
		jn.Name = n.Name
		jn.Repeatable = n.Repeatable
		jn.Locations = n.Locations
	case *ast.FieldDefinition:
		jn.Name = n.Name
		jn.Type = typeString(n.Type)
	case *ast.InputValueDefinition:
		jn.Name = n.Name
		jn.Type = typeString(n.Type)
	case *ast.EnumValueDefinition:
		jn.Name = n.Name
	case *ast.VariableReference:
		jn.Name = n.Name
	case *ast.IntValue:
		jn.Value = n.Value
	case *ast.FloatValue:
		jn.Value = n.Value
	case *ast.StringValue:
		jn.Value = n.Value
	case *ast.BooleanValue:
		jn.Value = strconv.FormatBool(n.Value)
	case *ast.NullValue:
		jn.Value = "null"
	case *ast.EnumValue:
		jn.Value = n.Name
	case *ast.ObjectField:
		jn.Name = n.Name
	case *ast.TypeName:
		jn.Name = n.Name
	case *ast.ListType, *ast.NonNullType:
		jn.Type = n.(ast.Type).String()
	}

	if children := n.Children(); len(children) > 0 {
		jn.Children = make([]*ASTJSONNode, len(children))
		for i, child := range children {
			jn.Children[i] = NodeToJSON(child)
		}
	}

	return jn
}

func typeString(t ast.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}
