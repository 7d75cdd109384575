package ast

import (
	"fmt"
	"maps"
)

type Kind int

const (
	KindDocument Kind = iota

	// Executable definitions
	KindOperationDefinition
	KindFragmentDefinition
	KindVariableDefinition
	KindSelectionSet
	KindField
	KindFragmentSpread
	KindInlineFragment
	KindArgument
	KindDirective

	// Type system definitions
	KindSchemaDefinition
	KindOperationTypeDefinition
	KindScalarTypeDefinition
	KindObjectTypeDefinition
	KindInterfaceTypeDefinition
	KindUnionTypeDefinition
	KindEnumTypeDefinition
	KindInputObjectTypeDefinition
	KindDirectiveDefinition
	KindFieldDefinition
	KindInputValueDefinition
	KindEnumValueDefinition

	// Values
	KindVariableReference
	KindIntValue
	KindFloatValue
	KindStringValue
	KindBooleanValue
	KindNullValue
	KindEnumValue
	KindArrayValue
	KindObjectValue
	KindObjectField

	// Types
	KindTypeName
	KindListType
	KindNonNullType

	KindComment
)

var kindNames = map[Kind]string{
	KindDocument:                  "Document",
	KindOperationDefinition:       "OperationDefinition",
	KindFragmentDefinition:        "FragmentDefinition",
	KindVariableDefinition:        "VariableDefinition",
	KindSelectionSet:              "SelectionSet",
	KindField:                     "Field",
	KindFragmentSpread:            "FragmentSpread",
	KindInlineFragment:            "InlineFragment",
	KindArgument:                  "Argument",
	KindDirective:                 "Directive",
	KindSchemaDefinition:          "SchemaDefinition",
	KindOperationTypeDefinition:   "OperationTypeDefinition",
	KindScalarTypeDefinition:      "ScalarTypeDefinition",
	KindObjectTypeDefinition:      "ObjectTypeDefinition",
	KindInterfaceTypeDefinition:   "InterfaceTypeDefinition",
	KindUnionTypeDefinition:       "UnionTypeDefinition",
	KindEnumTypeDefinition:        "EnumTypeDefinition",
	KindInputObjectTypeDefinition: "InputObjectTypeDefinition",
	KindDirectiveDefinition:       "DirectiveDefinition",
	KindFieldDefinition:           "FieldDefinition",
	KindInputValueDefinition:      "InputValueDefinition",
	KindEnumValueDefinition:       "EnumValueDefinition",
	KindVariableReference:         "VariableReference",
	KindIntValue:                  "IntValue",
	KindFloatValue:                "FloatValue",
	KindStringValue:               "StringValue",
	KindBooleanValue:              "BooleanValue",
	KindNullValue:                 "NullValue",
	KindEnumValue:                 "EnumValue",
	KindArrayValue:                "ArrayValue",
	KindObjectValue:               "ObjectValue",
	KindObjectField:               "ObjectField",
	KindTypeName:                  "TypeName",
	KindListType:                  "ListType",
	KindNonNullType:               "NonNullType",
	KindComment:                   "Comment",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// SourceLocation points at a line and column inside one named source
// fragment. Line and Column are 1-based; Column counts runes.
type SourceLocation struct {
	Line       int
	Column     int
	SourceName string
}

func (l SourceLocation) String() string {
	if l.SourceName != "" {
		return fmt.Sprintf("%s:%d:%d", l.SourceName, l.Line, l.Column)
	}
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

type IgnoredCharKind int

const (
	IgnoredWhitespace IgnoredCharKind = iota
	IgnoredComma
	IgnoredTab
	IgnoredCR
	IgnoredLF
	IgnoredOther
)

var ignoredCharKindNames = map[IgnoredCharKind]string{
	IgnoredWhitespace: "WHITESPACE",
	IgnoredComma:      "COMMA",
	IgnoredTab:        "TAB",
	IgnoredCR:         "CR",
	IgnoredLF:         "LF",
	IgnoredOther:      "OTHER",
}

func (k IgnoredCharKind) String() string {
	if name, ok := ignoredCharKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IgnoredChar is one run of source text the grammar skips.
type IgnoredChar struct {
	Value    string
	Kind     IgnoredCharKind
	Location SourceLocation
}

// IgnoredChars holds the skipped text immediately to the left of a node's
// first token and to the right of its last token.
type IgnoredChars struct {
	Left  []IgnoredChar
	Right []IgnoredChar
}

func (ic IgnoredChars) IsEmpty() bool {
	return len(ic.Left) == 0 && len(ic.Right) == 0
}

// NodeBase is the header shared by every node variant.
type NodeBase struct {
	Location *SourceLocation
	// Comments are the line comments directly above the node.
	//
	// Deprecated: use descriptions to document schema elements and
	// parser.ParseComments to extract comments from a document.
	Comments       []*Comment
	IgnoredChars   IgnoredChars
	AdditionalData map[string]string
}

func (b *NodeBase) Header() *NodeBase {
	return b
}

// clone copies the header. Location and ignored chars are immutable and
// shared; containers are cloned so copies never alias each other.
func (b NodeBase) clone() NodeBase {
	var comments []*Comment
	if b.Comments != nil {
		comments = make([]*Comment, len(b.Comments))
		for i, c := range b.Comments {
			cc := *c
			comments[i] = &cc
		}
	}
	return NodeBase{
		Location:       b.Location,
		Comments:       comments,
		IgnoredChars:   b.IgnoredChars,
		AdditionalData: maps.Clone(b.AdditionalData),
	}
}

// Node is implemented by every AST variant in this package and by no other
// type.
type Node interface {
	Kind() Kind
	Header() *NodeBase
	// Children returns the owned child nodes in source order.
	Children() []Node
	// DeepCopy returns a structurally independent clone of the node.
	DeepCopy() Node
	node()
}

// Comment is the text of a `#` line comment, without the leading `#`.
type Comment struct {
	Content  string
	Location *SourceLocation
}

func (c *Comment) Kind() Kind { return KindComment }

func (c *Comment) String() string {
	return "#" + c.Content
}

func copyPtr[T any, P interface {
	*T
	Node
}](p P) P {
	if p == nil {
		return nil
	}
	return p.DeepCopy().(P)
}

func copyNodes[T Node](list []T) []T {
	if list == nil {
		return nil
	}
	out := make([]T, len(list))
	for i, n := range list {
		out[i] = n.DeepCopy().(T)
	}
	return out
}

func appendNodes[T Node](out []Node, list []T) []Node {
	for _, n := range list {
		out = append(out, n)
	}
	return out
}
