package ast

// Type is a type reference: a named type, a list or a non-null wrapper.
type Type interface {
	Node
	// String renders the reference the way it is written, e.g. [ID!]!.
	String() string
	typ()
}

type TypeName struct {
	NodeBase
	Name string
}

func (t *TypeName) Kind() Kind       { return KindTypeName }
func (t *TypeName) node()            {}
func (t *TypeName) typ()             {}
func (t *TypeName) Children() []Node { return nil }
func (t *TypeName) String() string   { return t.Name }

func (t *TypeName) DeepCopy() Node {
	return &TypeName{NodeBase: t.NodeBase.clone(), Name: t.Name}
}

type ListType struct {
	NodeBase
	Type Type
}

func (t *ListType) Kind() Kind { return KindListType }
func (t *ListType) node()      {}
func (t *ListType) typ()       {}

func (t *ListType) String() string {
	if t.Type == nil {
		return "[]"
	}
	return "[" + t.Type.String() + "]"
}

func (t *ListType) Children() []Node {
	if t.Type == nil {
		return nil
	}
	return []Node{t.Type}
}

func (t *ListType) DeepCopy() Node {
	return &ListType{NodeBase: t.NodeBase.clone(), Type: copyType(t.Type)}
}

// NonNullType wraps a TypeName or a ListType, never another NonNullType.
type NonNullType struct {
	NodeBase
	Type Type
}

func (t *NonNullType) Kind() Kind { return KindNonNullType }
func (t *NonNullType) node()      {}
func (t *NonNullType) typ()       {}

func (t *NonNullType) String() string {
	if t.Type == nil {
		return "!"
	}
	return t.Type.String() + "!"
}

func (t *NonNullType) Children() []Node {
	if t.Type == nil {
		return nil
	}
	return []Node{t.Type}
}

func (t *NonNullType) DeepCopy() Node {
	return &NonNullType{NodeBase: t.NodeBase.clone(), Type: copyType(t.Type)}
}

// NamedType unwraps list and non-null wrappers down to the named type.
func NamedType(t Type) *TypeName {
	for t != nil {
		switch v := t.(type) {
		case *TypeName:
			return v
		case *ListType:
			t = v.Type
		case *NonNullType:
			t = v.Type
		default:
			return nil
		}
	}
	return nil
}

func copyType(t Type) Type {
	if t == nil {
		return nil
	}
	return t.DeepCopy().(Type)
}
