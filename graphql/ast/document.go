package ast

// Definition is a top-level member of a Document.
type Definition interface {
	Node
	definition()
}

// Selection is a member of a SelectionSet.
type Selection interface {
	Node
	selection()
}

type Document struct {
	NodeBase
	Definitions []Definition
}

func (d *Document) Kind() Kind { return KindDocument }
func (d *Document) node()      {}

func (d *Document) Children() []Node {
	return appendNodes(nil, d.Definitions)
}

func (d *Document) DeepCopy() Node {
	return &Document{
		NodeBase:    d.NodeBase.clone(),
		Definitions: copyNodes(d.Definitions),
	}
}

// OperationDefinitions returns the operations of the document in source order.
func (d *Document) OperationDefinitions() []*OperationDefinition {
	var ops []*OperationDefinition
	for _, def := range d.Definitions {
		if op, ok := def.(*OperationDefinition); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

type Operation string

const (
	OperationQuery        Operation = "query"
	OperationMutation     Operation = "mutation"
	OperationSubscription Operation = "subscription"
)

type OperationDefinition struct {
	NodeBase
	Operation           Operation
	Name                string
	VariableDefinitions []*VariableDefinition
	Directives          []*Directive
	SelectionSet        *SelectionSet
}

func (o *OperationDefinition) Kind() Kind  { return KindOperationDefinition }
func (o *OperationDefinition) node()       {}
func (o *OperationDefinition) definition() {}

func (o *OperationDefinition) Children() []Node {
	out := appendNodes(nil, o.VariableDefinitions)
	out = appendNodes(out, o.Directives)
	if o.SelectionSet != nil {
		out = append(out, o.SelectionSet)
	}
	return out
}

func (o *OperationDefinition) DeepCopy() Node {
	return &OperationDefinition{
		NodeBase:            o.NodeBase.clone(),
		Operation:           o.Operation,
		Name:                o.Name,
		VariableDefinitions: copyNodes(o.VariableDefinitions),
		Directives:          copyNodes(o.Directives),
		SelectionSet:        copyPtr(o.SelectionSet),
	}
}

type FragmentDefinition struct {
	NodeBase
	Name          string
	TypeCondition *TypeName
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

func (f *FragmentDefinition) Kind() Kind  { return KindFragmentDefinition }
func (f *FragmentDefinition) node()       {}
func (f *FragmentDefinition) definition() {}

func (f *FragmentDefinition) Children() []Node {
	var out []Node
	if f.TypeCondition != nil {
		out = append(out, f.TypeCondition)
	}
	out = appendNodes(out, f.Directives)
	if f.SelectionSet != nil {
		out = append(out, f.SelectionSet)
	}
	return out
}

func (f *FragmentDefinition) DeepCopy() Node {
	return &FragmentDefinition{
		NodeBase:      f.NodeBase.clone(),
		Name:          f.Name,
		TypeCondition: copyPtr(f.TypeCondition),
		Directives:    copyNodes(f.Directives),
		SelectionSet:  copyPtr(f.SelectionSet),
	}
}

type VariableDefinition struct {
	NodeBase
	Name         string
	Type         Type
	DefaultValue Value
	Directives   []*Directive
}

func (v *VariableDefinition) Kind() Kind { return KindVariableDefinition }
func (v *VariableDefinition) node()      {}

func (v *VariableDefinition) Children() []Node {
	var out []Node
	if v.Type != nil {
		out = append(out, v.Type)
	}
	if v.DefaultValue != nil {
		out = append(out, v.DefaultValue)
	}
	return appendNodes(out, v.Directives)
}

func (v *VariableDefinition) DeepCopy() Node {
	return &VariableDefinition{
		NodeBase:     v.NodeBase.clone(),
		Name:         v.Name,
		Type:         copyType(v.Type),
		DefaultValue: copyValue(v.DefaultValue),
		Directives:   copyNodes(v.Directives),
	}
}

type Directive struct {
	NodeBase
	Name      string
	Arguments []*Argument
}

func (d *Directive) Kind() Kind { return KindDirective }
func (d *Directive) node()      {}

func (d *Directive) Children() []Node {
	return appendNodes(nil, d.Arguments)
}

func (d *Directive) DeepCopy() Node {
	return &Directive{
		NodeBase:  d.NodeBase.clone(),
		Name:      d.Name,
		Arguments: copyNodes(d.Arguments),
	}
}

type Argument struct {
	NodeBase
	Name  string
	Value Value
}

func (a *Argument) Kind() Kind { return KindArgument }
func (a *Argument) node()      {}

func (a *Argument) Children() []Node {
	if a.Value == nil {
		return nil
	}
	return []Node{a.Value}
}

func (a *Argument) DeepCopy() Node {
	return &Argument{
		NodeBase: a.NodeBase.clone(),
		Name:     a.Name,
		Value:    copyValue(a.Value),
	}
}

type SelectionSet struct {
	NodeBase
	Selections []Selection
}

func (s *SelectionSet) Kind() Kind { return KindSelectionSet }
func (s *SelectionSet) node()      {}

func (s *SelectionSet) Children() []Node {
	return appendNodes(nil, s.Selections)
}

func (s *SelectionSet) DeepCopy() Node {
	return &SelectionSet{
		NodeBase:   s.NodeBase.clone(),
		Selections: copyNodes(s.Selections),
	}
}

type Field struct {
	NodeBase
	Alias        string
	Name         string
	Arguments    []*Argument
	Directives   []*Directive
	SelectionSet *SelectionSet
}

func (f *Field) Kind() Kind { return KindField }
func (f *Field) node()      {}
func (f *Field) selection() {}

// ResultKey is the alias when present and the field name otherwise.
func (f *Field) ResultKey() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

func (f *Field) Children() []Node {
	out := appendNodes(nil, f.Arguments)
	out = appendNodes(out, f.Directives)
	if f.SelectionSet != nil {
		out = append(out, f.SelectionSet)
	}
	return out
}

func (f *Field) DeepCopy() Node {
	return &Field{
		NodeBase:     f.NodeBase.clone(),
		Alias:        f.Alias,
		Name:         f.Name,
		Arguments:    copyNodes(f.Arguments),
		Directives:   copyNodes(f.Directives),
		SelectionSet: copyPtr(f.SelectionSet),
	}
}

type FragmentSpread struct {
	NodeBase
	Name       string
	Directives []*Directive
}

func (f *FragmentSpread) Kind() Kind { return KindFragmentSpread }
func (f *FragmentSpread) node()      {}
func (f *FragmentSpread) selection() {}

func (f *FragmentSpread) Children() []Node {
	return appendNodes(nil, f.Directives)
}

func (f *FragmentSpread) DeepCopy() Node {
	return &FragmentSpread{
		NodeBase:   f.NodeBase.clone(),
		Name:       f.Name,
		Directives: copyNodes(f.Directives),
	}
}

type InlineFragment struct {
	NodeBase
	// TypeCondition is nil for `... { }` and `... @dir { }`.
	TypeCondition *TypeName
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

func (f *InlineFragment) Kind() Kind { return KindInlineFragment }
func (f *InlineFragment) node()      {}
func (f *InlineFragment) selection() {}

func (f *InlineFragment) Children() []Node {
	var out []Node
	if f.TypeCondition != nil {
		out = append(out, f.TypeCondition)
	}
	out = appendNodes(out, f.Directives)
	if f.SelectionSet != nil {
		out = append(out, f.SelectionSet)
	}
	return out
}

func (f *InlineFragment) DeepCopy() Node {
	return &InlineFragment{
		NodeBase:      f.NodeBase.clone(),
		TypeCondition: copyPtr(f.TypeCondition),
		Directives:    copyNodes(f.Directives),
		SelectionSet:  copyPtr(f.SelectionSet),
	}
}
