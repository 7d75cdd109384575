package ast

// SchemaDefinition covers both `schema { ... }` and `extend schema ...`.
type SchemaDefinition struct {
	NodeBase
	Extension      bool
	Description    *StringValue
	Directives     []*Directive
	OperationTypes []*OperationTypeDefinition
}

func (s *SchemaDefinition) Kind() Kind  { return KindSchemaDefinition }
func (s *SchemaDefinition) node()       {}
func (s *SchemaDefinition) definition() {}

func (s *SchemaDefinition) Children() []Node {
	out := describedChildren(s.Description)
	out = appendNodes(out, s.Directives)
	return appendNodes(out, s.OperationTypes)
}

func (s *SchemaDefinition) DeepCopy() Node {
	return &SchemaDefinition{
		NodeBase:       s.NodeBase.clone(),
		Extension:      s.Extension,
		Description:    copyPtr(s.Description),
		Directives:     copyNodes(s.Directives),
		OperationTypes: copyNodes(s.OperationTypes),
	}
}

type OperationTypeDefinition struct {
	NodeBase
	Operation Operation
	Type      *TypeName
}

func (o *OperationTypeDefinition) Kind() Kind { return KindOperationTypeDefinition }
func (o *OperationTypeDefinition) node()      {}

func (o *OperationTypeDefinition) Children() []Node {
	if o.Type == nil {
		return nil
	}
	return []Node{o.Type}
}

func (o *OperationTypeDefinition) DeepCopy() Node {
	return &OperationTypeDefinition{
		NodeBase:  o.NodeBase.clone(),
		Operation: o.Operation,
		Type:      copyPtr(o.Type),
	}
}

type ScalarTypeDefinition struct {
	NodeBase
	Extension   bool
	Description *StringValue
	Name        string
	Directives  []*Directive
}

func (s *ScalarTypeDefinition) Kind() Kind  { return KindScalarTypeDefinition }
func (s *ScalarTypeDefinition) node()       {}
func (s *ScalarTypeDefinition) definition() {}

func (s *ScalarTypeDefinition) Children() []Node {
	return appendNodes(describedChildren(s.Description), s.Directives)
}

func (s *ScalarTypeDefinition) DeepCopy() Node {
	return &ScalarTypeDefinition{
		NodeBase:    s.NodeBase.clone(),
		Extension:   s.Extension,
		Description: copyPtr(s.Description),
		Name:        s.Name,
		Directives:  copyNodes(s.Directives),
	}
}

type ObjectTypeDefinition struct {
	NodeBase
	Extension   bool
	Description *StringValue
	Name        string
	Interfaces  []*TypeName
	Directives  []*Directive
	Fields      []*FieldDefinition
}

func (o *ObjectTypeDefinition) Kind() Kind  { return KindObjectTypeDefinition }
func (o *ObjectTypeDefinition) node()       {}
func (o *ObjectTypeDefinition) definition() {}

func (o *ObjectTypeDefinition) Children() []Node {
	out := appendNodes(describedChildren(o.Description), o.Interfaces)
	out = appendNodes(out, o.Directives)
	return appendNodes(out, o.Fields)
}

func (o *ObjectTypeDefinition) DeepCopy() Node {
	return &ObjectTypeDefinition{
		NodeBase:    o.NodeBase.clone(),
		Extension:   o.Extension,
		Description: copyPtr(o.Description),
		Name:        o.Name,
		Interfaces:  copyNodes(o.Interfaces),
		Directives:  copyNodes(o.Directives),
		Fields:      copyNodes(o.Fields),
	}
}

type InterfaceTypeDefinition struct {
	NodeBase
	Extension   bool
	Description *StringValue
	Name        string
	Interfaces  []*TypeName
	Directives  []*Directive
	Fields      []*FieldDefinition
}

func (i *InterfaceTypeDefinition) Kind() Kind  { return KindInterfaceTypeDefinition }
func (i *InterfaceTypeDefinition) node()       {}
func (i *InterfaceTypeDefinition) definition() {}

func (i *InterfaceTypeDefinition) Children() []Node {
	out := appendNodes(describedChildren(i.Description), i.Interfaces)
	out = appendNodes(out, i.Directives)
	return appendNodes(out, i.Fields)
}

func (i *InterfaceTypeDefinition) DeepCopy() Node {
	return &InterfaceTypeDefinition{
		NodeBase:    i.NodeBase.clone(),
		Extension:   i.Extension,
		Description: copyPtr(i.Description),
		Name:        i.Name,
		Interfaces:  copyNodes(i.Interfaces),
		Directives:  copyNodes(i.Directives),
		Fields:      copyNodes(i.Fields),
	}
}

type UnionTypeDefinition struct {
	NodeBase
	Extension   bool
	Description *StringValue
	Name        string
	Directives  []*Directive
	Members     []*TypeName
}

func (u *UnionTypeDefinition) Kind() Kind  { return KindUnionTypeDefinition }
func (u *UnionTypeDefinition) node()       {}
func (u *UnionTypeDefinition) definition() {}

func (u *UnionTypeDefinition) Children() []Node {
	out := appendNodes(describedChildren(u.Description), u.Directives)
	return appendNodes(out, u.Members)
}

func (u *UnionTypeDefinition) DeepCopy() Node {
	return &UnionTypeDefinition{
		NodeBase:    u.NodeBase.clone(),
		Extension:   u.Extension,
		Description: copyPtr(u.Description),
		Name:        u.Name,
		Directives:  copyNodes(u.Directives),
		Members:     copyNodes(u.Members),
	}
}

type EnumTypeDefinition struct {
	NodeBase
	Extension   bool
	Description *StringValue
	Name        string
	Directives  []*Directive
	Values      []*EnumValueDefinition
}

func (e *EnumTypeDefinition) Kind() Kind  { return KindEnumTypeDefinition }
func (e *EnumTypeDefinition) node()       {}
func (e *EnumTypeDefinition) definition() {}

func (e *EnumTypeDefinition) Children() []Node {
	out := appendNodes(describedChildren(e.Description), e.Directives)
	return appendNodes(out, e.Values)
}

func (e *EnumTypeDefinition) DeepCopy() Node {
	return &EnumTypeDefinition{
		NodeBase:    e.NodeBase.clone(),
		Extension:   e.Extension,
		Description: copyPtr(e.Description),
		Name:        e.Name,
		Directives:  copyNodes(e.Directives),
		Values:      copyNodes(e.Values),
	}
}

type InputObjectTypeDefinition struct {
	NodeBase
	Extension   bool
	Description *StringValue
	Name        string
	Directives  []*Directive
	Fields      []*InputValueDefinition
}

func (i *InputObjectTypeDefinition) Kind() Kind  { return KindInputObjectTypeDefinition }
func (i *InputObjectTypeDefinition) node()       {}
func (i *InputObjectTypeDefinition) definition() {}

func (i *InputObjectTypeDefinition) Children() []Node {
	out := appendNodes(describedChildren(i.Description), i.Directives)
	return appendNodes(out, i.Fields)
}

func (i *InputObjectTypeDefinition) DeepCopy() Node {
	return &InputObjectTypeDefinition{
		NodeBase:    i.NodeBase.clone(),
		Extension:   i.Extension,
		Description: copyPtr(i.Description),
		Name:        i.Name,
		Directives:  copyNodes(i.Directives),
		Fields:      copyNodes(i.Fields),
	}
}

type DirectiveDefinition struct {
	NodeBase
	Description *StringValue
	Name        string
	Arguments   []*InputValueDefinition
	Repeatable  bool
	// Locations are the directive location names, e.g. FIELD or OBJECT.
	Locations []string
}

func (d *DirectiveDefinition) Kind() Kind  { return KindDirectiveDefinition }
func (d *DirectiveDefinition) node()       {}
func (d *DirectiveDefinition) definition() {}

func (d *DirectiveDefinition) Children() []Node {
	return appendNodes(describedChildren(d.Description), d.Arguments)
}

func (d *DirectiveDefinition) DeepCopy() Node {
	return &DirectiveDefinition{
		NodeBase:    d.NodeBase.clone(),
		Description: copyPtr(d.Description),
		Name:        d.Name,
		Arguments:   copyNodes(d.Arguments),
		Repeatable:  d.Repeatable,
		Locations:   append([]string(nil), d.Locations...),
	}
}

type FieldDefinition struct {
	NodeBase
	Description *StringValue
	Name        string
	Arguments   []*InputValueDefinition
	Type        Type
	Directives  []*Directive
}

func (f *FieldDefinition) Kind() Kind { return KindFieldDefinition }
func (f *FieldDefinition) node()      {}

func (f *FieldDefinition) Children() []Node {
	out := appendNodes(describedChildren(f.Description), f.Arguments)
	if f.Type != nil {
		out = append(out, f.Type)
	}
	return appendNodes(out, f.Directives)
}

func (f *FieldDefinition) DeepCopy() Node {
	return &FieldDefinition{
		NodeBase:    f.NodeBase.clone(),
		Description: copyPtr(f.Description),
		Name:        f.Name,
		Arguments:   copyNodes(f.Arguments),
		Type:        copyType(f.Type),
		Directives:  copyNodes(f.Directives),
	}
}

type InputValueDefinition struct {
	NodeBase
	Description  *StringValue
	Name         string
	Type         Type
	DefaultValue Value
	Directives   []*Directive
}

func (i *InputValueDefinition) Kind() Kind { return KindInputValueDefinition }
func (i *InputValueDefinition) node()      {}

func (i *InputValueDefinition) Children() []Node {
	out := describedChildren(i.Description)
	if i.Type != nil {
		out = append(out, i.Type)
	}
	if i.DefaultValue != nil {
		out = append(out, i.DefaultValue)
	}
	return appendNodes(out, i.Directives)
}

func (i *InputValueDefinition) DeepCopy() Node {
	return &InputValueDefinition{
		NodeBase:     i.NodeBase.clone(),
		Description:  copyPtr(i.Description),
		Name:         i.Name,
		Type:         copyType(i.Type),
		DefaultValue: copyValue(i.DefaultValue),
		Directives:   copyNodes(i.Directives),
	}
}

type EnumValueDefinition struct {
	NodeBase
	Description *StringValue
	Name        string
	Directives  []*Directive
}

func (e *EnumValueDefinition) Kind() Kind { return KindEnumValueDefinition }
func (e *EnumValueDefinition) node()      {}

func (e *EnumValueDefinition) Children() []Node {
	return appendNodes(describedChildren(e.Description), e.Directives)
}

func (e *EnumValueDefinition) DeepCopy() Node {
	return &EnumValueDefinition{
		NodeBase:    e.NodeBase.clone(),
		Description: copyPtr(e.Description),
		Name:        e.Name,
		Directives:  copyNodes(e.Directives),
	}
}

func describedChildren(description *StringValue) []Node {
	if description == nil {
		return nil
	}
	return []Node{description}
}
