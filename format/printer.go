package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/gqlfront/graphql/ast"
)

// Printer renders an AST as GraphQL source text. Output is canonical:
// two-space indentation, one selection or member per line, a blank line
// between definitions. Line comments attached to a node are printed above
// it.
type Printer struct {
	w         io.Writer
	sb        strings.Builder
	indent    int
	indentStr string
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indentStr: "  "}
}

// Print writes the GraphQL text of node.
func (p *Printer) Print(node ast.Node) error {
	p.sb.Reset()
	p.indent = 0
	p.printNode(node)
	if _, ok := node.(*ast.Document); ok {
		p.write("\n")
	}
	_, err := io.WriteString(p.w, p.sb.String())
	return err
}

// Encode is Print with the output always ending in a newline.
func (p *Printer) Encode(node ast.Node) error {
	if err := p.Print(node); err != nil {
		return err
	}
	if _, ok := node.(*ast.Document); ok {
		return nil
	}
	_, err := io.WriteString(p.w, "\n")
	return err
}

// Print returns the GraphQL text of node.
func Print(node ast.Node) string {
	var sb strings.Builder
	NewPrinter(&sb).Print(node)
	return sb.String()
}

func (p *Printer) write(parts ...string) {
	for _, s := range parts {
		p.sb.WriteString(s)
	}
}

func (p *Printer) newline() {
	p.sb.WriteByte('\n')
	for range p.indent {
		p.sb.WriteString(p.indentStr)
	}
}

func (p *Printer) comments(n ast.Node) {
	for _, c := range n.Header().Comments {
		p.write(c.String())
		p.newline()
	}
}

// block prints items between braces, one per line.
func block[T ast.Node](p *Printer, items []T, item func(T)) {
	p.write("{")
	p.indent++
	for _, it := range items {
		p.newline()
		p.comments(it)
		item(it)
	}
	p.indent--
	p.newline()
	p.write("}")
}

func (p *Printer) printNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.Document:
		p.printDocument(n)
	case ast.Definition:
		p.comments(n)
		p.printDefinition(n)
	case *ast.VariableDefinition:
		p.printVariableDefinition(n)
	case *ast.SelectionSet:
		p.printSelectionSet(n)
	case ast.Selection:
		p.printSelection(n)
	case *ast.Argument:
		p.printArgument(n)
	case *ast.Directive:
		p.printDirective(n)
	case *ast.OperationTypeDefinition:
		p.write(string(n.Operation), ": ", n.Type.Name)
	case *ast.FieldDefinition:
		p.printFieldDefinition(n)
	case *ast.InputValueDefinition:
		p.printInputValueDefinition(n)
	case *ast.EnumValueDefinition:
		p.printEnumValueDefinition(n)
	case *ast.ObjectField:
		p.write(n.Name, ": ")
		p.printValue(n.Value)
	case ast.Value:
		p.printValue(n)
	case ast.Type:
		p.write(n.String())
	default:
		panic(fmt.Sprintf("format: cannot print %T", node))
	}
}

func (p *Printer) printDocument(doc *ast.Document) {
	for i, def := range doc.Definitions {
		if i > 0 {
			p.write("\n")
			p.newline()
		}
		p.comments(def)
		p.printDefinition(def)
	}
}

func (p *Printer) printDefinition(def ast.Definition) {
	switch d := def.(type) {
	case *ast.OperationDefinition:
		p.printOperationDefinition(d)
	case *ast.FragmentDefinition:
		p.printFragmentDefinition(d)
	case *ast.SchemaDefinition:
		p.printSchemaDefinition(d)
	case *ast.ScalarTypeDefinition:
		p.description(d.Description)
		p.keyword(d.Extension, "scalar")
		p.write(d.Name)
		p.printDirectives(d.Directives)
	case *ast.ObjectTypeDefinition:
		p.description(d.Description)
		p.keyword(d.Extension, "type")
		p.write(d.Name)
		p.printImplements(d.Interfaces)
		p.printDirectives(d.Directives)
		p.printFieldDefinitions(d.Fields)
	case *ast.InterfaceTypeDefinition:
		p.description(d.Description)
		p.keyword(d.Extension, "interface")
		p.write(d.Name)
		p.printImplements(d.Interfaces)
		p.printDirectives(d.Directives)
		p.printFieldDefinitions(d.Fields)
	case *ast.UnionTypeDefinition:
		p.description(d.Description)
		p.keyword(d.Extension, "union")
		p.write(d.Name)
		p.printDirectives(d.Directives)
		if len(d.Members) > 0 {
			p.write(" = ", joinNames(d.Members, " | "))
		}
	case *ast.EnumTypeDefinition:
		p.description(d.Description)
		p.keyword(d.Extension, "enum")
		p.write(d.Name)
		p.printDirectives(d.Directives)
		if len(d.Values) > 0 {
			p.write(" ")
			block(p, d.Values, p.printEnumValueDefinition)
		}
	case *ast.InputObjectTypeDefinition:
		p.description(d.Description)
		p.keyword(d.Extension, "input")
		p.write(d.Name)
		p.printDirectives(d.Directives)
		if len(d.Fields) > 0 {
			p.write(" ")
			block(p, d.Fields, p.printInputValueDefinition)
		}
	case *ast.DirectiveDefinition:
		p.description(d.Description)
		p.write("directive @", d.Name)
		p.printArgumentDefinitions(d.Arguments)
		if d.Repeatable {
			p.write(" repeatable")
		}
		p.write(" on ", strings.Join(d.Locations, " | "))
	}
}

// Executable definitions

func (p *Printer) printOperationDefinition(op *ast.OperationDefinition) {
	anonymous := op.Name == "" && len(op.VariableDefinitions) == 0 && len(op.Directives) == 0
	if anonymous && (op.Operation == ast.OperationQuery || op.Operation == "") {
		p.printSelectionSet(op.SelectionSet)
		return
	}
	operation := op.Operation
	if operation == "" {
		operation = ast.OperationQuery
	}
	p.write(string(operation))
	if op.Name != "" {
		p.write(" ", op.Name)
	}
	if len(op.VariableDefinitions) > 0 {
		p.write("(")
		for i, v := range op.VariableDefinitions {
			if i > 0 {
				p.write(", ")
			}
			p.printVariableDefinition(v)
		}
		p.write(")")
	}
	p.printDirectives(op.Directives)
	p.write(" ")
	p.printSelectionSet(op.SelectionSet)
}

func (p *Printer) printVariableDefinition(v *ast.VariableDefinition) {
	p.write("$", v.Name, ": ", v.Type.String())
	if v.DefaultValue != nil {
		p.write(" = ")
		p.printValue(v.DefaultValue)
	}
	p.printDirectives(v.Directives)
}

func (p *Printer) printFragmentDefinition(f *ast.FragmentDefinition) {
	p.write("fragment ", f.Name, " on ", f.TypeCondition.Name)
	p.printDirectives(f.Directives)
	p.write(" ")
	p.printSelectionSet(f.SelectionSet)
}

func (p *Printer) printSelectionSet(set *ast.SelectionSet) {
	block(p, set.Selections, p.printSelection)
}

func (p *Printer) printSelection(sel ast.Selection) {
	switch s := sel.(type) {
	case *ast.Field:
		if s.Alias != "" {
			p.write(s.Alias, ": ")
		}
		p.write(s.Name)
		p.printArguments(s.Arguments)
		p.printDirectives(s.Directives)
		if s.SelectionSet != nil {
			p.write(" ")
			p.printSelectionSet(s.SelectionSet)
		}
	case *ast.FragmentSpread:
		p.write("...", s.Name)
		p.printDirectives(s.Directives)
	case *ast.InlineFragment:
		p.write("...")
		if s.TypeCondition != nil {
			p.write(" on ", s.TypeCondition.Name)
		}
		p.printDirectives(s.Directives)
		p.write(" ")
		p.printSelectionSet(s.SelectionSet)
	}
}

func (p *Printer) printArguments(args []*ast.Argument) {
	if len(args) == 0 {
		return
	}
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printArgument(a)
	}
	p.write(")")
}

func (p *Printer) printArgument(a *ast.Argument) {
	p.write(a.Name, ": ")
	p.printValue(a.Value)
}

func (p *Printer) printDirectives(dirs []*ast.Directive) {
	for _, d := range dirs {
		p.write(" ")
		p.printDirective(d)
	}
}

func (p *Printer) printDirective(d *ast.Directive) {
	p.write("@", d.Name)
	p.printArguments(d.Arguments)
}

// Values

func (p *Printer) printValue(v ast.Value) {
	switch v := v.(type) {
	case *ast.VariableReference:
		p.write("$", v.Name)
	case *ast.IntValue:
		p.write(v.Value)
	case *ast.FloatValue:
		p.write(v.Value)
	case *ast.StringValue:
		p.printString(v)
	case *ast.BooleanValue:
		if v.Value {
			p.write("true")
		} else {
			p.write("false")
		}
	case *ast.NullValue:
		p.write("null")
	case *ast.EnumValue:
		p.write(v.Name)
	case *ast.ArrayValue:
		p.write("[")
		for i, item := range v.Values {
			if i > 0 {
				p.write(", ")
			}
			p.printValue(item)
		}
		p.write("]")
	case *ast.ObjectValue:
		p.write("{")
		for i, f := range v.Fields {
			if i > 0 {
				p.write(", ")
			}
			p.write(f.Name, ": ")
			p.printValue(f.Value)
		}
		p.write("}")
	}
}

// printString writes s as a block string when it was written as one and
// its value survives the block string indentation rules, and as a quoted
// string otherwise.
func (p *Printer) printString(s *ast.StringValue) {
	if !s.Block || !blockSafe(s.Value) {
		p.write(quote(s.Value))
		return
	}
	value := strings.ReplaceAll(s.Value, `"""`, `\"""`)
	multiline := strings.Contains(value, "\n") || strings.HasSuffix(value, `"`)
	if !multiline {
		p.write(`"""`, value, `"""`)
		return
	}
	p.write(`"""`)
	for _, line := range strings.Split(value, "\n") {
		if line == "" {
			p.write("\n")
			continue
		}
		p.newline()
		p.write(line)
	}
	p.newline()
	p.write(`"""`)
}

// blockSafe reports whether value reads back unchanged from a block
// string: no carriage returns, no blank first or last line, and at least
// one line without leading whitespace.
func blockSafe(value string) bool {
	if value == "" || strings.Contains(value, "\r") {
		return false
	}
	lines := strings.Split(value, "\n")
	if strings.TrimLeft(lines[0], " \t") == "" || strings.TrimLeft(lines[len(lines)-1], " \t") == "" {
		return false
	}
	for _, line := range lines {
		if line != "" && line[0] != ' ' && line[0] != '\t' {
			return true
		}
	}
	return false
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Type system definitions

func (p *Printer) description(d *ast.StringValue) {
	if d == nil {
		return
	}
	p.printString(d)
	p.newline()
}

func (p *Printer) keyword(extension bool, keyword string) {
	if extension {
		p.write("extend ")
	}
	p.write(keyword, " ")
}

func (p *Printer) printSchemaDefinition(s *ast.SchemaDefinition) {
	p.description(s.Description)
	if s.Extension {
		p.write("extend ")
	}
	p.write("schema")
	p.printDirectives(s.Directives)
	if len(s.OperationTypes) > 0 {
		p.write(" ")
		block(p, s.OperationTypes, func(o *ast.OperationTypeDefinition) {
			p.write(string(o.Operation), ": ", o.Type.Name)
		})
	}
}

func (p *Printer) printImplements(interfaces []*ast.TypeName) {
	if len(interfaces) > 0 {
		p.write(" implements ", joinNames(interfaces, " & "))
	}
}

func (p *Printer) printFieldDefinitions(fields []*ast.FieldDefinition) {
	if len(fields) > 0 {
		p.write(" ")
		block(p, fields, p.printFieldDefinition)
	}
}

func (p *Printer) printFieldDefinition(f *ast.FieldDefinition) {
	p.description(f.Description)
	p.write(f.Name)
	p.printArgumentDefinitions(f.Arguments)
	p.write(": ", f.Type.String())
	p.printDirectives(f.Directives)
}

// printArgumentDefinitions puts arguments on one line unless one of them
// has a description.
func (p *Printer) printArgumentDefinitions(args []*ast.InputValueDefinition) {
	if len(args) == 0 {
		return
	}
	described := false
	for _, a := range args {
		if a.Description != nil || len(a.Comments) > 0 {
			described = true
		}
	}
	if !described {
		p.write("(")
		for i, a := range args {
			if i > 0 {
				p.write(", ")
			}
			p.printInputValueDefinition(a)
		}
		p.write(")")
		return
	}
	p.write("(")
	p.indent++
	for _, a := range args {
		p.newline()
		p.comments(a)
		p.printInputValueDefinition(a)
	}
	p.indent--
	p.newline()
	p.write(")")
}

func (p *Printer) printInputValueDefinition(v *ast.InputValueDefinition) {
	p.description(v.Description)
	p.write(v.Name, ": ", v.Type.String())
	if v.DefaultValue != nil {
		p.write(" = ")
		p.printValue(v.DefaultValue)
	}
	p.printDirectives(v.Directives)
}

func (p *Printer) printEnumValueDefinition(v *ast.EnumValueDefinition) {
	p.description(v.Description)
	p.write(v.Name)
	p.printDirectives(v.Directives)
}

func joinNames(names []*ast.TypeName, sep string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.Name
	}
	return strings.Join(parts, sep)
}
