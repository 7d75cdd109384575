package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/gqlfront/graphql/ast"
)

// LineEncoder writes one tab-separated line per definition and per member
// of a definition: kind, qualified name, detail and location. The output is
// meant for grep and cut.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(node ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(node ast.Node) ([]byte, error) {
	var sb strings.Builder
	switch n := node.(type) {
	case *ast.Document:
		for _, def := range n.Definitions {
			writeDefinition(&sb, def)
		}
	case ast.Definition:
		writeDefinition(&sb, n)
	default:
		return nil, fmt.Errorf("line encoding needs a document or a definition, got %s", node.Kind())
	}
	return []byte(sb.String()), nil
}

func writeLine(sb *strings.Builder, kind, name, detail string, node ast.Node) {
	fmt.Fprintf(sb, "%s\t%s\t%s\t%s\n", kind, orDash(name), orDash(detail), location(node))
}

func writeDefinition(sb *strings.Builder, def ast.Definition) {
	switch d := def.(type) {
	case *ast.OperationDefinition:
		var vars []string
		for _, v := range d.VariableDefinitions {
			vars = append(vars, "$"+v.Name+": "+v.Type.String())
		}
		writeLine(sb, string(d.Operation), d.Name, strings.Join(vars, ", "), d)

	case *ast.FragmentDefinition:
		on := ""
		if d.TypeCondition != nil {
			on = "on " + d.TypeCondition.Name
		}
		writeLine(sb, "fragment", d.Name, on, d)

	case *ast.SchemaDefinition:
		var ops []string
		for _, op := range d.OperationTypes {
			ops = append(ops, string(op.Operation)+"="+op.Type.Name)
		}
		writeLine(sb, extend(d.Extension, "schema"), "", strings.Join(ops, ","), d)

	case *ast.ScalarTypeDefinition:
		writeLine(sb, extend(d.Extension, "scalar"), d.Name, directiveNames(d.Directives), d)

	case *ast.ObjectTypeDefinition:
		writeLine(sb, extend(d.Extension, "type"), d.Name, typeNames(d.Interfaces, ","), d)
		writeFields(sb, d.Name, d.Fields)

	case *ast.InterfaceTypeDefinition:
		writeLine(sb, extend(d.Extension, "interface"), d.Name, typeNames(d.Interfaces, ","), d)
		writeFields(sb, d.Name, d.Fields)

	case *ast.UnionTypeDefinition:
		writeLine(sb, extend(d.Extension, "union"), d.Name, typeNames(d.Members, "|"), d)

	case *ast.EnumTypeDefinition:
		writeLine(sb, extend(d.Extension, "enum"), d.Name, directiveNames(d.Directives), d)
		for _, v := range d.Values {
			writeLine(sb, "value", d.Name+"."+v.Name, directiveNames(v.Directives), v)
		}

	case *ast.InputObjectTypeDefinition:
		writeLine(sb, extend(d.Extension, "input"), d.Name, directiveNames(d.Directives), d)
		writeInputValues(sb, "input-field", d.Name, d.Fields)

	case *ast.DirectiveDefinition:
		locations := strings.Join(d.Locations, "|")
		if d.Repeatable {
			locations = "repeatable " + locations
		}
		writeLine(sb, "directive", "@"+d.Name, locations, d)
		writeInputValues(sb, "arg", "@"+d.Name, d.Arguments)
	}
}

func writeFields(sb *strings.Builder, owner string, fields []*ast.FieldDefinition) {
	for _, f := range fields {
		detail := f.Type.String()
		if len(f.Arguments) > 0 {
			var args []string
			for _, a := range f.Arguments {
				args = append(args, a.Name+": "+a.Type.String())
			}
			detail += " (" + strings.Join(args, ", ") + ")"
		}
		writeLine(sb, "field", owner+"."+f.Name, detail, f)
	}
}

func writeInputValues(sb *strings.Builder, kind, owner string, values []*ast.InputValueDefinition) {
	for _, v := range values {
		writeLine(sb, kind, owner+"."+v.Name, v.Type.String(), v)
	}
}

func extend(extension bool, kind string) string {
	if extension {
		return "extend " + kind
	}
	return kind
}

func typeNames(names []*ast.TypeName, sep string) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.Name
	}
	return strings.Join(out, sep)
}

func directiveNames(directives []*ast.Directive) string {
	out := make([]string, len(directives))
	for i, d := range directives {
		out[i] = "@" + d.Name
	}
	return strings.Join(out, " ")
}

func location(node ast.Node) string {
	loc := node.Header().Location
	if loc == nil {
		return "-"
	}
	if loc.SourceName != "" {
		return fmt.Sprintf("%s:%d:%d", loc.SourceName, loc.Line, loc.Column)
	}
	return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
