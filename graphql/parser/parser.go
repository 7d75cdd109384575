package parser

import (
	"github.com/dhamidi/gqlfront/graphql/ast"
)

// parser is the per-call state of one parse. It keeps a single significant
// token of lookahead together with the ignored tokens that precede it.
type parser struct {
	lex      *Lexer
	bail     bailStrategy
	guard    guard
	opts     Options
	tok      Token
	leading  []Token
	comments []*ast.Comment
}

func newParser(src *MultiSourceReader, opts Options) *parser {
	bail := bailStrategy{src: src}
	p := &parser{
		lex:  NewLexer(src),
		bail: bail,
		guard: guard{
			max:      opts.MaxTokens,
			listener: opts.ParsingListener,
			bail:     bail,
		},
		opts: opts,
	}
	p.fetch()
	return p
}

// fetch moves the lookahead to the next significant token.
func (p *parser) fetch() {
	p.leading = nil
	for {
		tok, err := p.lex.NextToken()
		if err != nil {
			panic(bailout{err: err})
		}
		if tok.Channel == ChannelSignificant {
			p.tok = tok
			return
		}
		if tok.Kind == TokenComment {
			p.comments = append(p.comments, p.comment(tok))
		}
		p.leading = append(p.leading, tok)
	}
}

// advance consumes the lookahead. EOF is never consumed.
func (p *parser) advance() Token {
	tok := p.tok
	if tok.Kind == TokenEOF {
		panic(p.unexpected(""))
	}
	if err := p.guard.consume(tok); err != nil {
		panic(bailout{err: err})
	}
	p.fetch()
	return tok
}

func (p *parser) peek(kind TokenKind) bool {
	return p.tok.Kind == kind
}

func (p *parser) peekKeyword(keyword string) bool {
	return p.tok.Kind == TokenName && p.tok.Text == keyword
}

func (p *parser) skip(kind TokenKind) bool {
	if p.peek(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(kind TokenKind) Token {
	if !p.peek(kind) {
		panic(p.unexpected(describe(kind)))
	}
	return p.advance()
}

func (p *parser) expectKeyword(keyword string) Token {
	if !p.peekKeyword(keyword) {
		panic(p.unexpected("'" + keyword + "'"))
	}
	return p.advance()
}

func (p *parser) name() string {
	return p.expect(TokenName).Text
}

func (p *parser) unexpected(expected string) bailout {
	return bailout{err: p.bail.mismatch(p.tok, expected)}
}

// expectEnd rejects anything but EOF after the entry rule.
func (p *parser) expectEnd() {
	if !p.peek(TokenEOF) {
		panic(bailout{err: p.bail.trailing(p.tok)})
	}
}

func describe(kind TokenKind) string {
	if kind < TokenName {
		return "'" + kind.String() + "'"
	}
	return kind.String()
}

// start remembers where a node begins.
type start struct {
	tok     Token
	leading []Token
}

func (p *parser) begin() start {
	return start{tok: p.tok, leading: p.leading}
}

// stamp fills the node header from its first token and from the ignored
// tokens on either side of it.
func stamp[N ast.Node](p *parser, s start, n N) N {
	h := n.Header()
	if p.opts.CaptureSourceLocation {
		h.Location = p.location(s.tok)
	}
	if p.opts.CaptureLineComments {
		for _, tok := range s.leading {
			if tok.Kind == TokenComment {
				h.Comments = append(h.Comments, p.comment(tok))
			}
		}
	}
	if p.opts.CaptureIgnoredChars {
		h.IgnoredChars = ast.IgnoredChars{
			Left:  p.ignoredChars(s.leading),
			Right: p.ignoredChars(p.leading),
		}
	}
	return n
}

func (p *parser) location(tok Token) *ast.SourceLocation {
	return p.bail.location(tok.Line, tok.Column)
}

func (p *parser) comment(tok Token) *ast.Comment {
	return &ast.Comment{Content: tok.Value, Location: p.location(tok)}
}

func (p *parser) ignoredChars(tokens []Token) []ast.IgnoredChar {
	var out []ast.IgnoredChar
	for _, tok := range tokens {
		if tok.Kind == TokenComment {
			continue
		}
		loc := p.location(tok)
		column := loc.Column
		for _, r := range tok.Text {
			out = append(out, ast.IgnoredChar{
				Value:    string(r),
				Kind:     ignoredCharKind(r),
				Location: ast.SourceLocation{Line: loc.Line, Column: column, SourceName: loc.SourceName},
			})
			column++
		}
	}
	return out
}

func ignoredCharKind(r rune) ast.IgnoredCharKind {
	switch r {
	case ' ':
		return ast.IgnoredWhitespace
	case ',':
		return ast.IgnoredComma
	case '\t':
		return ast.IgnoredTab
	case '\r':
		return ast.IgnoredCR
	case '\n':
		return ast.IgnoredLF
	default:
		return ast.IgnoredOther
	}
}

// many parses open item+ close.
func many[T any](p *parser, open, end TokenKind, item func() T) []T {
	p.expect(open)
	var out []T
	for {
		out = append(out, item())
		if p.skip(end) {
			return out
		}
	}
}

// list parses open item* close.
func list[T any](p *parser, open, end TokenKind, item func() T) []T {
	p.expect(open)
	out := []T{}
	for !p.skip(end) {
		out = append(out, item())
	}
	return out
}

// Document

func (p *parser) parseDocument() *ast.Document {
	s := p.begin()
	doc := &ast.Document{}
	for {
		doc.Definitions = append(doc.Definitions, p.parseDefinition())
		if !p.startsDefinition() {
			break
		}
	}
	return stamp(p, s, doc)
}

func (p *parser) startsDefinition() bool {
	switch p.tok.Kind {
	case TokenBraceL, TokenString, TokenBlockString:
		return true
	case TokenName:
		return definitionKeywords[p.tok.Text]
	}
	return false
}

var definitionKeywords = map[string]bool{
	"query":        true,
	"mutation":     true,
	"subscription": true,
	"fragment":     true,
	"schema":       true,
	"scalar":       true,
	"type":         true,
	"interface":    true,
	"union":        true,
	"enum":         true,
	"input":        true,
	"directive":    true,
	"extend":       true,
}

func (p *parser) parseDefinition() ast.Definition {
	switch p.tok.Kind {
	case TokenBraceL:
		return p.parseOperationDefinition()
	case TokenString, TokenBlockString:
		return p.parseTypeSystemDefinition()
	case TokenName:
		switch p.tok.Text {
		case "query", "mutation", "subscription":
			return p.parseOperationDefinition()
		case "fragment":
			return p.parseFragmentDefinition()
		case "schema", "scalar", "type", "interface", "union", "enum", "input", "directive":
			return p.parseTypeSystemDefinition()
		case "extend":
			return p.parseExtension()
		}
	}
	panic(p.unexpected("a definition"))
}

// Executable definitions

func (p *parser) parseOperationDefinition() *ast.OperationDefinition {
	s := p.begin()
	op := &ast.OperationDefinition{Operation: ast.OperationQuery}
	if p.peek(TokenBraceL) {
		op.SelectionSet = p.parseSelectionSet()
		return stamp(p, s, op)
	}
	op.Operation = p.parseOperationType()
	if p.peek(TokenName) {
		op.Name = p.advance().Text
	}
	op.VariableDefinitions = p.parseVariableDefinitions()
	op.Directives = p.parseDirectives(false)
	op.SelectionSet = p.parseSelectionSet()
	return stamp(p, s, op)
}

func (p *parser) parseOperationType() ast.Operation {
	if p.tok.Kind == TokenName {
		switch op := ast.Operation(p.tok.Text); op {
		case ast.OperationQuery, ast.OperationMutation, ast.OperationSubscription:
			p.advance()
			return op
		}
	}
	panic(p.unexpected("query, mutation or subscription"))
}

func (p *parser) parseVariableDefinitions() []*ast.VariableDefinition {
	if !p.peek(TokenParenL) {
		return nil
	}
	return many(p, TokenParenL, TokenParenR, p.parseVariableDefinition)
}

func (p *parser) parseVariableDefinition() *ast.VariableDefinition {
	s := p.begin()
	p.expect(TokenDollar)
	def := &ast.VariableDefinition{Name: p.name()}
	p.expect(TokenColon)
	def.Type = p.parseType()
	if p.skip(TokenEquals) {
		def.DefaultValue = p.parseValue(true)
	}
	def.Directives = p.parseDirectives(true)
	return stamp(p, s, def)
}

func (p *parser) parseSelectionSet() *ast.SelectionSet {
	s := p.begin()
	set := &ast.SelectionSet{
		Selections: many(p, TokenBraceL, TokenBraceR, p.parseSelection),
	}
	return stamp(p, s, set)
}

func (p *parser) parseSelection() ast.Selection {
	if p.peek(TokenSpread) {
		return p.parseFragment()
	}
	return p.parseField()
}

func (p *parser) parseField() *ast.Field {
	s := p.begin()
	f := &ast.Field{Name: p.name()}
	if p.skip(TokenColon) {
		f.Alias = f.Name
		f.Name = p.name()
	}
	f.Arguments = p.parseArguments(false)
	f.Directives = p.parseDirectives(false)
	if p.peek(TokenBraceL) {
		f.SelectionSet = p.parseSelectionSet()
	}
	return stamp(p, s, f)
}

func (p *parser) parseFragment() ast.Selection {
	s := p.begin()
	p.expect(TokenSpread)
	if p.peek(TokenName) && !p.peekKeyword("on") {
		spread := &ast.FragmentSpread{Name: p.advance().Text}
		spread.Directives = p.parseDirectives(false)
		return stamp(p, s, spread)
	}
	frag := &ast.InlineFragment{}
	if p.peekKeyword("on") {
		p.advance()
		frag.TypeCondition = p.parseNamedType()
	}
	frag.Directives = p.parseDirectives(false)
	frag.SelectionSet = p.parseSelectionSet()
	return stamp(p, s, frag)
}

func (p *parser) parseFragmentDefinition() *ast.FragmentDefinition {
	s := p.begin()
	p.expectKeyword("fragment")
	if p.peekKeyword("on") {
		panic(p.unexpected("a fragment name"))
	}
	def := &ast.FragmentDefinition{Name: p.name()}
	p.expectKeyword("on")
	def.TypeCondition = p.parseNamedType()
	def.Directives = p.parseDirectives(false)
	def.SelectionSet = p.parseSelectionSet()
	return stamp(p, s, def)
}

func (p *parser) parseArguments(constant bool) []*ast.Argument {
	if !p.peek(TokenParenL) {
		return nil
	}
	return many(p, TokenParenL, TokenParenR, func() *ast.Argument {
		s := p.begin()
		arg := &ast.Argument{Name: p.name()}
		p.expect(TokenColon)
		arg.Value = p.parseValue(constant)
		return stamp(p, s, arg)
	})
}

func (p *parser) parseDirectives(constant bool) []*ast.Directive {
	var out []*ast.Directive
	for p.peek(TokenAt) {
		s := p.begin()
		p.advance()
		d := &ast.Directive{Name: p.name()}
		d.Arguments = p.parseArguments(constant)
		out = append(out, stamp(p, s, d))
	}
	return out
}

// Values

func (p *parser) parseValue(constant bool) ast.Value {
	s := p.begin()
	switch p.tok.Kind {
	case TokenDollar:
		if constant {
			panic(p.unexpected("a constant value"))
		}
		p.advance()
		return stamp(p, s, &ast.VariableReference{Name: p.name()})
	case TokenInt:
		return stamp(p, s, &ast.IntValue{Value: p.advance().Text})
	case TokenFloat:
		return stamp(p, s, &ast.FloatValue{Value: p.advance().Text})
	case TokenString, TokenBlockString:
		return p.parseStringValue()
	case TokenBracketL:
		values := list(p, TokenBracketL, TokenBracketR, func() ast.Value {
			return p.parseValue(constant)
		})
		return stamp(p, s, &ast.ArrayValue{Values: values})
	case TokenBraceL:
		fields := list(p, TokenBraceL, TokenBraceR, func() *ast.ObjectField {
			fs := p.begin()
			f := &ast.ObjectField{Name: p.name()}
			p.expect(TokenColon)
			f.Value = p.parseValue(constant)
			return stamp(p, fs, f)
		})
		return stamp(p, s, &ast.ObjectValue{Fields: fields})
	case TokenName:
		switch name := p.advance().Text; name {
		case "true", "false":
			return stamp(p, s, &ast.BooleanValue{Value: name == "true"})
		case "null":
			return stamp(p, s, &ast.NullValue{})
		default:
			return stamp(p, s, &ast.EnumValue{Name: name})
		}
	}
	panic(p.unexpected("a value"))
}

func (p *parser) parseStringValue() *ast.StringValue {
	s := p.begin()
	if !p.peek(TokenString) && !p.peek(TokenBlockString) {
		panic(p.unexpected("a string"))
	}
	tok := p.advance()
	return stamp(p, s, &ast.StringValue{Value: tok.Value, Block: tok.Kind == TokenBlockString})
}

// Types

func (p *parser) parseType() ast.Type {
	s := p.begin()
	var t ast.Type
	if p.skip(TokenBracketL) {
		inner := p.parseType()
		p.expect(TokenBracketR)
		t = stamp(p, s, &ast.ListType{Type: inner})
	} else {
		t = p.parseNamedType()
	}
	if p.skip(TokenBang) {
		return stamp(p, s, &ast.NonNullType{Type: t})
	}
	return t
}

func (p *parser) parseNamedType() *ast.TypeName {
	s := p.begin()
	return stamp(p, s, &ast.TypeName{Name: p.name()})
}

// Type system definitions

func (p *parser) parseDescription() *ast.StringValue {
	if p.peek(TokenString) || p.peek(TokenBlockString) {
		return p.parseStringValue()
	}
	return nil
}

func (p *parser) parseTypeSystemDefinition() ast.Definition {
	s := p.begin()
	desc := p.parseDescription()
	if p.tok.Kind == TokenName {
		switch p.tok.Text {
		case "schema":
			return p.parseSchemaDefinition(s, desc, false)
		case "scalar":
			return p.parseScalarTypeDefinition(s, desc, false)
		case "type":
			return p.parseObjectTypeDefinition(s, desc, false)
		case "interface":
			return p.parseInterfaceTypeDefinition(s, desc, false)
		case "union":
			return p.parseUnionTypeDefinition(s, desc, false)
		case "enum":
			return p.parseEnumTypeDefinition(s, desc, false)
		case "input":
			return p.parseInputObjectTypeDefinition(s, desc, false)
		case "directive":
			return p.parseDirectiveDefinition(s, desc)
		}
	}
	panic(p.unexpected("a type system definition"))
}

func (p *parser) parseExtension() ast.Definition {
	s := p.begin()
	p.expectKeyword("extend")
	if p.tok.Kind == TokenName {
		switch p.tok.Text {
		case "schema":
			return p.parseSchemaDefinition(s, nil, true)
		case "scalar":
			return p.parseScalarTypeDefinition(s, nil, true)
		case "type":
			return p.parseObjectTypeDefinition(s, nil, true)
		case "interface":
			return p.parseInterfaceTypeDefinition(s, nil, true)
		case "union":
			return p.parseUnionTypeDefinition(s, nil, true)
		case "enum":
			return p.parseEnumTypeDefinition(s, nil, true)
		case "input":
			return p.parseInputObjectTypeDefinition(s, nil, true)
		}
	}
	panic(p.unexpected("schema, scalar, type, interface, union, enum or input"))
}

func (p *parser) parseSchemaDefinition(s start, desc *ast.StringValue, extension bool) *ast.SchemaDefinition {
	p.expectKeyword("schema")
	def := &ast.SchemaDefinition{Extension: extension, Description: desc}
	def.Directives = p.parseDirectives(true)
	if !extension || p.peek(TokenBraceL) {
		def.OperationTypes = many(p, TokenBraceL, TokenBraceR, p.parseOperationTypeDefinition)
	}
	return stamp(p, s, def)
}

func (p *parser) parseOperationTypeDefinition() *ast.OperationTypeDefinition {
	s := p.begin()
	def := &ast.OperationTypeDefinition{Operation: p.parseOperationType()}
	p.expect(TokenColon)
	def.Type = p.parseNamedType()
	return stamp(p, s, def)
}

func (p *parser) parseScalarTypeDefinition(s start, desc *ast.StringValue, extension bool) *ast.ScalarTypeDefinition {
	p.expectKeyword("scalar")
	def := &ast.ScalarTypeDefinition{Extension: extension, Description: desc, Name: p.name()}
	def.Directives = p.parseDirectives(true)
	return stamp(p, s, def)
}

func (p *parser) parseObjectTypeDefinition(s start, desc *ast.StringValue, extension bool) *ast.ObjectTypeDefinition {
	p.expectKeyword("type")
	def := &ast.ObjectTypeDefinition{Extension: extension, Description: desc, Name: p.name()}
	def.Interfaces = p.parseImplementsInterfaces()
	def.Directives = p.parseDirectives(true)
	def.Fields = p.parseFieldsDefinition()
	return stamp(p, s, def)
}

func (p *parser) parseInterfaceTypeDefinition(s start, desc *ast.StringValue, extension bool) *ast.InterfaceTypeDefinition {
	p.expectKeyword("interface")
	def := &ast.InterfaceTypeDefinition{Extension: extension, Description: desc, Name: p.name()}
	def.Interfaces = p.parseImplementsInterfaces()
	def.Directives = p.parseDirectives(true)
	def.Fields = p.parseFieldsDefinition()
	return stamp(p, s, def)
}

func (p *parser) parseImplementsInterfaces() []*ast.TypeName {
	if !p.peekKeyword("implements") {
		return nil
	}
	p.advance()
	p.skip(TokenAmp)
	var out []*ast.TypeName
	for {
		out = append(out, p.parseNamedType())
		if !p.skip(TokenAmp) {
			return out
		}
	}
}

func (p *parser) parseFieldsDefinition() []*ast.FieldDefinition {
	if !p.peek(TokenBraceL) {
		return nil
	}
	return list(p, TokenBraceL, TokenBraceR, p.parseFieldDefinition)
}

func (p *parser) parseFieldDefinition() *ast.FieldDefinition {
	s := p.begin()
	def := &ast.FieldDefinition{Description: p.parseDescription(), Name: p.name()}
	def.Arguments = p.parseArgumentsDefinition()
	p.expect(TokenColon)
	def.Type = p.parseType()
	def.Directives = p.parseDirectives(true)
	return stamp(p, s, def)
}

func (p *parser) parseArgumentsDefinition() []*ast.InputValueDefinition {
	if !p.peek(TokenParenL) {
		return nil
	}
	return many(p, TokenParenL, TokenParenR, p.parseInputValueDefinition)
}

func (p *parser) parseInputValueDefinition() *ast.InputValueDefinition {
	s := p.begin()
	def := &ast.InputValueDefinition{Description: p.parseDescription(), Name: p.name()}
	p.expect(TokenColon)
	def.Type = p.parseType()
	if p.skip(TokenEquals) {
		def.DefaultValue = p.parseValue(true)
	}
	def.Directives = p.parseDirectives(true)
	return stamp(p, s, def)
}

func (p *parser) parseUnionTypeDefinition(s start, desc *ast.StringValue, extension bool) *ast.UnionTypeDefinition {
	p.expectKeyword("union")
	def := &ast.UnionTypeDefinition{Extension: extension, Description: desc, Name: p.name()}
	def.Directives = p.parseDirectives(true)
	if p.skip(TokenEquals) {
		p.skip(TokenPipe)
		for {
			def.Members = append(def.Members, p.parseNamedType())
			if !p.skip(TokenPipe) {
				break
			}
		}
	}
	return stamp(p, s, def)
}

func (p *parser) parseEnumTypeDefinition(s start, desc *ast.StringValue, extension bool) *ast.EnumTypeDefinition {
	p.expectKeyword("enum")
	def := &ast.EnumTypeDefinition{Extension: extension, Description: desc, Name: p.name()}
	def.Directives = p.parseDirectives(true)
	if p.peek(TokenBraceL) {
		def.Values = list(p, TokenBraceL, TokenBraceR, p.parseEnumValueDefinition)
	}
	return stamp(p, s, def)
}

func (p *parser) parseEnumValueDefinition() *ast.EnumValueDefinition {
	s := p.begin()
	def := &ast.EnumValueDefinition{Description: p.parseDescription()}
	if p.peekKeyword("true") || p.peekKeyword("false") || p.peekKeyword("null") {
		panic(p.unexpected("an enum value"))
	}
	def.Name = p.name()
	def.Directives = p.parseDirectives(true)
	return stamp(p, s, def)
}

func (p *parser) parseInputObjectTypeDefinition(s start, desc *ast.StringValue, extension bool) *ast.InputObjectTypeDefinition {
	p.expectKeyword("input")
	def := &ast.InputObjectTypeDefinition{Extension: extension, Description: desc, Name: p.name()}
	def.Directives = p.parseDirectives(true)
	if p.peek(TokenBraceL) {
		def.Fields = list(p, TokenBraceL, TokenBraceR, p.parseInputValueDefinition)
	}
	return stamp(p, s, def)
}

var directiveLocations = map[string]bool{
	"QUERY":                  true,
	"MUTATION":               true,
	"SUBSCRIPTION":           true,
	"FIELD":                  true,
	"FRAGMENT_DEFINITION":    true,
	"FRAGMENT_SPREAD":        true,
	"INLINE_FRAGMENT":        true,
	"VARIABLE_DEFINITION":    true,
	"SCHEMA":                 true,
	"SCALAR":                 true,
	"OBJECT":                 true,
	"FIELD_DEFINITION":       true,
	"ARGUMENT_DEFINITION":    true,
	"INTERFACE":              true,
	"UNION":                  true,
	"ENUM":                   true,
	"ENUM_VALUE":             true,
	"INPUT_OBJECT":           true,
	"INPUT_FIELD_DEFINITION": true,
}

func (p *parser) parseDirectiveDefinition(s start, desc *ast.StringValue) *ast.DirectiveDefinition {
	p.expectKeyword("directive")
	p.expect(TokenAt)
	def := &ast.DirectiveDefinition{Description: desc, Name: p.name()}
	def.Arguments = p.parseArgumentsDefinition()
	if p.peekKeyword("repeatable") {
		p.advance()
		def.Repeatable = true
	}
	p.expectKeyword("on")
	p.skip(TokenPipe)
	for {
		if p.tok.Kind != TokenName || !directiveLocations[p.tok.Text] {
			panic(p.unexpected("a directive location"))
		}
		def.Locations = append(def.Locations, p.advance().Text)
		if !p.skip(TokenPipe) {
			break
		}
	}
	return stamp(p, s, def)
}
