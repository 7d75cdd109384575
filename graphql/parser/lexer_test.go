package parser

import (
	"errors"
	"testing"
)

func lexAll(t *testing.T, input string) []Token {
	t.Helper()
	lexer := NewLexer(FromString(input, "test.graphql"))
	var tokens []Token
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("NextToken() error = %v", err)
		}
		if tok.Kind == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func lexError(t *testing.T, input string) *InvalidSyntaxError {
	t.Helper()
	lexer := NewLexer(FromString(input, ""))
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			var syntaxErr *InvalidSyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("error = %T, want *InvalidSyntaxError", err)
			}
			return syntaxErr
		}
		if tok.Kind == TokenEOF {
			t.Fatalf("lexing %q succeeded, want error", input)
		}
	}
}

func TestTokenKindString(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenEOF, "EOF"},
		{TokenSpread, "..."},
		{TokenName, "Name"},
		{TokenBlockString, "BlockString"},
		{TokenComment, "Comment"},
		{TokenKind(9999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("TokenKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestLexerPunctuators(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"!", TokenBang},
		{"$", TokenDollar},
		{"&", TokenAmp},
		{"(", TokenParenL},
		{")", TokenParenR},
		{"...", TokenSpread},
		{":", TokenColon},
		{"=", TokenEquals},
		{"@", TokenAt},
		{"[", TokenBracketL},
		{"]", TokenBracketR},
		{"{", TokenBraceL},
		{"|", TokenPipe},
		{"}", TokenBraceR},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := lexAll(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, tt.kind)
			}
			if tokens[0].Channel != ChannelSignificant {
				t.Errorf("Channel = %v, want %v", tokens[0].Channel, ChannelSignificant)
			}
		})
	}
}

func TestLexerChannels(t *testing.T) {
	tokens := lexAll(t, "\uFEFFquery Q { a, # note\n\tb }")
	want := []struct {
		kind    TokenKind
		text    string
		channel Channel
	}{
		{TokenBOM, "\uFEFF", ChannelIgnored},
		{TokenName, "query", ChannelSignificant},
		{TokenWhitespace, " ", ChannelIgnored},
		{TokenName, "Q", ChannelSignificant},
		{TokenWhitespace, " ", ChannelIgnored},
		{TokenBraceL, "{", ChannelSignificant},
		{TokenWhitespace, " ", ChannelIgnored},
		{TokenName, "a", ChannelSignificant},
		{TokenComma, ",", ChannelIgnored},
		{TokenWhitespace, " ", ChannelIgnored},
		{TokenComment, "# note", ChannelIgnored},
		{TokenLineTerminator, "\n", ChannelIgnored},
		{TokenWhitespace, "\t", ChannelIgnored},
		{TokenName, "b", ChannelSignificant},
		{TokenWhitespace, " ", ChannelIgnored},
		{TokenBraceR, "}", ChannelSignificant},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		tok := tokens[i]
		if tok.Kind != w.kind || tok.Text != w.text || tok.Channel != w.channel {
			t.Errorf("token %d = (%v, %q, %v), want (%v, %q, %v)",
				i, tok.Kind, tok.Text, tok.Channel, w.kind, w.text, w.channel)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := lexAll(t, "{\n  a\r\n  b\r  c }")
	var names []Token
	for _, tok := range tokens {
		if tok.Kind == TokenName || tok.Kind == TokenBraceR {
			names = append(names, tok)
		}
	}
	want := []struct {
		text   string
		line   int
		column int
	}{
		{"a", 2, 3},
		{"b", 3, 3},
		{"c", 4, 3},
		{"}", 4, 5},
	}
	if len(names) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(names), len(want))
	}
	for i, w := range want {
		if names[i].Line != w.line || names[i].Column != w.column {
			t.Errorf("%q at %d:%d, want %d:%d", names[i].Text, names[i].Line, names[i].Column, w.line, w.column)
		}
	}
}

func TestLexerUnicodeColumns(t *testing.T) {
	tokens := lexAll(t, `"héllo" x`)
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	if tokens[2].Column != 9 {
		t.Errorf("Column = %d, want 9", tokens[2].Column)
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"0", TokenInt},
		{"-12", TokenInt},
		{"1234567890123456789012", TokenInt},
		{"1.5", TokenFloat},
		{"1e10", TokenFloat},
		{"-0.5E-3", TokenFloat},
		{"6.0221e+23", TokenFloat},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := lexAll(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, tt.kind)
			}
			if tokens[0].Text != tt.input {
				t.Errorf("Text = %q, want %q", tokens[0].Text, tt.input)
			}
		})
	}
}

func TestLexerInvalidNumbers(t *testing.T) {
	for _, input := range []string{"01", "1.", "1.e", "1a", "0x", "-", "1.5.3", "1e"} {
		t.Run(input, func(t *testing.T) {
			err := lexError(t, input)
			if err.Location == nil {
				t.Fatal("Location = nil")
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`""`, ""},
		{`"simple"`, "simple"},
		{`"a\"b"`, `a"b`},
		{`"\\ \/ \b \f \n \r \t"`, "\\ / \b \f \n \r \t"},
		{`"\u0041"`, "A"},
		{`"\u{1F600}"`, "😀"},
		{`"😀"`, "😀"},
		{`"unicode ☃"`, "unicode ☃"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := lexAll(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Kind != TokenString {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, TokenString)
			}
			if tokens[0].Value != tt.want {
				t.Errorf("Value = %q, want %q", tokens[0].Value, tt.want)
			}
			if tokens[0].Text != tt.input {
				t.Errorf("Text = %q, want %q", tokens[0].Text, tt.input)
			}
		})
	}
}

func TestLexerInvalidStrings(t *testing.T) {
	tests := []string{
		`"unterminated`,
		"\"line\nbreak\"",
		`"\x"`,
		`"\u00G1"`,
		`"\uD83D"`,
		`"\uDE00\uD83D"`,
		`"\u{110000}"`,
		`"\u{}"`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lexError(t, input)
		})
	}
}

func TestLexerBlockStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", `""""""`, ""},
		{"single line", `"""hello"""`, "hello"},
		{"dedent", "\"\"\"\n    hello\n      world\n  \"\"\"", "hello\n  world"},
		{"first line kept", "\"\"\"  first\n    second\"\"\"", "  first\nsecond"},
		{"escaped quotes", `"""a \""" b"""`, `a """ b`},
		{"crlf", "\"\"\"\r\n  a\r\n  b\r\n\"\"\"", "a\nb"},
		{"no escapes", `"""\n"""`, `\n`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := lexAll(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if tokens[0].Kind != TokenBlockString {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, TokenBlockString)
			}
			if tokens[0].Value != tt.want {
				t.Errorf("Value = %q, want %q", tokens[0].Value, tt.want)
			}
		})
	}
}

func TestLexerBlockStringAdvancesLines(t *testing.T) {
	tokens := lexAll(t, "\"\"\"\na\nb\n\"\"\" x")
	last := tokens[len(tokens)-1]
	if last.Text != "x" || last.Line != 4 || last.Column != 5 {
		t.Errorf("last token = %q at %d:%d, want \"x\" at 4:5", last.Text, last.Line, last.Column)
	}
}

func TestLexerComment(t *testing.T) {
	tokens := lexAll(t, "# hello world\n")
	if tokens[0].Kind != TokenComment {
		t.Fatalf("Kind = %v, want %v", tokens[0].Kind, TokenComment)
	}
	if tokens[0].Value != " hello world" {
		t.Errorf("Value = %q, want %q", tokens[0].Value, " hello world")
	}
}

func TestLexerEOFRepeats(t *testing.T) {
	lexer := NewLexer(FromString("a", ""))
	lexer.NextToken()
	for i := 0; i < 3; i++ {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("NextToken() error = %v", err)
		}
		if tok.Kind != TokenEOF {
			t.Errorf("Kind = %v, want %v", tok.Kind, TokenEOF)
		}
		if tok.Column != 2 {
			t.Errorf("Column = %d, want 2", tok.Column)
		}
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	err := lexError(t, "{ a ? }")
	if err.OffendingToken != "?" {
		t.Errorf("OffendingToken = %q, want %q", err.OffendingToken, "?")
	}
	if err.Location.Line != 1 || err.Location.Column != 5 {
		t.Errorf("Location = %v, want 1:5", err.Location)
	}
	want := "Invalid syntax with offending token '?' at line 1 column 5: unexpected character"
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
	if err.SourcePreview == "" {
		t.Error("SourcePreview is empty")
	}
}

func TestLexerDeterministic(t *testing.T) {
	input := "query Q($a: [Int!] = [1, 2]) { f(x: \"\"\"s\"\"\") # c\n }"
	first := lexAll(t, input)
	second := lexAll(t, input)
	if len(first) != len(second) {
		t.Fatalf("token counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("token %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
