package parser

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const eof = -1

// Lexer produces the tokens of a MultiSourceReader's text on demand,
// ignored tokens included. Once the input is exhausted every call returns
// the same EOF token.
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
	bail   bailStrategy
}

type mark struct {
	pos    int
	line   int
	column int
}

func NewLexer(src *MultiSourceReader) *Lexer {
	return &Lexer{
		input:  src.Text(),
		line:   1,
		column: 1,
		bail:   bailStrategy{src: src},
	}
}

func (l *Lexer) mark() mark {
	return mark{pos: l.pos, line: l.line, column: l.column}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *Lexer) peekByte(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

// advance consumes one rune. "\r\n" is consumed as a single line break.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	switch r {
	case '\r':
		if l.peekByte(0) == '\n' {
			l.pos++
		}
		fallthrough
	case '\n':
		l.line++
		l.column = 1
	default:
		l.column++
	}
	return r
}

func (l *Lexer) token(kind TokenKind, m mark) Token {
	text := l.input[m.pos:l.pos]
	return Token{
		Kind:    kind,
		Text:    text,
		Value:   text,
		Line:    m.line,
		Column:  m.column,
		Offset:  m.pos,
		Channel: channelOf(kind),
	}
}

// failHere reports a lexical error at the current character.
func (l *Lexer) failHere(detail string) error {
	tok := Token{Kind: TokenEOF, Line: l.line, Column: l.column, Offset: l.pos}
	if r := l.peek(); r != eof {
		tok.Kind = TokenName
		tok.Text = string(r)
	}
	return l.bail.lexical(tok, detail)
}

// failAt reports a lexical error for the text consumed since m.
func (l *Lexer) failAt(m mark, detail string) error {
	tok := l.token(TokenName, m)
	return l.bail.lexical(tok, detail)
}

func (l *Lexer) NextToken() (Token, error) {
	m := l.mark()
	r := l.peek()

	switch {
	case r == eof:
		return l.token(TokenEOF, m), nil
	case r == '\uFEFF':
		l.advance()
		return l.token(TokenBOM, m), nil
	case r == ' ' || r == '\t':
		return l.scanWhitespace(m), nil
	case r == '\n' || r == '\r':
		l.advance()
		return l.token(TokenLineTerminator, m), nil
	case r == ',':
		l.advance()
		return l.token(TokenComma, m), nil
	case r == '#':
		return l.scanComment(m), nil
	case r == '"':
		if l.peekByte(1) == '"' && l.peekByte(2) == '"' {
			return l.scanBlockString(m)
		}
		return l.scanString(m)
	case r == '_' || isLetter(r):
		return l.scanName(m), nil
	case r == '-' || isDigit(r):
		return l.scanNumber(m)
	case r == '.':
		if l.peekByte(1) == '.' && l.peekByte(2) == '.' {
			l.advance()
			l.advance()
			l.advance()
			return l.token(TokenSpread, m), nil
		}
		return Token{}, l.failHere("expected '...'")
	}

	if kind, ok := punctuators[r]; ok {
		l.advance()
		return l.token(kind, m), nil
	}
	return Token{}, l.failHere("unexpected character")
}

var punctuators = map[rune]TokenKind{
	'!': TokenBang,
	'$': TokenDollar,
	'&': TokenAmp,
	'(': TokenParenL,
	')': TokenParenR,
	':': TokenColon,
	'=': TokenEquals,
	'@': TokenAt,
	'[': TokenBracketL,
	']': TokenBracketR,
	'{': TokenBraceL,
	'|': TokenPipe,
	'}': TokenBraceR,
}

func (l *Lexer) scanWhitespace(m mark) Token {
	for r := l.peek(); r == ' ' || r == '\t'; r = l.peek() {
		l.advance()
	}
	return l.token(TokenWhitespace, m)
}

func (l *Lexer) scanComment(m mark) Token {
	for r := l.peek(); r != eof && r != '\n' && r != '\r'; r = l.peek() {
		l.advance()
	}
	tok := l.token(TokenComment, m)
	tok.Value = tok.Text[1:]
	return tok
}

func (l *Lexer) scanName(m mark) Token {
	for r := l.peek(); r == '_' || isLetter(r) || isDigit(r); r = l.peek() {
		l.advance()
	}
	return l.token(TokenName, m)
}

func (l *Lexer) scanNumber(m mark) (Token, error) {
	kind := TokenInt
	if l.peek() == '-' {
		l.advance()
	}
	switch r := l.peek(); {
	case r == '0':
		l.advance()
		if isDigit(l.peek()) {
			return Token{}, l.failHere("invalid number, unexpected digit after 0")
		}
	case isDigit(r):
		l.scanDigits()
	default:
		return Token{}, l.failHere("invalid number, expected digit")
	}
	if l.peek() == '.' {
		kind = TokenFloat
		l.advance()
		if !isDigit(l.peek()) {
			return Token{}, l.failHere("invalid number, expected digit")
		}
		l.scanDigits()
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		kind = TokenFloat
		l.advance()
		if r := l.peek(); r == '+' || r == '-' {
			l.advance()
		}
		if !isDigit(l.peek()) {
			return Token{}, l.failHere("invalid number, expected digit")
		}
		l.scanDigits()
	}
	if r := l.peek(); r == '.' || r == '_' || isLetter(r) {
		return Token{}, l.failHere("invalid number, unexpected character after number")
	}
	return l.token(kind, m), nil
}

func (l *Lexer) scanDigits() {
	for isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) scanString(m mark) (Token, error) {
	l.advance()
	var b strings.Builder
	for {
		r := l.peek()
		switch {
		case r == eof || r == '\n' || r == '\r':
			return Token{}, l.failAt(m, "unterminated string")
		case r == '"':
			l.advance()
			tok := l.token(TokenString, m)
			tok.Value = b.String()
			return tok, nil
		case r < 0x20 && r != '\t':
			return Token{}, l.failHere("invalid character within string")
		case r == '\\':
			l.advance()
			if err := l.scanEscape(&b); err != nil {
				return Token{}, err
			}
		default:
			b.WriteRune(r)
			l.advance()
		}
	}
}

var simpleEscapes = map[rune]rune{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

func (l *Lexer) scanEscape(b *strings.Builder) error {
	r := l.peek()
	if c, ok := simpleEscapes[r]; ok {
		l.advance()
		b.WriteRune(c)
		return nil
	}
	if r != 'u' {
		return l.failHere("invalid escape sequence")
	}
	l.advance()

	if l.peek() == '{' {
		l.advance()
		start := l.pos
		for isHexDigit(l.peek()) {
			l.advance()
		}
		if l.peek() != '}' || l.pos == start {
			return l.failHere("invalid unicode escape sequence")
		}
		v, err := strconv.ParseUint(l.input[start:l.pos], 16, 32)
		l.advance()
		if err != nil || v > utf8.MaxRune || utf16.IsSurrogate(rune(v)) {
			return l.failHere("invalid unicode escape sequence")
		}
		b.WriteRune(rune(v))
		return nil
	}

	high, ok := l.scanHex4()
	if !ok {
		return l.failHere("invalid unicode escape sequence")
	}
	if !utf16.IsSurrogate(high) {
		b.WriteRune(high)
		return nil
	}
	// A leading surrogate must be followed by \uXXXX holding the trailing one.
	if high >= 0xDC00 || l.peekByte(0) != '\\' || l.peekByte(1) != 'u' {
		return l.failHere("invalid unicode escape sequence")
	}
	l.advance()
	l.advance()
	low, ok := l.scanHex4()
	combined := utf16.DecodeRune(high, low)
	if !ok || combined == utf8.RuneError {
		return l.failHere("invalid unicode escape sequence")
	}
	b.WriteRune(combined)
	return nil
}

func (l *Lexer) scanHex4() (rune, bool) {
	if l.pos+4 > len(l.input) {
		return 0, false
	}
	digits := l.input[l.pos : l.pos+4]
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, false
	}
	for range 4 {
		l.advance()
	}
	return rune(v), true
}

func (l *Lexer) scanBlockString(m mark) (Token, error) {
	l.advance()
	l.advance()
	l.advance()
	var raw strings.Builder
	for {
		r := l.peek()
		switch {
		case r == eof:
			return Token{}, l.failAt(m, "unterminated block string")
		case r == '"' && l.peekByte(1) == '"' && l.peekByte(2) == '"':
			l.advance()
			l.advance()
			l.advance()
			tok := l.token(TokenBlockString, m)
			tok.Value = blockStringValue(raw.String())
			return tok, nil
		case r == '\\' && strings.HasPrefix(l.input[l.pos+1:], `"""`):
			for range 4 {
				l.advance()
			}
			raw.WriteString(`"""`)
		case r < 0x20 && r != '\t' && r != '\n' && r != '\r':
			return Token{}, l.failHere("invalid character within block string")
		default:
			before := l.pos
			l.advance()
			raw.WriteString(l.input[before:l.pos])
		}
	}
}

// blockStringValue strips the common indentation and the leading and
// trailing blank lines of a block string, and normalizes line terminators.
func blockStringValue(raw string) string {
	lines := splitLines(raw)

	common := -1
	for i, line := range lines {
		if i == 0 {
			continue
		}
		indent := leadingWhitespace(line)
		if indent < len(line) && (common < 0 || indent < common) {
			common = indent
		}
	}
	if common > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) < common {
				lines[i] = ""
			} else {
				lines[i] = lines[i][common:]
			}
		}
	}

	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

func isBlank(s string) bool {
	return leadingWhitespace(s) == len(s)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
