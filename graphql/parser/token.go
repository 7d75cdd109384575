package parser

type TokenKind int

const (
	TokenEOF TokenKind = iota

	// Punctuators
	TokenBang
	TokenDollar
	TokenAmp
	TokenParenL
	TokenParenR
	TokenSpread
	TokenColon
	TokenEquals
	TokenAt
	TokenBracketL
	TokenBracketR
	TokenBraceL
	TokenPipe
	TokenBraceR

	// Literals
	TokenName
	TokenInt
	TokenFloat
	TokenString
	TokenBlockString

	// Ignored
	TokenWhitespace
	TokenLineTerminator
	TokenComma
	TokenComment
	TokenBOM
)

var tokenNames = map[TokenKind]string{
	TokenEOF:            "EOF",
	TokenBang:           "!",
	TokenDollar:         "$",
	TokenAmp:            "&",
	TokenParenL:         "(",
	TokenParenR:         ")",
	TokenSpread:         "...",
	TokenColon:          ":",
	TokenEquals:         "=",
	TokenAt:             "@",
	TokenBracketL:       "[",
	TokenBracketR:       "]",
	TokenBraceL:         "{",
	TokenPipe:           "|",
	TokenBraceR:         "}",
	TokenName:           "Name",
	TokenInt:            "Int",
	TokenFloat:          "Float",
	TokenString:         "String",
	TokenBlockString:    "BlockString",
	TokenWhitespace:     "Whitespace",
	TokenLineTerminator: "LineTerminator",
	TokenComma:          "Comma",
	TokenComment:        "Comment",
	TokenBOM:            "BOM",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Channel separates tokens the grammar consumes from tokens it skips.
type Channel int

const (
	ChannelSignificant Channel = iota
	ChannelIgnored
)

func (c Channel) String() string {
	if c == ChannelIgnored {
		return "Ignored"
	}
	return "Significant"
}

func channelOf(kind TokenKind) Channel {
	if kind >= TokenWhitespace {
		return ChannelIgnored
	}
	return ChannelSignificant
}

// Token is one lexeme of the combined source. Text is the raw source text;
// Value is the decoded content of string tokens and equals Text otherwise.
// Line is absolute within the combined text; MultiSourceReader.Locate maps
// it back to a fragment.
type Token struct {
	Kind    TokenKind
	Text    string
	Value   string
	Line    int
	Column  int
	Offset  int
	Channel Channel
}

// display is the token text as cited in error messages.
func (t Token) display() string {
	if t.Kind == TokenEOF {
		return "<EOF>"
	}
	return t.Text
}
