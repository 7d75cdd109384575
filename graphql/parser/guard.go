package parser

import "fmt"

// guard counts the significant tokens of one parse and cancels it once the
// count passes max.
type guard struct {
	max      int
	listener Listener
	count    int
	bail     bailStrategy
}

func (g *guard) consume(tok Token) error {
	if g.listener != nil {
		loc := g.bail.location(tok.Line, tok.Column)
		g.listener(tok.Text, loc.Line, loc.Column)
	}
	g.count++
	if g.count <= g.max {
		return nil
	}
	return &ParseCancelledError{
		Message: fmt.Sprintf("More than %d parse tokens have been presented. To prevent Denial Of Service attacks, parsing has been cancelled.",
			g.max),
		Location:       g.bail.location(tok.Line, tok.Column),
		OffendingToken: tok.Text,
	}
}
