package lsp

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/gqlfront/format"
	"github.com/dhamidi/gqlfront/graphql/parser"
)

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    []parser.Option
		start   protocol.Position
		end     protocol.Position
		message string
	}{
		{
			name:    "trailing token",
			input:   "{ a } junk",
			start:   protocol.Position{Line: 0, Character: 6},
			end:     protocol.Position{Line: 0, Character: 10},
			message: "Invalid syntax encountered. There are extra tokens in the text that have not been consumed. Offending token 'junk' at line 1 column 7",
		},
		{
			name:    "astral characters before the token",
			input:   "{ a(s: \"😀😀\") } junk",
			start:   protocol.Position{Line: 0, Character: 17},
			end:     protocol.Position{Line: 0, Character: 21},
			message: "Invalid syntax encountered. There are extra tokens in the text that have not been consumed. Offending token 'junk' at line 1 column 16",
		},
		{
			name:    "astral characters on an earlier line",
			input:   "# 😀\r\n{ a } junk",
			start:   protocol.Position{Line: 1, Character: 6},
			end:     protocol.Position{Line: 1, Character: 10},
			message: "Invalid syntax encountered. There are extra tokens in the text that have not been consumed. Offending token 'junk' at line 2 column 7",
		},
		{
			name:    "end of input",
			input:   "{\n  a",
			start:   protocol.Position{Line: 1, Character: 3},
			end:     protocol.Position{Line: 1, Character: 3},
			message: "Invalid syntax with offending token '<EOF>' at line 2 column 4: expected Name",
		},
		{
			name:    "cancelled",
			input:   "{ a b c d }",
			opts:    []parser.Option{parser.WithMaxTokens(5)},
			start:   protocol.Position{Line: 0, Character: 10},
			end:     protocol.Position{Line: 0, Character: 11},
			message: "More than 5 parse tokens have been presented. To prevent Denial Of Service attacks, parsing has been cancelled.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input, tt.opts...)
			require.Error(t, err)

			diags := Diagnostics(tt.input, err)
			require.Len(t, diags, 1)
			require.Equal(t, tt.start, diags[0].Range.Start)
			require.Equal(t, tt.end, diags[0].Range.End)
			require.Equal(t, tt.message, diags[0].Message)
			require.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
			require.Equal(t, "gqlfront", *diags[0].Source)
		})
	}
}

func TestDiagnosticsOtherErrors(t *testing.T) {
	require.Nil(t, Diagnostics("", nil))

	diags := Diagnostics("{ a }", errors.New("read failed"))
	require.Len(t, diags, 1)
	require.Equal(t, "read failed", diags[0].Message)
	require.Equal(t, protocol.Range{}, diags[0].Range)
}

func TestWholeDocumentCountsUTF16(t *testing.T) {
	require.Equal(t, protocol.Range{End: protocol.Position{Line: 1, Character: 3}}, wholeDocument("a\n😀b"))
	require.Equal(t, protocol.Range{End: protocol.Position{Line: 0, Character: 0}}, wholeDocument(""))
}

type notification struct {
	method string
	params protocol.PublishDiagnosticsParams
}

func fakeContext(sent *[]notification) *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			*sent = append(*sent, notification{method, params.(protocol.PublishDiagnosticsParams)})
		},
	}
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	var sent []notification
	ctx := fakeContext(&sent)
	ls := NewServer("test")
	uri := pathToURI(filepath.Join(t.TempDir(), "broken.graphql"))

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "type T {"},
	}))
	require.Len(t, sent, 1)
	require.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, sent[0].method)
	require.Equal(t, uri, sent[0].params.URI)
	require.Len(t, sent[0].params.Diagnostics, 1)

	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "type T { a: Int }"}},
	}))
	require.Len(t, sent, 2)
	require.Empty(t, sent[1].params.Diagnostics)
	require.NotNil(t, sent[1].params.Diagnostics)

	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	require.Len(t, sent, 3)
	require.Empty(t, sent[2].params.Diagnostics)
}

func TestFormatting(t *testing.T) {
	var sent []notification
	ctx := fakeContext(&sent)
	ls := NewServer("test")
	uri := pathToURI(filepath.Join(t.TempDir(), "schema.graphql"))
	text := "type T{a:Int\nb:[String!]}"

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: text},
	}))

	params := &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}
	edits, err := ls.textDocumentFormatting(ctx, params)
	require.NoError(t, err)
	require.Len(t, edits, 1)

	doc, err := parser.Parse(text)
	require.NoError(t, err)
	require.Equal(t, format.Print(doc), edits[0].NewText)
	require.Equal(t, protocol.Range{
		Start: protocol.Position{},
		End:   protocol.Position{Line: 1, Character: 12},
	}, edits[0].Range)

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: edits[0].NewText},
	}))
	edits, err = ls.textDocumentFormatting(ctx, params)
	require.NoError(t, err)
	require.Empty(t, edits)
}

func TestFormattingSkipsBrokenDocuments(t *testing.T) {
	var sent []notification
	ctx := fakeContext(&sent)
	ls := NewServer("test")
	uri := pathToURI(filepath.Join(t.TempDir(), "broken.graphql"))

	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "{"},
	}))
	edits, err := ls.textDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	require.Nil(t, edits)
}

func TestURIConversion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir with space", "a.graphql")
	uri := pathToURI(path)
	require.Contains(t, uri, "file://")

	got, err := uriToPath(uri)
	require.NoError(t, err)
	require.Equal(t, path, got)

	got, err = uriToPath("relative/a.graphql")
	require.NoError(t, err)
	require.Equal(t, "relative/a.graphql", got)
}
