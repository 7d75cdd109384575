// Package lsp serves GraphQL files over the language server protocol. It
// reports syntax errors as diagnostics and formats documents with the
// canonical printer.
package lsp

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/gqlfront/format"
	"github.com/dhamidi/gqlfront/graphql/parser"
	"github.com/dhamidi/gqlfront/workspace"
)

const lsName = "gqlfront"

var log = commonlog.GetLogger("gqlfront.lsp")

type Server struct {
	workspace *workspace.Workspace
	opts      []parser.Option
	handler   protocol.Handler
	server    *server.Server
	version   string
}

func NewServer(version string, opts ...parser.Option) *Server {
	ls := &Server{
		version:   version,
		opts:      opts,
		workspace: workspace.New(".", opts...),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentFormatting: ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) RunTCP(address string) error {
	return ls.server.RunTCP(address)
}

func (ls *Server) Workspace() *workspace.Workspace {
	return ls.workspace
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	} else if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	}

	ls.workspace = workspace.New(rootDir, ls.opts...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

// initialized scans the workspace and reports the files that do not parse.
func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.workspace.ScanAll(); err != nil {
		log.Warningf("scan %s: %v", ls.workspace.RootDir(), err)
	}
	for _, f := range ls.workspace.Files() {
		if f.ParseErr != nil {
			ls.publish(ctx, pathToURI(f.Path), f)
		}
	}
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	f := ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	ls.publish(ctx, params.TextDocument.URI, f)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			f := ls.workspace.UpdateFile(path, []byte(textChange.Text))
			ls.publish(ctx, params.TextDocument.URI, f)
		}
	}
	return nil
}

// textDocumentDidClose clears the diagnostics of the document. The file
// stays in the workspace because it still exists on disk.
func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.workspace.ScanFile(path); err != nil {
		log.Warningf("%v", err)
		return nil
	}
	ls.publish(ctx, params.TextDocument.URI, ls.workspace.File(path))
	return nil
}

// textDocumentFormatting replaces the whole document with its canonical
// form. Documents that do not parse are left alone.
func (ls *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.workspace.File(path)
	if f == nil || f.Document == nil {
		return nil, nil
	}
	formatted := format.Print(f.Document)
	if formatted == string(f.Content) {
		return nil, nil
	}
	return []protocol.TextEdit{{
		Range:   wholeDocument(string(f.Content)),
		NewText: formatted,
	}}, nil
}

func (ls *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, f *workspace.File) {
	diagnostics := []protocol.Diagnostic{}
	if f != nil && f.ParseErr != nil {
		diagnostics = Diagnostics(string(f.Content), f.ParseErr)
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// Diagnostics converts a parse error of text into LSP diagnostics. The range
// covers the offending token, in UTF-16 code units as LSP counts them.
func Diagnostics(text string, err error) []protocol.Diagnostic {
	if err == nil {
		return nil
	}
	var (
		message   = err.Error()
		line, col int
		token     string
		syntax    *parser.InvalidSyntaxError
		cancelled *parser.ParseCancelledError
	)
	switch {
	case errors.As(err, &syntax):
		message, token = syntax.Message, syntax.OffendingToken
		if syntax.Location != nil {
			line, col = syntax.Location.Line, syntax.Location.Column
		}
	case errors.As(err, &cancelled):
		message, token = cancelled.Message, cancelled.OffendingToken
		if cancelled.Location != nil {
			line, col = cancelled.Location.Line, cancelled.Location.Column
		}
	}

	start := protocol.Position{Line: zeroBased(line), Character: utf16Column(text, line, col)}
	end := start
	if token != "" && token != "<EOF>" {
		end.Character += utf16Len(token)
	}
	return []protocol.Diagnostic{{
		Range:    protocol.Range{Start: start, End: end},
		Severity: severityPtr(protocol.DiagnosticSeverityError),
		Source:   strPtr(lsName),
		Message:  message,
	}}
}

func zeroBased(n int) protocol.UInteger {
	if n <= 0 {
		return 0
	}
	return protocol.UInteger(n - 1)
}

// utf16Column converts a 1-based rune column on a 1-based line of text into
// a 0-based UTF-16 offset. Lines end at \n, \r\n or \r, as in the lexer.
func utf16Column(text string, line, col int) protocol.UInteger {
	if line <= 0 || col <= 1 {
		return 0
	}
	for n := 1; n < line; n++ {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			return zeroBased(col)
		}
		if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			i++
		}
		text = text[i+1:]
	}
	var units protocol.UInteger
	for _, r := range text {
		if col <= 1 || r == '\n' || r == '\r' {
			break
		}
		units += protocol.UInteger(max(1, utf16.RuneLen(r)))
		col--
	}
	// Past the end of the line, one unit per missing column.
	return units + zeroBased(col)
}

func utf16Len(s string) protocol.UInteger {
	var n protocol.UInteger
	for _, r := range s {
		n += protocol.UInteger(max(1, utf16.RuneLen(r)))
	}
	return n
}

func wholeDocument(text string) protocol.Range {
	lines := strings.Split(text, "\n")
	last := lines[len(lines)-1]
	return protocol.Range{
		Start: protocol.Position{},
		End: protocol.Position{
			Line:      protocol.UInteger(len(lines) - 1),
			Character: utf16Len(last),
		},
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

func severityPtr(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
