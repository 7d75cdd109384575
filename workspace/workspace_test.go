package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/gqlfront/graphql/ast"
	"github.com/dhamidi/gqlfront/graphql/parser"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.graphql"), "type B { b: Int }")
	writeFile(t, filepath.Join(root, "a.graphqls"), "type A { a: Int }")
	writeFile(t, filepath.Join(root, "nested", "q.gql"), "{ a }")
	writeFile(t, filepath.Join(root, "notes.txt"), "not graphql")
	writeFile(t, filepath.Join(root, ".hidden", "x.graphql"), "{ hidden }")

	ws := New(root)
	require.NoError(t, ws.ScanAll())

	var names []string
	for _, f := range ws.Files() {
		names = append(names, f.Name)
		require.NoError(t, f.ParseErr)
		require.NotNil(t, f.Document)
	}
	require.Equal(t, []string{"a.graphqls", "b.graphql", "nested/q.gql"}, names)
}

func TestUpdateFileRecordsSyntaxErrors(t *testing.T) {
	root := t.TempDir()
	ws := New(root)
	path := filepath.Join(root, "broken.graphql")

	f := ws.UpdateFile(path, []byte("type T {"))
	require.Nil(t, f.Document)
	var syntaxErr *parser.InvalidSyntaxError
	require.ErrorAs(t, f.ParseErr, &syntaxErr)
	require.Equal(t, "broken.graphql", syntaxErr.Location.SourceName)
	require.Len(t, ws.Errors(), 1)

	f = ws.UpdateFile(path, []byte("type T { a: Int }"))
	require.NoError(t, f.ParseErr)
	require.Same(t, f, ws.File(path))
	require.Empty(t, ws.Errors())

	ws.RemoveFile(path)
	require.Nil(t, ws.File(path))
	require.Empty(t, ws.Files())
}

func TestSchemaCombinesFiles(t *testing.T) {
	root := t.TempDir()
	ws := New(root)
	ws.UpdateFile(filepath.Join(root, "a.graphql"), []byte("type A {\n  a: Int\n}"))
	ws.UpdateFile(filepath.Join(root, "b.graphql"), []byte("type B {\n  b: A\n}\n"))

	doc, err := ws.Schema()
	require.NoError(t, err)
	require.Len(t, doc.Definitions, 2)

	b := doc.Definitions[1].(*ast.ObjectTypeDefinition)
	require.Equal(t, "B", b.Name)
	require.Equal(t, ast.SourceLocation{Line: 1, Column: 1, SourceName: "b.graphql"}, *b.Location)
	require.Equal(t, ast.SourceLocation{Line: 2, Column: 3, SourceName: "b.graphql"}, *b.Fields[0].Location)
}

func TestSchemaReportsFileAndLocalLine(t *testing.T) {
	root := t.TempDir()
	ws := New(root)
	ws.UpdateFile(filepath.Join(root, "a.graphql"), []byte("type A {\n  a: Int\n}"))
	ws.UpdateFile(filepath.Join(root, "b.graphql"), []byte("type B {\n  b: Int!!\n}"))

	_, err := ws.Schema()
	var syntaxErr *parser.InvalidSyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	require.Equal(t, &ast.SourceLocation{Line: 2, Column: 10, SourceName: "b.graphql"}, syntaxErr.Location)
	require.Contains(t, syntaxErr.SourcePreview, "b.graphql:")
}

func TestSchemaOptions(t *testing.T) {
	root := t.TempDir()
	ws := New(root)
	ws.UpdateFile(filepath.Join(root, "a.graphql"), []byte("type A { a: Int b: Int }"))

	_, err := ws.Schema(parser.WithMaxTokens(3))
	var cancelled *parser.ParseCancelledError
	require.ErrorAs(t, err, &cancelled)

	doc, err := ws.Schema(parser.WithSourceLocation(false))
	require.NoError(t, err)
	require.Nil(t, doc.Definitions[0].Header().Location)
}

func TestSchemaEmpty(t *testing.T) {
	_, err := New(t.TempDir()).Schema()
	require.True(t, errors.Is(err, ErrEmpty))
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.graphql", true},
		{"a.GRAPHQL", true},
		{"a.graphqls", true},
		{"a.gql", true},
		{"a.json", false},
		{"graphql", false},
	}
	for _, tt := range tests {
		if got := HasExtension(tt.path); got != tt.want {
			t.Errorf("HasExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
