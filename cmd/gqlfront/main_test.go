package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhamidi/gqlfront/graphql/parser"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(parser.ResetDefaultOptions)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.graphql", "query Q { a }")

	out, err := run(t, "parse", path)
	require.NoError(t, err)
	require.Contains(t, out, `"kind": "OperationDefinition"`)
	require.Contains(t, out, `"name": "Q"`)

	out, err = run(t, "parse", "--format", "graphql", path)
	require.NoError(t, err)
	require.Equal(t, "query Q {\n  a\n}\n", out)

	out, err = run(t, "parse", "-f", "lines", path)
	require.NoError(t, err)
	require.Equal(t, "query\tQ\t-\t"+path+":1:1\n", out)

	value := writeFile(t, dir, "v.txt", `{a: [1, 2]}`)
	out, err = run(t, "parse", "-k", "value", "-f", "graphql", value)
	require.NoError(t, err)
	require.Equal(t, "{a: [1, 2]}\n", out)
}

func TestParseCommandHonoursMaxTokens(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.graphql", "{ a b c d }")

	_, err := run(t, "parse", "--max-tokens", "3", path)
	var cancelled *parser.ParseCancelledError
	require.ErrorAs(t, err, &cancelled)
}

func TestCommentsCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.graphql", "# one\n{ a # two\n}")

	out, err := run(t, "comments", path)
	require.NoError(t, err)
	require.Equal(t, path+":1:1:  one\n"+path+":2:5:  two\n", out)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.graphql", "type A {\n  a: Int\n}")
	b := writeFile(t, dir, "b.graphql", "type B {\n  b: A\n}")
	broken := writeFile(t, dir, "broken.graphql", "type C {\n  c: [Int\n}")

	out, err := run(t, "check", a, b)
	require.NoError(t, err)
	require.Equal(t, "ok: 2 files, 2 definitions\n", out)

	out, err = run(t, "check", a, broken)
	var syntaxErr *parser.InvalidSyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	require.Equal(t, broken, syntaxErr.Location.SourceName)
	require.Equal(t, 3, syntaxErr.Location.Line)
	require.Contains(t, out, broken)
}

func TestFmtCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "s.graphql", "type T{a:Int}")

	out, err := run(t, "fmt", path)
	require.NoError(t, err)
	require.Equal(t, "type T {\n  a: Int\n}\n", out)

	_, err = run(t, "fmt", "-w", path)
	require.NoError(t, err)
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, out, string(written))

	_, err = run(t, "fmt", writeFile(t, dir, "s.txt", "{ a }"))
	require.ErrorContains(t, err, "expected a GraphQL file")
}

func TestStreamCommand(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		files = append(files, writeFile(t, dir, name+".graphql", "{ "+name+" }"))
	}

	out, err := run(t, append([]string{"stream", "-j", "3"}, files...)...)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(files))
	for i, line := range lines {
		require.True(t, strings.HasPrefix(line, files[i]+": ok, 1 definitions"), line)
	}

	broken := writeFile(t, dir, "broken.graphql", "{")
	out, err = run(t, "stream", files[0], broken)
	require.ErrorContains(t, err, "1 of 2 files failed to parse")
	require.Contains(t, out, broken+": Invalid syntax")

	missing := filepath.Join(dir, "missing.graphql")
	out, err = run(t, "stream", missing, files[0], files[1])
	require.ErrorContains(t, err, "1 of 3 files failed to parse")
	// cobra appends the returned error to the same buffer.
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	require.True(t, strings.HasPrefix(lines[0], missing+": read file:"), lines[0])
	require.True(t, strings.HasPrefix(lines[1], files[0]+": ok"), lines[1])
	require.True(t, strings.HasPrefix(lines[2], files[1]+": ok"), lines[2])
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "gqlfront.yaml", "parser:\n  max-tokens: 3\n")
	path := writeFile(t, dir, "q.graphql", "{ a b c d }")

	_, err := run(t, "--config", cfg, "parse", path)
	var cancelled *parser.ParseCancelledError
	require.ErrorAs(t, err, &cancelled)

	_, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "parse", path)
	require.ErrorContains(t, err, "load config")
}
