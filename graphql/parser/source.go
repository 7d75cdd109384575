package parser

import (
	"fmt"
	"io"
	"strings"
)

// Fragment is one named piece of source text. Name may be empty for
// anonymous input.
type Fragment struct {
	Name string
	Text string
}

type fragmentSpan struct {
	name      string
	startLine int
	lines     []string
}

// MultiSourceReader concatenates fragments into one character stream and
// maps absolute lines of that stream back to fragment-local lines.
type MultiSourceReader struct {
	fragments  []Fragment
	spans      []fragmentSpan
	text       string
	totalLines int
	r          *strings.Reader
}

// NewMultiSourceReader combines fragments in the given order. A non-empty
// fragment that is followed by another one and does not end with a line
// terminator gets a synthetic "\n", so fragments always start on a fresh line.
// A fragment ending in a bare "\r" gets one too when the next text starts
// with "\n", so no "\r\n" pair spans two fragments.
func NewMultiSourceReader(fragments ...Fragment) *MultiSourceReader {
	m := &MultiSourceReader{fragments: append([]Fragment(nil), fragments...)}
	var b strings.Builder
	line := 1
	for i, f := range fragments {
		text := f.Text
		if text != "" {
			if next, ok := nextText(fragments[i+1:]); ok {
				if !endsWithLineTerminator(text) ||
					(strings.HasSuffix(text, "\r") && strings.HasPrefix(next, "\n")) {
					text += "\n"
				}
			}
		}
		lines := splitLines(text)
		m.spans = append(m.spans, fragmentSpan{name: f.Name, startLine: line, lines: lines})
		line += len(lines)
		b.WriteString(text)
	}
	m.text = b.String()
	m.totalLines = line - 1
	m.r = strings.NewReader(m.text)
	return m
}

// FromString wraps a single string as a one-fragment reader.
func FromString(text, name string) *MultiSourceReader {
	return NewMultiSourceReader(Fragment{Name: name, Text: text})
}

// FromReader drains r into a one-fragment reader.
func FromReader(r io.Reader, name string) (*MultiSourceReader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return FromString(string(data), name), nil
}

func (m *MultiSourceReader) Read(p []byte) (int, error) {
	return m.r.Read(p)
}

// Text returns the combined text of all fragments.
func (m *MultiSourceReader) Text() string {
	return m.text
}

func (m *MultiSourceReader) Fragments() []Fragment {
	return append([]Fragment(nil), m.fragments...)
}

// Locate maps an absolute 1-based line of the combined text to the fragment
// containing it and the line within that fragment. The line just past the
// end of the input belongs to the last fragment. Any other line outside the
// input is a programming error and panics.
func (m *MultiSourceReader) Locate(absLine int) (name string, localLine int) {
	span, local := m.spanAt(absLine)
	if span == nil {
		return "", local
	}
	return span.name, local
}

// Preview renders up to contextLines lines on each side of absLine, taken
// from the fragment that contains it. Each line is prefixed with its local
// line number.
func (m *MultiSourceReader) Preview(absLine, contextLines int) string {
	span, local := m.spanAt(absLine)
	if span == nil || len(span.lines) == 0 {
		return ""
	}
	from := max(1, local-contextLines)
	to := min(len(span.lines), local+contextLines)
	width := len(fmt.Sprint(to))

	var b strings.Builder
	if span.name != "" {
		fmt.Fprintf(&b, "%s:\n", span.name)
	}
	for n := from; n <= to; n++ {
		fmt.Fprintf(&b, "%*d | %s\n", width, n, span.lines[n-1])
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m *MultiSourceReader) spanAt(absLine int) (*fragmentSpan, int) {
	if absLine < 1 || absLine > m.totalLines+1 {
		panic(fmt.Sprintf("parser: line %d is outside of the source (%d lines)", absLine, m.totalLines))
	}
	for i := range m.spans {
		s := &m.spans[i]
		if absLine < s.startLine+len(s.lines) {
			return s, absLine - s.startLine + 1
		}
	}
	if len(m.spans) == 0 {
		return nil, absLine
	}
	last := &m.spans[len(m.spans)-1]
	return last, absLine - last.startLine + 1
}

// nextText returns the text of the first non-empty fragment. ok reports
// whether any fragment follows at all.
func nextText(rest []Fragment) (text string, ok bool) {
	for _, f := range rest {
		if f.Text != "" {
			return f.Text, true
		}
	}
	return "", len(rest) > 0
}

func endsWithLineTerminator(s string) bool {
	return strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\r")
}

// splitLines splits on \n, \r\n and \r. A trailing terminator does not start
// a new line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
