package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dhamidi/gqlfront/format"
	"github.com/dhamidi/gqlfront/graphql/parser"
)

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	s := New(cfg)
	t.Cleanup(func() {
		s.Close()
		goleak.VerifyNone(t)
	})
	return s
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

type batchPart struct {
	index  int
	status int
	body   []byte
}

func readParts(t *testing.T, rec *httptest.ResponseRecorder) []batchPart {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(rec.Header().Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)

	var parts []batchPart
	mr := multipart.NewReader(rec.Body, params["boundary"])
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return parts
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p)
		require.NoError(t, err)
		index, err := strconv.Atoi(p.Header.Get("X-Query-Index"))
		require.NoError(t, err)
		status, err := strconv.Atoi(p.Header.Get("X-Status"))
		require.NoError(t, err)
		parts = append(parts, batchPart{index: index, status: status, body: body})
	}
}

func TestParse(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := post(t, s, "/parse", `{"query": "query Q { user { name } }", "sourceName": "q.graphql"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc format.ASTJSONNode
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Equal(t, "Document", doc.Kind)
	require.Len(t, doc.Children, 1)
	op := doc.Children[0]
	require.Equal(t, "OperationDefinition", op.Kind)
	require.Equal(t, "Q", op.Name)
	require.Equal(t, &format.ASTJSONLocation{Line: 1, Column: 1, Source: "q.graphql"}, op.Location)
}

func TestParseSyntaxError(t *testing.T) {
	s := newTestServer(t, DefaultConfig())

	rec := post(t, s, "/parse", `{"query": "{ a } junk"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, []ErrorJSON{{
		Message:    "Invalid syntax encountered. There are extra tokens in the text that have not been consumed. Offending token 'junk' at line 1 column 7",
		Locations:  []LocationJSON{{Line: 1, Column: 7}},
		Extensions: map[string]string{"classification": "InvalidSyntax"},
	}}, body.Errors)
}

func TestParseHonoursOptions(t *testing.T) {
	s := newTestServer(t, Config{Options: []parser.Option{parser.WithMaxTokens(3)}})

	rec := post(t, s, "/parse", `{"query": "{ a b c }"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	require.Equal(t, "ParseCancelled", body.Errors[0].Extensions["classification"])
}

func TestInvalidRequests(t *testing.T) {
	s := newTestServer(t, Config{MaxBodyBytes: 64})

	tests := []struct {
		name string
		path string
		body string
	}{
		{"not json", "/parse", `query`},
		{"unknown field", "/parse", `{"q": "{ a }"}`},
		{"trailing data", "/parse", `{"query": "{ a }"} {}`},
		{"too large", "/parse", `{"query": "` + strings.Repeat("a", 100) + `"}`},
		{"empty batch", "/batch", `{"queries": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), "invalid request")
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/parse", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestBatchKeepsRequestOrder(t *testing.T) {
	s := newTestServer(t, Config{Workers: 4})

	rec := post(t, s, "/batch", `{"queries": ["{ a }", "{", "query Q { b }"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	parts := readParts(t, rec)
	require.Len(t, parts, 3)
	for i, p := range parts {
		require.Equal(t, i, p.index)
	}
	require.Equal(t, http.StatusOK, parts[0].status)
	require.Equal(t, http.StatusBadRequest, parts[1].status)
	require.Equal(t, http.StatusOK, parts[2].status)

	var body errorsBody
	require.NoError(t, json.Unmarshal(parts[1].body, &body))
	require.Equal(t, []LocationJSON{{Line: 1, Column: 2, SourceName: "query1"}}, body.Errors[0].Locations)

	var doc format.ASTJSONNode
	require.NoError(t, json.Unmarshal(parts[2].body, &doc))
	require.Equal(t, "Q", doc.Children[0].Name)
}

func TestBatchManyQueries(t *testing.T) {
	s := newTestServer(t, Config{Workers: 3, Window: 5})

	queries := make([]string, 60)
	for i := range queries {
		queries[i] = fmt.Sprintf("query Q%d { f%d }", i, i)
	}
	body, err := json.Marshal(batchRequest{Queries: queries})
	require.NoError(t, err)

	rec := post(t, s, "/batch", string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	parts := readParts(t, rec)
	require.Len(t, parts, len(queries))
	for i, p := range parts {
		require.Equal(t, i, p.index)
		var doc format.ASTJSONNode
		require.NoError(t, json.Unmarshal(p.body, &doc))
		require.Equal(t, fmt.Sprintf("Q%d", i), doc.Children[0].Name)
	}
}

// stallingWriter blocks its first Write until released and counts writes
// that arrive after the handler has returned.
type stallingWriter struct {
	header   http.Header
	entered  chan struct{}
	release  chan struct{}
	once     sync.Once
	returned atomic.Bool
	late     atomic.Int32
}

func newStallingWriter() *stallingWriter {
	return &stallingWriter{
		header:  http.Header{},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (w *stallingWriter) Header() http.Header { return w.header }
func (w *stallingWriter) WriteHeader(int)     {}

func (w *stallingWriter) Write(p []byte) (int, error) {
	w.once.Do(func() {
		close(w.entered)
		<-w.release
	})
	if w.returned.Load() {
		w.late.Add(1)
	}
	return len(p), nil
}

func TestBatchCancelledWhileWriting(t *testing.T) {
	s := newTestServer(t, Config{Workers: 2, Window: 2})

	body, err := json.Marshal(batchRequest{Queries: []string{"{ a }", "{ b }", "{ c }", "{ d }", "{ e }"}})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodPost, "/batch", strings.NewReader(string(body))).WithContext(ctx)

	w := newStallingWriter()
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.ServeHTTP(w, req)
		w.returned.Store(true)
	}()

	<-w.entered
	cancel()
	require.Never(t, w.returned.Load, 50*time.Millisecond, 5*time.Millisecond)
	close(w.release)
	<-done

	// Give stray writers a chance to show up.
	time.Sleep(20 * time.Millisecond)
	require.Zero(t, w.late.Load())
	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("batch", "aborted")))
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	s := newTestServer(t, Config{Registry: registry})

	post(t, s, "/parse", `{"query": "{ a }"}`)
	post(t, s, "/parse", `{"query": "{"}`)
	post(t, s, "/batch", `{"queries": ["{ a }", "{ b }"]}`)

	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("parse", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("parse", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("batch", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.parseErrors.WithLabelValues("parse", "InvalidSyntax")))
	require.Equal(t, 0.0, testutil.ToFloat64(s.metrics.batchesInFlight))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "gqlfront_parse_tokens_bucket")
	require.Contains(t, rec.Body.String(), `gqlfront_requests_total{endpoint="batch",outcome="ok"} 1`)
}
