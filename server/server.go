// Package server parses GraphQL documents over HTTP.
//
// POST /parse answers with the JSON syntax tree of one document. POST /batch
// parses many documents concurrently and streams one multipart/mixed part per
// document, in request order, as soon as each result is ready. GET /metrics
// exposes prometheus metrics about both.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/gqlfront/format"
	"github.com/dhamidi/gqlfront/graphql/ast"
	"github.com/dhamidi/gqlfront/graphql/parser"
	"github.com/dhamidi/gqlfront/reactive"
)

var log = commonlog.GetLogger("gqlfront.server")

const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 4 << 20
)

type Config struct {
	Addr string
	// Workers bounds the number of documents parsed at the same time across
	// all requests.
	Workers int
	// Window is how many documents of one batch may be parsed ahead of the
	// part currently being written. Zero means Workers.
	Window       int
	MaxBodyBytes int64
	Options      []parser.Option
	// Registry receives the server metrics. A fresh registry is used when
	// nil.
	Registry *prometheus.Registry
}

func DefaultConfig() Config {
	return Config{
		Addr:         DefaultAddr,
		Workers:      4,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

type Server struct {
	cfg     Config
	mux     *http.ServeMux
	exec    *reactive.PoolExecutor
	metrics *metrics
}

func New(cfg Config) *Server {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	if cfg.Window <= 0 {
		cfg.Window = cfg.Workers
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		exec:    reactive.NewPoolExecutor(cfg.Workers),
		metrics: newMetrics(cfg.Registry),
	}

	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("POST /batch", s.handleBatch)
	s.mux.Handle("GET /metrics", s.metrics.handler(cfg.Registry))

	return s
}

func (s *Server) Addr() string {
	return s.cfg.Addr
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close waits for running parses and stops the worker pool. Requests served
// afterwards parse on goroutines of their own.
func (s *Server) Close() {
	s.exec.Wait()
}

type parseRequest struct {
	Query      string `json:"query"`
	SourceName string `json:"sourceName,omitempty"`
}

type batchRequest struct {
	Queries []string `json:"queries"`
}

// ErrorJSON is a syntax error in the shape GraphQL responses use.
type ErrorJSON struct {
	Message    string            `json:"message"`
	Locations  []LocationJSON    `json:"locations,omitempty"`
	Extensions map[string]string `json:"extensions,omitempty"`
}

type LocationJSON struct {
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	SourceName string `json:"sourceName,omitempty"`
}

type errorsBody struct {
	Errors []ErrorJSON `json:"errors"`
}

// result is the outcome of parsing one document: either its tree or the
// error that stopped the parse.
type result struct {
	index int
	node  *format.ASTJSONNode
	err   error
}

func (r result) body() any {
	if r.err != nil {
		return errorsBody{Errors: []ErrorJSON{errorJSON(r.err)}}
	}
	return r.node
}

func (r result) status() int {
	if r.err != nil {
		return http.StatusBadRequest
	}
	return http.StatusOK
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := s.decode(w, r, &req); err != nil {
		s.metrics.requests.WithLabelValues("parse", "invalid").Inc()
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	res := s.parse(0, req.Query, req.SourceName, "parse")
	s.metrics.requests.WithLabelValues("parse", outcome(res.err)).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.status())
	if err := json.NewEncoder(w).Encode(res.body()); err != nil {
		log.Warningf("write parse response: %v", err)
	}
}

// handleBatch parses every query on the worker pool and writes the results
// as they become available, holding back any result whose predecessors are
// still being parsed.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.metrics.requests.WithLabelValues("batch", "invalid").Inc()
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Queries) == 0 {
		s.metrics.requests.WithLabelValues("batch", "invalid").Inc()
		http.Error(w, "invalid request: no queries", http.StatusBadRequest)
		return
	}

	type job struct {
		index int
		query string
	}
	jobs := make([]job, len(req.Queries))
	for i, q := range req.Queries {
		jobs[i] = job{index: i, query: q}
	}

	results := reactive.NewOrderedMappingPublisher(reactive.FromSlice(jobs...), func(j job) *reactive.Future[result] {
		return reactive.Async(s.exec, func() (result, error) {
			return s.parse(j.index, j.query, "query"+strconv.Itoa(j.index), "batch"), nil
		})
	})

	mw := multipart.NewWriter(w)
	w.Header().Set("Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", mw.Boundary()))
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	s.metrics.batchesInFlight.Inc()
	defer s.metrics.batchesInFlight.Dec()

	// Parts are written from pool goroutines; ForEachWindow returns only
	// after the last of them.
	failed := 0
	err := reactive.ForEachWindow(r.Context(), results, int64(s.cfg.Window), func(res result) error {
		if res.err != nil {
			failed++
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", "application/json")
		header.Set("X-Query-Index", strconv.Itoa(res.index))
		header.Set("X-Status", strconv.Itoa(res.status()))
		part, err := mw.CreatePart(header)
		if err != nil {
			return err
		}
		if err := json.NewEncoder(part).Encode(res.body()); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		s.metrics.requests.WithLabelValues("batch", "aborted").Inc()
		log.Infof("batch of %d aborted: %v", len(jobs), err)
		return
	}
	if err := mw.Close(); err != nil {
		log.Warningf("close batch response: %v", err)
	}
	if failed > 0 {
		s.metrics.requests.WithLabelValues("batch", "error").Inc()
	} else {
		s.metrics.requests.WithLabelValues("batch", "ok").Inc()
	}
	log.Debugf("batch of %d written, %d failed", len(jobs), failed)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after JSON body")
	}
	return nil
}

func (s *Server) parse(index int, query, sourceName, endpoint string) result {
	tokens := 0
	opts := append([]parser.Option{}, s.cfg.Options...)
	opts = append(opts, parser.WithParsingListener(func(string, int, int) {
		tokens++
	}))

	start := time.Now()
	doc, err := parser.New(opts...).ParseDocumentString(query, sourceName)
	s.metrics.observe(endpoint, time.Since(start), tokens, err)
	if err != nil {
		return result{index: index, err: err}
	}
	return result{index: index, node: format.NodeToJSON(doc)}
}

func errorJSON(err error) ErrorJSON {
	var (
		syntax    *parser.InvalidSyntaxError
		cancelled *parser.ParseCancelledError
	)
	switch {
	case errors.As(err, &syntax):
		return ErrorJSON{
			Message:    syntax.Message,
			Locations:  locations(syntax.Location),
			Extensions: map[string]string{"classification": "InvalidSyntax"},
		}
	case errors.As(err, &cancelled):
		return ErrorJSON{
			Message:    cancelled.Message,
			Locations:  locations(cancelled.Location),
			Extensions: map[string]string{"classification": "ParseCancelled"},
		}
	}
	return ErrorJSON{Message: err.Error()}
}

func locations(loc *ast.SourceLocation) []LocationJSON {
	if loc == nil {
		return nil
	}
	return []LocationJSON{{Line: loc.Line, Column: loc.Column, SourceName: loc.SourceName}}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
