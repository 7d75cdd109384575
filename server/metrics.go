package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gqlfront"

// metrics tracks the parse service.
//
// Metrics:
//   - gqlfront_requests_total: requests by endpoint and outcome
//   - gqlfront_parse_duration_seconds: time spent parsing one document
//   - gqlfront_parse_tokens: significant tokens consumed per document
//   - gqlfront_parse_errors_total: failed parses by kind
//   - gqlfront_batches_in_flight: batch responses currently streaming
type metrics struct {
	requests        *prometheus.CounterVec
	parseDuration   *prometheus.HistogramVec
	parseTokens     *prometheus.HistogramVec
	parseErrors     *prometheus.CounterVec
	batchesInFlight prometheus.Gauge
}

func newMetrics(registry *prometheus.Registry) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of parse requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),

		parseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parse_duration_seconds",
				Help:      "Duration of a single document parse in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"endpoint"},
		),

		parseTokens: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parse_tokens",
				Help:      "Significant tokens consumed by a single document parse",
				Buckets:   prometheus.ExponentialBuckets(8, 4, 8),
			},
			[]string{"endpoint"},
		),

		parseErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_errors_total",
				Help:      "Total number of failed parses by kind",
			},
			[]string{"endpoint", "kind"},
		),

		batchesInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "batches_in_flight",
				Help:      "Number of batch responses currently being streamed",
			},
		),
	}

	registry.MustRegister(
		m.requests,
		m.parseDuration,
		m.parseTokens,
		m.parseErrors,
		m.batchesInFlight,
	)

	return m
}

func (m *metrics) observe(endpoint string, d time.Duration, tokens int, err error) {
	m.parseDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	m.parseTokens.WithLabelValues(endpoint).Observe(float64(tokens))
	if err != nil {
		m.parseErrors.WithLabelValues(endpoint, errorKind(err)).Inc()
	}
}

func (m *metrics) handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

func errorKind(err error) string {
	if c := errorJSON(err).Extensions["classification"]; c != "" {
		return c
	}
	return "other"
}
