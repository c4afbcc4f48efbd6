package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Graph request outcomes, used as the "outcome" label value.
const (
	GraphOutcomeAI          = "ai"
	GraphOutcomeFallback    = "fallback"
	GraphOutcomePlaceholder = "placeholder"
)

// Metrics contains all Prometheus metrics for the dashboard service.
// Metrics are organized by subsystem: knowledge graphs, prompts, catalog,
// auth, and upstream calls. All counters and histograms are registered via
// promauto for automatic registration with the default Prometheus registry.
type Metrics struct {
	// GraphRequests counts knowledge-graph requests by outcome: "ai" when
	// the model's payload parsed and validated, "fallback" when the fixed
	// graph was substituted, "placeholder" for empty-topic requests that
	// never reach the proxy.
	GraphRequests *prometheus.CounterVec

	// GraphParseFailures counts AI payloads rejected before rendering,
	// labeled by failure kind ("malformed", "invalid").
	GraphParseFailures *prometheus.CounterVec

	// PromptRequests counts AI-proxy prompts by view (graph, summary, ask,
	// insights).
	PromptRequests *prometheus.CounterVec

	// PromptFailures counts failed AI-proxy prompts by view and error type.
	PromptFailures *prometheus.CounterVec

	// PromptDuration observes AI-proxy prompt round-trip time in seconds
	// by view.
	PromptDuration *prometheus.HistogramVec

	// StaleResultsDropped counts responses discarded because a newer
	// request generation superseded them, labeled by view.
	StaleResultsDropped *prometheus.CounterVec

	// CatalogQueries counts catalog listings, labeled by whether a search
	// query was present.
	CatalogQueries *prometheus.CounterVec

	// CatalogMatches observes the number of articles returned per listing.
	CatalogMatches prometheus.Histogram

	// AuthOperations counts auth flow operations by operation and result.
	AuthOperations *prometheus.CounterVec

	// UpstreamRequests counts calls to external services by service name.
	UpstreamRequests *prometheus.CounterVec

	// UpstreamFailures counts failed calls to external services by service
	// name and error type.
	UpstreamFailures *prometheus.CounterVec

	// UpstreamDuration observes external call duration in seconds by
	// service name.
	UpstreamDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		GraphRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_requests_total",
			Help:      "Total number of knowledge-graph requests by outcome",
		}, []string{"outcome"}),
		GraphParseFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_parse_failures_total",
			Help:      "Total number of AI graph payloads rejected before rendering",
		}, []string{"kind"}),

		PromptRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompt_requests_total",
			Help:      "Total number of AI-proxy prompts by view",
		}, []string{"view"}),
		PromptFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompt_failures_total",
			Help:      "Total number of failed AI-proxy prompts by view",
		}, []string{"view", "error_type"}),
		PromptDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prompt_duration_seconds",
			Help:      "Duration of AI-proxy prompts in seconds by view",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"view"}),
		StaleResultsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_dropped_total",
			Help:      "Total number of responses discarded for superseded request generations",
		}, []string{"view"}),

		CatalogQueries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_queries_total",
			Help:      "Total number of catalog listings by query presence",
		}, []string{"filtered"}),
		CatalogMatches: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_matches",
			Help:      "Number of unique articles returned per catalog listing",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),

		AuthOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_operations_total",
			Help:      "Total number of auth operations by operation and result",
		}, []string{"operation", "result"}),

		UpstreamRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of requests to external services",
		}, []string{"service"}),
		UpstreamFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Total number of failed requests to external services",
		}, []string{"service", "error_type"}),
		UpstreamDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of requests to external services in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"service"}),
	}
}

// RecordGraphRequest records a knowledge-graph request outcome.
func (m *Metrics) RecordGraphRequest(outcome string) {
	m.GraphRequests.WithLabelValues(outcome).Inc()
}

// RecordGraphParseFailure records a rejected AI graph payload.
func (m *Metrics) RecordGraphParseFailure(kind string) {
	m.GraphParseFailures.WithLabelValues(kind).Inc()
}

// RecordPrompt records a completed AI-proxy prompt.
func (m *Metrics) RecordPrompt(view string, durationSeconds float64) {
	m.PromptRequests.WithLabelValues(view).Inc()
	m.PromptDuration.WithLabelValues(view).Observe(durationSeconds)
}

// RecordPromptFailed records a failed AI-proxy prompt.
func (m *Metrics) RecordPromptFailed(view, errorType string) {
	m.PromptFailures.WithLabelValues(view, errorType).Inc()
}

// RecordStaleResultDropped records a response discarded because a newer
// request superseded it.
func (m *Metrics) RecordStaleResultDropped(view string) {
	m.StaleResultsDropped.WithLabelValues(view).Inc()
}

// RecordCatalogQuery records a catalog listing.
func (m *Metrics) RecordCatalogQuery(filtered bool, matched int) {
	label := "false"
	if filtered {
		label = "true"
	}
	m.CatalogQueries.WithLabelValues(label).Inc()
	m.CatalogMatches.Observe(float64(matched))
}

// RecordAuthOperation records an auth flow operation.
func (m *Metrics) RecordAuthOperation(operation string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	m.AuthOperations.WithLabelValues(operation, result).Inc()
}

// RecordUpstreamRequest records a completed call to an external service.
func (m *Metrics) RecordUpstreamRequest(service string, durationSeconds float64) {
	m.UpstreamRequests.WithLabelValues(service).Inc()
	m.UpstreamDuration.WithLabelValues(service).Observe(durationSeconds)
}

// RecordUpstreamFailure records a failed call to an external service.
func (m *Metrics) RecordUpstreamFailure(service, errorType string) {
	m.UpstreamFailures.WithLabelValues(service, errorType).Inc()
}
