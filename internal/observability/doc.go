// Package observability provides logging, metrics, and tracing support for
// the bioscience dashboard service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for graph requests, prompts, the catalog, and auth
//   - Context helpers for propagating observability data
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:     "info",
//	    Format:    "json",
//	    Output:    "stdout",
//	    AddSource: true,
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("topic", topic).Msg("graph requested")
//
// Add topic context to logger:
//
//	logger = observability.WithTopicContext(logger, topic, view)
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("biodash")
//
// Record metrics:
//
//	metrics.RecordGraphRequest(observability.GraphOutcomeAI)
//	metrics.RecordPrompt("summary", elapsed.Seconds())
//	metrics.RecordCatalogQuery(true, len(matched))
//
// # Context Helpers
//
// Store and retrieve request context:
//
//	ctx = observability.WithRequestID(ctx, requestID)
//	ctx = observability.WithTopicView(ctx, topic, view)
//
//	reqID := observability.RequestIDFromContext(ctx)
//	topic, view := observability.TopicViewFromContext(ctx)
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - request_id: HTTP request identifier
//   - topic: Topic slug from the dashboard URL
//   - view: Dashboard view (graph, summary, ask, insights, publications)
//   - article_link: Canonical article URL (the dedup key)
//   - service: External service name (aiproxy, authapi)
//   - trace_id: Distributed trace identifier
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
