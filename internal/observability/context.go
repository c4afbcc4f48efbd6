package observability

import (
	"context"
)

// Context keys for observability data.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	topicKey     contextKey = "topic"
	viewKey      contextKey = "view"
	traceIDKey   contextKey = "trace_id"
	spanIDKey    contextKey = "span_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if not present.
func RequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// WithTopicView adds the topic slug and dashboard view to the context.
func WithTopicView(ctx context.Context, topic, view string) context.Context {
	ctx = context.WithValue(ctx, topicKey, topic)
	ctx = context.WithValue(ctx, viewKey, view)
	return ctx
}

// TopicViewFromContext retrieves the topic slug and dashboard view from
// context. Returns empty strings if not present.
func TopicViewFromContext(ctx context.Context) (topic, view string) {
	if v := ctx.Value(topicKey); v != nil {
		if s, ok := v.(string); ok {
			topic = s
		}
	}
	if v := ctx.Value(viewKey); v != nil {
		if s, ok := v.(string); ok {
			view = s
		}
	}
	return topic, view
}

// WithTraceSpan adds trace and span IDs to the context.
func WithTraceSpan(ctx context.Context, traceID, spanID string) context.Context {
	ctx = context.WithValue(ctx, traceIDKey, traceID)
	ctx = context.WithValue(ctx, spanIDKey, spanID)
	return ctx
}

// TraceSpanFromContext retrieves trace and span IDs from context.
// Returns empty strings if not present.
func TraceSpanFromContext(ctx context.Context) (traceID, spanID string) {
	if v := ctx.Value(traceIDKey); v != nil {
		if id, ok := v.(string); ok {
			traceID = id
		}
	}
	if v := ctx.Value(spanIDKey); v != nil {
		if id, ok := v.(string); ok {
			spanID = id
		}
	}
	return traceID, spanID
}

// RequestContext contains all the context data for a dashboard request.
type RequestContext struct {
	RequestID string
	Topic     string
	View      string
	TraceID   string
	SpanID    string
}

// WithRequestContext adds all dashboard request context to the context.
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	if rc.RequestID != "" {
		ctx = WithRequestID(ctx, rc.RequestID)
	}
	if rc.Topic != "" || rc.View != "" {
		ctx = WithTopicView(ctx, rc.Topic, rc.View)
	}
	if rc.TraceID != "" || rc.SpanID != "" {
		ctx = WithTraceSpan(ctx, rc.TraceID, rc.SpanID)
	}
	return ctx
}

// RequestContextFromContext extracts all dashboard request context from
// the context.
func RequestContextFromContext(ctx context.Context) RequestContext {
	topic, view := TopicViewFromContext(ctx)
	traceID, spanID := TraceSpanFromContext(ctx)

	return RequestContext{
		RequestID: RequestIDFromContext(ctx),
		Topic:     topic,
		View:      view,
		TraceID:   traceID,
		SpanID:    spanID,
	}
}
