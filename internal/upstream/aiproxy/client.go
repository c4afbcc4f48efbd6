// Package aiproxy provides the client for the AI proxy service, which
// brokers prompt requests to the underlying language model. The wire
// contract is a single endpoint: POST /ask-gemini with {"query": ...}
// returning {"response": ...}, or {"error": ...} on non-2xx.
package aiproxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sbk-labs/dashboard-service/internal/domain"
	"github.com/sbk-labs/dashboard-service/internal/upstream"
)

const (
	// askPath is the proxy's sole endpoint.
	askPath = "/ask-gemini"

	// fallbackErrorMessage is surfaced when neither the proxy's error
	// payload nor the transport produced a usable message.
	fallbackErrorMessage = "Network error occurred"

	// maxResponseSize bounds the proxy response body read.
	maxResponseSize = 10 << 20

	// DefaultTimeout is the per-request timeout. Prompt completions are
	// slow, so this is generous, but a hung proxy must not pin a dashboard
	// request forever.
	DefaultTimeout = 30 * time.Second
)

// Asker is the interface consumed by the dashboard services. It sends one
// prompt and returns the model's raw text response.
type Asker interface {
	Ask(ctx context.Context, query string) (string, error)
}

// askRequest is the request body for the ask endpoint.
type askRequest struct {
	Query string `json:"query"`
}

// askResponse is the success body from the ask endpoint.
type askResponse struct {
	Response string `json:"response"`
}

// askErrorResponse is the error body the proxy returns on non-2xx.
type askErrorResponse struct {
	Error string `json:"error"`
}

// Config holds the parameters for the AI proxy client.
type Config struct {
	// BaseURL is the proxy's base URL, without the endpoint path.
	BaseURL string

	// Timeout is the per-request timeout. Zero means DefaultTimeout.
	Timeout time.Duration

	// RateLimit and BurstSize throttle outbound prompt requests.
	RateLimit float64
	BurstSize int
}

// Client implements Asker against the AI proxy over HTTP.
//
// Each call is a single attempt: the transport is configured with no
// retries, because every request costs an LLM completion upstream and the
// dashboard degrades to fallback content on failure anyway.
type Client struct {
	http    *upstream.Client
	baseURL string
}

var _ Asker = (*Client)(nil)

// NewClient creates an AI proxy client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		http: upstream.NewClient(upstream.ClientConfig{
			Timeout:    timeout,
			RateLimit:  cfg.RateLimit,
			BurstSize:  cfg.BurstSize,
			MaxRetries: 0,
		}),
		baseURL: cfg.BaseURL,
	}
}

// Ask sends one prompt to the proxy and returns the response text.
//
// Failures come back as an ExternalAPIError whose Message is normalized in
// priority order: the proxy's structured error field, then the transport
// error text, then a fixed fallback string. Callers surface Message
// directly to users, so it is never raw JSON or a Go error chain.
func (c *Client) Ask(ctx context.Context, query string) (string, error) {
	req, err := upstream.NewJSONRequest(ctx, http.MethodPost, c.baseURL+askPath, askRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("aiproxy: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", domain.NewExternalAPIError("aiproxy", 0, normalizeTransportError(err),
			fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	resp.Body.Close()
	if err != nil {
		return "", domain.NewExternalAPIError("aiproxy", 0, normalizeTransportError(err), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.NewExternalAPIError("aiproxy", resp.StatusCode, normalizeErrorBody(body), nil)
	}

	var out askResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("aiproxy: failed to decode response: %w", domain.ErrMalformedPayload)
	}

	return out.Response, nil
}

// normalizeErrorBody extracts the proxy's structured error message when
// present, falling back to the fixed message.
func normalizeErrorBody(body []byte) string {
	var errResp askErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return errResp.Error
	}
	return fallbackErrorMessage
}

// normalizeTransportError produces a user-safe message from a transport
// error.
func normalizeTransportError(err error) string {
	if err == nil || err.Error() == "" {
		return fallbackErrorMessage
	}
	return err.Error()
}
