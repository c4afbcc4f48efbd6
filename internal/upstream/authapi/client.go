// Package authapi provides the client for the user authentication backend:
// registration, login, email verification via OTP, and the
// forgot-password/reset-password flow.
//
// Every endpoint answers with the same envelope: {error, success, message}
// plus an optional data object. The backend reports validation failures
// (wrong OTP, password mismatch) inside a 2xx or 4xx envelope with
// error=true, so callers must check Succeeded rather than the HTTP status
// alone.
package authapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sbk-labs/dashboard-service/internal/domain"
	"github.com/sbk-labs/dashboard-service/internal/upstream"
)

// fallbackErrorMessage mirrors the AI proxy client: surfaced when the
// backend envelope carries no message and the transport error is empty.
const fallbackErrorMessage = "Network error occurred"

// Envelope is the backend's uniform response shape.
type Envelope struct {
	Error   bool   `json:"error"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Succeeded reports whether the backend accepted the operation.
func (e Envelope) Succeeded() bool {
	return e.Success && !e.Error
}

// TokenPair is the credential set issued on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// loginResponse is the login endpoint's full body.
type loginResponse struct {
	Envelope
	Data TokenPair `json:"data"`
}

// userDetailsResponse is the user-details endpoint's full body.
type userDetailsResponse struct {
	Envelope
	Data domain.User `json:"data"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest carries the OTP sent to a newly registered address.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ForgotPasswordRequest starts the password-reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyForgotPasswordOTPRequest confirms the reset OTP.
type VerifyForgotPasswordOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetPasswordRequest sets the new password after OTP confirmation.
type ResetPasswordRequest struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Config holds the parameters for the auth backend client.
type Config struct {
	// BaseURL is the backend's base URL, without the /api/user prefix.
	BaseURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// RateLimit and BurstSize throttle outbound requests.
	RateLimit float64
	BurstSize int
}

// Client talks to the auth backend over HTTP. It is stateless: bearer
// tokens are passed per call, never stored, so one client serves every
// session.
type Client struct {
	http    *upstream.Client
	baseURL string
}

// NewClient creates an auth backend client.
func NewClient(cfg Config) *Client {
	return &Client{
		http: upstream.NewClient(upstream.ClientConfig{
			Timeout:    cfg.Timeout,
			RateLimit:  cfg.RateLimit,
			BurstSize:  cfg.BurstSize,
			MaxRetries: 0,
		}),
		baseURL: cfg.BaseURL,
	}
}

// Register creates a new account. On success the backend emails an OTP to
// the address for verification.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (Envelope, error) {
	var out Envelope
	err := c.post(ctx, "/api/user/register", "", req, &out)
	return out, err
}

// Login exchanges credentials for a token pair. A backend rejection
// (error=true in the envelope) is returned as the envelope with a nil
// error; only transport and decoding failures produce a non-nil error.
func (c *Client) Login(ctx context.Context, req LoginRequest) (Envelope, TokenPair, error) {
	var out loginResponse
	if err := c.post(ctx, "/api/user/login", "", req, &out); err != nil {
		return Envelope{}, TokenPair{}, err
	}
	return out.Envelope, out.Data, nil
}

// UserDetails fetches the authenticated user's record.
func (c *Client) UserDetails(ctx context.Context, accessToken string) (Envelope, domain.User, error) {
	var out userDetailsResponse
	if err := c.get(ctx, "/api/user/user-details", accessToken, &out); err != nil {
		return Envelope{}, domain.User{}, err
	}
	return out.Envelope, out.Data, nil
}

// Logout invalidates the session server-side. The backend takes the token
// in the query string as well as the bearer header.
func (c *Client) Logout(ctx context.Context, accessToken string) (Envelope, error) {
	path := "/api/user/logout?token=" + url.QueryEscape(accessToken)
	var out Envelope
	err := c.get(ctx, path, accessToken, &out)
	return out, err
}

// ForgotPassword asks the backend to email a reset OTP.
func (c *Client) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (Envelope, error) {
	var out Envelope
	err := c.post(ctx, "/api/user/forgot-password", "", req, &out)
	return out, err
}

// VerifyEmail confirms the registration OTP.
func (c *Client) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (Envelope, error) {
	var out Envelope
	err := c.post(ctx, "/api/user/verifyEmail", "", req, &out)
	return out, err
}

// VerifyForgotPasswordOTP confirms the password-reset OTP.
func (c *Client) VerifyForgotPasswordOTP(ctx context.Context, req VerifyForgotPasswordOTPRequest) (Envelope, error) {
	var out Envelope
	err := c.post(ctx, "/api/user/verify-forgot-password-otp", "", req, &out)
	return out, err
}

// ResetPassword sets the new password after a confirmed OTP.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (Envelope, error) {
	var out Envelope
	err := c.post(ctx, "/api/user/reset-password", "", req, &out)
	return out, err
}

// post sends a JSON body and decodes the response envelope. Non-2xx
// statuses are not errors here: the backend encodes outcomes in the
// envelope, which callers inspect via Succeeded.
func (c *Client) post(ctx context.Context, path, accessToken string, payload, out any) error {
	req, err := upstream.NewJSONRequest(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("authapi: %w", err)
	}
	return c.send(req, accessToken, out)
}

// get issues a bearer-authenticated GET and decodes the response envelope.
func (c *Client) get(ctx context.Context, path, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("authapi: failed to create request: %w", err)
	}
	return c.send(req, accessToken, out)
}

func (c *Client) send(req *http.Request, accessToken string, out any) error {
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return req.Context().Err()
		}
		msg := err.Error()
		if msg == "" {
			msg = fallbackErrorMessage
		}
		return domain.NewExternalAPIError("authapi", 0, msg,
			fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err))
	}

	if err := upstream.DecodeJSON(resp, out); err != nil {
		return fmt.Errorf("authapi: %w: %w", domain.ErrMalformedPayload, err)
	}
	return nil
}
