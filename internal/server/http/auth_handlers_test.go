package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbk-labs/dashboard-service/internal/auth"
	"github.com/sbk-labs/dashboard-service/internal/domain"
	"github.com/sbk-labs/dashboard-service/internal/session"
	"github.com/sbk-labs/dashboard-service/internal/upstream/authapi"
)

// mockBackend implements auth.Backend for HTTP handler tests.
type mockBackend struct {
	registerFn func(ctx context.Context, req authapi.RegisterRequest) (authapi.Envelope, error)
	loginFn    func(ctx context.Context, req authapi.LoginRequest) (authapi.Envelope, authapi.TokenPair, error)
	detailsFn  func(ctx context.Context, accessToken string) (authapi.Envelope, domain.User, error)
	logoutFn   func(ctx context.Context, accessToken string) (authapi.Envelope, error)
	forgotFn   func(ctx context.Context, req authapi.ForgotPasswordRequest) (authapi.Envelope, error)
	verifyFn   func(ctx context.Context, req authapi.VerifyEmailRequest) (authapi.Envelope, error)
	otpFn      func(ctx context.Context, req authapi.VerifyForgotPasswordOTPRequest) (authapi.Envelope, error)
	resetFn    func(ctx context.Context, req authapi.ResetPasswordRequest) (authapi.Envelope, error)
}

func (m *mockBackend) Register(ctx context.Context, req authapi.RegisterRequest) (authapi.Envelope, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	return okEnvelope("registered"), nil
}

func (m *mockBackend) Login(ctx context.Context, req authapi.LoginRequest) (authapi.Envelope, authapi.TokenPair, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return okEnvelope("logged in"), authapi.TokenPair{AccessToken: "tok"}, nil
}

func (m *mockBackend) UserDetails(ctx context.Context, accessToken string) (authapi.Envelope, domain.User, error) {
	if m.detailsFn != nil {
		return m.detailsFn(ctx, accessToken)
	}
	return okEnvelope("ok"), domain.User{Name: "Test", Email: "t@example.org"}, nil
}

func (m *mockBackend) Logout(ctx context.Context, accessToken string) (authapi.Envelope, error) {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, accessToken)
	}
	return okEnvelope("logged out"), nil
}

func (m *mockBackend) ForgotPassword(ctx context.Context, req authapi.ForgotPasswordRequest) (authapi.Envelope, error) {
	if m.forgotFn != nil {
		return m.forgotFn(ctx, req)
	}
	return okEnvelope("otp sent"), nil
}

func (m *mockBackend) VerifyEmail(ctx context.Context, req authapi.VerifyEmailRequest) (authapi.Envelope, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, req)
	}
	return okEnvelope("verified"), nil
}

func (m *mockBackend) VerifyForgotPasswordOTP(ctx context.Context, req authapi.VerifyForgotPasswordOTPRequest) (authapi.Envelope, error) {
	if m.otpFn != nil {
		return m.otpFn(ctx, req)
	}
	return okEnvelope("otp verified"), nil
}

func (m *mockBackend) ResetPassword(ctx context.Context, req authapi.ResetPasswordRequest) (authapi.Envelope, error) {
	if m.resetFn != nil {
		return m.resetFn(ctx, req)
	}
	return okEnvelope("password reset"), nil
}

func okEnvelope(msg string) authapi.Envelope {
	return authapi.Envelope{Success: true, Message: msg}
}

func failEnvelope(msg string) authapi.Envelope {
	return authapi.Envelope{Error: true, Message: msg}
}

// newAuthTestServer builds a Server with the auth service wired to the
// given backend over in-memory session state.
func newAuthTestServer(backend auth.Backend) (*Server, *session.Store, *session.Staging) {
	logger := zerolog.Nop()
	sessions := session.NewStore()
	staging := session.NewStaging()
	authSvc := auth.NewService(backend, session.NewMemoryTokenStore(), sessions, staging, logger)

	s := &Server{
		auth:     authSvc,
		sessions: sessions,
		logger:   logger,
	}
	s.router = s.buildRouter()
	return s, sessions, staging
}

func TestRegister(t *testing.T) {
	t.Run("success returns backend message", func(t *testing.T) {
		srv, _, _ := newAuthTestServer(&mockBackend{})

		body := `{"name":"Ada","email":"ada@example.org","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
		rr := serveHTTP(srv, req)
		require.Equal(t, http.StatusCreated, rr.Code)

		var resp authResponse
		decodeJSON(t, rr, &resp)
		assert.Equal(t, "registered", resp.Message)
	})

	t.Run("backend rejection maps to 400 with message", func(t *testing.T) {
		backend := &mockBackend{
			registerFn: func(_ context.Context, _ authapi.RegisterRequest) (authapi.Envelope, error) {
				return failEnvelope("Email already registered"), nil
			},
		}
		srv, _, _ := newAuthTestServer(backend)

		body := `{"name":"Ada","email":"ada@example.org","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
		rr := serveHTTP(srv, req)
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var resp map[string]string
		decodeJSON(t, rr, &resp)
		assert.Contains(t, resp["error"], "Email already registered")
	})

	t.Run("missing email rejected locally", func(t *testing.T) {
		srv, _, _ := newAuthTestServer(&mockBackend{})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"password":"x"}`))
		rr := serveHTTP(srv, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success establishes session and redirects home", func(t *testing.T) {
		srv, sessions, _ := newAuthTestServer(&mockBackend{})

		body := `{"email":"t@example.org","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		rr := serveHTTP(srv, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp authResponse
		decodeJSON(t, rr, &resp)
		assert.Equal(t, "/", resp.RedirectTo)
		assert.True(t, sessions.IsLoggedIn())
		assert.Equal(t, "t@example.org", sessions.User().Email)
	})

	t.Run("staged redirect wins over default landing", func(t *testing.T) {
		srv, _, staging := newAuthTestServer(&mockBackend{})
		staging.StageRedirect("/read/bone-loss-in-microgravity")

		body := `{"email":"t@example.org","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		rr := serveHTTP(srv, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var resp authResponse
		decodeJSON(t, rr, &resp)
		assert.Equal(t, "/read/bone-loss-in-microgravity", resp.RedirectTo)
	})

	t.Run("rejected credentials map to 400", func(t *testing.T) {
		backend := &mockBackend{
			loginFn: func(_ context.Context, _ authapi.LoginRequest) (authapi.Envelope, authapi.TokenPair, error) {
				return failEnvelope("Invalid credentials"), authapi.TokenPair{}, nil
			},
		}
		srv, sessions, _ := newAuthTestServer(backend)

		body := `{"email":"t@example.org","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		rr := serveHTTP(srv, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, sessions.IsLoggedIn())
	})

	t.Run("backend outage maps to 503 with normalized message", func(t *testing.T) {
		backend := &mockBackend{
			loginFn: func(_ context.Context, _ authapi.LoginRequest) (authapi.Envelope, authapi.TokenPair, error) {
				return authapi.Envelope{}, authapi.TokenPair{},
					domain.NewExternalAPIError("authapi", 0, "Network error occurred", domain.ErrServiceUnavailable)
			},
		}
		srv, _, _ := newAuthTestServer(backend)

		body := `{"email":"t@example.org","password":"hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
		rr := serveHTTP(srv, req)
		require.Equal(t, http.StatusServiceUnavailable, rr.Code)

		var resp map[string]string
		decodeJSON(t, rr, &resp)
		assert.Equal(t, "Network error occurred", resp["error"])
	})
}

func TestLogout_ClearsSessionEvenOnBackendFailure(t *testing.T) {
	backend := &mockBackend{
		logoutFn: func(_ context.Context, _ string) (authapi.Envelope, error) {
			return authapi.Envelope{}, domain.NewExternalAPIError("authapi", 0, "Network error occurred", domain.ErrServiceUnavailable)
		},
	}
	srv, sessions, _ := newAuthTestServer(backend)

	// Log in first.
	loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"t@example.org","password":"hunter22"}`))
	require.Equal(t, http.StatusOK, serveHTTP(srv, loginReq).Code)
	require.True(t, sessions.IsLoggedIn())

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, sessions.IsLoggedIn(), "local session cleared despite backend failure")
}

func TestPasswordResetFlow(t *testing.T) {
	var otpEmail string
	backend := &mockBackend{
		otpFn: func(_ context.Context, req authapi.VerifyForgotPasswordOTPRequest) (authapi.Envelope, error) {
			otpEmail = req.Email
			return okEnvelope("otp verified"), nil
		},
	}
	srv, _, _ := newAuthTestServer(backend)

	// Request the reset OTP.
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password",
		strings.NewReader(`{"email":"t@example.org"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	// Confirm the OTP; the pending address recorded by forgot-password rides along.
	rr = serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/auth/verify-otp",
		strings.NewReader(`{"otp":"123456"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "t@example.org", otpEmail)

	// Set the new password.
	rr = serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/auth/reset-password",
		strings.NewReader(`{"new_password":"newpass1","confirm_password":"newpass1"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp authResponse
	decodeJSON(t, rr, &resp)
	assert.Equal(t, "password reset", resp.Message)
}

func TestResetPassword_MismatchRejectedLocally(t *testing.T) {
	srv, _, _ := newAuthTestServer(&mockBackend{})

	// Establish a pending reset first.
	rr := serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password",
		strings.NewReader(`{"email":"t@example.org"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serveHTTP(srv, httptest.NewRequest(http.MethodPost, "/api/v1/auth/reset-password",
		strings.NewReader(`{"new_password":"abc","confirm_password":"xyz"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCurrentSession(t *testing.T) {
	srv, sessions, _ := newAuthTestServer(&mockBackend{})

	rr := serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var before domain.Session
	decodeJSON(t, rr, &before)
	assert.False(t, before.IsLoggedIn)

	sessions.Login(domain.User{Name: "Ada", Email: "ada@example.org"})

	rr = serveHTTP(srv, httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil))
	var after domain.Session
	decodeJSON(t, rr, &after)
	assert.True(t, after.IsLoggedIn)
	require.NotNil(t, after.User)
	assert.Equal(t, "ada@example.org", after.User.Email)
}
