// Package auth orchestrates the login, registration, and password-reset
// flows across the auth backend client, the token store, and the session
// store.
package auth

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/sbk-labs/dashboard-service/internal/domain"
	"github.com/sbk-labs/dashboard-service/internal/session"
	"github.com/sbk-labs/dashboard-service/internal/upstream/authapi"
)

// defaultPostLoginPath is where a login lands when no redirect target was
// staged.
const defaultPostLoginPath = "/"

// Backend is the subset of the auth API client the service needs.
type Backend interface {
	Register(ctx context.Context, req authapi.RegisterRequest) (authapi.Envelope, error)
	Login(ctx context.Context, req authapi.LoginRequest) (authapi.Envelope, authapi.TokenPair, error)
	UserDetails(ctx context.Context, accessToken string) (authapi.Envelope, domain.User, error)
	Logout(ctx context.Context, accessToken string) (authapi.Envelope, error)
	ForgotPassword(ctx context.Context, req authapi.ForgotPasswordRequest) (authapi.Envelope, error)
	VerifyEmail(ctx context.Context, req authapi.VerifyEmailRequest) (authapi.Envelope, error)
	VerifyForgotPasswordOTP(ctx context.Context, req authapi.VerifyForgotPasswordOTPRequest) (authapi.Envelope, error)
	ResetPassword(ctx context.Context, req authapi.ResetPasswordRequest) (authapi.Envelope, error)
}

var _ Backend = (*authapi.Client)(nil)

// Service ties the auth backend to local session state.
type Service struct {
	backend  Backend
	tokens   session.TokenStore
	sessions *session.Store
	staging  *session.Staging
	logger   zerolog.Logger
}

// NewService creates an auth service.
func NewService(backend Backend, tokens session.TokenStore, sessions *session.Store, staging *session.Staging, logger zerolog.Logger) *Service {
	return &Service{
		backend:  backend,
		tokens:   tokens,
		sessions: sessions,
		staging:  staging,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Result is the outcome of an auth operation: the backend's message plus,
// for login, the path the caller should land on.
type Result struct {
	Message    string
	RedirectTo string
}

// Register creates an account and records the address as pending
// verification so the OTP step can resume after a restart.
func (s *Service) Register(ctx context.Context, req authapi.RegisterRequest) (Result, error) {
	env, err := s.backend.Register(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if !env.Succeeded() {
		return Result{}, domain.NewValidationError("register", env.Message)
	}

	if err := s.tokens.SetPendingEmail(req.Email); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist pending verification email")
	}
	return Result{Message: env.Message}, nil
}

// Login authenticates, persists the issued tokens, loads the user record
// into the session store, and resolves the post-login redirect target. A
// staged target is consumed exactly once; absent one, the default path is
// returned.
func (s *Service) Login(ctx context.Context, req authapi.LoginRequest) (Result, error) {
	env, tokens, err := s.backend.Login(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if !env.Succeeded() {
		return Result{}, domain.NewValidationError("login", env.Message)
	}

	if err := s.tokens.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		return Result{}, err
	}

	user, err := s.loadUser(ctx, tokens.AccessToken)
	if err != nil {
		// Token is valid even when the details call fails; log in with an
		// empty record rather than bouncing the user.
		s.logger.Warn().Err(err).Msg("user details unavailable after login")
		user = domain.User{Email: req.Email}
	}
	s.sessions.Login(user)

	redirect := defaultPostLoginPath
	if staged, ok := s.staging.ConsumeRedirect(); ok {
		redirect = staged
	}

	s.logger.Info().Str("email", req.Email).Str("redirect", redirect).Msg("user logged in")
	return Result{Message: env.Message, RedirectTo: redirect}, nil
}

func (s *Service) loadUser(ctx context.Context, accessToken string) (domain.User, error) {
	env, user, err := s.backend.UserDetails(ctx, accessToken)
	if err != nil {
		return domain.User{}, err
	}
	if !env.Succeeded() {
		return domain.User{}, domain.NewValidationError("user-details", env.Message)
	}
	return user, nil
}

// Restore rebuilds the session from persisted tokens, for process startup.
// Missing or rejected tokens leave the session logged out without error.
func (s *Service) Restore(ctx context.Context) error {
	tokens, err := s.tokens.Load()
	if err != nil {
		return err
	}
	if tokens.AccessToken == "" {
		return nil
	}

	user, err := s.loadUser(ctx, tokens.AccessToken)
	if err != nil {
		s.logger.Info().Err(err).Msg("persisted token rejected, clearing")
		if clearErr := s.tokens.ClearTokens(); clearErr != nil {
			return clearErr
		}
		return nil
	}

	s.sessions.Login(user)
	return nil
}

// Logout invalidates the session with the backend and clears local state.
// Local state is cleared even when the backend call fails: a user asking
// to log out must always end up logged out.
func (s *Service) Logout(ctx context.Context) (Result, error) {
	tokens, err := s.tokens.Load()
	if err != nil {
		return Result{}, err
	}

	var message string
	if tokens.AccessToken != "" {
		env, err := s.backend.Logout(ctx, tokens.AccessToken)
		if err != nil {
			s.logger.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
		} else {
			message = env.Message
		}
	}

	if err := s.tokens.ClearTokens(); err != nil {
		return Result{}, err
	}
	s.sessions.Logout()

	return Result{Message: message}, nil
}

// VerifyEmail confirms the registration OTP and clears the pending
// verification address on success.
func (s *Service) VerifyEmail(ctx context.Context, otp string) (Result, error) {
	email, err := s.pendingEmail()
	if err != nil {
		return Result{}, err
	}

	env, err := s.backend.VerifyEmail(ctx, authapi.VerifyEmailRequest{Email: email, OTP: otp})
	if err != nil {
		return Result{}, err
	}
	if !env.Succeeded() {
		return Result{}, domain.NewValidationError("otp", env.Message)
	}

	if err := s.tokens.ClearPendingEmail(); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear pending verification email")
	}
	return Result{Message: env.Message}, nil
}

// ForgotPassword starts the reset flow and stages the address for the OTP
// and reset steps.
func (s *Service) ForgotPassword(ctx context.Context, email string) (Result, error) {
	env, err := s.backend.ForgotPassword(ctx, authapi.ForgotPasswordRequest{Email: email})
	if err != nil {
		return Result{}, err
	}
	if !env.Succeeded() {
		return Result{}, domain.NewValidationError("email", env.Message)
	}

	if err := s.tokens.SetPendingEmail(email); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist pending reset email")
	}
	return Result{Message: env.Message}, nil
}

// VerifyResetOTP confirms the password-reset OTP.
func (s *Service) VerifyResetOTP(ctx context.Context, otp string) (Result, error) {
	email, err := s.pendingEmail()
	if err != nil {
		return Result{}, err
	}

	env, err := s.backend.VerifyForgotPasswordOTP(ctx, authapi.VerifyForgotPasswordOTPRequest{Email: email, OTP: otp})
	if err != nil {
		return Result{}, err
	}
	if !env.Succeeded() {
		return Result{}, domain.NewValidationError("otp", env.Message)
	}
	return Result{Message: env.Message}, nil
}

// ResetPassword sets the new password after a confirmed OTP. The two
// password fields must match before anything goes to the backend.
func (s *Service) ResetPassword(ctx context.Context, newPassword, confirmPassword string) (Result, error) {
	if newPassword == "" {
		return Result{}, domain.NewValidationError("newPassword", "password must not be empty")
	}
	if newPassword != confirmPassword {
		return Result{}, domain.NewValidationError("confirmPassword", "passwords do not match")
	}

	email, err := s.pendingEmail()
	if err != nil {
		return Result{}, err
	}

	env, err := s.backend.ResetPassword(ctx, authapi.ResetPasswordRequest{
		Email:           email,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	})
	if err != nil {
		return Result{}, err
	}
	if !env.Succeeded() {
		return Result{}, domain.NewValidationError("reset-password", env.Message)
	}

	if err := s.tokens.ClearPendingEmail(); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear pending reset email")
	}
	return Result{Message: env.Message}, nil
}

func (s *Service) pendingEmail() (string, error) {
	tokens, err := s.tokens.Load()
	if err != nil {
		return "", err
	}
	if tokens.PendingEmail == "" {
		return "", errors.New("no pending verification email: start registration or password reset first")
	}
	return tokens.PendingEmail, nil
}
