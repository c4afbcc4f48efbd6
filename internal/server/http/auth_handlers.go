package httpserver

import (
	"net/http"
	"strings"

	"github.com/sbk-labs/dashboard-service/internal/upstream/authapi"
)

// Auth request and response types. The backend's outcome message is passed
// through so the client can show it verbatim.

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type otpRequest struct {
	OTP string `json:"otp" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password"`
}

type authResponse struct {
	Message    string `json:"message"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// register handles POST /auth/register.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !checkRequest(w, req) {
		return
	}

	res, err := s.auth.Register(r.Context(), authapi.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Message: res.Message})
}

// login handles POST /auth/login. On success the response carries the path
// the client should land on: a staged redirect when an article selection
// preceded the login, the default post-login path otherwise.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !checkRequest(w, req) {
		return
	}

	res, err := s.auth.Login(r.Context(), authapi.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Message:    res.Message,
		RedirectTo: res.RedirectTo,
	})
}

// logout handles POST /auth/logout. Local session state is cleared even
// when the backend call fails, so logout cannot strand a client in a
// half-authenticated state.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	res, err := s.auth.Logout(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Message: res.Message})
}

// verifyEmail handles POST /auth/verify-email.
func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.OTP = strings.TrimSpace(req.OTP)
	if !checkRequest(w, req) {
		return
	}

	res, err := s.auth.VerifyEmail(r.Context(), req.OTP)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Message: res.Message})
}

// forgotPassword handles POST /auth/forgot-password.
func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !checkRequest(w, req) {
		return
	}

	res, err := s.auth.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Message: res.Message})
}

// verifyResetOTP handles POST /auth/verify-otp.
func (s *Server) verifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.OTP = strings.TrimSpace(req.OTP)
	if !checkRequest(w, req) {
		return
	}

	res, err := s.auth.VerifyResetOTP(r.Context(), req.OTP)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Message: res.Message})
}

// resetPassword handles POST /auth/reset-password.
func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !checkRequest(w, req) {
		return
	}

	res, err := s.auth.ResetPassword(r.Context(), req.NewPassword, req.ConfirmPassword)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Message: res.Message})
}

// currentSession handles GET /auth/session.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Session())
}
