package password

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smartrecipe/auth-service/internal/auth"
	"github.com/smartrecipe/auth-service/internal/domain"
	"github.com/smartrecipe/auth-service/internal/http/middleware"
	"github.com/smartrecipe/auth-service/internal/httputil"
)

// Handler handles password recovery and change endpoints.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new password handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MessageResponse is a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ForgotPasswordRequest starts a password recovery.
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier"`
	Region     string `json:"region,omitempty"`
}

// ForgotPassword handles password recovery requests. The response never
// reveals whether the identifier matches an account.
// POST /v1/auth/forgot-password
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Identifier == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "identifier is required")
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Identifier, domain.Region(req.Region)); err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, MessageResponse{
		Message: "If an account exists for that identifier, recovery instructions have been sent",
	})
}

// ResetPasswordRequest redeems a reset token.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword handles password resets.
// POST /v1/auth/reset-password
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "token and new password are required")
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, MessageResponse{Message: "password reset successful"})
}

// ChangePasswordRequest replaces the password of the authenticated user.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles authenticated password changes. All sessions are
// revoked; the client must log in again.
// POST /v1/auth/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing_authorization", "authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "old and new passwords are required")
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, MessageResponse{Message: "password changed, please log in again"})
}
