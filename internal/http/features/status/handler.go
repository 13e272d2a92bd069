package status

import (
	"log/slog"
	"net/http"

	"github.com/smartrecipe/auth-service/internal/auth"
	"github.com/smartrecipe/auth-service/internal/http/middleware"
	"github.com/smartrecipe/auth-service/internal/httputil"
)

// Handler handles account and verification status queries.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new status handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// VerificationStatus returns the contact-verification summary.
// GET /v1/auth/verification-status
func (h *Handler) VerificationStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing_authorization", "authentication required")
		return
	}

	status, err := h.service.GetVerificationStatus(r.Context(), userID)
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, status)
}

// AccountStatus returns the lock and last-login summary.
// GET /v1/auth/account-status
func (h *Handler) AccountStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing_authorization", "authentication required")
		return
	}

	status, err := h.service.GetAccountStatus(r.Context(), userID)
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, status)
}
