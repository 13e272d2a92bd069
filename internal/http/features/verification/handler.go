package verification

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smartrecipe/auth-service/internal/auth"
	"github.com/smartrecipe/auth-service/internal/domain"
	"github.com/smartrecipe/auth-service/internal/httputil"
)

// Handler handles generic verification code endpoints.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new verification handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// SendCodeRequest requests a purpose-typed verification code.
type SendCodeRequest struct {
	Identifier string `json:"identifier"`
	Purpose    string `json:"purpose"`
	Region     string `json:"region,omitempty"`
}

// MessageResponse is a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// SendCode handles verification code issuance.
// POST /v1/auth/send-verification-code
func (h *Handler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Identifier == "" || req.Purpose == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "identifier and purpose are required")
		return
	}

	err := h.service.SendCode(r.Context(), req.Identifier, domain.CodePurpose(req.Purpose), domain.Region(req.Region))
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, MessageResponse{Message: "verification code sent"})
}

// VerifyCodeRequest submits a code for verification.
type VerifyCodeRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
	Purpose    string `json:"purpose"`
	Region     string `json:"region,omitempty"`
}

// VerifyCodeResponse reports the verification outcome. ResetToken is set
// only for the reset_password purpose.
type VerifyCodeResponse struct {
	Verified   bool   `json:"verified"`
	ResetToken string `json:"reset_token,omitempty"`
}

// VerifyCode handles code verification.
// POST /v1/auth/verify-code
func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Identifier == "" || req.Code == "" || req.Purpose == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "identifier, code and purpose are required")
		return
	}

	result, err := h.service.VerifyCode(r.Context(), req.Identifier, req.Code, domain.CodePurpose(req.Purpose), domain.Region(req.Region))
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, VerifyCodeResponse{
		Verified:   result.Verified,
		ResetToken: result.ResetToken,
	})
}
