package session

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smartrecipe/auth-service/internal/auth"
	"github.com/smartrecipe/auth-service/internal/http/middleware"
	"github.com/smartrecipe/auth-service/internal/httputil"
)

// Handler handles token refresh and logout endpoints.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new session handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// RefreshRequest carries the refresh token to exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// MessageResponse is a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// Refresh handles refresh token exchange with rotation.
// POST /v1/auth/refresh-token
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "refresh token is required")
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// LogoutRequest ends the current session or all sessions.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
	AllDevices   bool   `json:"all_devices,omitempty"`
}

// Logout handles session termination for the authenticated user.
// POST /v1/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing_authorization", "authentication required")
		return
	}

	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if err := h.service.Logout(r.Context(), userID, req.RefreshToken, req.AllDevices); err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}

// SessionInfo is the public view of a live session.
type SessionInfo struct {
	ID        string          `json:"id"`
	Device    json.RawMessage `json:"device,omitempty"`
	IPAddress string          `json:"ip_address"`
	CreatedAt string          `json:"created_at"`
	ExpiresAt string          `json:"expires_at"`
}

// List returns the authenticated user's live sessions.
// GET /v1/auth/sessions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing_authorization", "authentication required")
		return
	}

	sessions, err := h.service.Sessions(r.Context(), userID)
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}

	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, SessionInfo{
			ID:        s.ID.String(),
			Device:    s.DeviceInfo,
			IPAddress: s.IPAddress,
			CreatedAt: s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			ExpiresAt: s.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	httputil.JSON(w, http.StatusOK, map[string]interface{}{"sessions": infos})
}
