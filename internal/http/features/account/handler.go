package account

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/smartrecipe/auth-service/internal/auth"
	"github.com/smartrecipe/auth-service/internal/domain"
	"github.com/smartrecipe/auth-service/internal/http/middleware"
	"github.com/smartrecipe/auth-service/internal/httputil"
)

// Handler handles registration and login endpoints.
type Handler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewHandler creates a new account handler.
func NewHandler(logger *slog.Logger, service *auth.Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// SendRegisterCodeRequest requests a registration verification code.
type SendRegisterCodeRequest struct {
	Identifier string `json:"identifier"`
	Region     string `json:"region,omitempty"`
}

// MessageResponse is a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Region   string  `json:"region"`
	Verified bool    `json:"verified"`
}

// LoginResponse carries the user and tokens after a successful login.
type LoginResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Phone:    user.Phone,
		Region:   string(user.Region),
		Verified: user.Verified,
	}
}

func toLoginResponse(result *auth.LoginResult) LoginResponse {
	return LoginResponse{
		User: toUserResponse(result.User),
		Tokens: TokenResponse{
			AccessToken:  result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
			TokenType:    result.Tokens.TokenType,
			ExpiresIn:    result.Tokens.ExpiresIn,
		},
	}
}

// SendRegisterCode handles registration code requests.
// POST /v1/auth/send-register-code
func (h *Handler) SendRegisterCode(w http.ResponseWriter, r *http.Request) {
	var req SendRegisterCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Identifier == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "identifier is required")
		return
	}

	if err := h.service.SendRegisterCode(r.Context(), req.Identifier, domain.Region(req.Region)); err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, MessageResponse{Message: "verification code sent"})
}

// RegisterRequest represents a code-gated registration request.
type RegisterRequest struct {
	Username   string `json:"username"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Code       string `json:"code"`
	Region     string `json:"region,omitempty"`
}

// Register handles user registration.
// POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Username == "" || req.Identifier == "" || req.Password == "" || req.Code == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "username, identifier, password and code are required")
		return
	}

	result, err := h.service.Register(r.Context(), auth.RegisterInput{
		Username:   req.Username,
		Identifier: req.Identifier,
		Password:   req.Password,
		Code:       req.Code,
		Region:     domain.Region(req.Region),
		DeviceInfo: domain.DeviceInfo{UserAgent: r.UserAgent()},
		IPAddress:  r.RemoteAddr,
	})
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, toLoginResponse(result))
}

// LoginRequest represents a login request. Identifier may be a username,
// email or phone; LoginType optionally declares which, so an all-digit
// username is not mistaken for a phone number.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	LoginType  string `json:"login_type,omitempty"`
	Password   string `json:"password"`
	Region     string `json:"region,omitempty"`
}

// Login handles credential login.
// POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "identifier and password are required")
		return
	}

	result, err := h.service.Login(r.Context(), auth.LoginInput{
		Identifier: req.Identifier,
		LoginType:  req.LoginType,
		Password:   req.Password,
		Region:     domain.Region(req.Region),
		DeviceInfo: domain.DeviceInfo{UserAgent: r.UserAgent()},
		IPAddress:  r.RemoteAddr,
	})
	if err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toLoginResponse(result))
}

// DeactivateRequest confirms account deactivation with the password.
type DeactivateRequest struct {
	Password string `json:"password"`
}

// Deactivate handles password-confirmed account deactivation.
// POST /v1/auth/deactivate
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "missing_authorization", "authentication required")
		return
	}

	var req DeactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Password == "" {
		httputil.Error(w, http.StatusBadRequest, "invalid_request", "password is required")
		return
	}

	if err := h.service.DeactivateAccount(r.Context(), userID, req.Password); err != nil {
		httputil.DomainError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, MessageResponse{Message: "account deactivated"})
}
