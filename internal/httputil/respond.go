package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// ErrorBody is the uniform error response: a stable machine-checkable code
// plus a human-readable message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorBody{Code: code, Message: message})
}

type errorMapping struct {
	status int
	code   string
}

var errorMappings = []struct {
	err     error
	mapping errorMapping
}{
	{domain.ErrInvalidCredentials, errorMapping{http.StatusUnauthorized, "invalid_credentials"}},
	{domain.ErrAccountLocked, errorMapping{http.StatusLocked, "account_locked"}},
	{domain.ErrAccountInactive, errorMapping{http.StatusForbidden, "account_inactive"}},
	{domain.ErrPermissionDenied, errorMapping{http.StatusForbidden, "permission_denied"}},
	{domain.ErrUserNotFound, errorMapping{http.StatusNotFound, "user_not_found"}},
	{domain.ErrSessionNotFound, errorMapping{http.StatusUnauthorized, "session_invalid"}},
	{domain.ErrSessionExpired, errorMapping{http.StatusUnauthorized, "session_expired"}},
	{domain.ErrSessionRevoked, errorMapping{http.StatusUnauthorized, "session_revoked"}},
	{domain.ErrTokenInvalid, errorMapping{http.StatusUnauthorized, "token_invalid"}},
	{domain.ErrTokenExpired, errorMapping{http.StatusUnauthorized, "token_expired"}},
	{domain.ErrTokenTypeMismatch, errorMapping{http.StatusUnauthorized, "token_type_mismatch"}},
	{domain.ErrCodeRateLimited, errorMapping{http.StatusTooManyRequests, "code_rate_limited"}},
	{domain.ErrCodeInvalidOrExpired, errorMapping{http.StatusBadRequest, "code_invalid_or_expired"}},
	{domain.ErrCodeTooManyAttempts, errorMapping{http.StatusBadRequest, "code_too_many_attempts"}},
	{domain.ErrDeliveryFailed, errorMapping{http.StatusBadGateway, "delivery_failed"}},
	{domain.ErrResetTokenInvalid, errorMapping{http.StatusBadRequest, "reset_token_invalid"}},
	{domain.ErrUsernameTaken, errorMapping{http.StatusConflict, "username_taken"}},
	{domain.ErrEmailTaken, errorMapping{http.StatusConflict, "email_taken"}},
	{domain.ErrPhoneTaken, errorMapping{http.StatusConflict, "phone_taken"}},
	{domain.ErrInvalidEmail, errorMapping{http.StatusBadRequest, "invalid_email"}},
	{domain.ErrInvalidPhone, errorMapping{http.StatusBadRequest, "invalid_phone"}},
	{domain.ErrInvalidRegion, errorMapping{http.StatusBadRequest, "invalid_region"}},
	{domain.ErrInvalidLoginType, errorMapping{http.StatusBadRequest, "invalid_login_type"}},
	{domain.ErrInvalidPurpose, errorMapping{http.StatusBadRequest, "invalid_purpose"}},
	{domain.ErrMissingContact, errorMapping{http.StatusBadRequest, "missing_contact"}},
	{domain.ErrWeakPassword, errorMapping{http.StatusBadRequest, "weak_password"}},
	{domain.ErrProviderExchange, errorMapping{http.StatusBadGateway, "provider_exchange_failed"}},
	{domain.ErrIdentityAlreadyLinked, errorMapping{http.StatusConflict, "identity_already_linked"}},
}

// DomainError maps a service error to its HTTP response. Unmapped errors are
// logged and collapse to a generic 500 so internals never leak to clients.
func DomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			Error(w, m.mapping.status, m.mapping.code, m.err.Error())
			return
		}
	}
	if logger != nil {
		logger.Error("unhandled service error", slog.String("error", err.Error()))
	}
	Error(w, http.StatusInternalServerError, "internal_error", "internal server error")
}
