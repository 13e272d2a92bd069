package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartrecipe/auth-service/internal/domain"
)

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "invalid_request", "identifier is required")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != "invalid_request" || body.Message != "identifier is required" {
		t.Errorf("body = %+v", body)
	}
}

func TestDomainError_Mappings(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{domain.ErrAccountLocked, http.StatusLocked, "account_locked"},
		{domain.ErrCodeRateLimited, http.StatusTooManyRequests, "code_rate_limited"},
		{domain.ErrCodeInvalidOrExpired, http.StatusBadRequest, "code_invalid_or_expired"},
		{domain.ErrUsernameTaken, http.StatusConflict, "username_taken"},
		{domain.ErrDeliveryFailed, http.StatusBadGateway, "delivery_failed"},
		{domain.ErrWeakPassword, http.StatusBadRequest, "weak_password"},
		{domain.ErrSessionNotFound, http.StatusUnauthorized, "session_invalid"},
		{domain.ErrPermissionDenied, http.StatusForbidden, "permission_denied"},
		{domain.ErrInvalidLoginType, http.StatusBadRequest, "invalid_login_type"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			DomainError(rec, logger, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestDomainError_WrappedErrorsStillMap(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()
	DomainError(rec, logger, fmt.Errorf("%w: too short", domain.ErrWeakPassword))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDomainError_UnmappedCollapsesToInternal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()
	DomainError(rec, logger, errors.New("pq: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != "internal_error" {
		t.Errorf("code = %q, want internal_error", body.Code)
	}
	// The raw driver error never reaches the client.
	if body.Message != "internal server error" {
		t.Errorf("message = %q, leaked internals", body.Message)
	}
}
