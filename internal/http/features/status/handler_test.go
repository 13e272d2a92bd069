package status

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestHandler() *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func TestStatusEndpoints_RequireAuthentication(t *testing.T) {
	h := newTestHandler()
	endpoints := map[string]http.HandlerFunc{
		"/v1/auth/verification-status": h.VerificationStatus,
		"/v1/auth/account-status":      h.AccountStatus,
	}
	for path, handler := range endpoints {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s status = %d, want 401", path, rec.Code)
		}
	}
}
