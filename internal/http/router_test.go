package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smartrecipe/auth-service/internal/auth"
	"github.com/smartrecipe/auth-service/internal/config"
)

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tokens: auth.NewTokenService(auth.TokenConfig{
			Secret: []byte("test-secret-key-0123456789abcdef"),
			Issuer: "test",
		}),
		SecurityHeaders: config.SecurityHeadersConfig{
			Enabled:            true,
			FrameOptions:       "DENY",
			ContentTypeOptions: "nosniff",
		},
		Validation: config.ValidationConfig{MaxRequestBodySize: 1 << 20},
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestRouter_SecurityHeadersApplied(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestRouter_ProtectedRoutesRejectAnonymous(t *testing.T) {
	router := newTestRouter()
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/v1/auth/logout"},
		{http.MethodGet, "/v1/auth/sessions"},
		{http.MethodPost, "/v1/auth/change-password"},
		{http.MethodGet, "/v1/auth/verification-status"},
		{http.MethodGet, "/v1/auth/account-status"},
		{http.MethodPost, "/v1/auth/deactivate"},
		{http.MethodPost, "/v1/auth/third-party/unbind"},
	}
	for _, route := range routes {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", route.method, route.path, rec.Code)
		}
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/auth/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
