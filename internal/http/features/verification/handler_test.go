package verification

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler() *Handler {
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Code
}

func TestSendCode_Validation(t *testing.T) {
	h := newTestHandler()
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "{"},
		{"missing identifier", `{"purpose":"register"}`},
		{"missing purpose", `{"identifier":"a@b.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/auth/send-verification-code", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.SendCode(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if code := decodeErrorCode(t, rec); code != "invalid_request" {
				t.Errorf("error code = %q, want invalid_request", code)
			}
		})
	}
}

func TestVerifyCode_Validation(t *testing.T) {
	h := newTestHandler()
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", "{"},
		{"missing identifier", `{"code":"123456","purpose":"register"}`},
		{"missing code", `{"identifier":"a@b.com","purpose":"register"}`},
		{"missing purpose", `{"identifier":"a@b.com","code":"123456"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/auth/verify-code", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.VerifyCode(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if code := decodeErrorCode(t, rec); code != "invalid_request" {
				t.Errorf("error code = %q, want invalid_request", code)
			}
		})
	}
}
