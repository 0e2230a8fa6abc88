package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gurulost/FitnessForge/internal/adapters/http/presenter"
	"github.com/gurulost/FitnessForge/internal/core/domain"
)

type stubProtector struct {
	valid map[string]error
	calls int
}

func (s *stubProtector) Issue(context.Context) (string, error) {
	return "", errors.New("not used")
}

func (s *stubProtector) Validate(_ context.Context, token string) error {
	s.calls++
	if token == "" {
		return domain.ErrTokenMissing
	}
	err, ok := s.valid[token]
	if !ok {
		return domain.ErrTokenInvalid
	}
	return err
}

func TestCSRFMiddleware(t *testing.T) {
	protector := &stubProtector{valid: map[string]error{
		"good":    nil,
		"old":     domain.ErrTokenExpired,
		"broken":  errors.New("storage unavailable"),
		"onetime": domain.ErrTokenUsed,
	}}
	exempt := AnyOf(ExactPaths("/api/auth/login", "/api/auth/register"), PathPrefix("/api/auth/callback/"))
	handler := NewCSRFMiddleware(protector, exempt)(okHandler())

	tests := []struct {
		name        string
		method      string
		path        string
		token       string
		wantStatus  int
		wantMessage string
	}{
		{name: "get bypasses", method: http.MethodGet, path: "/api/workout-plans/1", wantStatus: http.StatusOK},
		{name: "head bypasses", method: http.MethodHead, path: "/api/workout-plans/1", wantStatus: http.StatusOK},
		{name: "options bypasses", method: http.MethodOptions, path: "/api/workout-plan", wantStatus: http.StatusOK},
		{name: "login exempt", method: http.MethodPost, path: "/api/auth/login", wantStatus: http.StatusOK},
		{name: "register exempt", method: http.MethodPost, path: "/api/auth/register", wantStatus: http.StatusOK},
		{name: "oauth callback exempt", method: http.MethodPost, path: "/api/auth/callback/google", wantStatus: http.StatusOK},
		{name: "valid token", method: http.MethodPost, path: "/api/progress-metrics", token: "good", wantStatus: http.StatusOK},
		{name: "missing token", method: http.MethodDelete, path: "/api/progress-photo/3", wantStatus: http.StatusForbidden, wantMessage: "CSRF token missing"},
		{name: "unknown token", method: http.MethodPut, path: "/api/workout-plan/3", token: "nope", wantStatus: http.StatusForbidden, wantMessage: "Invalid CSRF token"},
		{name: "expired token", method: http.MethodPatch, path: "/api/profile", token: "old", wantStatus: http.StatusForbidden, wantMessage: "CSRF token expired"},
		{name: "used token", method: http.MethodPost, path: "/api/profile", token: "onetime", wantStatus: http.StatusForbidden, wantMessage: "CSRF token already used"},
		{name: "storage failure", method: http.MethodPost, path: "/api/profile", token: "broken", wantStatus: http.StatusInternalServerError, wantMessage: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set(CSRFHeaderName, tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantMessage == "" {
				return
			}
			var body presenter.MessageResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Message != tt.wantMessage {
				t.Fatalf("expected message %q, got %q", tt.wantMessage, body.Message)
			}
		})
	}
}

func TestCSRFMiddleware_SafeMethodsNeverValidate(t *testing.T) {
	protector := &stubProtector{}
	handler := NewCSRFMiddleware(protector, nil)(okHandler())

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(method, "/api/anything", nil))
	}
	if protector.calls != 0 {
		t.Fatalf("expected no validation for safe methods, got %d calls", protector.calls)
	}
}
