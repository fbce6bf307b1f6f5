package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/stak-backend/internal/response"
	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

type verifierStub struct {
	token *auth.Token
	err   error
	got   string
}

func (s *verifierStub) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	s.got = idToken
	return s.token, s.err
}

func newAuthMiddleware(v tokenVerifier) *Middleware {
	return NewMiddleware(v, response.New(slog.New(logger.NewTestHandler(slog.LevelInfo))))
}

func TestFirebaseAuthRejectsMissingHeader(t *testing.T) {
	m := newAuthMiddleware(&verifierStub{})
	called := false
	h := m.FirebaseAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/me", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	if called {
		t.Fatalf("next handler should not run")
	}
}

func TestFirebaseAuthRejectsMalformedHeader(t *testing.T) {
	m := newAuthMiddleware(&verifierStub{})
	h := m.FirebaseAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestFirebaseAuthRejectsInvalidToken(t *testing.T) {
	m := newAuthMiddleware(&verifierStub{err: errors.New("expired")})
	h := m.FirebaseAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestFirebaseAuthAddsIdentityToContext(t *testing.T) {
	stub := &verifierStub{token: &auth.Token{UID: "user-1", Claims: map[string]any{"email": "a@b.co"}}}
	m := newAuthMiddleware(stub)

	var uid, email string
	h := m.FirebaseAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid = UID(r.Context())
		email = Email(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "bearer good-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	if stub.got != "good-token" {
		t.Fatalf("verified token = %q", stub.got)
	}
	if uid != "user-1" || email != "a@b.co" {
		t.Fatalf("uid = %q email = %q", uid, email)
	}
}
