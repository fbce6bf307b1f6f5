package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

// brokenWriter accepts headers but fails every body write.
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestHealthReportsOK(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"status":"ok"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestHealthLogsEncodeFailure(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(logger.NewCloudRunHandlerWithWriter(slog.LevelInfo, &out))
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req = req.WithContext(logger.ToContext(req.Context(), log))

	w := brokenWriter{httptest.NewRecorder()}
	Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(out.String(), "failed to encode health response") {
		t.Fatalf("expected encode failure to be logged, got %q", out.String())
	}
}
