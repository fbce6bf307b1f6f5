package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

func TestLoggerMiddlewareAddsTrace(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.NewCloudRunHandlerWithWriter(slog.LevelInfo, &buf))
	mw := NewLoggerMiddleware(log, "stak-prod")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handled")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/intel-cards", nil)
	req.Header.Set(traceHeader, "abc123/456;o=1")
	mw.LoggerMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	data := event["data"].(map[string]any)
	if data["logging.googleapis.com/trace"] != "projects/stak-prod/traces/abc123" {
		t.Fatalf("trace = %v", data["logging.googleapis.com/trace"])
	}
	if data["path"] != "/api/intel-cards" {
		t.Fatalf("path = %v", data["path"])
	}
}

func TestLoggerMiddlewareWithoutTrace(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(logger.NewCloudRunHandlerWithWriter(slog.LevelInfo, &buf))
	mw := NewLoggerMiddleware(log, "")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handled")
	})
	mw.LoggerMiddleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if bytes.Contains(buf.Bytes(), []byte("traces")) {
		t.Fatalf("unexpected trace in %s", buf.String())
	}
}
