package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/stak-backend/pkg/logger"
)

// traceHeader is set by the Cloud Run front end as TRACE_ID/SPAN_ID;o=OPTIONS.
const traceHeader = "X-Cloud-Trace-Context"

type loggerMiddleware struct {
	Log       *slog.Logger
	ProjectID string
}

func NewLoggerMiddleware(log *slog.Logger, projectID string) *loggerMiddleware {
	return &loggerMiddleware{Log: log, ProjectID: projectID}
}

// LoggerMiddleware puts a request-scoped logger in the context. It must run
// after chi's RequestID so the id is available.
func (m *loggerMiddleware) LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attrs := []any{
			"request_id", chimiddleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		}
		if trace := m.trace(r); trace != "" {
			attrs = append(attrs, "logging.googleapis.com/trace", trace)
		}

		ctx := logger.ToContext(r.Context(), m.Log.With(attrs...))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// trace links log lines to the request in Cloud Logging.
func (m *loggerMiddleware) trace(r *http.Request) string {
	header := r.Header.Get(traceHeader)
	if header == "" || m.ProjectID == "" {
		return ""
	}
	traceID, _, _ := strings.Cut(header, "/")
	return fmt.Sprintf("projects/%s/traces/%s", m.ProjectID, traceID)
}
