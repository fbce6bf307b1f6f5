package logger

import (
	"io"
	"log/slog"
	"os"
)

// NewTestHandler returns the Cloud Run handler writing to nowhere, or to
// stderr when STAKTESTLOG is set so a failing test can show its logs.
func NewTestHandler(level slog.Level) slog.Handler {
	var out io.Writer = io.Discard
	if os.Getenv("STAKTESTLOG") != "" {
		out = os.Stderr
	}
	return NewCloudRunHandlerWithWriter(level, out)
}
