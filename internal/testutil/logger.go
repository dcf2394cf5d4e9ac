package testutil

import (
	"io"
	"log/slog"
)

// NopLogger drops every record
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// JSONLogger writes debug-level JSON records to w, for tests that assert on log output
func JSONLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
