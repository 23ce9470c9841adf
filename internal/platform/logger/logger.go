package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout. Level is Info; debug
// noise belongs behind REFGATE_LOG_DEBUG.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("REFGATE_LOG_DEBUG") == "true" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
