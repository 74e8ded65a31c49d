// Package logging builds the structured logger shared by the CLI and the
// simulation.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnv names the environment variable that sets the log level:
// debug, info, warn or error. Anything else means info.
const LevelEnv = "FORCESIM_LOG_LEVEL"

// FormatEnv selects the handler: "json" for JSON lines, text otherwise.
const FormatEnv = "FORCESIM_LOG_FORMAT"

// New returns a logger writing to w at the level taken from LevelEnv.
func New(w io.Writer) *slog.Logger {
	return NewWithLevel(w, ParseLevel(os.Getenv(LevelEnv)))
}

func NewWithLevel(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(os.Getenv(FormatEnv), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
