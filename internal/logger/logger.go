// Package logger provides a thin wrapper around zerolog.Logger with
// constructors used throughout the application.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger embeds zerolog.Logger so the full zerolog API is available directly.
type Logger struct {
	zerolog.Logger
}

// New constructs a JSON logger writing to stdout, tagged with a role label
// (e.g. "server", "seed") for filtering.
func New(role string) *Logger {
	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// Nop returns a logger that discards all output, for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
