package diag

import (
	"log/slog"
	"os"
)

// Logger is the warnings collaborator passes may use. Per spec §7, warnings
// never affect the result tree — they are purely observational.
type Logger struct {
	slog *slog.Logger
}

// NewLogger builds a Logger writing structured text to stderr, matching the
// teacher's low-ceremony diagnostic style (plain formatted messages) rather
// than reaching for a heavier structured-logging dependency the teacher
// itself never uses.
func NewLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &Logger{slog: slog.New(handler)}
}

// Warn logs a pass warning with the pass name and any structured fields
// attached (node kind, position, etc).
func (l *Logger) Warn(pass, msg string, args ...any) {
	if l == nil || l.slog == nil {
		return
	}
	fields := append([]any{"pass", pass}, args...)
	l.slog.Warn(msg, fields...)
}

// Debug logs pipeline-internal tracing information (pass entry/exit,
// program-point counts, split decisions).
func (l *Logger) Debug(pass, msg string, args ...any) {
	if l == nil || l.slog == nil {
		return
	}
	fields := append([]any{"pass", pass}, args...)
	l.slog.Debug(msg, fields...)
}
