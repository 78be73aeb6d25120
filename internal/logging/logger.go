// Package logging wires carecoord's zerolog logger and the correlation-id
// plumbing used to tie an absorbed LLM failure (§7) back to the request that
// triggered it.
package logging

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

type ctxKey int

const correlationIDKey ctxKey = iota

// New builds the process logger. Pretty console output in a tty, JSON lines
// otherwise, matching the teacher's cmd/cortex console-vs-file split.
func New(w io.Writer, debug bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if f, ok := w.(*os.File); ok && isTerminal(f) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// WithCorrelationID attaches a correlation id (typically an input_snapshot_id
// or a generated uuid) to ctx so every absorbed error logged downstream can
// be traced back to the triggering request.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID extracts the id set by WithCorrelationID, or "" if unset.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// Component returns a child logger tagged with a component name, the same
// shape as the teacher's per-subsystem loggers in internal/memory.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
