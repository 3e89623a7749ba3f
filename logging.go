// logging.go - structured event logging for the kernel.
//
// The kernel logs one event per scheduling-relevant transition: task
// creation, activation, termination, wait, wake, context switch, tick, and
// mutex acquire/block/release. Logging is an injectable, package-level
// concern so that the hot dispatch path costs nothing when no logger is
// configured (the zero value, [NewNoOpLogger], is always the default).
//
// A concrete structured-JSON backend is wired via [NewStructuredLogger],
// built on github.com/joeycumines/logiface and its "model" JSON
// implementation github.com/joeycumines/stumpy. Any other logiface-based
// sink can be adapted the same way; the kernel itself only depends on the
// small [Logger] interface below.
package kernel

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Level is the severity of a logged kernel event.
type Level int32

const (
	// LevelDebug carries per-switch, per-tick detail useful only when
	// actively debugging scheduling behavior.
	LevelDebug Level = iota
	// LevelInfo carries task and mutex lifecycle events.
	LevelInfo
	// LevelWarn carries recoverable user-misuse conditions (e.g.
	// ManyUsersOnMutex).
	LevelWarn
	// LevelError carries kernel invariant violations.
	LevelError
)

// String returns the level's name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Fields carries structured key/value pairs attached to a logged event.
// Values are restricted to the small set the kernel ever logs (strings,
// ints, durations as ticks) so that every Logger implementation, including
// [NewNoOpLogger], can stay allocation-free when disabled.
type Fields map[string]any

// Logger is the structured logging interface used throughout the kernel.
// Implementations must be safe for concurrent use: kernel traps run with
// kernelLock held, but test harnesses may log concurrently.
type Logger interface {
	// Log emits one structured event. category identifies the kernel
	// subsystem ("task", "switch", "tick", "mutex").
	Log(level Level, category, msg string, fields Fields)
}

// noOpLogger discards every event. It is the kernel's default logger.
type noOpLogger struct{}

// NewNoOpLogger returns a Logger that discards all events.
func NewNoOpLogger() Logger { return noOpLogger{} }

func (noOpLogger) Log(Level, string, string, Fields) {}

// structuredLogger adapts a logiface logger (backed by stumpy's JSON
// event implementation) to the kernel's Logger interface.
type structuredLogger struct {
	logger *logiface.Logger[*stumpy.Event]
}

// NewStructuredLogger returns a Logger that writes newline-delimited JSON
// events via stumpy, the logiface "model" backend. opts configures the
// stumpy writer (e.g. stumpy.WithWriter, stumpy.WithTimeField); see the
// stumpy package for the full option set.
func NewStructuredLogger(opts ...stumpy.Option) Logger {
	return &structuredLogger{
		logger: stumpy.L.New(stumpy.L.WithStumpy(opts...)),
	}
}

func (s *structuredLogger) Log(level Level, category, msg string, fields Fields) {
	b := s.builder(level)
	b = b.Str("category", category)
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			b = b.Str(k, val)
		case int:
			b = b.Int(k, val)
		case int64:
			b = b.Int64(k, val)
		case uint64:
			b = b.Uint64(k, val)
		case bool:
			b = b.Bool(k, val)
		case error:
			b = b.Err(val)
		default:
			b = b.Str(k, "unsupported-field-type")
		}
	}
	b.Log(msg)
}

func (s *structuredLogger) builder(level Level) *logiface.Builder[*stumpy.Event] {
	switch level {
	case LevelDebug:
		return s.logger.Debug()
	case LevelWarn:
		return s.logger.Warning()
	case LevelError:
		return s.logger.Err()
	default:
		return s.logger.Info()
	}
}
