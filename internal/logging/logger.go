// Package logging is a thin key/value layer over zerolog shared by the
// dashboard service and its tools.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger. Fields are passed as alternating key/value
// arguments: logger.Info("Dataset loaded", "records", n).
type Logger struct {
	zl zerolog.Logger
}

var global = NewDevelopment()

func newLogger(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{zl: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// NewProduction writes JSON lines to stdout at info level
func NewProduction() *Logger {
	return newLogger(os.Stdout, zerolog.InfoLevel)
}

// NewDevelopment writes colored console output at debug level
func NewDevelopment() *Logger {
	return newLogger(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, zerolog.DebugLevel)
}

// NewWithWriter creates a JSON logger on w
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	return newLogger(w, level)
}

// Nop discards everything
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// SetGlobal replaces the process-wide logger
func SetGlobal(logger *Logger) {
	if logger != nil {
		global = logger
	}
}

// Global returns the process-wide logger
func Global() *Logger {
	return global
}

// appendFields adds key/value pairs to a zerolog context or event.
// Errors are rendered through Error() so they survive JSON encoding.
func appendFields[T interface {
	Interface(string, any) T
	Str(string, string) T
}](target T, kv []any) T {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		switch v := kv[i+1].(type) {
		case error:
			target = target.Str(key, v.Error())
		case time.Duration:
			target = target.Str(key, v.String())
		default:
			target = target.Interface(key, v)
		}
	}
	return target
}

func (l *Logger) log(e *zerolog.Event, msg string, kv []any) {
	if e == nil {
		return
	}
	appendFields(e, kv).Msg(msg)
}

// Debug logs at debug level
func (l *Logger) Debug(msg string, kv ...any) { l.log(l.zl.Debug(), msg, kv) }

// Info logs at info level
func (l *Logger) Info(msg string, kv ...any) { l.log(l.zl.Info(), msg, kv) }

// Warn logs at warn level
func (l *Logger) Warn(msg string, kv ...any) { l.log(l.zl.Warn(), msg, kv) }

// Error logs at error level
func (l *Logger) Error(msg string, kv ...any) { l.log(l.zl.Error(), msg, kv) }

// Fatal logs and exits the process
func (l *Logger) Fatal(msg string, kv ...any) { l.log(l.zl.Fatal(), msg, kv) }

// With returns a child logger that always carries kv
func (l *Logger) With(kv ...any) *Logger {
	zc := appendFields(l.zl.With(), kv)
	return &Logger{zl: zc.Logger()}
}

// WithContext adds the request id stored in ctx, if any
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if id := RequestID(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}

// Enabled reports whether level would be written
func (l *Logger) Enabled(level zerolog.Level) bool {
	return l.zl.GetLevel() <= level
}
