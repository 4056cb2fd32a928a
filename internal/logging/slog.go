package logging

import (
	"context"
	"io"
	"log/slog"
)

const redacted = "[redacted]"

// keys whose values never reach the log
var sensitiveKeys = map[string]bool{
	"password": true,
	"token":    true,
}

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func newSlogWriterLogger(w io.Writer, lvl slog.Level) *SlogLogger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl, ReplaceAttr: redactAttr})
	return NewSlogLogger(slog.New(h))
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[a.Key] {
		return slog.String(a.Key, redacted)
	}
	return a
}

// redactArgs masks the values of sensitive keys in a key-value list. The
// input is not modified.
func redactArgs(args []any) []any {
	var out []any
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok && sensitiveKeys[k] {
			if out == nil {
				out = append([]any(nil), args...)
			}
			out[i+1] = redacted
		}
	}
	if out == nil {
		return args
	}
	return out
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
