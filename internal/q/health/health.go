// Package health builds errors that carry slog attributes, and logs them with those attributes intact.
package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// HealthErr is an error with a log-friendly message, optional slog-style attributes, and an optional wrapped cause.
type HealthErr struct {
	Message string
	wrapped error
	attrs   []any // key/value pairs or slog.Attrs, as passed to slog.Logger.Info
}

// Error renders the message, then attributes in brackets, then the wrapped error after " via ". Ex: `tool failed[path=a.py] via exit code 1`.
func (e *HealthErr) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.attrs) > 0 {
		b.WriteString("[")
		writeAttrs(&b, e.attrs)
		b.WriteString("]")
	}
	if e.wrapped != nil {
		b.WriteString(" via ")
		b.WriteString(e.wrapped.Error())
	}
	return b.String()
}

func (e *HealthErr) Unwrap() error {
	return e.wrapped
}

// Attrs returns a copy of e's attributes.
func (e *HealthErr) Attrs() []any {
	return append([]any(nil), e.attrs...)
}

// NewErr returns a new, unlogged error. args are slog-style key/values or slog.Attrs. Use Wrap to wrap an error.
func NewErr(msg string, args ...any) error {
	return &HealthErr{Message: msg, attrs: args}
}

// Wrap returns a new error that wraps `wrapped`.
func Wrap(msg string, wrapped error, args ...any) error {
	if wrapped == nil {
		// Don't panic, but leave a trail.
		wrapped = errors.New("nil wrapped error. WARNING: you should not call Wrap with a nil error")
	}
	return &HealthErr{Message: msg, wrapped: wrapped, attrs: args}
}

// LogNewErr creates a new error with msg and args, logs it, and returns it.
func LogNewErr(logger *slog.Logger, msg string, args ...any) error {
	return LogErr(logger, NewErr(msg, args...))
}

// LogWrappedErr wraps wrapped with msg and args, logs it, and returns it.
func LogWrappedErr(logger *slog.Logger, msg string, wrapped error, args ...any) error {
	return LogErr(logger, Wrap(msg, wrapped, args...))
}

// LogErr logs err at error level (if logger and err are non-nil) and returns err unchanged, so logging and returning fit in one line:
//
//	return health.LogErr(logger, err, "path", path)
//
// A HealthErr (or HumanErr) is logged with its own message, its attrs, a "via" attr holding the wrapped error, and then args. Other errors are logged as err.Error() with args.
func LogErr(logger *slog.Logger, err error, args ...any) error {
	if logger == nil || err == nil {
		return err
	}

	var h *HealthErr
	switch e := err.(type) {
	case *HumanErr:
		h = &e.HealthErr
	case *HealthErr:
		h = e
	default:
		logger.Error(err.Error(), args...)
		return err
	}

	all := make([]any, 0, len(h.attrs)+len(args)+1)
	all = append(all, h.attrs...)
	if h.wrapped != nil {
		all = append(all, slog.String("via", h.wrapped.Error()))
	}
	all = append(all, args...)
	logger.Error(h.Message, all...)
	return err
}

// writeAttrs writes attrs to b in slog's text format (ex: `num=3 str="hi"`).
func writeAttrs(b *strings.Builder, attrs []any) {
	if len(attrs) == 0 {
		return
	}
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey {
				return slog.Attr{}
			}
			return a
		},
	}
	logger := slog.New(slog.NewTextHandler(&trimNewlineWriter{w: b}, opts))
	logger.Log(context.Background(), slog.LevelDebug, "", attrs...)
}

// trimNewlineWriter drops the trailing newline slog.TextHandler writes after each record.
type trimNewlineWriter struct {
	w io.Writer
}

func (n *trimNewlineWriter) Write(p []byte) (int, error) {
	if len(p) == 0 || p[len(p)-1] != '\n' {
		return n.w.Write(p)
	}
	written, err := n.w.Write(p[:len(p)-1])
	if err != nil {
		return written, err
	}
	return len(p), nil
}
