package health

import (
	"context"
	"log/slog"
)

// Ctx is embedded in option structs so code can log errors as it returns them. The zero value (nil Logger) logs nothing.
type Ctx struct {
	Logger *slog.Logger
}

func NewCtx(logger *slog.Logger) Ctx {
	return Ctx{Logger: logger}
}

// With returns a Ctx whose logger adds args to every record.
func (c Ctx) With(args ...any) Ctx {
	if c.Logger == nil {
		return c
	}
	return Ctx{Logger: c.Logger.With(args...)}
}

func (c Ctx) LogErr(err error, args ...any) error {
	return LogErr(c.Logger, err, args...)
}

func (c Ctx) LogNewErr(msg string, args ...any) error {
	return LogNewErr(c.Logger, msg, args...)
}

func (c Ctx) LogWrappedErr(msg string, wrapped error, args ...any) error {
	return LogWrappedErr(c.Logger, msg, wrapped, args...)
}

func (c Ctx) Log(msg string, args ...any) {
	c.log(slog.LevelInfo, msg, args)
}

func (c Ctx) Debug(msg string, args ...any) {
	c.log(slog.LevelDebug, msg, args)
}

func (c Ctx) log(level slog.Level, msg string, args []any) {
	if c.Logger == nil {
		return
	}
	c.Logger.Log(context.Background(), level, msg, args...)
}
