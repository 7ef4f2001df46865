package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the logging surface handed to hub components.
type Logger interface {
	Debug() *zerolog.Event
	Info() *zerolog.Event
	Warn() *zerolog.Event
	Error() *zerolog.Event
	With() zerolog.Context
}

type componentLogger struct {
	zl zerolog.Logger
}

// New returns a Logger tagged with component, backed by the global logger.
func New(component string) Logger {
	return &componentLogger{zl: WithComponent(component)}
}

// FromZerolog adapts an existing zerolog.Logger.
func FromZerolog(zl zerolog.Logger) Logger {
	return &componentLogger{zl: zl}
}

func (c *componentLogger) Debug() *zerolog.Event { return c.zl.Debug() }
func (c *componentLogger) Info() *zerolog.Event  { return c.zl.Info() }
func (c *componentLogger) Warn() *zerolog.Event  { return c.zl.Warn() }
func (c *componentLogger) Error() *zerolog.Event { return c.zl.Error() }
func (c *componentLogger) With() zerolog.Context { return c.zl.With() }

// NewTestLogger creates a no-op logger for testing that discards all output.
func NewTestLogger() Logger {
	return &componentLogger{zl: zerolog.New(io.Discard).Level(zerolog.Disabled)}
}
