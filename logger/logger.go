package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger writes structured events tagged with the component that emitted them.
type Logger struct {
	logger zerolog.Logger
}

func New(writer io.Writer, level zerolog.Level) *Logger {
	l := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{logger: l}
}

func NewConsole(level string) *Logger {
	return New(zerolog.ConsoleWriter{Out: os.Stdout}, ParseLevel(level))
}

// Nop discards everything; used by tests and the headless order command.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// ParseLevel maps LOG_LEVEL values to zerolog levels, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Info(component, message string, fields map[string]interface{}) {
	event := l.logger.Info().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (l *Logger) Error(component string, err error, fields map[string]interface{}) {
	event := l.logger.Error().Str("component", component).Err(err)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg("operation failed")
}

func (l *Logger) Warning(component, message string, fields map[string]interface{}) {
	event := l.logger.Warn().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}

func (l *Logger) Debug(component, message string, fields map[string]interface{}) {
	event := l.logger.Debug().Str("component", component)
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(message)
}
