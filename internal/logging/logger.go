// Package logging provides the structured logger shared by every
// collaborator and worker in cdrgen.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level is a logging verbosity level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects text (console) or JSON output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config configures a new Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger wraps zerolog.Logger with a small, stable API so the rest of the
// module never imports zerolog directly.
type Logger struct {
	z zerolog.Logger
}

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	var out io.Writer = cfg.Output
	if cfg.Format == FormatText {
		out = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		}
	}

	z := zerolog.New(out).With().Timestamp().Logger()

	switch cfg.Level {
	case LevelDebug:
		z = z.Level(zerolog.DebugLevel)
	case LevelWarn:
		z = z.Level(zerolog.WarnLevel)
	case LevelError:
		z = z.Level(zerolog.ErrorLevel)
	default:
		z = z.Level(zerolog.InfoLevel)
	}

	return &Logger{z: z}
}

func (l *Logger) Debug(msg string, fields ...any) { l.emit(l.z.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...any)  { l.emit(l.z.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...any)  { l.emit(l.z.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...any) { l.emit(l.z.Error(), msg, fields) }
func (l *Logger) Fatal(msg string, fields ...any) { l.emit(l.z.Fatal(), msg, fields) }

// WithField returns a child logger carrying an additional field, used by
// workers to scope every subsequent line with their shard/day context.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{z: l.z.With().Interface(key, value).Logger()}
}

// WithFields returns a child logger carrying several additional fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	ctx := l.z.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{z: ctx.Logger()}
}

func (l *Logger) emit(event *zerolog.Event, msg string, fields []any) {
	if len(fields)%2 != 0 {
		event.Str("log_error", "odd number of fields").Msg(msg)
		return
	}
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			event.Str("log_error", "non-string field key")
			continue
		}
		event.Interface(key, fields[i+1])
	}
	event.Msg(msg)
}
