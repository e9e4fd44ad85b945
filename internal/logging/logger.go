package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
	"github.com/atsushifx/aglabo-error-core/contract"
)

// Field is a structured logging key/value pair.
type Field struct {
	Key   string
	Value any
}

// String creates a string-valued field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int-valued field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64-valued field.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64-valued field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Err creates an error-valued field under the conventional "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// ErrorFields flattens a structured error's identifying fields: always the
// errorType, plus the code and the canonical severity name when set.
func ErrorFields(err contract.Error) []Field {
	fields := make([]Field, 0, 3)
	fields = append(fields, String("errorType", err.ErrorType()))
	if code := err.Code(); code != "" {
		fields = append(fields, String("code", code))
	}
	if sev := err.Severity(); sev != 0 {
		fields = append(fields, String("severity", sev.String()))
	}
	return fields
}

// Logger is the minimal logging surface used across the reporter. Record
// logs a message at the level mapped from an error severity; Printf and
// Println serve call sites that predate structured logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
	Record(severity aglaerror.Severity, msg string, fields ...Field)
	Printf(format string, v ...any)
	Println(v ...any)
}

// ZerologAdapter implements Logger on top of a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

var _ Logger = (*ZerologAdapter)(nil)

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger creates a ZerologAdapter writing JSON lines to w, tagged with
// the given component name.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologAdapter{logger: zl}
}

// NewDefaultLogger creates the stderr logger used when the application does
// not configure anything else.
func NewDefaultLogger() *ZerologAdapter {
	return NewLogger(os.Stderr, "aglareport")
}

// AdapterFor creates a logger writing to w at the level implied by verbose:
// debug when verbose is set, info otherwise.
func AdapterFor(w io.Writer, verbose bool) *ZerologAdapter {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zl := zerolog.New(w).Level(level).With().Timestamp().Str("component", "aglareport").Logger()
	return &ZerologAdapter{logger: zl}
}

// Debug logs a message at debug level.
func (z *ZerologAdapter) Debug(msg string, fields ...Field) {
	z.log(z.logger.Debug(), msg, fields)
}

// Info logs a message at info level.
func (z *ZerologAdapter) Info(msg string, fields ...Field) {
	z.log(z.logger.Info(), msg, fields)
}

// Error logs a message at error level, attaching err when non-nil.
func (z *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	event := z.logger.Error()
	if err != nil {
		event = event.Err(err)
	}
	z.log(event, msg, fields)
}

// Record logs a message at the level mapped from severity. Unlike zerolog's
// own Fatal(), a fatal-severity record does not terminate the process; the
// reporter re-emits foreign failures, it does not suffer them.
func (z *ZerologAdapter) Record(severity aglaerror.Severity, msg string, fields ...Field) {
	z.log(z.logger.WithLevel(LevelFor(severity)), msg, fields)
}

// Printf logs a formatted message at info level.
func (z *ZerologAdapter) Printf(format string, v ...any) {
	z.logger.Info().Msg(fmt.Sprintf(format, v...))
}

// Println logs its arguments at info level, space-separated.
func (z *ZerologAdapter) Println(v ...any) {
	z.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// log applies fields to the event and emits the message.
func (z *ZerologAdapter) log(event *zerolog.Event, msg string, fields []Field) {
	z.applyFields(event, fields).Msg(msg)
}

// applyFields maps typed Field values onto zerolog's typed appenders.
func (z *ZerologAdapter) applyFields(event *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			event = event.Str(f.Key, v)
		case int:
			event = event.Int(f.Key, v)
		case int64:
			event = event.Int64(f.Key, v)
		case uint64:
			event = event.Uint64(f.Key, v)
		case float64:
			event = event.Float64(f.Key, v)
		case bool:
			event = event.Bool(f.Key, v)
		case error:
			event = event.AnErr(f.Key, v)
		default:
			event = event.Interface(f.Key, v)
		}
	}
	return event
}

// StdLoggerAdapter implements Logger on top of the standard library logger,
// for hosts that cannot consume JSON lines.
type StdLoggerAdapter struct {
	logger *log.Logger
}

var _ Logger = (*StdLoggerAdapter)(nil)

// NewStdLoggerAdapter wraps an existing standard library logger.
func NewStdLoggerAdapter(logger *log.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: logger}
}

// Debug logs a message with a [DEBUG] prefix.
func (s *StdLoggerAdapter) Debug(msg string, fields ...Field) {
	s.print("[DEBUG]", msg, fields)
}

// Info logs a message with an [INFO] prefix.
func (s *StdLoggerAdapter) Info(msg string, fields ...Field) {
	s.print("[INFO]", msg, fields)
}

// Error logs a message with an [ERROR] prefix, appending err when non-nil.
func (s *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	args := []any{"[ERROR]", msg}
	if err != nil {
		args = append(args, err)
	}
	args = append(args, flattenFields(fields)...)
	s.logger.Println(args...)
}

// Record logs a message prefixed with the severity's canonical name.
func (s *StdLoggerAdapter) Record(severity aglaerror.Severity, msg string, fields ...Field) {
	s.print("["+severity.String()+"]", msg, fields)
}

// Printf delegates to the wrapped logger.
func (s *StdLoggerAdapter) Printf(format string, v ...any) { s.logger.Printf(format, v...) }

// Println delegates to the wrapped logger.
func (s *StdLoggerAdapter) Println(v ...any) { s.logger.Println(v...) }

func (s *StdLoggerAdapter) print(prefix, msg string, fields []Field) {
	args := append([]any{prefix, msg}, flattenFields(fields)...)
	s.logger.Println(args...)
}

// flattenFields renders fields as key=value tokens.
func flattenFields(fields []Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}
	return out
}
