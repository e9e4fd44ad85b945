package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorParse    = 2   // Indicates that the input contained malformed records.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
// It allows for the creation of configuration-specific errors with dynamic
// content.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ParseError encapsulates a record parsing error while preserving the
// original cause and the input line on which it occurred. This allows for
// structured error handling and inspection of what went wrong while decoding
// the error stream.
type ParseError struct {
	// Line is the 1-based input line number that failed to parse.
	Line int
	// Cause is the underlying error that triggered this parse error.
	Cause error
}

// Error returns a formatted message identifying the offending line.
//
// Returns:
//   - string: The error message string.
func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the ParseError.
func (e ParseError) Unwrap() error { return e.Cause }

// InputError represents a failure to open or read an input source. It captures
// the source path alongside the underlying cause.
type InputError struct {
	// Path is the input source that could not be read ("-" for stdin).
	Path string
	// Cause is the underlying error that triggered this input error.
	Cause error
}

// Error returns a formatted message describing the input failure.
//
// Returns:
//   - string: The error message string.
func (e InputError) Error() string {
	return fmt.Sprintf("cannot read input %q: %v", e.Path, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the InputError.
func (e InputError) Unwrap() error { return e.Cause }

// OutputError represents a failure to create or write the output file. It
// captures the destination path alongside the underlying cause.
type OutputError struct {
	// Path is the output destination that could not be written.
	Path string
	// Cause is the underlying error that triggered this output error.
	Cause error
}

// Error returns a formatted message describing the output failure.
//
// Returns:
//   - string: The error message string.
func (e OutputError) Error() string {
	return fmt.Sprintf("cannot write output %q: %v", e.Path, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the OutputError.
func (e OutputError) Unwrap() error { return e.Cause }

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the application exit code that should be
// reported to the OS. Cancellation takes precedence over the error class so
// that an interrupted run is always reported as canceled.
//
// Parameters:
//   - err: The error to classify, possibly wrapped.
//
// Returns:
//   - int: The exit code corresponding to the error class.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if IsContextError(err) {
		return ExitErrorCanceled
	}
	var configErr ConfigError
	if errors.As(err, &configErr) {
		return ExitErrorConfig
	}
	var parseErr ParseError
	if errors.As(err, &parseErr) {
		return ExitErrorParse
	}
	return ExitErrorGeneric
}

// HandleReportError reports a fatal report error to out and maps it to the
// process exit code. Cancellation and timeout get a short human message
// instead of the raw context error text.
//
// Parameters:
//   - err: The error that ended the report, or nil for a clean run.
//   - out: The writer that receives the diagnostic message.
//
// Returns:
//   - int: The exit code corresponding to the error class.
func HandleReportError(err error, out io.Writer) int {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintln(out, "Report timed out.")
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(out, "Report canceled.")
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
	return ExitCodeFor(err)
}
