package aglaerror

import (
	"maps"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// BaseName is the name reported by errors that were not given a custom name.
const BaseName = "AglaError"

// maxStackDepth bounds the number of frames captured at construction.
const maxStackDepth = 32

// Error is a structured, chainable, serializable error. It carries a stable
// machine-readable classification (errorType), a human-readable message that
// accumulates causal history, and optional code, severity, timestamp and
// context fields.
//
// errorType, code, severity and timestamp are fixed at construction; message
// and context are the mutable pair rewritten by Chain. Severity and
// timestamp are stored exactly as given, with no validation: an out-of-range
// severity or an implausible timestamp is kept verbatim, and callers that
// need strictness run IsValidSeverity or GuardContext before constructing.
//
// An Error is not safe for concurrent mutation. Goroutines that fan out
// error handling must chain on independent Clones or serialize access to
// the shared instance themselves.
type Error struct {
	errorType string
	message   string
	name      string
	code      string
	severity  Severity
	timestamp time.Time
	context   Context
	formatter ChainFormatter
	stack     []uintptr
}

var _ error = (*Error)(nil)

// Option configures an Error during construction via New.
type Option func(*Error)

// WithCode sets the stable application code.
func WithCode(code string) Option { return func(e *Error) { e.code = code } }

// WithSeverity sets the severity. The value is stored verbatim, member of
// the defined set or not.
func WithSeverity(severity Severity) Option { return func(e *Error) { e.severity = severity } }

// WithTimestamp sets the timestamp. The value is stored verbatim, plausible
// or not.
func WithTimestamp(ts time.Time) Option { return func(e *Error) { e.timestamp = ts } }

// WithContext sets the initial context bag. The map is stored as given, not
// copied, so the caller's reference and the error's context are the same
// map until the first Chain call replaces it with a merged one.
func WithContext(ctx Context) Option { return func(e *Error) { e.context = ctx } }

// WithName overrides the reported name, as a derived error variant would.
func WithName(name string) Option { return func(e *Error) { e.name = name } }

// WithFormatter installs the chain formatting hook. See ChainFormatter.
func WithFormatter(f ChainFormatter) Option { return func(e *Error) { e.formatter = f } }

// New constructs an Error with the given classification and message.
// errorType is not checked against any closed set; option values are stored
// without validation or normalization. A stack snapshot of the call site is
// taken as a side effect.
//
// Parameters:
//   - errorType: Caller-supplied machine-readable classification.
//   - message: Initial human-readable message.
//   - opts: Optional field setters (WithCode, WithSeverity, WithTimestamp,
//     WithContext, WithName, WithFormatter).
//
// Returns:
//   - *Error: The constructed error.
func New(errorType, message string, opts ...Option) *Error {
	return newError(errorType, message, opts)
}

// NewWithContext constructs an Error from the older calling convention
// where the whole options argument is a bare context bag. Only the context
// is set; code, severity and timestamp remain unset.
//
// Parameters:
//   - errorType: Caller-supplied machine-readable classification.
//   - message: Initial human-readable message.
//   - ctx: The context bag, stored as given.
//
// Returns:
//   - *Error: The constructed error.
func NewWithContext(errorType, message string, ctx Context) *Error {
	return newError(errorType, message, []Option{WithContext(ctx)})
}

// newError is the shared constructor body. Both exported constructors sit
// exactly one frame above it, so the stack skip count stays correct.
func newError(errorType, message string, opts []Option) *Error {
	e := &Error{
		errorType: errorType,
		message:   message,
		name:      BaseName,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.stack = captureStack(2)
	return e
}

// captureStack records up to maxStackDepth program counters, skipping the
// given number of frames above captureStack itself.
func captureStack(skip int) []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+2, pcs)
	return pcs[:n]
}

// ErrorType returns the machine-readable classification.
func (e *Error) ErrorType() string { return e.errorType }

// Message returns the current message, including any accumulated
// "(caused by: ...)" suffixes.
func (e *Error) Message() string { return e.message }

// Name returns the error's name, BaseName unless overridden with WithName.
func (e *Error) Name() string { return e.name }

// Code returns the application code, empty when unset.
func (e *Error) Code() string { return e.code }

// Severity returns the stored severity, zero when unset. The value is
// whatever construction supplied; run it through IsValidSeverity when
// membership matters.
func (e *Error) Severity() Severity { return e.severity }

// Timestamp returns the stored timestamp, the zero time when unset.
func (e *Error) Timestamp() time.Time { return e.timestamp }

// Context returns the live context bag, nil when unset. This is the same
// map the error holds, not a copy: mutations through it are visible to the
// error and the next Chain merge starts from it.
func (e *Error) Context() Context { return e.context }

// Stack returns the stack snapshot taken at construction, formatted as one
// "function\n\tfile:line" pair per frame.
func (e *Error) Stack() string {
	if len(e.stack) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			b.WriteString(frame.Function)
			b.WriteString("\n\t")
			b.WriteString(frame.File)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(frame.Line))
			b.WriteByte('\n')
		}
		if !more {
			break
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Clone returns a copy of the error with its own context map. Goroutines
// that each need to chain further causes onto one origin error clone it
// first; Chain on a clone never touches the original.
//
// Returns:
//   - *Error: An independent copy sharing no mutable state with the receiver.
func (e *Error) Clone() *Error {
	clone := *e
	clone.context = maps.Clone(e.context)
	return &clone
}
