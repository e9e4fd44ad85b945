package report

import (
	"math"
	"time"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
)

// Record is a single parsed error record from the input stream.
//
// ErrorType and Message are always present; code, severity, timestamp and
// context are optional. Severity and Timestamp are kept as decoded, without
// interpretation, because upstream producers may have stored values that
// never passed validation. Use SeverityLevel and Time for the admitted view.
type Record struct {
	ErrorType string
	Message   string
	Code      string
	Severity  any
	Timestamp any
	Context   aglaerror.Context

	// Line is the 1-based input line number the record came from.
	Line int
	// Raw is the original input line, preserved for passthrough output.
	Raw string
}

// SeverityLevel returns the record's severity as a core severity value, or
// zero when the field is absent or does not name a member of the closed set.
// JSON numbers are admitted only when they are whole and in range.
func (r Record) SeverityLevel() aglaerror.Severity {
	switch v := r.Severity.(type) {
	case aglaerror.Severity:
		if aglaerror.IsValidSeverity(v) {
			return v
		}
	case float64:
		if v == math.Trunc(v) {
			if s := aglaerror.Severity(int(v)); aglaerror.IsValidSeverity(s) {
				return s
			}
		}
	case int:
		if s := aglaerror.Severity(v); aglaerror.IsValidSeverity(s) {
			return s
		}
	}
	return 0
}

// Time returns the record's timestamp when it is a parseable RFC 3339 string.
func (r Record) Time() (time.Time, bool) {
	s, ok := r.Timestamp.(string)
	if !ok || s == "" {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// Rebuild reconstructs a live error value from the record. Only admitted
// severity and timestamp values carry over; fields the record does not have,
// or holds in an uninterpretable form, are simply left unset on the result.
func (r Record) Rebuild() *aglaerror.Error {
	opts := make([]aglaerror.Option, 0, 4)
	if r.Code != "" {
		opts = append(opts, aglaerror.WithCode(r.Code))
	}
	if level := r.SeverityLevel(); level != 0 {
		opts = append(opts, aglaerror.WithSeverity(level))
	}
	if ts, ok := r.Time(); ok {
		opts = append(opts, aglaerror.WithTimestamp(ts))
	}
	if r.Context != nil {
		opts = append(opts, aglaerror.WithContext(r.Context))
	}
	return aglaerror.New(r.ErrorType, r.Message, opts...)
}

// Filter selects records by severity floor and errorType.
// The zero Filter matches every record.
type Filter struct {
	// MinSeverity, when non-zero, is the least severe level still admitted.
	// Records without an admitted severity never match an active floor.
	MinSeverity aglaerror.Severity
	// ErrorType, when non-empty, must match the record's errorType exactly.
	ErrorType string
}

// Match reports whether the record passes the filter.
func (f Filter) Match(r Record) bool {
	if f.ErrorType != "" && r.ErrorType != f.ErrorType {
		return false
	}
	if f.MinSeverity != 0 {
		level := r.SeverityLevel()
		// Lower values are more severe, so the floor admits level <= min.
		if level == 0 || level > f.MinSeverity {
			return false
		}
	}
	return true
}
