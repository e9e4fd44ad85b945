package aglaerror

import (
	"encoding/json"
	"time"
)

// ToJSON returns the error as a plain key/value snapshot.
//
// "errorType" and "message" are always present. "code", "severity",
// "timestamp" and "context" appear only when set; unset fields are omitted
// entirely rather than emitted as zero values. Severity keeps its raw
// numeric value and the timestamp is rendered in RFC 3339 form, whatever
// values were stored. The context entry is the same map the error holds,
// not a deep copy: writes through the error's Context() stay visible in a
// previously obtained snapshot until that snapshot is encoded to text. A
// later Chain call installs a fresh merged map on the error, after which
// the error and the old snapshot diverge.
//
// Returns:
//   - map[string]any: A fresh snapshot map (sharing only the context).
func (e *Error) ToJSON() map[string]any {
	out := map[string]any{
		"errorType": e.errorType,
		"message":   e.message,
	}
	if e.code != "" {
		out["code"] = e.code
	}
	if e.severity != 0 {
		out["severity"] = e.severity
	}
	if !e.timestamp.IsZero() {
		out["timestamp"] = e.timestamp.Format(time.RFC3339Nano)
	}
	if e.context != nil {
		out["context"] = e.context
	}
	return out
}

// MarshalJSON implements json.Marshaler by encoding the ToJSON snapshot.
// A context holding a reference cycle surfaces here as the encoder's
// unsupported-value error; no cycle detection is attempted first.
//
// Returns:
//   - []byte: The JSON encoding of the snapshot.
//   - error: The encoder's error, if any.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToJSON())
}

// Error implements the standard error interface. The format is
// "<errorType>: <message>", followed by a single space and the compact JSON
// encoding of the context only when a context is present. The exact spacing
// is a stable contract that log parsers may rely on. A context the encoder
// rejects (a reference cycle) drops the context segment rather than
// corrupting the line.
//
// Returns:
//   - string: The formatted error line.
func (e *Error) Error() string {
	s := e.errorType + ": " + e.message
	if e.context == nil {
		return s
	}
	data, err := json.Marshal(e.context)
	if err != nil {
		return s
	}
	return s + " " + string(data)
}
