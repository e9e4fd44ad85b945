package aglaerror

import (
	"fmt"
	"maps"
	"reflect"
)

// Reserved context keys rewritten by every Chain call.
const (
	// KeyCause holds the display fragment of the most recent cause.
	KeyCause = "cause"
	// KeyOriginalError holds a CauseInfo snapshot of the most recent cause
	// when that cause was a genuine error value.
	KeyOriginalError = "originalError"
)

// undefinedFragment is the display fragment used when no message can be
// extracted from a cause.
const undefinedFragment = "undefined"

// ChainFormatter is the customization hook for Chain. When installed with
// WithFormatter it runs after the base behavior of a Chain call (message
// suffix plus context merge), receiving the already-suffixed message and
// the raw cause; its return value becomes the new message.
//
// The hook substitutes for subclassing: a formatter that prefixes a tag
// reproduces what a derived error type overriding the chain step would do.
// Because every Chain call feeds the then-current message back through the
// hook, such transformations compound across calls.
type ChainFormatter func(message string, cause any) string

// InvalidCauseError is the panic value raised by Chain when the supplied
// cause is nil.
type InvalidCauseError struct{}

// Error returns the fixed message for a nil chain cause.
//
// Returns:
//   - string: The error message string.
func (e InvalidCauseError) Error() string {
	return "invalid cause: chain requires a non-nil cause"
}

// CauseInfo is the snapshot of a genuine error cause stored under the
// reserved KeyOriginalError context key.
type CauseInfo struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Chain records cause as the latest entry in the error's causal history.
// The receiver is mutated in place and returned, so call sites can write
// `return err.Chain(cause)` and keep one identity through the whole chain.
//
// Each call:
//
//  1. Panics with InvalidCauseError when cause is nil, typed or untyped.
//  2. Extracts a display fragment from the cause: an error's message, the
//     "message" entry of a map-shaped cause, the Message() of a value that
//     offers one, or the literal "undefined" when nothing applies.
//  3. Appends " (caused by: <fragment>)" to the current message, so
//     repeated chaining accumulates one suffix per call in call order.
//  4. Replaces the context with a fresh merge: existing entries first, then
//     the reserved keys. KeyCause is always set to the fragment;
//     KeyOriginalError is set to a CauseInfo snapshot when the cause is an
//     error and removed otherwise. User entries are never dropped.
//  5. Runs the ChainFormatter hook, if one is installed.
//
// Any non-nil cause is accepted. Shapes without a usable message degrade to
// the "undefined" fragment instead of failing, so propagation code can
// chain whatever it caught without inspecting it first.
//
// Parameters:
//   - cause: The underlying cause, of any non-nil shape.
//
// Returns:
//   - *Error: The same instance, mutated.
func (e *Error) Chain(cause any) *Error {
	if isNil(cause) {
		panic(InvalidCauseError{})
	}

	fragment := causeFragment(cause)
	e.message = e.message + " (caused by: " + fragment + ")"

	merged := make(Context, len(e.context)+2)
	maps.Copy(merged, e.context)
	merged[KeyCause] = fragment
	if err, ok := cause.(error); ok {
		merged[KeyOriginalError] = causeSnapshot(err)
	} else {
		delete(merged, KeyOriginalError)
	}
	e.context = merged

	if e.formatter != nil {
		e.message = e.formatter(e.message, cause)
	}
	return e
}

// isNil reports whether v is nil either as an untyped interface value or as
// a typed nil pointer, map, slice, channel, func or interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// causeFragment extracts the display text for a cause, degrading to
// undefinedFragment for shapes that carry no message. For an Error cause
// the raw message field is used, not the formatted Error() line.
func causeFragment(cause any) string {
	switch c := cause.(type) {
	case *Error:
		return c.message
	case error:
		return c.Error()
	case Context:
		return mapMessage(c)
	case map[string]any:
		return mapMessage(c)
	case interface{ Message() string }:
		return c.Message()
	default:
		return undefinedFragment
	}
}

// mapMessage pulls a printable "message" entry out of a map-shaped cause.
func mapMessage(m map[string]any) string {
	v, ok := m["message"]
	if !ok || v == nil {
		return undefinedFragment
	}
	return fmt.Sprint(v)
}

// causeSnapshot captures the identifying fields of an error cause. Foreign
// error types are named by their dynamic type and carry no stack.
func causeSnapshot(err error) CauseInfo {
	if ae, ok := err.(*Error); ok {
		return CauseInfo{Name: ae.name, Message: ae.message, Stack: ae.Stack()}
	}
	return CauseInfo{Name: fmt.Sprintf("%T", err), Message: err.Error()}
}
