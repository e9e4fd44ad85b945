package aglaerror

import "fmt"

// Context is the open-ended diagnostic payload attached to an Error. Keys
// are caller-defined except for the reserved chaining keys KeyCause and
// KeyOriginalError, which every Chain call rewrites.
type Context map[string]any

// InvalidContextError reports that a value offered as a context bag is not
// a plain key/value map. It records the rejected value's type for
// diagnostics.
type InvalidContextError struct {
	// Kind describes the rejected value (e.g. "nil", "string", "[]int").
	Kind string
}

// Error returns a formatted message describing the rejected value.
//
// Returns:
//   - string: The error message string.
func (e InvalidContextError) Error() string {
	return fmt.Sprintf("invalid context: %s is not a plain key/value map", e.Kind)
}

// GuardContext validates value as a context bag and returns it unchanged.
// On success the returned Context shares the same underlying map as value;
// identity is preserved and no copy is made, so callers may rely on map
// equality afterwards. On failure it returns a non-nil InvalidContextError
// describing the rejected value.
//
// Accepted values are non-nil maps of type Context or map[string]any, the
// empty map included. Nil, primitives, slices, funcs, structs and maps
// keyed by anything but strings are rejected.
//
// Parameters:
//   - value: Any value to validate as a context bag.
//
// Returns:
//   - Context: The same underlying map when value is acceptable.
//   - error: An InvalidContextError when it is not.
func GuardContext(value any) (Context, error) {
	switch m := value.(type) {
	case Context:
		if m == nil {
			return nil, InvalidContextError{Kind: "nil map"}
		}
		return m, nil
	case map[string]any:
		if m == nil {
			return nil, InvalidContextError{Kind: "nil map"}
		}
		return Context(m), nil
	default:
		return nil, InvalidContextError{Kind: typeName(value)}
	}
}

// IsValidContext reports whether value can serve as a context bag. It
// applies exactly the acceptance rule of GuardContext as a pure predicate.
//
// Parameters:
//   - value: Any value to test.
//
// Returns:
//   - bool: true when GuardContext would accept the value.
func IsValidContext(value any) bool {
	_, err := GuardContext(value)
	return err == nil
}

// typeName names a value's dynamic type for diagnostics, with plain "nil"
// for an untyped nil.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
