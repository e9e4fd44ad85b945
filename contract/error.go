// Package contract exposes the minimal read surface of an aglaerror.Error
// that other packages can depend on.
//
// Consumers such as reporters and logging sinks accept this interface
// instead of the concrete type. Construction and chaining remain on the
// concrete type.
package contract

import (
	"time"

	"github.com/atsushifx/aglabo-error-core/aglaerror"
)

// Error is the minimal, stable surface consumed by reporting and logging
// collaborators. It contains only getters and the serialization views;
// it carries no mutating operations.
type Error interface {
	error
	ErrorType() string
	Message() string
	Code() string
	Severity() aglaerror.Severity
	Timestamp() time.Time
	// Context returns the live context bag, not a copy. Interface holders
	// must treat it as read-only.
	Context() aglaerror.Context
	Name() string
	Stack() string
	ToJSON() map[string]any
}

// compile-time guarantee that *aglaerror.Error implements contract.Error
var _ Error = (*aglaerror.Error)(nil)
