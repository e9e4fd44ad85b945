// Package aglaerror provides a structured, chainable, serializable error
// type for application code that needs richer diagnostics than a bare error
// string: a stable machine-readable classification, an optional application
// code, a severity level, a timestamp and an open-ended context bag, plus
// accumulation of causal history as an error crosses module boundaries.
//
// Key characteristics:
//   - Error is mutated in place by Chain and returned for fluent use.
//   - Optional fields are stored exactly as given; callers wanting strict
//     validation compose IsValidSeverity and GuardContext themselves.
//   - ToJSON emits only the fields that are set; Error() renders the stable
//     "<errorType>: <message>" line with an optional context tail.
//
// The package has no opinion on transport: logging sinks, reporters and
// HTTP layers consume the public surface and live elsewhere.
package aglaerror
