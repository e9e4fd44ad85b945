// Package logging provides a unified logging interface for the aglareport
// tooling. It abstracts the underlying logging implementation, allowing
// consistent logging across components while supporting multiple backends,
// and bridges error severities onto backend log levels.
package logging
