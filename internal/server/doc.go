// Package server exposes the reporter's observability surface over HTTP:
// a health endpoint, Prometheus metrics for the record stream, and the
// middleware (security headers, CORS, request tracking) shared by both.
//
// The server is optional; it runs alongside the read loop when serve mode
// is enabled and shuts down gracefully when the run context ends.
package server
