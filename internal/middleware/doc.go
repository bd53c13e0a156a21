// Package middleware provides the HTTP middleware chain: request
// logging, Prometheus request metrics with path normalization for the
// per-session routes, and gzip compression for JSON responses.
package middleware
