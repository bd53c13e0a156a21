// Package metrics defines the Prometheus collectors exported by the
// catalog server. Collectors are registered at package load via
// promauto and served from a dedicated metrics port.
package metrics
