// Command catalogctl provides a CLI utility for inspecting crawled
// catalog documents before serving them.
//
// It supports the following operations:
//   - validate: Parse a catalog and list every dropped record
//   - stats: Print per-section record counts
//
// Usage:
//
//	catalogctl <command> [catalog-path]
//
// Commands:
//
//	validate  Parse the catalog document and report each record that
//	          would be dropped by the server, with its reason. Exits
//	          non-zero when any record is dropped.
//
//	stats     Print total, unique-stream, and per-section counts for
//	          a catalog document.
//
// Environment:
//
//	CATALOG_PATH - Path to catalog JSON (default: /data/catalog.json)
//
// Both the flat-array and the section-keyed map catalog shapes are
// accepted, matching what the server itself loads.
package main
