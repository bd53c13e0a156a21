// Package handlers implements the HTTP API: catalog browsing and
// search, per-session navigation and playback activation, favorites,
// playback history, and the health/version endpoints.
//
// Dependencies are consumed through small interfaces so handler tests
// run against in-memory fakes instead of a real catalog or database.
package handlers
