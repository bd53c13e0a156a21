// Package catalog defines the media catalog domain model: flat session
// records as produced by the crawler, the loader that validates raw JSON
// into records, and the category tree built over them.
//
// The tree is immutable once built. Consumers navigate it through
// NodeAt and filter leaf items with VisibleItems; neither mutates the
// tree, so a single snapshot can be shared across requests.
package catalog
