// Package indexer owns the catalog lifecycle: the one-time fetch of
// the crawler's JSON document, parsing it into records and the category
// tree, and atomically publishing the resulting snapshot. It optionally
// watches the catalog file and rebuilds on change, so re-running the
// crawler is picked up without a restart.
//
// A failed load never tears the service down. Before the first
// successful load the published snapshot is an empty root, and a failed
// reload keeps the previous snapshot in place.
package indexer
