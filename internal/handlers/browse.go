package handlers

import (
	"net/http"
	"strings"

	"mindstream/internal/catalog"
)

// CategorySummary describes one child category in a node listing.
type CategorySummary struct {
	Label      string `json:"label"`
	Categories int    `json:"categories"`
	Items      int    `json:"items"`
	TotalItems int    `json:"totalItems"`
}

// NodeView is the browsable view of one tree position.
type NodeView struct {
	Path       []string              `json:"path"`
	Categories []CategorySummary     `json:"categories"`
	Items      []catalog.MediaRecord `json:"items"`
}

// nodeView renders node (at path) with items filtered by query.
func nodeView(node *catalog.CategoryNode, path []string, query string) NodeView {
	view := NodeView{
		Path:       path,
		Categories: []CategorySummary{},
		Items:      []catalog.MediaRecord{},
	}
	if path == nil {
		view.Path = []string{}
	}

	for _, label := range node.ChildLabels() {
		child := node.Children[label]
		view.Categories = append(view.Categories, CategorySummary{
			Label:      label,
			Categories: len(child.Children),
			Items:      len(child.Items),
			TotalItems: child.TotalItems(),
		})
	}

	if items := catalog.VisibleItems(node, query); items != nil {
		view.Items = items
	}
	return view
}

// parseBrowsePath splits a slash-separated category path. Labels may
// themselves never contain slashes; the crawler's sanitizer guarantees
// that.
func parseBrowsePath(raw string) []string {
	raw = strings.Trim(raw, "/")
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, "/")
}

// Sections lists the top-level categories.
func (h *Handlers) Sections(w http.ResponseWriter, _ *http.Request) {
	view := nodeView(h.catalog.Tree(), []string{}, "")
	writeJSON(w, view.Categories)
}

// Browse returns the listing at ?path=, optionally filtered by ?q=.
// Unknown paths yield an empty listing, not an error: the catalog may
// have been reloaded under a client holding an old path.
func (h *Handlers) Browse(w http.ResponseWriter, r *http.Request) {
	path := parseBrowsePath(r.URL.Query().Get("path"))
	query := r.URL.Query().Get("q")

	node := catalog.NodeAt(h.catalog.Tree(), path)
	writeJSON(w, nodeView(node, path, query))
}
