package catalog

import (
	"sort"
	"strings"
)

// CategoryNode is one node of the category tree: child categories keyed
// by label plus the media records that live directly at this node.
type CategoryNode struct {
	Children map[string]*CategoryNode `json:"children,omitempty"`
	Items    []MediaRecord            `json:"items,omitempty"`
}

// NewNode returns an empty category node.
func NewNode() *CategoryNode {
	return &CategoryNode{Children: make(map[string]*CategoryNode)}
}

// BuildTree constructs the category tree for a record sequence. Each
// record is appended to the node at the end of its category path,
// creating intermediate nodes on demand. Item order within a node
// follows input order, and duplicate stream URLs are retained as-is;
// the crawler output may legitimately repeat a URL across packs.
func BuildTree(records []MediaRecord) *CategoryNode {
	root := NewNode()
	for _, rec := range records {
		node := root
		for _, label := range rec.CategoryPath() {
			child, ok := node.Children[label]
			if !ok {
				child = NewNode()
				node.Children[label] = child
			}
			node = child
		}
		node.Items = append(node.Items, rec)
	}
	return root
}

// NodeAt resolves a category path from root. A nil root or a missing
// segment yields an empty synthetic node rather than an error, so
// callers holding a stale path across a catalog reload degrade to an
// empty listing instead of failing.
func NodeAt(root *CategoryNode, path []string) *CategoryNode {
	if root == nil {
		return NewNode()
	}
	node := root
	for _, label := range path {
		child, ok := node.Children[label]
		if !ok {
			return NewNode()
		}
		node = child
	}
	return node
}

// HasChild reports whether node has a direct child with the given label.
func (n *CategoryNode) HasChild(label string) bool {
	if n == nil {
		return false
	}
	_, ok := n.Children[label]
	return ok
}

// ChildLabels returns the node's direct child labels in sorted order.
func (n *CategoryNode) ChildLabels() []string {
	if n == nil {
		return nil
	}
	labels := make([]string, 0, len(n.Children))
	for label := range n.Children {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// TotalItems counts the records in this node and all of its descendants.
func (n *CategoryNode) TotalItems() int {
	if n == nil {
		return 0
	}
	total := len(n.Items)
	for _, child := range n.Children {
		total += child.TotalItems()
	}
	return total
}

// Flatten walks the tree and returns every record it contains. Children
// are visited in sorted label order after the node's own items, so the
// result is deterministic; as a multiset it equals the BuildTree input.
func Flatten(root *CategoryNode) []MediaRecord {
	if root == nil {
		return nil
	}
	records := append([]MediaRecord(nil), root.Items...)
	for _, label := range root.ChildLabels() {
		records = append(records, Flatten(root.Children[label])...)
	}
	return records
}

// VisibleItems returns the node's items whose title contains query,
// compared case-insensitively, preserving item order. An empty query
// matches everything. The node is never mutated.
func VisibleItems(n *CategoryNode, query string) []MediaRecord {
	if n == nil {
		return nil
	}
	if query == "" {
		return append([]MediaRecord(nil), n.Items...)
	}
	needle := strings.ToLower(query)
	var matched []MediaRecord
	for _, item := range n.Items {
		if strings.Contains(strings.ToLower(item.Title), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Stats summarizes a loaded catalog.
type Stats struct {
	TotalRecords  int            `json:"totalRecords"`
	UniqueStreams int            `json:"uniqueStreams"`
	Sections      map[string]int `json:"sections"`
}

// CountStats computes catalog statistics from a record sequence. The
// unique stream count matches what the crawler reports, since the same
// CDN URL can appear under more than one pack.
func CountStats(records []MediaRecord) Stats {
	stats := Stats{
		TotalRecords: len(records),
		Sections:     make(map[string]int),
	}
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		stats.Sections[rec.Section]++
		if _, ok := seen[rec.StreamURL]; !ok {
			seen[rec.StreamURL] = struct{}{}
			stats.UniqueStreams++
		}
	}
	return stats
}
