package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"mindstream/internal/catalog"
)

const defaultSearchLimit = 50

// SearchResult is the response shape of the catalog-wide search.
type SearchResult struct {
	Query      string                `json:"query"`
	Items      []catalog.MediaRecord `json:"items"`
	TotalItems int                   `json:"totalItems"`
}

// Search matches ?q= against session titles across the whole catalog,
// case-insensitively, preserving catalog order. ?limit= caps the
// returned items; the total match count is always reported.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := defaultSearchLimit
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	result := SearchResult{Query: query, Items: []catalog.MediaRecord{}}
	if query == "" {
		writeJSON(w, result)
		return
	}

	needle := strings.ToLower(query)
	for _, rec := range h.catalog.Records() {
		if !strings.Contains(strings.ToLower(rec.Title), needle) {
			continue
		}
		result.TotalItems++
		if len(result.Items) < limit {
			result.Items = append(result.Items, rec)
		}
	}

	writeJSON(w, result)
}
