package handlers

import (
	"net/http"

	"mindstream/internal/catalog"
	"mindstream/internal/database"
	"mindstream/internal/logging"
)

// StatsResponse summarizes the catalog and the persistence layer.
type StatsResponse struct {
	Catalog        catalog.Stats   `json:"catalog"`
	Dropped        int             `json:"dropped"`
	ActiveSessions int             `json:"activeSessions"`
	Database       database.Counts `json:"database"`
}

// GetStats returns catalog, session, and database counters.
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	response := StatsResponse{
		Catalog:        h.catalog.Stats(),
		Dropped:        h.catalog.DroppedCount(),
		ActiveSessions: h.sessions.Count(),
		Database:       h.db.GetCounts(r.Context()),
	}
	writeJSON(w, response)
}

// Reload triggers a manual catalog reload.
func (h *Handlers) Reload(w http.ResponseWriter, _ *http.Request) {
	if err := h.catalog.Reload(); err != nil {
		logging.Error("manual catalog reload failed: %v", err)
		writeJSONError(w, "catalog reload failed", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "reloaded")
}
