package handlers

import (
	"net/http"
	"strconv"

	"mindstream/internal/database"
)

// GetHistory returns recent playback activations, newest first.
// ?limit= caps the result; the store applies its own default and maximum.
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	events, err := h.db.GetHistory(r.Context(), limit)
	if err != nil {
		writeJSONError(w, "failed to get history", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []database.PlaybackEvent{}
	}
	writeJSON(w, events)
}
