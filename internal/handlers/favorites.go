package handlers

import (
	"encoding/json"
	"net/http"

	"mindstream/internal/database"
)

// FavoriteRequest is the body of the add/remove favorite endpoints.
type FavoriteRequest struct {
	URL string `json:"url"`
}

// GetFavorites lists all bookmarked sessions, newest first.
func (h *Handlers) GetFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.db.GetFavorites(r.Context())
	if err != nil {
		writeJSONError(w, "failed to get favorites", http.StatusInternalServerError)
		return
	}
	if favorites == nil {
		favorites = []database.Favorite{}
	}
	writeJSON(w, favorites)
}

// AddFavorite bookmarks a catalog session by stream URL. The URL must
// exist in the current catalog so favorites carry real titles.
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSONError(w, "url is required", http.StatusBadRequest)
		return
	}

	rec, found := h.findRecord(req.URL)
	if !found {
		writeJSONError(w, "unknown stream url", http.StatusNotFound)
		return
	}

	fav := database.Favorite{
		StreamURL: rec.StreamURL,
		Title:     rec.Title,
		Section:   rec.Section,
		Pack:      rec.Pack,
	}
	if err := h.db.AddFavorite(r.Context(), fav); err != nil {
		writeJSONError(w, "failed to add favorite", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "ok")
}

// RemoveFavorite deletes a bookmark.
func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	var req FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSONError(w, "url is required", http.StatusBadRequest)
		return
	}

	if err := h.db.RemoveFavorite(r.Context(), req.URL); err != nil {
		writeJSONError(w, "failed to remove favorite", http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "ok")
}

// CheckFavorite reports whether ?url= is bookmarked.
func (h *Handlers) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeJSONError(w, "url is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]bool{"isFavorite": h.db.IsFavorite(r.Context(), url)})
}
