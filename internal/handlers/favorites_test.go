package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mindstream/internal/database"
)

func TestFavoritesLifecycle(t *testing.T) {
	fs := newFakeStore()
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, fs)

	streamURL := "https://cdn.example.com/audio/morning-calm.m4a"

	// Empty to start
	w := doGet(t, router, "/api/favorites")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var favs []database.Favorite
	if err := json.Unmarshal(w.Body.Bytes(), &favs); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(favs) != 0 {
		t.Fatalf("Expected no favorites, got %d", len(favs))
	}

	// Add
	w = doJSON(t, router, http.MethodPost, "/api/favorites", FavoriteRequest{URL: streamURL})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	// Metadata is resolved from the catalog
	fav, ok := fs.favorites[streamURL]
	if !ok {
		t.Fatal("Expected favorite to be stored")
	}
	if fav.Title != "Morning Calm" || fav.Section != "Meditation" {
		t.Errorf("Expected catalog metadata on favorite, got %+v", fav)
	}

	// Check
	w = doGet(t, router, "/api/favorites/check?url="+streamURL)
	var check map[string]bool
	if err := json.Unmarshal(w.Body.Bytes(), &check); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !check["isFavorite"] {
		t.Error("Expected isFavorite=true")
	}

	// Remove
	w = doJSON(t, router, http.MethodDelete, "/api/favorites", FavoriteRequest{URL: streamURL})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(fs.favorites) != 0 {
		t.Errorf("Expected favorite removed, got %d", len(fs.favorites))
	}
}

func TestAddFavoriteUnknownURL(t *testing.T) {
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, newFakeStore())

	w := doJSON(t, router, http.MethodPost, "/api/favorites",
		FavoriteRequest{URL: "https://cdn.example.com/not-in-catalog.m4a"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestFavoritesBadRequests(t *testing.T) {
	_, router := newTestServer(&fakeCatalog{records: sampleRecords()}, newFakeStore())

	tests := []struct {
		name   string
		method string
		target string
	}{
		{"add without url", http.MethodPost, "/api/favorites"},
		{"remove without url", http.MethodDelete, "/api/favorites"},
		{"check without url", http.MethodGet, "/api/favorites/check"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			if tt.method == http.MethodGet {
				w = doGet(t, router, tt.target)
			} else {
				w = doJSON(t, router, tt.method, tt.target, FavoriteRequest{})
			}
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}
