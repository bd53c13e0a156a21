package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"mindstream/internal/catalog"
	"mindstream/internal/database"
	"mindstream/internal/indexer"
	"mindstream/internal/session"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeCatalog struct {
	records   []catalog.MediaRecord
	dropped   int
	health    indexer.HealthStatus
	reloadErr error
	reloads   int
}

func (f *fakeCatalog) Tree() *catalog.CategoryNode      { return catalog.BuildTree(f.records) }
func (f *fakeCatalog) Records() []catalog.MediaRecord   { return f.records }
func (f *fakeCatalog) Stats() catalog.Stats             { return catalog.CountStats(f.records) }
func (f *fakeCatalog) DroppedCount() int                { return f.dropped }
func (f *fakeCatalog) GetHealthStatus() indexer.HealthStatus { return f.health }

func (f *fakeCatalog) Reload() error {
	f.reloads++
	return f.reloadErr
}

type fakeStore struct {
	favorites map[string]database.Favorite
	history   []database.PlaybackEvent

	addFavoriteErr error
	getHistoryErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{favorites: make(map[string]database.Favorite)}
}

func (f *fakeStore) AddFavorite(_ context.Context, fav database.Favorite) error {
	if f.addFavoriteErr != nil {
		return f.addFavoriteErr
	}
	f.favorites[fav.StreamURL] = fav
	return nil
}

func (f *fakeStore) RemoveFavorite(_ context.Context, streamURL string) error {
	delete(f.favorites, streamURL)
	return nil
}

func (f *fakeStore) IsFavorite(_ context.Context, streamURL string) bool {
	_, ok := f.favorites[streamURL]
	return ok
}

func (f *fakeStore) GetFavorites(_ context.Context) ([]database.Favorite, error) {
	favs := make([]database.Favorite, 0, len(f.favorites))
	for _, fav := range f.favorites {
		favs = append(favs, fav)
	}
	return favs, nil
}

func (f *fakeStore) RecordActivation(_ context.Context, streamURL, title string) error {
	f.history = append(f.history, database.PlaybackEvent{
		StreamURL:   streamURL,
		Title:       title,
		ActivatedAt: time.Now(),
	})
	return nil
}

func (f *fakeStore) GetHistory(_ context.Context, limit int) ([]database.PlaybackEvent, error) {
	if f.getHistoryErr != nil {
		return nil, f.getHistoryErr
	}
	events := make([]database.PlaybackEvent, 0, len(f.history))
	for i := len(f.history) - 1; i >= 0; i-- {
		if limit > 0 && len(events) == limit {
			break
		}
		events = append(events, f.history[i])
	}
	return events, nil
}

func (f *fakeStore) GetCounts(_ context.Context) database.Counts {
	return database.Counts{Favorites: len(f.favorites), History: len(f.history)}
}

// =============================================================================
// Shared fixtures
// =============================================================================

func sampleRecords() []catalog.MediaRecord {
	return []catalog.MediaRecord{
		{
			Title:     "Morning Calm",
			MediaType: catalog.MediaTypeAudio,
			StreamURL: "https://cdn.example.com/audio/morning-calm.m4a",
			Section:   "Meditation",
			Pack:      "7 Days of Calm",
		},
		{
			Title:     "Deep Sleep Story",
			MediaType: catalog.MediaTypeAudio,
			StreamURL: "https://cdn.example.com/audio/deep-sleep.m4a",
			Section:   "Sleep",
		},
		{
			Title:     "Sun Salutation Flow",
			MediaType: catalog.MediaTypeVideo,
			StreamURL: "https://cdn.example.com/video/sun-salutation.mp4",
			Section:   "Yoga",
			Pack:      "Morning Flows",
		},
		{
			Title:     "Evening Wind Down",
			MediaType: catalog.MediaTypeVideo,
			StreamURL: "https://cdn.example.com/video/wind-down.mp4",
			Section:   "Yoga",
			Pack:      "Morning Flows",
		},
	}
}

// newTestServer wires real handlers against fakes and a real session
// store, with the same routes main registers.
func newTestServer(fc *fakeCatalog, fs *fakeStore) (*Handlers, *mux.Router) {
	h := New(fc, fs, session.NewStore(time.Hour))

	r := mux.NewRouter()
	r.HandleFunc("/api/sections", h.Sections).Methods(http.MethodGet)
	r.HandleFunc("/api/browse", h.Browse).Methods(http.MethodGet)
	r.HandleFunc("/api/search", h.Search).Methods(http.MethodGet)
	r.HandleFunc("/api/session", h.CreateSession).Methods(http.MethodPost)
	r.HandleFunc("/api/session/{id}", h.GetSession).Methods(http.MethodGet)
	r.HandleFunc("/api/session/{id}/navigate", h.Navigate).Methods(http.MethodPost)
	r.HandleFunc("/api/session/{id}/activate", h.Activate).Methods(http.MethodPost)
	r.HandleFunc("/api/session/{id}/player", h.PlayerEvent).Methods(http.MethodPost)
	r.HandleFunc("/api/favorites", h.GetFavorites).Methods(http.MethodGet)
	r.HandleFunc("/api/favorites", h.AddFavorite).Methods(http.MethodPost)
	r.HandleFunc("/api/favorites", h.RemoveFavorite).Methods(http.MethodDelete)
	r.HandleFunc("/api/favorites/check", h.CheckFavorite).Methods(http.MethodGet)
	r.HandleFunc("/api/history", h.GetHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", h.GetStats).Methods(http.MethodGet)
	r.HandleFunc("/api/reload", h.Reload).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	return h, r
}

func TestNewHandlers(t *testing.T) {
	fc := &fakeCatalog{records: sampleRecords()}
	fs := newFakeStore()
	h := New(fc, fs, session.NewStore(time.Hour))

	if h.catalog != CatalogSource(fc) {
		t.Error("Expected catalog source to be stored")
	}
	if h.db != Store(fs) {
		t.Error("Expected store to be stored")
	}
	if h.sessions == nil {
		t.Error("Expected session store to be stored")
	}
}
