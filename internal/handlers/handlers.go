package handlers

import (
	"context"

	"mindstream/internal/catalog"
	"mindstream/internal/database"
	"mindstream/internal/indexer"
	"mindstream/internal/session"
)

// CatalogSource provides the current catalog snapshot.
type CatalogSource interface {
	Tree() *catalog.CategoryNode
	Records() []catalog.MediaRecord
	Stats() catalog.Stats
	DroppedCount() int
	GetHealthStatus() indexer.HealthStatus
	Reload() error
}

// Store persists favorites and playback history.
type Store interface {
	AddFavorite(ctx context.Context, fav database.Favorite) error
	RemoveFavorite(ctx context.Context, streamURL string) error
	IsFavorite(ctx context.Context, streamURL string) bool
	GetFavorites(ctx context.Context) ([]database.Favorite, error)
	RecordActivation(ctx context.Context, streamURL, title string) error
	GetHistory(ctx context.Context, limit int) ([]database.PlaybackEvent, error)
	GetCounts(ctx context.Context) database.Counts
}

// Handlers bundles the HTTP handlers and their dependencies.
type Handlers struct {
	catalog  CatalogSource
	db       Store
	sessions *session.Store
}

// New creates the handler set.
func New(catalogSource CatalogSource, db Store, sessions *session.Store) *Handlers {
	return &Handlers{
		catalog:  catalogSource,
		db:       db,
		sessions: sessions,
	}
}
