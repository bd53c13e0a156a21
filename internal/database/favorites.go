package database

import (
	"context"
	"fmt"
	"time"
)

// Favorite is one bookmarked session.
type Favorite struct {
	StreamURL string    `json:"streamUrl"`
	Title     string    `json:"title"`
	Section   string    `json:"section"`
	Pack      string    `json:"pack,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddFavorite bookmarks a session by stream URL. Re-adding an existing
// favorite is a no-op.
func (d *Database) AddFavorite(ctx context.Context, fav Favorite) error {
	query := `
		INSERT INTO favorites (stream_url, title, section, pack, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(stream_url) DO NOTHING
	`
	return d.exec(ctx, "add_favorite", query, fav.StreamURL, fav.Title, fav.Section, fav.Pack, time.Now().Unix())
}

// RemoveFavorite removes a bookmark.
func (d *Database) RemoveFavorite(ctx context.Context, streamURL string) error {
	return d.exec(ctx, "remove_favorite", "DELETE FROM favorites WHERE stream_url = ?", streamURL)
}

// IsFavorite reports whether a stream URL is bookmarked.
func (d *Database) IsFavorite(ctx context.Context, streamURL string) bool {
	var count int
	if err := d.queryRow(ctx, "is_favorite", "SELECT COUNT(*) FROM favorites WHERE stream_url = ?", &count, streamURL); err != nil {
		return false
	}
	return count > 0
}

// GetFavorites returns all bookmarks, most recent first.
func (d *Database) GetFavorites(ctx context.Context) ([]Favorite, error) {
	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	rows, err := d.db.QueryContext(opCtx, `
		SELECT stream_url, title, section, pack, created_at
		FROM favorites
		ORDER BY created_at DESC, stream_url
	`)
	observe("get_favorites", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var fav Favorite
		var createdAt int64
		if err := rows.Scan(&fav.StreamURL, &fav.Title, &fav.Section, &fav.Pack, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		fav.CreatedAt = time.Unix(createdAt, 0)
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}
