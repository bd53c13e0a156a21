package database

import (
	"context"
	"fmt"
	"time"
)

// History retention: activations beyond this count are pruned.
const historyKeep = 500

// PlaybackEvent is one recorded activation.
type PlaybackEvent struct {
	StreamURL   string    `json:"streamUrl"`
	Title       string    `json:"title"`
	ActivatedAt time.Time `json:"activatedAt"`
}

// RecordActivation appends an activation to the playback history and
// prunes entries past the retention window.
func (d *Database) RecordActivation(ctx context.Context, streamURL, title string) error {
	err := d.exec(ctx, "record_activation", `
		INSERT INTO history (stream_url, title, activated_at) VALUES (?, ?, ?)
	`, streamURL, title, time.Now().Unix())
	if err != nil {
		return err
	}

	return d.exec(ctx, "prune_history", `
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY id DESC LIMIT ?
		)
	`, historyKeep)
}

// GetHistory returns the most recent activations, newest first.
func (d *Database) GetHistory(ctx context.Context, limit int) ([]PlaybackEvent, error) {
	if limit <= 0 || limit > historyKeep {
		limit = 50
	}

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	rows, err := d.db.QueryContext(opCtx, `
		SELECT stream_url, title, activated_at
		FROM history
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	observe("get_history", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var events []PlaybackEvent
	for rows.Next() {
		var ev PlaybackEvent
		var activatedAt int64
		if err := rows.Scan(&ev.StreamURL, &ev.Title, &activatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		ev.ActivatedAt = time.Unix(activatedAt, 0)
		events = append(events, ev)
	}
	return events, rows.Err()
}
