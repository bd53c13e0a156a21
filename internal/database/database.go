package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"mindstream/internal/logging"
	"mindstream/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// Database manages the SQLite store for favorites and playback history.
type Database struct {
	db     *sql.DB
	dbPath string
}

// New opens (or creates) the database at dbPath. The parent directory
// must already exist and be writable; startup.LoadConfig verifies that.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	// WAL mode plus busy_timeout keeps concurrent handler reads from
	// tripping over "database is locked" errors.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{db: db, dbPath: dbPath}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS favorites (
		stream_url TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		section TEXT NOT NULL,
		pack TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_favorites_created_at ON favorites(created_at);

	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stream_url TEXT NOT NULL,
		title TEXT NOT NULL,
		activated_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_history_activated_at ON history(activated_at);
	`

	initCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := d.db.ExecContext(initCtx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (d *Database) Close() error {
	return d.db.Close()
}

// Counts summarizes stored rows for stats and health endpoints.
type Counts struct {
	Favorites int `json:"favorites"`
	History   int `json:"history"`
}

// GetCounts returns row counts per table.
func (d *Database) GetCounts(ctx context.Context) Counts {
	var counts Counts
	if err := d.queryRow(ctx, "count_favorites", "SELECT COUNT(*) FROM favorites", &counts.Favorites); err != nil {
		logging.Error("failed to count favorites: %v", err)
	}
	if err := d.queryRow(ctx, "count_history", "SELECT COUNT(*) FROM history", &counts.History); err != nil {
		logging.Error("failed to count history: %v", err)
	}
	return counts
}

// queryRow runs a single-value query with the standard timeout and
// metrics accounting.
func (d *Database) queryRow(ctx context.Context, operation, query string, dest interface{}, args ...interface{}) error {
	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	err := d.db.QueryRowContext(opCtx, query, args...).Scan(dest)
	observe(operation, start, err)
	return err
}

// exec runs a statement with the standard timeout and metrics
// accounting.
func (d *Database) exec(ctx context.Context, operation, query string, args ...interface{}) error {
	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	start := time.Now()
	_, err := d.db.ExecContext(opCtx, query, args...)
	observe(operation, start, err)
	return err
}

func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueriesTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
