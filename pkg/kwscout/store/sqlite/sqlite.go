package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/kwscout/pkg/kwscout/internalerr"
	"github.com/cognicore/kwscout/pkg/kwscout/store"
)

// sqliteStore implements the SignalStore interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and ensures the schema.
func OpenSQLite(ctx context.Context, path string) (store.SignalStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	// A single writer connection keeps concurrent upserts from hitting SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS trends (
	phrase TEXT PRIMARY KEY,
	score INTEGER NOT NULL,
	observed_at TEXT
);

CREATE TABLE IF NOT EXISTS metrics (
	phrase TEXT PRIMARY KEY,
	volume INTEGER NOT NULL,
	competition REAL NOT NULL,
	observed_at TEXT
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertTrend inserts or replaces the trend score of a phrase
func (s *sqliteStore) UpsertTrend(ctx context.Context, phrase string, score int, observedAt time.Time) error {
	key := store.NormalizePhrase(phrase)
	if key == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO trends (phrase, score, observed_at) VALUES (?, ?, ?)
ON CONFLICT(phrase) DO UPDATE SET score=excluded.score, observed_at=excluded.observed_at;
`, key, score, formatTime(observedAt))
	return err
}

// GetTrend retrieves the trend score of a phrase
func (s *sqliteStore) GetTrend(ctx context.Context, phrase string) (store.Trend, bool, error) {
	key := store.NormalizePhrase(phrase)
	var (
		t        store.Trend
		observed sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `SELECT phrase, score, observed_at FROM trends WHERE phrase=?`, key).
		Scan(&t.Phrase, &t.Score, &observed)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Trend{}, false, nil
	}
	if err != nil {
		return store.Trend{}, false, err
	}
	t.ObservedAt = parseTime(observed)
	return t, true, nil
}

// UpsertMetrics inserts or replaces the commercial metrics of a phrase
func (s *sqliteStore) UpsertMetrics(ctx context.Context, phrase string, volume int, competition float64, observedAt time.Time) error {
	key := store.NormalizePhrase(phrase)
	if key == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO metrics (phrase, volume, competition, observed_at) VALUES (?, ?, ?, ?)
ON CONFLICT(phrase) DO UPDATE SET
	volume=excluded.volume,
	competition=excluded.competition,
	observed_at=excluded.observed_at;
`, key, volume, competition, formatTime(observedAt))
	return err
}

// GetMetrics retrieves the commercial metrics of a phrase
func (s *sqliteStore) GetMetrics(ctx context.Context, phrase string) (store.Metrics, bool, error) {
	key := store.NormalizePhrase(phrase)
	var (
		m        store.Metrics
		observed sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `SELECT phrase, volume, competition, observed_at FROM metrics WHERE phrase=?`, key).
		Scan(&m.Phrase, &m.Volume, &m.Competition, &observed)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Metrics{}, false, nil
	}
	if err != nil {
		return store.Metrics{}, false, err
	}
	m.ObservedAt = parseTime(observed)
	return m, true, nil
}

// Phrases lists every phrase with a trend or metrics row
func (s *sqliteStore) Phrases(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT phrase FROM trends
UNION
SELECT phrase FROM metrics
ORDER BY phrase;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
