package sink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/neonalpha/alpha-term/internal/api"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS alerts (
	id            TEXT PRIMARY KEY,
	monitor_id    TEXT NOT NULL DEFAULT '',
	platform      TEXT NOT NULL,
	post_id       TEXT NOT NULL,
	author_handle TEXT NOT NULL,
	author_name   TEXT NOT NULL DEFAULT '',
	text          TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	archived_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alerts_handle ON alerts(author_handle);
CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at);
`

// SQLiteSink archives surfaced alerts into a local SQLite database.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) the archive database at path.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping archive db: %w", err)
	}

	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Name returns "sqlite".
func (s *SQLiteSink) Name() string {
	return "sqlite"
}

// Write inserts one alert. Re-inserting a known ID is a no-op so a
// restarted session never duplicates archive rows.
func (s *SQLiteSink) Write(ctx context.Context, alert *api.Alert) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO alerts
			(id, monitor_id, platform, post_id, author_handle, author_name, text, created_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		alert.ID,
		alert.MonitorID,
		string(alert.EffectivePlatform()),
		alert.PostID,
		alert.AuthorHandle,
		alert.AuthorName,
		alert.Text,
		alert.CreatedAt,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// Count returns the number of archived alerts.
func (s *SQLiteSink) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count alerts: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
