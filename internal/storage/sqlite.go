// Package storage persists analysis runs and their annotated comments in
// SQLite so results survive past the CSV output and can be served over the
// API.
package storage

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

const (
	// DefaultPath is where the run database lives unless configured
	// otherwise.
	DefaultPath = "sentinel.db"

	busyTimeoutMs = 5000
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	started_at      TIMESTAMP NOT NULL,
	finished_at     TIMESTAMP NOT NULL,
	input_count     INTEGER NOT NULL,
	normalized_count INTEGER NOT NULL,
	deduped_count   INTEGER NOT NULL,
	relevant_count  INTEGER NOT NULL,
	annotated_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS comments (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL REFERENCES runs(id),
	source          TEXT NOT NULL,
	timestamp       TEXT NOT NULL,
	username        TEXT NOT NULL,
	content         TEXT NOT NULL,
	url             TEXT NOT NULL,
	engagement      INTEGER NOT NULL,
	sentiment       TEXT NOT NULL,
	sentiment_score REAL NOT NULL,
	category1       TEXT NOT NULL,
	category2       TEXT NOT NULL,
	category3       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_run ON comments(run_id);
CREATE INDEX IF NOT EXISTS idx_comments_sentiment ON comments(sentiment);
`

// Run records one pipeline execution and its per-stage record counts.
type Run struct {
	ID              string    `db:"id"              json:"id"`
	StartedAt       time.Time `db:"started_at"      json:"started_at"`
	FinishedAt      time.Time `db:"finished_at"     json:"finished_at"`
	InputCount      int       `db:"input_count"     json:"input_count"`
	NormalizedCount int       `db:"normalized_count" json:"normalized_count"`
	DedupedCount    int       `db:"deduped_count"   json:"deduped_count"`
	RelevantCount   int       `db:"relevant_count"  json:"relevant_count"`
	AnnotatedCount  int       `db:"annotated_count" json:"annotated_count"`
}

// Open connects to the SQLite database at path, creating it and the schema
// if needed. Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*sqlx.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, busyTimeoutMs)
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if path == ":memory:" {
		// Each pooled connection would get its own in-memory database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
