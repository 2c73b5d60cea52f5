package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/signalyze/sentinel/internal/domain"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// RunRepository handles database operations for runs and their comments.
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository.
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun inserts a run record along with its annotated comments in one
// transaction.
func (r *RunRepository) SaveRun(ctx context.Context, run *Run, comments []domain.AnnotatedComment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	runQuery := `
		INSERT INTO runs (
			id, started_at, finished_at, input_count, normalized_count,
			deduped_count, relevant_count, annotated_count
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, runQuery,
		run.ID, run.StartedAt, run.FinishedAt, run.InputCount,
		run.NormalizedCount, run.DedupedCount, run.RelevantCount,
		run.AnnotatedCount,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	commentQuery := `
		INSERT INTO comments (
			run_id, source, timestamp, username, content, url, engagement,
			sentiment, sentiment_score, category1, category2, category3
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i := range comments {
		c := &comments[i]
		if _, err := tx.ExecContext(ctx, commentQuery,
			run.ID, c.Source, c.Timestamp, c.Username, c.Content, c.URL,
			c.Engagement, c.Sentiment, c.SentimentScore,
			c.Category1, c.Category2, c.Category3,
		); err != nil {
			return fmt.Errorf("failed to insert comment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run record by ID.
func (r *RunRepository) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	query := `
		SELECT id, started_at, finished_at, input_count, normalized_count,
		       deduped_count, relevant_count, annotated_count
		FROM runs
		WHERE id = ?
	`
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves runs in reverse chronological order.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	var runs []*Run
	query := `
		SELECT id, started_at, finished_at, input_count, normalized_count,
		       deduped_count, relevant_count, annotated_count
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetComments retrieves the annotated comments for a run, in insertion
// order.
func (r *RunRepository) GetComments(ctx context.Context, runID string) ([]domain.AnnotatedComment, error) {
	var comments []domain.AnnotatedComment
	query := `
		SELECT source, timestamp, username, content, url, engagement,
		       sentiment, sentiment_score, category1, category2, category3
		FROM comments
		WHERE run_id = ?
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &comments, query, runID); err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	return comments, nil
}

// AnalysisStats summarizes everything stored across runs.
type AnalysisStats struct {
	TotalRuns     int            `json:"total_runs"`
	TotalComments int            `json:"total_comments"`
	Sentiments    map[string]int `json:"sentiments"`
	Categories    map[string]int `json:"categories"`
}

// GetStats retrieves aggregate statistics over all stored runs.
func (r *RunRepository) GetStats(ctx context.Context) (*AnalysisStats, error) {
	stats := &AnalysisStats{
		Sentiments: make(map[string]int),
		Categories: make(map[string]int),
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM runs) AS total_runs,
			(SELECT COUNT(*) FROM comments) AS total_comments
	`
	if err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalRuns, &stats.TotalComments); err != nil {
		return nil, fmt.Errorf("failed to get totals: %w", err)
	}

	if err := r.countsBy(ctx, "sentiment", stats.Sentiments); err != nil {
		return nil, err
	}
	if err := r.countsBy(ctx, "category1", stats.Categories); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *RunRepository) countsBy(ctx context.Context, column string, dst map[string]int) error {
	// column comes from a fixed call site, never from user input.
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM comments GROUP BY %s`, column, column)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to count by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		dst[key] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s counts: %w", column, err)
	}
	return nil
}
