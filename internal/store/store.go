// Package store handles SQLite persistence for the review log.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/subdeck/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for review data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reviews (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			deck TEXT NOT NULL,
			card_id INTEGER NOT NULL,
			card_uuid TEXT NOT NULL,
			words INTEGER NOT NULL,
			mistyped INTEGER NOT NULL,
			hinted INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS review_word_stats (
			review_id INTEGER NOT NULL,
			word TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			PRIMARY KEY (review_id, word)
		);`,
		`CREATE TABLE IF NOT EXISTS word_mistakes (
			review_id INTEGER NOT NULL,
			word_index INTEGER NOT NULL,
			expected TEXT NOT NULL,
			attempt TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_ended_at ON reviews(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_review_word_stats_word ON review_word_stats(word);`,
		`CREATE INDEX IF NOT EXISTS idx_word_mistakes_expected ON word_mistakes(expected);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertReview stores a completed card review with its per-word outcomes
// and the text of every wrong attempt.
func (s *Store) InsertReview(ctx context.Context, stats model.ReviewStats, words []model.WordStats, mistakes []model.WordMistake) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (started_at, ended_at, deck, card_id, card_uuid, words, mistyped, hinted, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.Deck,
		stats.CardID,
		stats.CardUUID,
		stats.Words,
		stats.Mistyped,
		stats.Hinted,
		stats.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(words) > 0 {
		// Assign to the named err so the deferred rollback sees failures.
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO review_word_stats (review_id, word, correct, incorrect)
			 VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, ws := range words {
			if _, err = stmt.ExecContext(ctx, id, ws.Word, ws.Correct, ws.Incorrect); err != nil {
				return 0, err
			}
		}
	}

	if len(mistakes) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO word_mistakes (review_id, word_index, expected, attempt)
			 VALUES (?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, m := range mistakes {
			if _, err = stmt.ExecContext(ctx, id, m.WordIndex, m.Expected, m.Attempt); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListReviews returns review aggregates filtered by stats config, oldest first.
func (s *Store) ListReviews(ctx context.Context, cfg model.StatsConfig) ([]model.ReviewAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Deck != "" {
		clauses = append(clauses, "deck = ?")
		args = append(args, cfg.Deck)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, words, mistyped, duration_ms
		FROM reviews
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var reviews []model.ReviewAggregate
	for rows.Next() {
		var agg model.ReviewAggregate
		var endedAt string
		if err := rows.Scan(&agg.ReviewID, &endedAt, &agg.Words, &agg.Mistyped, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		reviews = append(reviews, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(reviews) > cfg.Last {
		reviews = reviews[len(reviews)-cfg.Last:]
	}
	return reviews, nil
}

// ListWordAggregatesForReviews aggregates per-word mistake counts across reviews.
func (s *Store) ListWordAggregatesForReviews(ctx context.Context, reviewIDs []int64) ([]model.WordAggregate, error) {
	if len(reviewIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(reviewIDs))
	args := make([]any, len(reviewIDs))
	for i, id := range reviewIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT word, SUM(correct) AS correct, SUM(incorrect) AS incorrect
		FROM review_word_stats
		WHERE review_id IN (%s)
		GROUP BY word
		ORDER BY incorrect DESC, word ASC`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Word, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListMistakesForWord returns the distinct wrong attempts logged for a word.
func (s *Store) ListMistakesForWord(ctx context.Context, word string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT attempt FROM word_mistakes WHERE expected = ? ORDER BY attempt ASC`, word)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []string
	for rows.Next() {
		var attempt string
		if err := rows.Scan(&attempt); err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}
