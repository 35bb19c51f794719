package deck

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/subdeck/internal/card"
	"github.com/verte-zerg/subdeck/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MediaDirName is the clip directory inside a packaged deck.
const MediaDirName = "media"

const dbName = "deck.db"

// SQLiteAssembler packages a deck as a directory holding deck.db plus the
// media/ clips the pipeline already wrote there.
type SQLiteAssembler struct{}

// Assemble writes the deck database next to mediaDir. The clip files are
// referenced by name and must live in MediaDirName under the output path.
func (SQLiteAssembler) Assemble(ctx context.Context, cfg model.DeckConfig, cards []model.CardContent, mediaDir string) error {
	outDir := filepath.Dir(mediaDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &PackagingError{Deck: cfg.OutputDeck, Err: err}
	}
	db, err := sql.Open("sqlite", filepath.Join(outDir, dbName))
	if err != nil {
		return &PackagingError{Deck: cfg.OutputDeck, Err: err}
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close after packaging.
			_ = cerr
		}
	}()
	if err := writeDeck(ctx, db, cfg, cards); err != nil {
		return &PackagingError{Deck: cfg.OutputDeck, Err: err}
	}
	return nil
}

func writeDeck(ctx context.Context, db *sql.DB, cfg model.DeckConfig, cards []model.CardContent) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS deck (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			name TEXT NOT NULL,
			case_sensitive INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			id INTEGER PRIMARY KEY,
			uuid TEXT NOT NULL,
			sentence TEXT NOT NULL,
			translation TEXT NOT NULL,
			clip TEXT NOT NULL
		);`,
		`DELETE FROM deck;`,
		`DELETE FROM cards;`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	caseSensitive := 0
	if cfg.CaseSensitive {
		caseSensitive = 1
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO deck (id, name, case_sensitive, created_at) VALUES (1, ?, ?, ?)`,
		cfg.OutputDeck, caseSensitive, time.Now().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cards (id, uuid, sentence, translation, clip) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, c := range cards {
		if _, err = stmt.ExecContext(ctx, c.ID, c.UUID, c.Sentence, c.Translation, c.ClipFilename); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Deck is a packaged deck read back for review.
type Deck struct {
	Name     string
	Policy   model.CasePolicy
	Cards    []model.CardContent
	MediaDir string
}

// Open reads a packaged deck directory.
func Open(ctx context.Context, path string) (Deck, error) {
	dbPath := filepath.Join(path, dbName)
	if _, err := os.Stat(dbPath); err != nil {
		return Deck{}, fmt.Errorf("failed to open deck: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return Deck{}, fmt.Errorf("failed to open deck database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close for read-only deck.
			_ = cerr
		}
	}()

	d := Deck{MediaDir: filepath.Join(path, MediaDirName)}
	var caseSensitive int
	row := db.QueryRowContext(ctx, `SELECT name, case_sensitive FROM deck WHERE id = 1`)
	if err := row.Scan(&d.Name, &caseSensitive); err != nil {
		return Deck{}, fmt.Errorf("failed to read deck metadata: %w", err)
	}
	if caseSensitive == 1 {
		d.Policy = model.CaseSensitive
	} else {
		d.Policy = model.CaseFoldLower
	}

	rows, err := db.QueryContext(ctx, `SELECT id, uuid, sentence, translation, clip FROM cards ORDER BY id ASC`)
	if err != nil {
		return Deck{}, fmt.Errorf("failed to read cards: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var c model.CardContent
		if err := rows.Scan(&c.ID, &c.UUID, &c.Sentence, &c.Translation, &c.ClipFilename); err != nil {
			return Deck{}, fmt.Errorf("failed to scan card: %w", err)
		}
		c.DeckName = d.Name
		c.ExpectedWords = card.Tokenize(c.Sentence)
		d.Cards = append(d.Cards, c)
	}
	if err := rows.Err(); err != nil {
		return Deck{}, fmt.Errorf("failed to read cards: %w", err)
	}
	if strings.TrimSpace(d.Name) == "" {
		return Deck{}, fmt.Errorf("deck has no name")
	}
	return d, nil
}
