// Package deck packages cards and clips into a distributable deck and reads
// them back for review.
package deck

import (
	"context"
	"fmt"

	"github.com/verte-zerg/subdeck/internal/model"
)

// Assembler consumes finished cards plus their clip directory and emits a
// distributable package. Its container format is its own business.
type Assembler interface {
	Assemble(ctx context.Context, cfg model.DeckConfig, cards []model.CardContent, mediaDir string) error
}

// PackagingError is an assembler-level failure, fatal for the enclosing
// configuration.
type PackagingError struct {
	Deck string
	Err  error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("failed to package deck %s: %v", e.Deck, e.Err)
}

func (e *PackagingError) Unwrap() error { return e.Err }
