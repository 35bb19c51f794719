// Package card turns utterances and clips into flashcard content.
package card

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/subdeck/internal/model"
)

// EmptyUtteranceError reports an utterance whose text tokenizes to nothing.
// Such utterances are excluded from the deck, not fatal to the batch.
type EmptyUtteranceError struct {
	Index int
}

func (e *EmptyUtteranceError) Error() string {
	return fmt.Sprintf("utterance %d: no words after tokenization", e.Index)
}

// Tokenize splits text on whitespace runs. Punctuation stays attached to its
// word; tokens are compared verbatim at review time.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// Build maps one utterance and its clip into card content. The card ID is
// stable, derived from the utterance index.
func Build(u model.Utterance, clip model.AudioClip, deckName string) (model.CardContent, error) {
	words := Tokenize(u.Text)
	if len(words) == 0 {
		return model.CardContent{}, &EmptyUtteranceError{Index: clip.UtteranceIndex}
	}
	return model.CardContent{
		ID:            clip.UtteranceIndex,
		UUID:          uuid.NewString(),
		ExpectedWords: words,
		Sentence:      u.Text,
		Translation:   u.Translation,
		ClipFilename:  clip.Filename,
		DeckName:      deckName,
	}, nil
}

// Match reports whether a typed word equals the expected word under the
// given case policy.
func Match(expected, typed string, policy model.CasePolicy) bool {
	if policy == model.CaseFoldLower {
		return strings.ToLower(typed) == strings.ToLower(expected)
	}
	return typed == expected
}
