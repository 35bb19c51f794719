package session

import (
	"unicode"

	"github.com/verte-zerg/subdeck/internal/card"
	"github.com/verte-zerg/subdeck/internal/model"
)

// Mark classifies one buffered character for front-face display.
type Mark int

const (
	// MarkMatched means the character agrees with the expected prefix.
	MarkMatched Mark = iota
	// MarkError covers the first mismatch, everything after it, and any
	// surplus beyond the expected word's length.
	MarkError
)

// Marks color-codes the buffer against the expected word's prefix, one mark
// per buffered rune.
func (s State) Marks() []Mark {
	buffer := []rune(s.Buffer)
	expected := []rune(s.CurrentWord())
	marks := make([]Mark, len(buffer))
	mismatched := false
	for i, r := range buffer {
		switch {
		case mismatched || i >= len(expected):
			marks[i] = MarkError
		case equalRune(r, expected[i], s.Policy):
			marks[i] = MarkMatched
		default:
			mismatched = true
			marks[i] = MarkError
		}
	}
	return marks
}

// BackWord is one sentence word on the back face.
type BackWord struct {
	Word     string
	Mistyped bool
}

// MistakeRow lists the distinct wrong attempts at one word, in attempt order.
type MistakeRow struct {
	Expected string
	Attempts []string
}

// BackFace is the reviewable summary rendered once the machine completes.
type BackFace struct {
	Sentence []BackWord
	Mistakes []MistakeRow
}

// RenderBack builds the back face from accumulated results. Words typed
// correctly on the first attempt never appear in the mistakes table.
func (s State) RenderBack() BackFace {
	mistyped := make(map[int]bool)
	var rows []MistakeRow
	for _, result := range s.Results {
		var wrong []string
		for _, attempt := range result.Attempts {
			if card.Match(s.Expected[result.WordIndex], attempt, s.Policy) {
				continue
			}
			if !containsString(wrong, attempt) {
				wrong = append(wrong, attempt)
			}
		}
		if len(wrong) == 0 {
			continue
		}
		mistyped[result.WordIndex] = true
		rows = append(rows, MistakeRow{Expected: s.Expected[result.WordIndex], Attempts: wrong})
	}

	sentence := make([]BackWord, len(s.Expected))
	for i, word := range s.Expected {
		sentence[i] = BackWord{Word: word, Mistyped: mistyped[i]}
	}
	return BackFace{Sentence: sentence, Mistakes: rows}
}

// MistypedWords counts words with at least one wrong attempt.
func (s State) MistypedWords() int {
	n := 0
	for _, result := range s.Results {
		for _, attempt := range result.Attempts {
			if !card.Match(s.Expected[result.WordIndex], attempt, s.Policy) {
				n++
				break
			}
		}
	}
	return n
}

// HintedWords counts words completed with hint help.
func (s State) HintedWords() int {
	n := 0
	for _, result := range s.Results {
		if result.HintUsed {
			n++
		}
	}
	return n
}

func equalRune(a, b rune, policy model.CasePolicy) bool {
	if policy == model.CaseFoldLower {
		return unicode.ToLower(a) == unicode.ToLower(b)
	}
	return a == b
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
