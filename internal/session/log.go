package session

import (
	"github.com/verte-zerg/subdeck/internal/card"
	"github.com/verte-zerg/subdeck/internal/model"
)

// WordStats aggregates the per-word outcomes of a completed review so they
// can be persisted. Repeated words in the sentence fold into one row.
func (s State) WordStats() []model.WordStats {
	index := make(map[string]int)
	var stats []model.WordStats
	for _, result := range s.Results {
		word := s.Expected[result.WordIndex]
		i, ok := index[word]
		if !ok {
			i = len(stats)
			index[word] = i
			stats = append(stats, model.WordStats{Word: word})
		}
		wrong := 0
		for _, attempt := range result.Attempts {
			if !card.Match(word, attempt, s.Policy) {
				wrong++
			}
		}
		if wrong == 0 && result.FinalCorrect {
			stats[i].Correct++
		}
		stats[i].Incorrect += wrong
	}
	return stats
}

// Mistakes lists every wrong attempt in the order it was typed.
func (s State) Mistakes() []model.WordMistake {
	var mistakes []model.WordMistake
	for _, result := range s.Results {
		word := s.Expected[result.WordIndex]
		for _, attempt := range result.Attempts {
			if card.Match(word, attempt, s.Policy) {
				continue
			}
			mistakes = append(mistakes, model.WordMistake{
				WordIndex: result.WordIndex,
				Expected:  word,
				Attempt:   attempt,
			})
		}
	}
	return mistakes
}
