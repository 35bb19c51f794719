package stats

import (
	"context"

	"github.com/verte-zerg/subdeck/internal/model"
	"github.com/verte-zerg/subdeck/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Reviews      []model.ReviewAggregate
	WordAggsAll  []model.WordAggregate
	TroubleWords []model.WordAggregate
	// Mistakes maps each trouble word to its distinct wrong attempts.
	Mistakes map[string][]string
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig, troubleLimit int) (Report, error) {
	reviews, err := st.ListReviews(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	ids := make([]int64, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ReviewID
	}
	wordAggs, err := st.ListWordAggregatesForReviews(ctx, ids)
	if err != nil {
		return Report{}, err
	}
	trouble := TroubleWords(wordAggs, troubleLimit)
	mistakes := make(map[string][]string, len(trouble))
	for _, agg := range trouble {
		attempts, err := st.ListMistakesForWord(ctx, agg.Word)
		if err != nil {
			return Report{}, err
		}
		mistakes[agg.Word] = attempts
	}
	return Report{
		Reviews:      reviews,
		WordAggsAll:  wordAggs,
		TroubleWords: trouble,
		Mistakes:     mistakes,
	}, nil
}
