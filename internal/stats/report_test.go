package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/subdeck/internal/model"
	"github.com/verte-zerg/subdeck/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "reviews.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		end := base.Add(time.Duration(i) * time.Minute)
		_, err := st.InsertReview(ctx, model.ReviewStats{
			StartedAt:  end.Add(-30 * time.Second),
			EndedAt:    end,
			Deck:       "Episode 1",
			CardID:     i,
			CardUUID:   "uuid",
			Words:      2,
			Mistyped:   1,
			DurationMs: 30000,
		}, []model.WordStats{
			{Word: "Hello", Incorrect: 1},
			{Word: "world", Correct: 1},
		}, []model.WordMistake{
			{WordIndex: 0, Expected: "Hello", Attempt: "Helo"},
		})
		if err != nil {
			t.Fatalf("insert review: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Deck: "Episode 1", Last: 2}, 10)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(report.Reviews))
	}
	if len(report.WordAggsAll) != 2 {
		t.Fatalf("expected 2 word aggregates, got %d", len(report.WordAggsAll))
	}
	if len(report.TroubleWords) != 1 || report.TroubleWords[0].Word != "Hello" {
		t.Fatalf("expected Hello as trouble word, got %v", report.TroubleWords)
	}
	if attempts := report.Mistakes["Hello"]; len(attempts) != 1 || attempts[0] != "Helo" {
		t.Fatalf("expected trouble-word attempts, got %v", report.Mistakes)
	}
}
