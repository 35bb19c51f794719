// Package stats contains review statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/verte-zerg/subdeck/internal/model"
)

// ReviewMetrics computes words-per-minute and first-try accuracy for one
// logged review.
func ReviewMetrics(words, mistyped int, durationMs int64) (wpm, accuracy float64) {
	if durationMs <= 0 || words <= 0 {
		return 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	if minutes <= 0 {
		return 0, 0
	}
	wpm = float64(words) / minutes
	accuracy = float64(words-mistyped) / float64(words)
	if accuracy < 0 {
		accuracy = 0
	}
	return wpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// RenderSummary prints a summary for the logged reviews.
func RenderSummary(w io.Writer, reviews []model.ReviewAggregate) error {
	if len(reviews) == 0 {
		_, err := fmt.Fprintln(w, "No reviews found.")
		return err
	}
	var totalWPM, totalAcc float64
	bestAcc := 0.0
	words, mistyped := 0, 0
	for _, r := range reviews {
		wpm, acc := ReviewMetrics(r.Words, r.Mistyped, r.DurationMs)
		totalWPM += wpm
		totalAcc += acc
		if acc > bestAcc {
			bestAcc = acc
		}
		words += r.Words
		mistyped += r.Mistyped
	}
	count := float64(len(reviews))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Reviews: %d\n", len(reviews)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Words typed: %d\n", words); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Words mistyped: %d\n", mistyped); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", totalWPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", (totalAcc/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Accuracy: %.2f%%\n", bestAcc*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints accuracy and speed curves across reviews.
func RenderCurves(w io.Writer, reviews []model.ReviewAggregate, window int) error {
	return RenderCurvesWithSize(w, reviews, window, 0, 10, false)
}

// RenderCurvesWithSize prints the curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, reviews []model.ReviewAggregate, window, totalWidth, height int, useColor bool) error {
	if len(reviews) == 0 {
		return nil
	}
	wpms := make([]float64, len(reviews))
	accs := make([]float64, len(reviews))
	for i, r := range reviews {
		wpm, acc := ReviewMetrics(r.Words, r.Mistyped, r.DurationMs)
		wpms[i] = wpm
		accs[i] = acc * 100
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "Accuracy", Values: accs},
		{Name: "WPM", Values: wpms},
	}, width, height, useColor)
}

// RenderWordTable prints per-word aggregates, hardest words first, with the
// distinct wrong attempts recorded for each word.
func RenderWordTable(w io.Writer, aggs []model.WordAggregate, mistakes map[string][]string, limit int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No word stats found.")
		return err
	}
	rows := TroubleWords(aggs, limit)

	if _, err := fmt.Fprintln(w, "Trouble Words"); err != nil {
		return err
	}
	headers := []string{"Word", "Accuracy", "Correct", "Incorrect", "Mistyped as"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Word,
			fmt.Sprintf("%.2f%%", wordAccuracy(r)*100),
			fmt.Sprintf("%d", r.Correct),
			fmt.Sprintf("%d", r.Incorrect),
			strings.Join(mistakes[r.Word], ", "),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	lines := formatTable(headers, tableRows, rightAlign)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// TroubleWords returns the lowest-accuracy words, at most limit of them.
// Words never mistyped are excluded.
func TroubleWords(aggs []model.WordAggregate, limit int) []model.WordAggregate {
	candidates := make([]model.WordAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect == 0 {
			continue
		}
		candidates = append(candidates, agg)
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := wordAccuracy(candidates[i])
		aj := wordAccuracy(candidates[j])
		if ai == aj {
			return candidates[i].Word < candidates[j].Word
		}
		return ai < aj
	})
	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	return candidates
}

func wordAccuracy(agg model.WordAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
