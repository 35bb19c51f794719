// Package pipeline drives one configuration from subtitle file to packaged
// deck, and batches over many configurations with failure isolation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/subdeck/internal/card"
	"github.com/verte-zerg/subdeck/internal/deck"
	"github.com/verte-zerg/subdeck/internal/media"
	"github.com/verte-zerg/subdeck/internal/model"
	"github.com/verte-zerg/subdeck/internal/subtitle"
)

// Options configures a build run.
type Options struct {
	FFmpegPath string
	Workers    int
	Assembler  deck.Assembler

	// OpenSource overrides the media backend, used by tests.
	OpenSource func(path string) (media.Source, error)
}

func (o Options) openSource(path string) (media.Source, error) {
	if o.OpenSource != nil {
		return o.OpenSource(path)
	}
	return media.Open(path, o.FFmpegPath)
}

func (o Options) assembler() deck.Assembler {
	if o.Assembler != nil {
		return o.Assembler
	}
	return deck.SQLiteAssembler{}
}

// Run builds every configuration in order. A fatal failure in one
// configuration never blocks the others.
func Run(ctx context.Context, configs []model.DeckConfig, opts Options) []model.BuildSummary {
	summaries := make([]model.BuildSummary, 0, len(configs))
	for _, cfg := range configs {
		summaries = append(summaries, Build(ctx, cfg, opts))
	}
	return summaries
}

// Build runs the full pipeline for one configuration: parse subtitles,
// slice audio, build cards, package the deck. Per-utterance defects are
// dropped with a reason; anything else fails the configuration.
func Build(ctx context.Context, cfg model.DeckConfig, opts Options) model.BuildSummary {
	summary := model.BuildSummary{Config: cfg.Name}

	dialect := subtitle.DialectForPath(cfg.SubtitleFile)
	if dialect == model.DialectUnknown {
		summary.Err = fmt.Errorf("unsupported subtitle format: %s", filepath.Ext(cfg.SubtitleFile))
		return summary
	}
	contents, err := os.ReadFile(cfg.SubtitleFile)
	if err != nil {
		summary.Err = fmt.Errorf("failed to read subtitle file: %w", err)
		return summary
	}
	parsed, err := subtitle.Parse(string(contents), dialect)
	if err != nil {
		summary.Err = err
		return summary
	}
	summary.Attempted = len(parsed.Utterances) + len(parsed.Defects)
	for _, defect := range parsed.Defects {
		summary.Dropped = append(summary.Dropped, model.DroppedUtterance{
			Index:  defect.Block,
			Reason: defect.Err.Error(),
		})
	}
	if len(parsed.Utterances) == 0 {
		summary.Err = errors.New("no utterances parsed")
		return summary
	}

	src, err := opts.openSource(cfg.AudioFile)
	if err != nil {
		summary.Err = err
		return summary
	}
	totalMS, err := src.DurationMS(ctx)
	if err != nil {
		summary.Err = err
		return summary
	}
	subtitle.FillLastEnd(parsed.Utterances, totalMS)

	mediaDir := filepath.Join(cfg.OutputPath, deck.MediaDirName)
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		summary.Err = fmt.Errorf("failed to create media directory: %w", err)
		return summary
	}
	sliced, err := media.Slice(ctx, src, parsed.Utterances, mediaDir, cfg.Name, opts.Workers)
	if err != nil {
		summary.Err = err
		return summary
	}
	// Slicer drops are 0-based utterance indexes; summaries speak in
	// 1-based positions like the parser defects do.
	for _, dropped := range sliced.Dropped {
		dropped.Index++
		summary.Dropped = append(summary.Dropped, dropped)
	}

	var cards []model.CardContent
	for _, clip := range sliced.Clips {
		content, err := card.Build(parsed.Utterances[clip.UtteranceIndex], clip, cfg.OutputDeck)
		if err != nil {
			summary.Dropped = append(summary.Dropped, model.DroppedUtterance{
				Index:  clip.UtteranceIndex + 1,
				Reason: err.Error(),
			})
			continue
		}
		cards = append(cards, content)
	}
	if len(cards) == 0 {
		summary.Err = errors.New("no cards produced")
		return summary
	}

	if err := opts.assembler().Assemble(ctx, cfg, cards, mediaDir); err != nil {
		summary.Err = err
		return summary
	}
	summary.Built = len(cards)
	return summary
}
