package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/verte-zerg/subdeck/internal/model"
	"github.com/verte-zerg/subdeck/internal/worker"
)

// DegenerateSpanError reports an utterance whose clamped span has zero or
// negative length. The utterance is dropped; the batch continues.
type DegenerateSpanError struct {
	Index   int
	StartMS int64
	EndMS   int64
}

func (e *DegenerateSpanError) Error() string {
	return fmt.Sprintf("utterance %d: degenerate span [%d, %d)", e.Index, e.StartMS, e.EndMS)
}

// SliceResult pairs produced clips with the utterances that were dropped.
type SliceResult struct {
	Clips   []model.AudioClip
	Dropped []model.DroppedUtterance
}

const safeNameLimit = 20

// Slice produces one clip per utterance in utterance order. Spans past the
// media's end are clamped; degenerate spans are dropped with a reason.
// Clips are cut concurrently but reassembled in order.
func Slice(ctx context.Context, src Source, utterances []model.Utterance, outDir, baseName string, workers int) (SliceResult, error) {
	totalMS, err := src.DurationMS(ctx)
	if err != nil {
		return SliceResult{}, err
	}

	type span struct {
		index int
		u     model.Utterance // end already clamped
		path  string
		name  string
	}
	var spans []span
	var result SliceResult
	for i, u := range utterances {
		if u.EndMS == model.EndUnset || u.EndMS > totalMS {
			u.EndMS = totalMS
		}
		if u.DurationMS() == 0 {
			result.Dropped = append(result.Dropped, model.DroppedUtterance{
				Index:  i,
				Reason: (&DegenerateSpanError{Index: i, StartMS: u.StartMS, EndMS: u.EndMS}).Error(),
			})
			continue
		}
		name := ClipFilename(baseName, i, u.Text)
		spans = append(spans, span{
			index: i,
			u:     u,
			path:  filepath.Join(outDir, name),
			name:  name,
		})
	}

	results := worker.Map(spans, workers, func(_ int, sp span) (model.AudioClip, error) {
		if err := src.Extract(ctx, sp.u.StartMS, sp.u.EndMS, sp.path); err != nil {
			return model.AudioClip{}, err
		}
		return model.AudioClip{
			UtteranceIndex: sp.index,
			Path:           sp.path,
			Filename:       sp.name,
			DurationMS:     sp.u.DurationMS(),
		}, nil
	})
	for _, r := range results {
		if r.Err != nil {
			result.Dropped = append(result.Dropped, model.DroppedUtterance{
				Index:  spans[r.Index].index,
				Reason: r.Err.Error(),
			})
			continue
		}
		result.Clips = append(result.Clips, r.Value)
	}
	return result, nil
}

// ClipFilename builds a stable, filesystem-safe clip name of the form
// <base>_<NNN>_<text prefix>.mp3.
func ClipFilename(baseName string, index int, text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	safe := strings.TrimRight(b.String(), " ")
	runes := []rune(safe)
	if len(runes) > safeNameLimit {
		safe = string(runes[:safeNameLimit])
	}
	safe = strings.ReplaceAll(safe, " ", "_")
	return fmt.Sprintf("%s_%03d_%s.mp3", baseName, index+1, safe)
}
