// Package subtitle parses LRC and SRT files into timed utterances.
package subtitle

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/verte-zerg/subdeck/internal/model"
)

// Defect records one subtitle block that failed to parse. Defects are
// recovered locally; the remaining blocks still produce utterances.
type Defect struct {
	Block int
	Err   error
}

func (d Defect) String() string {
	return fmt.Sprintf("block %d: %v", d.Block, d.Err)
}

// Result carries parsed utterances plus any locally recovered defects.
type Result struct {
	Utterances []model.Utterance
	Defects    []Defect
}

// DialectForPath selects a dialect from the file extension.
func DialectForPath(path string) model.Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lrc":
		return model.DialectLRC
	case ".srt":
		return model.DialectSRT
	default:
		return model.DialectUnknown
	}
}

// Parse dispatches file contents to the dialect's parsing strategy. The
// output keeps the file's own ordering; out-of-order timestamps pass through.
func Parse(contents string, dialect model.Dialect) (Result, error) {
	switch dialect {
	case model.DialectLRC:
		return parseLRC(contents), nil
	case model.DialectSRT:
		return parseSRT(contents), nil
	default:
		return Result{}, fmt.Errorf("unsupported subtitle dialect %q", dialect)
	}
}

// FillLastEnd sets any remaining unset end time to the media's total
// duration. LRC carries no end marker, so the final utterance depends on
// this externally supplied input.
func FillLastEnd(utterances []model.Utterance, totalMS int64) {
	for i := range utterances {
		if utterances[i].EndMS == model.EndUnset {
			utterances[i].EndMS = totalMS
		}
	}
}

// normalizeLines strips a UTF-8 BOM and splits on either line ending.
func normalizeLines(contents string) []string {
	contents = strings.TrimPrefix(contents, "\ufeff")
	contents = strings.ReplaceAll(contents, "\r\n", "\n")
	return strings.Split(contents, "\n")
}
