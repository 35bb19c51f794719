package subtitle

import (
	"regexp"
	"strings"

	"github.com/verte-zerg/subdeck/internal/model"
	"github.com/verte-zerg/subdeck/internal/timecode"
)

// lrcTag matches any bracketed timecode-shaped prefix; the timestamp itself
// is validated separately so a malformed one surfaces as a defect instead of
// being mistaken for a translation line.
var lrcTag = regexp.MustCompile(`^\[([\d:.,]+)\](.*)$`)

type timedLine struct {
	startMS     int64
	text        string
	translation string
}

// parseLRC scans `[MM:SS.ss]text` lines. A non-timestamped line immediately
// after a timestamped one is that utterance's translation. End times come
// from the next timestamped line's start; the final utterance stays unset
// until FillLastEnd supplies the media duration.
func parseLRC(contents string) Result {
	lines := make([]string, 0)
	for _, raw := range normalizeLines(contents) {
		line := strings.TrimSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}

	var timed []timedLine
	var defects []Defect
	tagOrdinal := 0
	for i := 0; i < len(lines); i++ {
		m := lrcTag.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		tagOrdinal++
		startMS, err := timecode.Parse(m[1], model.DialectLRC)
		if err != nil {
			defects = append(defects, Defect{Block: tagOrdinal, Err: err})
			continue
		}
		entry := timedLine{startMS: startMS, text: strings.TrimSpace(m[2])}
		if i+1 < len(lines) && !lrcTag.MatchString(lines[i+1]) {
			entry.translation = lines[i+1]
			i++
		}
		timed = append(timed, entry)
	}

	// Lookahead over all timed lines so an empty-text line still bounds
	// its predecessor's span.
	var utterances []model.Utterance
	for i, entry := range timed {
		endMS := model.EndUnset
		if i+1 < len(timed) {
			endMS = timed[i+1].startMS
		}
		if entry.text == "" {
			continue
		}
		utterances = append(utterances, model.Utterance{
			StartMS:     entry.startMS,
			EndMS:       endMS,
			Text:        entry.text,
			Translation: entry.translation,
		})
	}
	return Result{Utterances: utterances, Defects: defects}
}
