package subtitle

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/verte-zerg/subdeck/internal/model"
	"github.com/verte-zerg/subdeck/internal/timecode"
)

var srtArrow = regexp.MustCompile(`^(\S+)\s*-->\s*(\S+)$`)

// MalformedBlockError reports a structurally broken SRT block by its numeric
// index. The sibling blocks still parse.
type MalformedBlockError struct {
	Block  int
	Reason string
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("malformed SRT block %d: %s", e.Block, e.Reason)
}

// parseSRT scans blank-line-separated blocks of the form
// {index, "start --> end", one or two text lines}.
func parseSRT(contents string) Result {
	var result Result
	ordinal := 0
	for _, block := range splitBlocks(contents) {
		ordinal++
		index := ordinal
		if n, err := strconv.Atoi(strings.TrimSpace(block[0])); err == nil {
			index = n
		}
		utterance, err := parseBlock(block, index)
		if err != nil {
			result.Defects = append(result.Defects, Defect{Block: index, Err: err})
			continue
		}
		result.Utterances = append(result.Utterances, utterance)
	}
	return result
}

func parseBlock(lines []string, index int) (model.Utterance, error) {
	if len(lines) < 2 {
		return model.Utterance{}, &MalformedBlockError{Block: index, Reason: "missing timing line"}
	}
	arrow := srtArrow.FindStringSubmatch(strings.TrimSpace(lines[1]))
	if arrow == nil {
		return model.Utterance{}, &MalformedBlockError{Block: index, Reason: "missing --> timing line"}
	}
	startMS, err := timecode.Parse(arrow[1], model.DialectSRT)
	if err != nil {
		return model.Utterance{}, &MalformedBlockError{Block: index, Reason: err.Error()}
	}
	endMS, err := timecode.Parse(arrow[2], model.DialectSRT)
	if err != nil {
		return model.Utterance{}, &MalformedBlockError{Block: index, Reason: err.Error()}
	}
	if len(lines) < 3 {
		return model.Utterance{}, &MalformedBlockError{Block: index, Reason: "missing text line"}
	}
	utterance := model.Utterance{
		StartMS: startMS,
		EndMS:   endMS,
		Text:    strings.TrimSpace(lines[2]),
	}
	if len(lines) > 3 {
		utterance.Translation = strings.TrimSpace(lines[3])
	}
	return utterance, nil
}

func splitBlocks(contents string) [][]string {
	var blocks [][]string
	var current []string
	for _, raw := range normalizeLines(contents) {
		line := strings.TrimRight(raw, " \t")
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}
