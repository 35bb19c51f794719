// Package model defines shared data structures.
package model

import "time"

// CasePolicy selects how typed words are compared against expected words.
type CasePolicy int

const (
	// CaseSensitive compares tokens verbatim.
	CaseSensitive CasePolicy = iota
	// CaseFoldLower lowercases both sides before comparing.
	CaseFoldLower
)

// Dialect identifies a subtitle file grammar.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectLRC
	DialectSRT
)

func (d Dialect) String() string {
	switch d {
	case DialectLRC:
		return "lrc"
	case DialectSRT:
		return "srt"
	default:
		return "unknown"
	}
}

// Utterance is one timed segment of spoken content. EndMS may be unset
// (EndUnset) after an LRC parse until the end-fill pass runs.
type Utterance struct {
	StartMS     int64
	EndMS       int64
	Text        string
	Translation string
}

// EndUnset marks an utterance whose end time has not been derived yet.
const EndUnset int64 = -1

// DurationMS returns the span length, or 0 when the end is unset.
func (u Utterance) DurationMS() int64 {
	if u.EndMS == EndUnset || u.EndMS <= u.StartMS {
		return 0
	}
	return u.EndMS - u.StartMS
}

// AudioClip is one extracted audio artifact corresponding to one utterance.
type AudioClip struct {
	UtteranceIndex int
	Path           string
	Filename       string
	DurationMS     int64
}

// CardContent is the build-time payload for one flashcard.
type CardContent struct {
	ID            int
	UUID          string
	ExpectedWords []string
	Sentence      string
	Translation   string
	ClipFilename  string
	DeckName      string
}

// DeckConfig describes one audio/subtitle pair to build into a deck.
type DeckConfig struct {
	Name          string
	AudioFile     string
	SubtitleFile  string
	OutputDeck    string
	OutputPath    string
	CaseSensitive bool
}

// Policy returns the comparison policy for this configuration.
func (c DeckConfig) Policy() CasePolicy {
	if c.CaseSensitive {
		return CaseSensitive
	}
	return CaseFoldLower
}

// BuildSummary reports the outcome of one configuration's build.
type BuildSummary struct {
	Config    string
	Attempted int
	Built     int
	Dropped   []DroppedUtterance
	Err       error
}

// DroppedUtterance records one locally recovered defect.
type DroppedUtterance struct {
	Index  int
	Reason string
}

// ReviewStats captures one completed card review for the log store.
type ReviewStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Deck       string
	CardID     int
	CardUUID   string
	Words      int
	Mistyped   int
	Hinted     int
	DurationMs int64
}

// WordMistake stores one wrong attempt at one word during a review.
type WordMistake struct {
	WordIndex int
	Expected  string
	Attempt   string
}

// WordStats counts outcomes for one expected word within a single review.
type WordStats struct {
	Word      string
	Correct   int
	Incorrect int
}

// WordAggregate aggregates mistake counts per expected word across reviews.
type WordAggregate struct {
	Word      string
	Correct   int
	Incorrect int
}

// ReviewAggregate summarizes a logged review for reporting.
type ReviewAggregate struct {
	ReviewID   int64
	EndedAt    time.Time
	Words      int
	Mistyped   int
	DurationMs int64
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	Deck        string
	Since       *time.Time
	Last        int
	CurveWindow int
}
