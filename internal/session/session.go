// Package session implements the per-card dictation state machine. The
// machine is pure: applying an event to a state yields a new state plus
// render instructions, so any surface (TUI, card template) can drive it.
package session

import (
	"github.com/verte-zerg/subdeck/internal/card"
	"github.com/verte-zerg/subdeck/internal/model"
)

// Phase is the machine's coarse position.
type Phase int

const (
	// AwaitingInput accumulates characters for the word at the cursor.
	AwaitingInput Phase = iota
	// Complete is terminal; the back face may render.
	Complete
)

// EventKind discriminates input events.
type EventKind int

const (
	// EventRune appends one typed character to the buffer.
	EventRune EventKind = iota
	// EventBackspace removes the last buffered character.
	EventBackspace
	// EventSubmit evaluates the buffer against the expected word.
	EventSubmit
	// EventHint reveals one more leading character of the expected word.
	EventHint
)

// Event is one keystroke-level input.
type Event struct {
	Kind EventKind
	Rune rune
}

// EventForRune maps a raw character to its event: space submits, '#'
// requests a hint, everything else is a plain character.
func EventForRune(r rune) Event {
	switch r {
	case ' ':
		return Event{Kind: EventSubmit}
	case '#':
		return Event{Kind: EventHint}
	default:
		return Event{Kind: EventRune, Rune: r}
	}
}

// WordResult accumulates the attempts made at one word.
type WordResult struct {
	WordIndex    int      `json:"word_index"`
	Attempts     []string `json:"attempts"`
	FinalCorrect bool     `json:"final_correct"`
	HintUsed     bool     `json:"hint_used"`
}

// State is the machine's full, serializable state. The cursor only moves
// forward; the hint level never exceeds the current word's length.
type State struct {
	Expected  []string         `json:"expected"`
	Policy    model.CasePolicy `json:"policy"`
	Phase     Phase            `json:"phase"`
	Cursor    int              `json:"cursor"`
	Buffer    string           `json:"buffer"`
	Results   []WordResult     `json:"results"`
	HintLevel int              `json:"hint_level"`
}

// New returns a fresh state for one card review.
func New(expected []string, policy model.CasePolicy) State {
	s := State{Expected: expected, Policy: policy}
	if len(expected) == 0 {
		s.Phase = Complete
	}
	return s
}

// Apply processes one event and returns the successor state. Events after
// Complete are ignored.
func (s State) Apply(ev Event) State {
	if s.Phase == Complete {
		return s
	}
	switch ev.Kind {
	case EventRune:
		s.Buffer += string(ev.Rune)
	case EventBackspace:
		runes := []rune(s.Buffer)
		if len(runes) > 0 {
			s.Buffer = string(runes[:len(runes)-1])
		}
	case EventHint:
		wordLen := len([]rune(s.Expected[s.Cursor]))
		if s.HintLevel < wordLen {
			s.HintLevel++
		}
	case EventSubmit:
		s = s.submit()
	}
	return s
}

func (s State) submit() State {
	if s.Buffer == "" {
		return s
	}
	expected := s.Expected[s.Cursor]
	correct := card.Match(expected, s.Buffer, s.Policy)

	results := make([]WordResult, len(s.Results))
	copy(results, s.Results)
	if len(results) == 0 || results[len(results)-1].WordIndex != s.Cursor {
		results = append(results, WordResult{WordIndex: s.Cursor})
	}
	entry := &results[len(results)-1]
	entry.Attempts = append(append([]string(nil), entry.Attempts...), s.Buffer)
	entry.FinalCorrect = correct
	if s.HintLevel > 0 {
		entry.HintUsed = true
	}
	s.Results = results
	s.Buffer = ""
	if correct {
		s.Cursor++
		s.HintLevel = 0
		if s.Cursor == len(s.Expected) {
			s.Phase = Complete
		}
	}
	return s
}

// CurrentWord returns the expected word at the cursor, or "" once complete.
func (s State) CurrentWord() string {
	if s.Cursor >= len(s.Expected) {
		return ""
	}
	return s.Expected[s.Cursor]
}

// Hint returns the revealed prefix of the current word.
func (s State) Hint() string {
	word := []rune(s.CurrentWord())
	n := s.HintLevel
	if n > len(word) {
		n = len(word)
	}
	return string(word[:n])
}
