package session

import (
	"reflect"
	"testing"

	"github.com/verte-zerg/subdeck/internal/model"
)

func apply(s State, input string) State {
	for _, r := range input {
		s = s.Apply(EventForRune(r))
	}
	return s
}

func TestTypeThroughToComplete(t *testing.T) {
	s := New([]string{"Hello", "world"}, model.CaseSensitive)
	s = apply(s, "Hello world ")
	if s.Phase != Complete {
		t.Fatalf("expected Complete, got phase %d", s.Phase)
	}
	if s.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", s.Cursor)
	}
	for i, result := range s.Results {
		if !result.FinalCorrect {
			t.Fatalf("word %d not marked correct: %+v", i, result)
		}
	}
	back := s.RenderBack()
	if len(back.Mistakes) != 0 {
		t.Fatalf("clean run should have no mistakes: %+v", back.Mistakes)
	}
}

func TestWrongAttemptRecordedCursorStays(t *testing.T) {
	s := New([]string{"Hello", "world"}, model.CaseSensitive)
	s = apply(s, "Helo ")
	if s.Cursor != 0 {
		t.Fatalf("cursor advanced on mismatch")
	}
	if s.Buffer != "" {
		t.Fatalf("buffer not cleared for retry: %q", s.Buffer)
	}
	s = apply(s, "Hello ")
	if s.Cursor != 1 {
		t.Fatalf("cursor did not advance on match")
	}
	result := s.Results[0]
	if !reflect.DeepEqual(result.Attempts, []string{"Helo", "Hello"}) {
		t.Fatalf("unexpected attempts: %v", result.Attempts)
	}
	if !result.FinalCorrect {
		t.Fatalf("expected final_correct after matching retry")
	}

	s = apply(s, "world ")
	back := s.RenderBack()
	if len(back.Mistakes) != 1 {
		t.Fatalf("expected one mistake row, got %+v", back.Mistakes)
	}
	row := back.Mistakes[0]
	if row.Expected != "Hello" || !reflect.DeepEqual(row.Attempts, []string{"Helo"}) {
		t.Fatalf("unexpected mistake row: %+v", row)
	}
	if !back.Sentence[0].Mistyped || back.Sentence[1].Mistyped {
		t.Fatalf("unexpected sentence highlighting: %+v", back.Sentence)
	}
}

func TestDeterministicReplay(t *testing.T) {
	events := []rune("Helo #Hxy\b\b\bHello world")
	run := func() State {
		s := New([]string{"Hello", "world"}, model.CaseSensitive)
		for _, r := range events {
			if r == '\b' {
				s = s.Apply(Event{Kind: EventBackspace})
				continue
			}
			s = s.Apply(EventForRune(r))
		}
		return s.Apply(Event{Kind: EventSubmit})
	}
	first := run()
	second := run()
	if !reflect.DeepEqual(first.Results, second.Results) {
		t.Fatalf("replay diverged:\n%+v\n%+v", first.Results, second.Results)
	}
	if !reflect.DeepEqual(first.RenderBack(), second.RenderBack()) {
		t.Fatalf("back faces diverged")
	}
}

func TestHintMonotonicAndCapped(t *testing.T) {
	s := New([]string{"cat"}, model.CaseSensitive)
	prev := 0
	for i := 0; i < 6; i++ {
		s = s.Apply(Event{Kind: EventHint})
		if s.HintLevel < prev {
			t.Fatalf("hint level decreased: %d -> %d", prev, s.HintLevel)
		}
		if s.HintLevel > 3 {
			t.Fatalf("hint level %d exceeds word length", s.HintLevel)
		}
		prev = s.HintLevel
	}
	if s.Hint() != "cat" {
		t.Fatalf("expected full reveal, got %q", s.Hint())
	}
	if s.Buffer != "" {
		t.Fatalf("hint consumed as typed character: %q", s.Buffer)
	}
}

func TestHintResetsOnAdvance(t *testing.T) {
	s := New([]string{"one", "two"}, model.CaseSensitive)
	s = s.Apply(Event{Kind: EventHint})
	s = apply(s, "one ")
	if s.HintLevel != 0 {
		t.Fatalf("hint level not reset for new word: %d", s.HintLevel)
	}
	if !s.Results[0].HintUsed {
		t.Fatalf("hint usage not recorded")
	}
	if s.HintedWords() != 1 {
		t.Fatalf("expected 1 hinted word, got %d", s.HintedWords())
	}
}

func TestMarksPrefixDiff(t *testing.T) {
	s := New([]string{"Hello"}, model.CaseSensitive)
	s = apply(s, "Helxo")
	marks := s.Marks()
	want := []Mark{MarkMatched, MarkMatched, MarkMatched, MarkError, MarkError}
	if !reflect.DeepEqual(marks, want) {
		t.Fatalf("marks = %v, want %v", marks, want)
	}
}

func TestMarksSurplusIsError(t *testing.T) {
	s := New([]string{"hi"}, model.CaseSensitive)
	s = apply(s, "hies")
	marks := s.Marks()
	want := []Mark{MarkMatched, MarkMatched, MarkError, MarkError}
	if !reflect.DeepEqual(marks, want) {
		t.Fatalf("marks = %v, want %v", marks, want)
	}
}

func TestBackspaceEditsBufferOnly(t *testing.T) {
	s := New([]string{"word"}, model.CaseSensitive)
	s = apply(s, "wox")
	s = s.Apply(Event{Kind: EventBackspace})
	if s.Buffer != "wo" {
		t.Fatalf("buffer = %q, want wo", s.Buffer)
	}
	if len(s.Results) != 0 {
		t.Fatalf("backspace touched results: %+v", s.Results)
	}
}

func TestCaseFoldPolicy(t *testing.T) {
	s := New([]string{"Hello"}, model.CaseFoldLower)
	s = apply(s, "hello ")
	if s.Phase != Complete {
		t.Fatalf("fold-lower should accept differing case")
	}
	back := s.RenderBack()
	if len(back.Mistakes) != 0 {
		t.Fatalf("case-folded match listed as mistake: %+v", back.Mistakes)
	}
}

func TestDistinctMistakesInOrder(t *testing.T) {
	s := New([]string{"cat"}, model.CaseSensitive)
	for _, attempt := range []string{"bat", "rat", "bat", "cat"} {
		s = apply(s, attempt+" ")
	}
	back := s.RenderBack()
	if len(back.Mistakes) != 1 {
		t.Fatalf("expected one row, got %+v", back.Mistakes)
	}
	if !reflect.DeepEqual(back.Mistakes[0].Attempts, []string{"bat", "rat"}) {
		t.Fatalf("unexpected attempts: %v", back.Mistakes[0].Attempts)
	}
}

func TestEmptySubmitIgnored(t *testing.T) {
	s := New([]string{"word"}, model.CaseSensitive)
	s = s.Apply(Event{Kind: EventSubmit})
	if len(s.Results) != 0 || s.Cursor != 0 {
		t.Fatalf("empty submit should be a no-op: %+v", s)
	}
}

func TestEventsAfterCompleteIgnored(t *testing.T) {
	s := New([]string{"hi"}, model.CaseSensitive)
	s = apply(s, "hi ")
	done := s
	s = apply(s, "extra ")
	if !reflect.DeepEqual(s, done) {
		t.Fatalf("events after Complete changed state")
	}
}

func TestEmptyExpectedStartsComplete(t *testing.T) {
	s := New(nil, model.CaseSensitive)
	if s.Phase != Complete {
		t.Fatalf("empty card should start Complete")
	}
}
