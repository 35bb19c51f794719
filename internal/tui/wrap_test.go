package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/subdeck/internal/model"
	"github.com/verte-zerg/subdeck/internal/session"
)

func typeWord(s session.State, word string) session.State {
	for _, r := range word {
		s = s.Apply(session.EventForRune(r))
	}
	return s.Apply(session.Event{Kind: session.EventSubmit})
}

func TestBuildFeedbackLineShowsAcceptedWords(t *testing.T) {
	s := session.New([]string{"Hello", "world"}, model.CaseSensitive)
	s = typeWord(s, "Hello")

	runes := buildFeedbackLine(s)
	rendered := renderStyledRunes(runes)
	if !strings.Contains(rendered, correctStyle.Render("H")) {
		t.Fatalf("expected accepted word in correct style: %q", rendered)
	}
	if strings.Contains(rendered, "world") {
		t.Fatalf("hidden words must not leak into the front face: %q", rendered)
	}
}

func TestBuildFeedbackLineMarksBufferErrors(t *testing.T) {
	s := session.New([]string{"Hello"}, model.CaseSensitive)
	for _, r := range "Helx" {
		s = s.Apply(session.EventForRune(r))
	}

	runes := buildFeedbackLine(s)
	rendered := renderStyledRunes(runes)
	if !strings.Contains(rendered, incorrectStyle.Render("x")) {
		t.Fatalf("expected mismatched rune in incorrect style: %q", rendered)
	}
	if !strings.Contains(rendered, correctStyle.Render("e")) {
		t.Fatalf("expected matched prefix in correct style: %q", rendered)
	}
}

func TestBuildFeedbackLinePlaceholdersForRemainingWords(t *testing.T) {
	s := session.New([]string{"one", "two", "three"}, model.CaseSensitive)
	runes := buildFeedbackLine(s)
	rendered := renderStyledRunes(runes)
	if got := strings.Count(rendered, pendingStyle.Render("_")); got != 6 {
		t.Fatalf("expected 6 placeholder runes for 2 unreached words, got %d in %q", got, rendered)
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := make([]styledRune, 0)
	runes = appendStyled(runes, "aaa", correctStyle)
	runes = append(runes, spaceRune())
	runes = appendStyled(runes, "bbb", correctStyle)

	wrapped := wrapStyledRunes(runes, 4)
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), wrapped)
	}
}

func TestWrapStyledRunesNoWidthPassthrough(t *testing.T) {
	runes := appendStyled(nil, "abc", correctStyle)
	if wrapStyledRunes(runes, 0) != renderStyledRunes(runes) {
		t.Fatalf("expected passthrough when width is zero")
	}
}
