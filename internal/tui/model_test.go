package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/subdeck/internal/deck"
	"github.com/verte-zerg/subdeck/internal/model"
	"github.com/verte-zerg/subdeck/internal/store"
)

func testDeck() deck.Deck {
	return deck.Deck{
		Name:   "Episode 1",
		Policy: model.CaseSensitive,
		Cards: []model.CardContent{
			{
				ID:            0,
				UUID:          "uuid-0",
				ExpectedWords: []string{"Hello", "world"},
				Sentence:      "Hello world",
				Translation:   "Bonjour le monde",
				ClipFilename:  "ep1_001_Hello_world.mp3",
			},
			{
				ID:            1,
				UUID:          "uuid-1",
				ExpectedWords: []string{"Goodbye"},
				Sentence:      "Goodbye",
				ClipFilename:  "ep1_002_Goodbye.mp3",
			},
		},
	}
}

func sendRunes(m *Model, text string) {
	for _, r := range text {
		if r == ' ' {
			sendKey(m, tea.KeyMsg{Type: tea.KeySpace})
			continue
		}
		sendKey(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func sendKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func TestReviewFlowCompletesCard(t *testing.T) {
	m := NewModel(testDeck(), nil, "")
	sendRunes(m, "Hello world ")
	if !m.showingBack {
		t.Fatalf("expected back face after final word accepted")
	}
	view := m.View()
	if !strings.Contains(view, "Bonjour le monde") {
		t.Fatalf("expected translation on back face: %q", view)
	}
}

func TestReviewBackFaceListsMistakes(t *testing.T) {
	m := NewModel(testDeck(), nil, "")
	sendRunes(m, "Helo Hello world ")
	if !m.showingBack {
		t.Fatalf("expected back face")
	}
	view := m.View()
	if !strings.Contains(view, "Helo") {
		t.Fatalf("expected wrong attempt in mistakes table: %q", view)
	}
}

func TestReviewAdvancesToNextCard(t *testing.T) {
	m := NewModel(testDeck(), nil, "")
	sendRunes(m, "Hello world ")
	sendKey(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.cardIdx != 1 {
		t.Fatalf("expected second card, got index %d", m.cardIdx)
	}
	if m.showingBack {
		t.Fatalf("expected front face on new card")
	}
}

func TestReviewQuitsAfterLastCard(t *testing.T) {
	m := NewModel(testDeck(), nil, "")
	sendRunes(m, "Hello world ")
	sendKey(m, tea.KeyMsg{Type: tea.KeyEnter})
	sendRunes(m, "Goodbye ")
	cmd := sendKey(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected quit command after last card")
	}
}

func TestReviewLogsToStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "reviews.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	m := NewModel(testDeck(), st, "")
	sendRunes(m, "Helo Hello world ")

	reviews, err := st.ListReviews(context.Background(), model.StatsConfig{Deck: "Episode 1"})
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected 1 logged review, got %d", len(reviews))
	}
	if reviews[0].Words != 2 || reviews[0].Mistyped != 1 {
		t.Fatalf("unexpected review aggregate: %+v", reviews[0])
	}

	attempts, err := st.ListMistakesForWord(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("list mistakes: %v", err)
	}
	if len(attempts) != 1 || attempts[0] != "Helo" {
		t.Fatalf("unexpected attempts: %v", attempts)
	}
}

func TestHintLineOnFrontFace(t *testing.T) {
	m := NewModel(testDeck(), nil, "")
	sendRunes(m, "#")
	view := m.View()
	if !strings.Contains(view, "Hint: H") {
		t.Fatalf("expected hint line in view: %q", view)
	}
}

func TestPlaybackLoopDefaultsOn(t *testing.T) {
	m := NewModel(testDeck(), nil, "")
	if !m.loop {
		t.Fatalf("expected looping on by default")
	}
	if !strings.Contains(m.renderFooter(), "loop on") {
		t.Fatalf("expected loop state in footer: %q", m.renderFooter())
	}
	sendKey(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if m.loop {
		t.Fatalf("expected ctrl+l to turn looping off")
	}
	if !strings.Contains(m.renderFooter(), "loop off") {
		t.Fatalf("expected loop state in footer: %q", m.renderFooter())
	}
}

func TestPlaybackLoopReplaysClip(t *testing.T) {
	m := NewModel(testDeck(), nil, "true")
	if cmd := m.Init(); cmd == nil {
		t.Fatalf("expected initial playback command")
	}
	_, replay := m.Update(playbackDoneMsg{seq: m.playSeq})
	if replay == nil {
		t.Fatalf("expected finished clip to replay while looping")
	}

	m.loop = false
	if _, cmd := m.Update(playbackDoneMsg{seq: m.playSeq}); cmd != nil {
		t.Fatalf("expected no replay with looping off")
	}
}

func TestPlaybackSpeedCycles(t *testing.T) {
	m := NewModel(testDeck(), nil, "")
	sendKey(m, tea.KeyMsg{Type: tea.KeyTab})
	if !strings.Contains(m.renderFooter(), "speed 0.75x") {
		t.Fatalf("expected slowed speed in footer: %q", m.renderFooter())
	}
	sendKey(m, tea.KeyMsg{Type: tea.KeyTab})
	sendKey(m, tea.KeyMsg{Type: tea.KeyTab})
	if !strings.Contains(m.renderFooter(), "speed 1x") {
		t.Fatalf("expected speed cycle back to normal: %q", m.renderFooter())
	}
}

func TestPlaybackPauseToggles(t *testing.T) {
	m := NewModel(testDeck(), nil, "true")
	if cmd := m.Init(); cmd == nil {
		t.Fatalf("expected initial playback command")
	}
	sendKey(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.playing != nil {
		t.Fatalf("expected ctrl+p to stop the player")
	}
	if cmd := sendKey(m, tea.KeyMsg{Type: tea.KeyCtrlP}); cmd == nil {
		t.Fatalf("expected ctrl+p to resume playback")
	}
}

func TestPlaybackIgnoresStaleExit(t *testing.T) {
	m := NewModel(testDeck(), nil, "")
	m.playSeq = 3
	m.Update(playbackDoneMsg{seq: 1, err: context.Canceled})
	if m.playErr != "" {
		t.Fatalf("expected stale player exit to be ignored, got %q", m.playErr)
	}
}
