// Package tui provides the Bubble Tea review interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/subdeck/internal/deck"
	"github.com/verte-zerg/subdeck/internal/model"
	"github.com/verte-zerg/subdeck/internal/session"
	"github.com/verte-zerg/subdeck/internal/store"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle      = pendingStyle.Copy().Underline(true)
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	translationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0")).Italic(true)
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// playbackSpeeds are the rates tab cycles through, normal speed first.
var playbackSpeeds = []float64{1, 0.75, 0.5}

type playbackDoneMsg struct {
	seq int
	err error
}

// Model implements the Bubble Tea review UI. One card at a time: the front
// face is a typing session driven by the dictation machine, the back face is
// its mistake summary.
type Model struct {
	deck   deck.Deck
	store  *store.Store
	player string

	cardIdx     int
	sess        session.State
	showingBack bool
	mistakes    table.Model

	started   bool
	startedAt time.Time

	loop     bool
	speedIdx int
	playSeq  int
	playing  *exec.Cmd

	width   int
	height  int
	playErr string
}

// NewModel constructs a review TUI model for an opened deck. The player is
// the command used to play clips; empty disables playback. Clips loop until
// toggled off.
func NewModel(d deck.Deck, st *store.Store, player string) *Model {
	m := &Model{deck: d, store: st, player: player, loop: true}
	m.resetCard()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.playClip()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case playbackDoneMsg:
		if msg.seq != m.playSeq {
			// A replaced or stopped player process; ignore its exit.
			return m, nil
		}
		m.playing = nil
		if msg.err != nil {
			m.playErr = fmt.Sprintf("playback failed: %v", msg.err)
			return m, nil
		}
		if m.loop && !m.showingBack {
			return m, m.playClip()
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.stopClip()
			return m, tea.Quit
		case tea.KeyCtrlR:
			return m, m.playClip()
		case tea.KeyCtrlP:
			if m.playing != nil {
				m.stopClip()
				return m, nil
			}
			return m, m.playClip()
		case tea.KeyCtrlL:
			m.loop = !m.loop
			return m, nil
		case tea.KeyTab:
			m.speedIdx = (m.speedIdx + 1) % len(playbackSpeeds)
			return m, m.playClip()
		}
		if m.showingBack {
			return m.updateBack(msg)
		}
		return m.updateFront(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateFront(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.apply(session.Event{Kind: session.EventBackspace})
	case tea.KeySpace:
		m.apply(session.Event{Kind: session.EventSubmit})
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.apply(session.EventForRune(r))
		}
	}
	if m.sess.Phase == session.Complete {
		m.finishCard()
	}
	return m, nil
}

func (m *Model) updateBack(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeySpace:
		m.cardIdx++
		if m.cardIdx >= len(m.deck.Cards) {
			m.stopClip()
			return m, tea.Quit
		}
		m.resetCard()
		return m, m.playClip()
	default:
		var cmd tea.Cmd
		m.mistakes, cmd = m.mistakes.Update(msg)
		return m, cmd
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.deck.Cards) == 0 {
		return "Deck has no cards.\n"
	}
	var content string
	if m.showingBack {
		content = m.renderBack()
	} else {
		content = m.renderFront()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	body := lipgloss.Place(m.width, maxInt(1, m.height-1), lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFront() string {
	lines := []string{
		titleStyle.Render(m.deck.Name),
		"",
		wrapStyledRunes(buildFeedbackLine(m.sess), m.contentWidth()),
	}
	if m.sess.HintLevel > 0 {
		lines = append(lines, "", hintStyle.Render("Hint: "+m.sess.Hint()))
	}
	if m.playErr != "" {
		lines = append(lines, "", incorrectStyle.Render(m.playErr))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBack() string {
	card := m.currentCard()
	back := m.sess.RenderBack()

	sentence := make([]styledRune, 0, 64)
	for i, w := range back.Sentence {
		if i > 0 {
			sentence = append(sentence, spaceRune())
		}
		style := correctStyle
		if w.Mistyped {
			style = incorrectStyle
		}
		sentence = appendStyled(sentence, w.Word, style)
	}

	lines := []string{
		titleStyle.Render(m.deck.Name),
		"",
		wrapStyledRunes(sentence, m.contentWidth()),
	}
	if card.Translation != "" {
		lines = append(lines, "", translationStyle.Render(card.Translation))
	}
	if len(back.Mistakes) > 0 {
		lines = append(lines, "", m.mistakes.View())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	progress := fmt.Sprintf("Card %d/%d", m.cardIdx+1, len(m.deck.Cards))
	loopState := "off"
	if m.loop {
		loopState = "on"
	}
	playback := fmt.Sprintf("ctrl+r: replay  ctrl+p: pause  tab: speed %gx  ctrl+l: loop %s",
		playbackSpeeds[m.speedIdx], loopState)
	help := "space: check word  #: hint  " + playback + "  ctrl+c: quit"
	if m.showingBack {
		help = "enter: next card  " + playback + "  ctrl+c: quit"
	}
	return footerStyle.Render(progress + "  " + help)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) currentCard() model.CardContent {
	return m.deck.Cards[m.cardIdx]
}

func (m *Model) apply(ev session.Event) {
	if !m.started && (ev.Kind == session.EventRune || ev.Kind == session.EventHint) {
		m.started = true
		m.startedAt = time.Now()
	}
	m.sess = m.sess.Apply(ev)
}

func (m *Model) resetCard() {
	card := m.currentCard()
	m.sess = session.New(card.ExpectedWords, m.deck.Policy)
	m.showingBack = false
	m.started = false
	m.startedAt = time.Time{}
	m.playErr = ""
	if m.sess.Phase == session.Complete {
		// Nothing to type on this card.
		m.finishCard()
	}
}

func (m *Model) finishCard() {
	m.stopClip()
	m.showingBack = true
	m.mistakes = buildMistakeTable(m.sess.RenderBack().Mistakes)
	m.logReview()
}

func (m *Model) logReview() {
	if m.store == nil || !m.started {
		return
	}
	card := m.currentCard()
	endedAt := time.Now()
	stats := model.ReviewStats{
		StartedAt:  m.startedAt,
		EndedAt:    endedAt,
		Deck:       m.deck.Name,
		CardID:     card.ID,
		CardUUID:   card.UUID,
		Words:      len(m.sess.Expected),
		Mistyped:   m.sess.MistypedWords(),
		Hinted:     m.sess.HintedWords(),
		DurationMs: endedAt.Sub(m.startedAt).Milliseconds(),
	}
	if _, err := m.store.InsertReview(context.Background(), stats, m.sess.WordStats(), m.sess.Mistakes()); err != nil {
		logErrf("failed to save review: %v\n", err)
	}
}

// playClip replaces any running player with a fresh one for the current card
// at the current speed. The returned command waits for the process to exit.
func (m *Model) playClip() tea.Cmd {
	m.stopClip()
	if m.player == "" || len(m.deck.Cards) == 0 {
		return nil
	}
	args := make([]string, 0, 2)
	if speed := playbackSpeeds[m.speedIdx]; speed != 1 {
		args = append(args, fmt.Sprintf("--speed=%g", speed))
	}
	args = append(args, filepath.Join(m.deck.MediaDir, m.currentCard().ClipFilename))
	cmd := exec.Command(m.player, args...)
	if err := cmd.Start(); err != nil {
		m.playErr = fmt.Sprintf("playback failed: %v", err)
		return nil
	}
	m.playing = cmd
	seq := m.playSeq
	return func() tea.Msg {
		return playbackDoneMsg{seq: seq, err: cmd.Wait()}
	}
}

// stopClip kills the running player, if any. Bumping the sequence makes the
// killed process's exit message stale, so it is never reported as an error.
func (m *Model) stopClip() {
	m.playSeq++
	if m.playing != nil && m.playing.Process != nil {
		if err := m.playing.Process.Kill(); err != nil {
			// Best-effort kill; the process may have exited already.
			_ = err
		}
	}
	m.playing = nil
}

func buildMistakeTable(rows []session.MistakeRow) table.Model {
	wordWidth := len("Word")
	attemptsWidth := len("Attempts")
	tableRows := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		attempts := strings.Join(row.Attempts, ", ")
		if n := len([]rune(row.Expected)); n > wordWidth {
			wordWidth = n
		}
		if n := len([]rune(attempts)); n > attemptsWidth {
			attemptsWidth = n
		}
		tableRows = append(tableRows, table.Row{row.Expected, attempts})
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Word", Width: wordWidth},
			{Title: "Attempts", Width: attemptsWidth},
		}),
		table.WithRows(tableRows),
		table.WithHeight(maxInt(1, len(tableRows))),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#FF4D4F"))
	t.SetStyles(styles)
	return t
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
