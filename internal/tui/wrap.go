// Package tui provides the Bubble Tea review interface.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/subdeck/internal/session"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildFeedbackLine renders the dictation progress: words already accepted,
// then the buffered attempt at the current word with per-character marks.
// Unreached words stay hidden; a placeholder shows how many remain.
func buildFeedbackLine(s session.State) []styledRune {
	out := make([]styledRune, 0, 64)
	for i := 0; i < s.Cursor && i < len(s.Expected); i++ {
		if i > 0 {
			out = append(out, spaceRune())
		}
		out = appendStyled(out, s.Expected[i], correctStyle)
	}
	if s.Phase == session.Complete {
		return out
	}
	if s.Cursor > 0 {
		out = append(out, spaceRune())
	}
	marks := s.Marks()
	for i, r := range []rune(s.Buffer) {
		style := correctStyle
		if marks[i] == session.MarkError {
			style = incorrectStyle
		}
		out = append(out, styledRune{
			s:     style.Render(string(r)),
			width: runewidth.RuneWidth(r),
		})
	}
	out = append(out, styledRune{s: cursorStyle.Render(" "), width: 1, isSpace: true})
	remaining := len(s.Expected) - s.Cursor - 1
	for i := 0; i < remaining; i++ {
		out = append(out, spaceRune())
		out = appendStyled(out, "___", pendingStyle)
	}
	return out
}

func appendStyled(out []styledRune, word string, style lipgloss.Style) []styledRune {
	for _, r := range word {
		out = append(out, styledRune{
			s:     style.Render(string(r)),
			width: runewidth.RuneWidth(r),
		})
	}
	return out
}

func spaceRune() styledRune {
	return styledRune{s: " ", width: 1, isSpace: true}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
