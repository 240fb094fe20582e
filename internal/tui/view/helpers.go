package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox renders content in a w×h box filled with bg.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(w, h, lipgloss.Left, vAlign, content,
		lipgloss.WithWhitespaceBackground(bg))
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground fills content out to exactly height lines, padding
// short lines to width with bg. Lines wider than width are left alone.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	fill := lipgloss.NewStyle().Background(bg)
	src := strings.Split(content, "\n")

	lines := make([]string, height)
	for i := range lines {
		var line string
		if i < len(src) {
			line = src[i]
		}
		lines[i] = padRight(line, width, fill)
	}
	return strings.Join(lines, "\n")
}

func padRight(line string, width int, fill lipgloss.Style) string {
	w := lipgloss.Width(line)
	if w >= width {
		return line
	}
	return line + fill.Render(strings.Repeat(" ", width-w))
}

// overlayBox is the screen rectangle a modal occupies.
type overlayBox struct {
	top, left     int
	width, height int
}

func centeredBox(lines []string, screenW, screenH int) overlayBox {
	w := 0
	for _, line := range lines {
		w = max(w, lipgloss.Width(line))
	}
	w = min(w, screenW)
	return overlayBox{
		top:    max(0, (screenH-len(lines))/2),
		left:   max(0, (screenW-w)/2),
		width:  w,
		height: len(lines),
	}
}

func (b overlayBox) holds(row int) bool {
	return row >= b.top && row < b.top+b.height
}

// RenderModalOverlay centers modalContent over baseContent. Modal lines are
// cut or padded to a common width and keep modalBg across style resets.
func RenderModalOverlay(baseContent, modalContent string, width, height int, modalBg lipgloss.Color) string {
	modal := strings.Split(modalContent, "\n")
	box := centeredBox(modal, width, height)
	if box.width == 0 {
		return baseContent
	}

	fill := lipgloss.NewStyle().Background(modalBg)
	for i, line := range modal {
		if lipgloss.Width(line) > box.width {
			line = ansi.Cut(line, 0, box.width)
		}
		line = padRight(line, box.width, fill)
		modal[i] = reapplyBackground(line, modalBg) + ansi.ResetStyle
	}

	base := strings.Split(PadLinesWithBackground(baseContent, width, height, lipgloss.Color("")), "\n")
	for row := range base {
		if !box.holds(row) {
			continue
		}
		base[row] = ansi.Cut(base[row], 0, box.left) +
			modal[row-box.top] +
			ansi.Cut(base[row], box.left+box.width, width)
	}
	return strings.Join(base, "\n")
}

// reapplyBackground restores the modal background after every ANSI reset.
func reapplyBackground(line string, bg lipgloss.Color) string {
	if bg == "" {
		return line
	}
	seq := ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
	for _, reset := range []string{ansi.ResetStyle, "\x1b[0m", "\x1b[49m"} {
		line = strings.ReplaceAll(line, reset, reset+seq)
	}
	return line
}
