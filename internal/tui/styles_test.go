package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/spiral/internal/palette"
)

func testStyles(t *testing.T) (*Styles, *palette.Palette) {
	t.Helper()
	theme, err := palette.Load("mocha")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	p := palette.New(theme)
	return NewStyles(p), p
}

func TestEventCell(t *testing.T) {
	s, p := testStyles(t)
	blue := p.Resolve("blue", "Home")

	plain := s.EventCell(blue, false, false)
	if got := plain.GetBackground(); got != lipgloss.Color(blue) {
		t.Errorf("background = %v, want %s", got, blue)
	}
	if got := plain.GetForeground(); got != lipgloss.Color(p.TextOn(blue)) {
		t.Errorf("foreground = %v, want readable text", got)
	}
	if plain.GetReverse() || plain.GetUnderline() {
		t.Error("plain cell should not be reversed or underlined")
	}

	if !s.EventCell(blue, true, false).GetReverse() {
		t.Error("cursor cell should be reversed")
	}
	if !s.EventCell(blue, false, true).GetUnderline() {
		t.Error("current cell should be underlined")
	}
}

func TestEmptyCell(t *testing.T) {
	s, p := testStyles(t)
	cursor := s.Empty(true, false)
	if got := cursor.GetBackground(); got != lipgloss.Color(p.Theme().Accent) {
		t.Errorf("cursor background = %v, want accent", got)
	}
	if s.Empty(false, true).GetForeground() != s.CurrentCellStyle.GetForeground() {
		t.Error("current empty cell should use the current style")
	}
}

func TestSwatch(t *testing.T) {
	s, _ := testStyles(t)
	if got := s.Swatch("#ff0000"); !strings.Contains(got, "■") {
		t.Errorf("Swatch = %q", got)
	}
}
