package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/spiral/internal/debuglog"
	"github.com/javiermolinar/spiral/internal/layout"
)

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if !debuglog.Enabled() {
		return
	}
	debuglog.Log("KEY_PRESS", map[string]any{
		"key":  msg.String(),
		"type": fmt.Sprintf("%d", msg.Type),
	})
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	if !debuglog.Enabled() {
		return
	}
	debuglog.Log("MODE_CHANGE", map[string]any{
		"from":   from.String(),
		"to":     to.String(),
		"reason": reason,
	})
}

// LogCursorMove logs cursor movement.
func LogCursorMove(pos Position, reason string) {
	if !debuglog.Enabled() {
		return
	}
	debuglog.Log("CURSOR_MOVE", map[string]any{
		"day":     pos.Day,
		"segment": pos.Segment,
		"reason":  reason,
	})
}

// LogWindow logs the visible window after it moves or resizes.
func LogWindow(w layout.Window, action string) {
	if !debuglog.Enabled() {
		return
	}
	debuglog.Log("WINDOW_SHIFT", map[string]any{
		"action":    action,
		"reference": w.Reference.Format(time.RFC3339),
		"days":      w.Days,
	})
}

// LogError logs an error.
func LogError(context string, err error) {
	debuglog.Error("ERROR", err, map[string]any{"context": context})
}
