package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/spiral/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = max(10, msg.Width-4)
		return m, nil

	case commands.EventsLoadedMsg:
		m.list.Load(msg.Events)
		m.loading = false
		return m, nil

	case commands.EventCreatedMsg:
		m.list.Add(msg.Event)
		return m, statusCmd(fmt.Sprintf("Added %q", msg.Event.Title))

	case commands.EventUpdatedMsg:
		// Copy the stored version into the listed event so layout keys,
		// which are event pointers, stay stable.
		if orig := m.list.FindByID(msg.Event.ID); orig != nil {
			*orig = *msg.Event
			m.list.Touch()
		}
		return m, statusCmd(fmt.Sprintf("Updated %q", msg.Event.Title))

	case commands.EventDeletedMsg:
		if err := m.list.Remove(msg.Event); err != nil {
			LogError("remove deleted event", err)
		}
		return m, statusCmd(fmt.Sprintf("Deleted %q", msg.Event.Title))

	case commands.ErrMsg:
		m.err = msg.Err
		LogError("command", msg.Err)
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = m.nowFunc().Add(5 * time.Second)
		return m, nil

	case commands.StatusMsgCmd:
		m.err = nil
		m.statusMsg = msg.Msg
		m.statusTime = m.nowFunc().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.ClearStatusMsg:
		if !m.nowFunc().Before(m.statusTime) {
			m.statusMsg = ""
			m.err = nil
		}
		return m, nil
	}

	// Cursor blink and other prompt-internal messages
	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}
