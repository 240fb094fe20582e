// Package input parses text typed into the TUI prompt.
package input

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/spiral/internal/dateutil"
)

// ErrEmptyInput is returned for blank prompt input.
var ErrEmptyInput = errors.New("empty input")

// DefaultDuration is the length of events added without a duration.
const DefaultDuration = time.Hour

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
}

// Commands lists the slash commands understood by the prompt.
var Commands = []PromptCommand{
	{Name: "/add", Description: "Add an event at the cursor: /add TITLE [DURATION]"},
	{Name: "/goto", Description: "Move the window: /goto 2025-01-15 09:00"},
	{Name: "/days", Description: "Set the number of visible days"},
	{Name: "/toggle", Description: "Show or hide a calendar"},
	{Name: "/title", Description: "Rename the selected event"},
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// ParseCommand splits "/name rest of line" into its name and argument.
// Input without a leading slash is treated as "/add".
func ParseCommand(input string) (name, arg string, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", "", ErrEmptyInput
	}
	if !strings.HasPrefix(input, "/") {
		return "/add", input, nil
	}
	name, arg, _ = strings.Cut(input, " ")
	return strings.ToLower(name), strings.TrimSpace(arg), nil
}

// ParseAdd reads "TITLE [DURATION]". A trailing token that parses as a
// duration ("45m", "1h30m", "90") is taken as the length; otherwise the
// whole input is the title and DefaultDuration applies.
func ParseAdd(input string) (title string, length time.Duration, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", 0, ErrEmptyInput
	}

	length = DefaultDuration
	if i := strings.LastIndexByte(input, ' '); i > 0 {
		if d, err := dateutil.ParseDuration(input[i+1:]); err == nil {
			length = d
			input = strings.TrimSpace(input[:i])
		}
	}
	return input, length, nil
}
