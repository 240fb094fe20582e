// Package palette resolves event colors against a color theme.
package palette

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Auto selects a dark or light theme from the terminal background.
const Auto = "auto"

// Theme holds the colors of one palette theme.
type Theme struct {
	Name    string `toml:"name"`
	Bg      string `toml:"bg"`       // Base background
	Fg      string `toml:"fg"`       // Primary foreground
	FgMuted string `toml:"fg_muted"` // Hidden calendars, empty cells
	Accent  string `toml:"accent"`   // Titles, cursor
	Current string `toml:"current"`  // The hour containing now

	// Colors maps palette names ("blue") to hex values.
	Colors map[string]string `toml:"colors"`
	// Calendars maps calendar tags to a palette name or hex default.
	Calendars map[string]string `toml:"calendars"`
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		name = "mocha"
	case Auto:
		name = "latte"
		if termenv.HasDarkBackground() {
			name = "mocha"
		}
	}

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != "mocha" {
			return Load("mocha")
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()
	return &t, nil
}

func (t *Theme) applyDefaults() {
	if t.Colors == nil {
		t.Colors = map[string]string{}
	}
	if t.Calendars == nil {
		t.Calendars = map[string]string{}
	}
	if t.FgMuted == "" {
		t.FgMuted = t.Fg
	}
	if t.Accent == "" {
		t.Accent = t.Fg
	}
	if t.Current == "" {
		t.Current = t.Accent
	}
}

// ColorNames returns the palette color names sorted alphabetically.
func (t *Theme) ColorNames() []string {
	names := make([]string, 0, len(t.Colors))
	for n := range t.Colors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "latte", "light", Auto}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
