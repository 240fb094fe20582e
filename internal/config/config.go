// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Window anchors.
const (
	AnchorHour     = "hour"     // reference is the start of the current hour
	AnchorMidnight = "midnight" // reference is the start of the current day
)

// Window size limits.
const (
	MinDays = 1
	MaxDays = 60
)

// Config holds the application configuration.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Calendars CalendarsConfig `toml:"calendars"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Storage   StorageConfig   `toml:"storage"`
	UI        UIConfig        `toml:"ui"`
}

// WindowConfig holds the visible window settings.
type WindowConfig struct {
	Days   int    `toml:"days"`   // number of visible days
	Anchor string `toml:"anchor"` // "hour" or "midnight"
}

// CalendarsConfig holds calendar visibility settings.
type CalendarsConfig struct {
	Visible []string `toml:"visible"` // e.g., ["Home", "Work"]
	Default string   `toml:"default"` // tag for new events
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte", "light", "auto"
}

// ScheduleConfig holds the working hours used to place quick-add events.
type ScheduleConfig struct {
	Workdays []string `toml:"workdays"`  // e.g., ["monday", "tuesday", ...]
	DayStart string   `toml:"day_start"` // e.g., "09:00"
	DayEnd   string   `toml:"day_end"`   // e.g., "17:00"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Days:   7,
			Anchor: AnchorHour,
		},
		Calendars: CalendarsConfig{
			Visible: []string{"Home", "Work"},
			Default: "Home",
		},
		Schedule: ScheduleConfig{
			Workdays: []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"},
			DayStart: "08:00",
			DayEnd:   "20:00",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return "spiral.db"
	}
	return filepath.Join(home, ".local", "share", "spiral", "spiral.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "spiral", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SPIRAL_WINDOW_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SPIRAL_WINDOW_DAYS: %w", err)
		}
		cfg.Window.Days = days
	}
	if v := os.Getenv("SPIRAL_WINDOW_ANCHOR"); v != "" {
		cfg.Window.Anchor = v
	}

	if v := os.Getenv("SPIRAL_VISIBLE_CALENDARS"); v != "" {
		cfg.Calendars.Visible = splitList(v)
	}
	if v := os.Getenv("SPIRAL_DEFAULT_CALENDAR"); v != "" {
		cfg.Calendars.Default = v
	}

	if v := os.Getenv("SPIRAL_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("SPIRAL_DAY_END"); v != "" {
		cfg.Schedule.DayEnd = v
	}
	if v := os.Getenv("SPIRAL_WORKDAYS"); v != "" {
		cfg.Schedule.Workdays = splitList(v)
	}

	if v := os.Getenv("SPIRAL_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("SPIRAL_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Window.Days < MinDays || c.Window.Days > MaxDays {
		return fmt.Errorf("window days must be between %d and %d, got %d", MinDays, MaxDays, c.Window.Days)
	}
	switch c.Window.Anchor {
	case AnchorHour, AnchorMidnight:
	default:
		return fmt.Errorf("window anchor must be %q or %q, got %q", AnchorHour, AnchorMidnight, c.Window.Anchor)
	}

	if strings.TrimSpace(c.Calendars.Default) == "" {
		return errors.New("default calendar must be set")
	}

	if err := validateTime(c.Schedule.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Schedule.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Schedule.DayStart >= c.Schedule.DayEnd {
		return errors.New("day_start must be before day_end")
	}
	for _, day := range c.Schedule.Workdays {
		if !isValidWeekday(day) {
			return fmt.Errorf("invalid workday: %s", day)
		}
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) || hour > "23" || min > "59" {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

var validWeekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

func isValidWeekday(day string) bool {
	return validWeekdays[strings.ToLower(day)]
}

// Reference returns the window reference time for now according to the
// configured anchor.
func (c *Config) Reference(now time.Time) time.Time {
	if c.Window.Anchor == AnchorMidnight {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).UTC()
	}
	return now.UTC().Truncate(time.Hour)
}

// IsVisible reports whether a calendar is configured as visible.
func (c *Config) IsVisible(calendar string) bool {
	for _, v := range c.Calendars.Visible {
		if v == calendar {
			return true
		}
	}
	return false
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
