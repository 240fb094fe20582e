// Package debuglog writes structured JSON-lines debug logs to a file.
package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultPath is the fixed path for debug logs.
const DefaultPath = "spiral-debug.log"

// Logger writes one JSON object per line.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	closer  io.Closer
	enabled bool
	seq     int
}

// Global logger instance; disabled until Init is called with enabled=true.
var std = &Logger{}

// Init enables file logging at DefaultPath when enabled is true.
func Init(enabled bool) error {
	return InitPath(enabled, DefaultPath)
}

// InitPath enables file logging at path when enabled is true.
func InitPath(enabled bool, path string) error {
	if !enabled {
		std = &Logger{}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}
	std = &Logger{w: f, closer: f, enabled: true}
	std.Log("DEBUG_START", map[string]any{
		"log_file": path,
		"time":     time.Now().Format(time.RFC3339),
	})
	return nil
}

// New returns a logger writing to w. Used by tests and embedders.
func New(w io.Writer) *Logger {
	return &Logger{w: w, enabled: w != nil}
}

// SetDefault replaces the global logger and returns the previous one.
func SetDefault(l *Logger) *Logger {
	prev := std
	if l == nil {
		l = &Logger{}
	}
	std = l
	return prev
}

// Close flushes the end marker and closes the log file.
func Close() {
	if std == nil || !std.enabled {
		return
	}
	std.Log("DEBUG_END", map[string]any{
		"time": time.Now().Format(time.RFC3339),
	})
	if std.closer != nil {
		_ = std.closer.Close()
	}
	std = &Logger{}
}

// Enabled reports whether the global logger writes anything.
func Enabled() bool {
	return std != nil && std.enabled
}

// Log writes an entry with the global logger.
func Log(event string, data map[string]any) {
	std.Log(event, data)
}

// Error logs a failure with its context.
func Error(event string, err error, data map[string]any) {
	entry := map[string]any{"error": fmt.Sprint(err)}
	for k, v := range data {
		entry[k] = v
	}
	std.Log(event, entry)
}

// Log writes a structured log entry.
func (l *Logger) Log(event string, data map[string]any) {
	if l == nil || !l.enabled || l.w == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := map[string]any{
		"seq":   l.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(l.w, "%s\n", b)
}
