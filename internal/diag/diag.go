// Package diag provides best-effort diagnostics logging for the engine.
// Tier fallbacks and per-operation failures are recorded here so they can be
// inspected later without ever surfacing to the user mid-command.
package diag

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry records one processed exchange.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	Utterance  string    `json:"utterance"`
	Tier       string    `json:"tier"`
	Fallback   string    `json:"fallback,omitempty"` // why the AI tier was skipped, when it was
	Operations int       `json:"operations"`
	Failures   int       `json:"failures"`
	DurationMs int64     `json:"duration_ms"`
}

// Logger appends entries to a JSONL file. All methods are best-effort and
// never block or fail the command being processed.
type Logger struct {
	FilePath string
	Enabled  bool
}

// NewLogger creates a Logger. A disabled logger discards everything.
func NewLogger(filePath string, enabled bool) *Logger {
	return &Logger{FilePath: filePath, Enabled: enabled}
}

// Record writes a single entry.
func (l *Logger) Record(entry Entry) {
	if l == nil || !l.Enabled || l.FilePath == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(l.FilePath), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(l.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = f.Write(data)
}

// ReadEntries reads all recorded entries, skipping malformed lines.
func ReadEntries(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DefaultPath returns the default diagnostics log location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".sheetmind", "diagnostics.jsonl")
	}
	return filepath.Join(home, ".sheetmind", "diagnostics.jsonl")
}
