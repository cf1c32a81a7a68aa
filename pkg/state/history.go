package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// History manages persistent command history storage and retrieval.
type History struct {
	mu          sync.RWMutex
	historyPath string
	entries     []*HistoryEntry
	maxEntries  int
}

// HistoryEntry is a single recorded command.
type HistoryEntry struct {
	ID        int       `json:"id"`
	Command   string    `json:"command"`
	Level     string    `json:"level,omitempty"`
	Mode      string    `json:"mode,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
}

// historyData is the on-disk structure of the history file.
type historyData struct {
	History    []*HistoryEntry `json:"history"`
	MaxEntries int             `json:"max_entries"`
	Version    string          `json:"version,omitempty"`
}

const (
	// DefaultMaxHistoryEntries bounds the persistent history file.
	DefaultMaxHistoryEntries = 1000

	historyVersion = "1.0"
)

// DefaultHistoryPath returns the XDG-compliant history file path.
func DefaultHistoryPath() string {
	return filepath.Join(xdg.StateHome, appName, "history.json")
}

// NewHistory creates a history manager backed by the file at path, loading
// existing entries when present. An empty path selects the default
// location.
func NewHistory(path string, maxEntries int) (*History, error) {
	if path == "" {
		path = DefaultHistoryPath()
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxHistoryEntries
	}

	h := &History{
		historyPath: path,
		entries:     make([]*HistoryEntry, 0),
		maxEntries:  maxEntries,
	}
	if err := h.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
	}
	return h, nil
}

// Load reads history from disk and renumbers entries sequentially.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.historyPath)
	if err != nil {
		return err
	}

	var stored historyData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse history file: %w", err)
	}

	h.entries = stored.History
	if h.entries == nil {
		h.entries = make([]*HistoryEntry, 0)
	}
	if stored.MaxEntries > 0 {
		h.maxEntries = stored.MaxEntries
	}
	for i, entry := range h.entries {
		entry.ID = i + 1
	}
	return nil
}

// Save writes history to disk with an atomic rename.
func (h *History) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(h.historyPath), 0700); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	stored := historyData{
		History:    h.entries,
		MaxEntries: h.maxEntries,
		Version:    historyVersion,
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmpPath := h.historyPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	if err := os.Rename(tmpPath, h.historyPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save history file: %w", err)
	}
	return nil
}

// Append records one command, evicting the oldest entry beyond the cap.
func (h *History) Append(command, level, mode, sessionID string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, &HistoryEntry{
		ID:        len(h.entries) + 1,
		Command:   command,
		Level:     level,
		Mode:      mode,
		Timestamp: time.Now(),
		SessionID: sessionID,
	})
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
		for i, entry := range h.entries {
			entry.ID = i + 1
		}
	}
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []*HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Commands returns up to limit of the most recent command strings, oldest
// first. A non-positive limit returns everything.
func (h *History) Commands(limit int) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	start := 0
	if limit > 0 && len(h.entries) > limit {
		start = len(h.entries) - limit
	}
	out := make([]string, 0, len(h.entries)-start)
	for _, entry := range h.entries[start:] {
		out = append(out, entry.Command)
	}
	return out
}

// Search returns entries whose command contains the term,
// case-insensitively.
func (h *History) Search(term string) []*HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	term = strings.ToLower(term)
	var out []*HistoryEntry
	for _, entry := range h.entries {
		if strings.Contains(strings.ToLower(entry.Command), term) {
			out = append(out, entry)
		}
	}
	return out
}

// Clear removes all entries and persists the empty history.
func (h *History) Clear() error {
	h.mu.Lock()
	h.entries = make([]*HistoryEntry, 0)
	h.mu.Unlock()
	return h.Save()
}
