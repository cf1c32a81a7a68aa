// Package state manages persistent session state and command history.
//
// State is stored in XDG-compliant directories: session preferences as YAML
// for human readability, command history as JSON. The Manager is
// thread-safe and uses atomic file writes to prevent corruption.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "forgelite"

// Manager handles loading and saving session preferences.
type Manager struct {
	mu        sync.RWMutex
	statePath string
	state     *State
}

// State is the persisted session state.
type State struct {
	// LastSessionID identifies the most recent interactive session.
	LastSessionID string `yaml:"last_session_id,omitempty"`
	// LastMode is the interaction mode the user last switched to.
	LastMode string `yaml:"last_mode,omitempty"`
	// LastLevel is the menu level the last session ended on.
	LastLevel string `yaml:"last_level,omitempty"`
	// SessionCount counts interactive sessions started on this machine.
	SessionCount int       `yaml:"session_count,omitempty"`
	LastActive   time.Time `yaml:"last_active,omitempty"`
	LastModified time.Time `yaml:"last_modified,omitempty"`
}

// DefaultStatePath returns the XDG-compliant state file path.
func DefaultStatePath() string {
	return filepath.Join(xdg.StateHome, appName, "state.yaml")
}

// NewManager creates a state manager backed by the file at path, loading
// existing state when present. An empty path selects the default location.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		path = DefaultStatePath()
	}
	m := &Manager{
		statePath: path,
		state:     &State{},
	}
	if err := m.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load state: %w", err)
		}
	}
	return m, nil
}

// Load reads state from disk.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.statePath)
	if err != nil {
		return err
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}
	m.state = &state
	return nil
}

// Save writes state to disk with an atomic rename.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save()
}

// save writes the state file. Caller holds the lock.
func (m *Manager) save() error {
	if err := os.MkdirAll(filepath.Dir(m.statePath), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	m.state.LastModified = time.Now()

	data, err := yaml.Marshal(m.state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tmpPath := m.statePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmpPath, m.statePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save state file: %w", err)
	}
	return nil
}

// RecordSessionStart notes a new interactive session and persists it.
func (m *Manager) RecordSessionStart(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastSessionID = sessionID
	m.state.SessionCount++
	m.state.LastActive = time.Now()
	return m.save()
}

// RecordSessionEnd persists the level and mode a session ended on.
func (m *Manager) RecordSessionEnd(level, mode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastLevel = level
	m.state.LastMode = mode
	m.state.LastActive = time.Now()
	return m.save()
}

// SetLastMode persists the user's interaction-mode preference.
func (m *Manager) SetLastMode(mode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastMode = mode
	return m.save()
}

// Snapshot returns a copy of the current state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.state
}
