// Package config handles loading, persisting, and defaulting the tool
// configuration.
//
// Configuration lives in an XDG-compliant YAML file and is layered through
// viper. Priority: environment (FORGELITE_*) > user config file > built-in
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	appName   = "forgelite"
	envPrefix = "FORGELITE"
)

// Interaction modes accepted by session.mode.
const (
	ModeMenu    = "menu"
	ModeCommand = "command"
)

// defaults holds every known setting with its built-in value. Keys outside
// this table are rejected by Set.
var defaults = map[string]any{
	"project.name":               "",
	"generation.framework":       "react",
	"generation.language":        "typescript",
	"quality.coverage_threshold": 80,
	"quality.lint":               true,
	"quality.type_check":         true,
	"agent.command":              "claude",
	"agent.model":                "",
	"agent.timeout_seconds":      120,
	"agent.max_retries":          2,
	"session.mode":               ModeMenu,
	"audit.enabled":              true,
}

// Store provides synchronized access to the layered configuration.
type Store struct {
	mu   sync.RWMutex
	v    *viper.Viper
	path string
}

// DefaultPath returns the XDG-compliant user config file path. The
// FORGELITE_CONFIG environment variable overrides it.
func DefaultPath() string {
	if custom := os.Getenv(envPrefix + "_CONFIG"); custom != "" {
		return custom
	}
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Open loads the configuration store backed by the file at path. A missing
// file is not an error; defaults apply until the first Save.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return &Store{v: v, path: path}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the effective value for a dotted key, or nil for unknown
// keys.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := defaults[key]; !ok {
		return nil
	}
	return s.v.Get(key)
}

// GetString returns the effective value for a dotted key as a string.
func (s *Store) GetString(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetString(key)
}

// GetInt returns the effective value for a dotted key as an int.
func (s *Store) GetInt(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetInt(key)
}

// GetBool returns the effective value for a dotted key as a bool.
func (s *Store) GetBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(key)
}

// Set updates a known key and persists the configuration.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	s.v.Set(key, value)
	return s.save()
}

// Keys returns every known configuration key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for key := range defaults {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns the full effective configuration as nested maps.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.AllSettings()
}

// ResetToDefaults discards user settings and persists the built-in
// defaults.
func (s *Store) ResetToDefaults() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := newViper()
	v.SetConfigFile(s.path)
	s.v = v
	return s.save()
}

// InteractionMode returns the configured default interaction mode.
func (s *Store) InteractionMode() string {
	mode := s.GetString("session.mode")
	if mode != ModeCommand {
		return ModeMenu
	}
	return mode
}

// SetInteractionMode validates and persists the default interaction mode.
func (s *Store) SetInteractionMode(mode string) error {
	if mode != ModeMenu && mode != ModeCommand {
		return fmt.Errorf("invalid interaction mode %q: must be %s or %s", mode, ModeMenu, ModeCommand)
	}
	return s.Set("session.mode", mode)
}

// save writes the current settings as YAML. Caller holds the lock.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(s.v.AllSettings())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}
	return nil
}
