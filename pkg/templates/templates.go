// Package templates manages named configuration templates.
//
// Three built-in templates ship with the tool: starter, enterprise, and
// performance. User templates are YAML files in the XDG data directory and
// may not shadow built-in names.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ForgeLite/forgelite/pkg/config"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "forgelite"

// Template is one named bundle of configuration settings.
type Template struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Settings    map[string]any `yaml:"settings"`
	BuiltIn     bool           `yaml:"-"`
	CreatedAt   time.Time      `yaml:"created_at,omitempty"`
}

// builtins are always available and cannot be modified or deleted.
var builtins = []*Template{
	{
		Name:        "starter",
		Description: "Relaxed quality gates for prototypes and learning projects",
		BuiltIn:     true,
		Settings: map[string]any{
			"generation.framework":       "react",
			"generation.language":        "typescript",
			"quality.coverage_threshold": 70,
			"quality.lint":               true,
			"quality.type_check":         false,
		},
	},
	{
		Name:        "enterprise",
		Description: "Strict quality gates for production codebases",
		BuiltIn:     true,
		Settings: map[string]any{
			"generation.framework":       "react",
			"generation.language":        "typescript",
			"quality.coverage_threshold": 95,
			"quality.lint":               true,
			"quality.type_check":         true,
		},
	},
	{
		Name:        "performance",
		Description: "Balanced gates tuned for fast iteration",
		BuiltIn:     true,
		Settings: map[string]any{
			"generation.framework":       "react",
			"generation.language":        "typescript",
			"quality.coverage_threshold": 80,
			"quality.lint":               true,
			"quality.type_check":         true,
		},
	},
}

// Manager loads, saves, and applies templates.
type Manager struct {
	dir string
}

// DefaultDir returns the XDG-compliant user template directory.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, appName, "templates")
}

// NewManager creates a template manager over the given directory. An empty
// dir selects the default location.
func NewManager(dir string) *Manager {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Manager{dir: dir}
}

// List returns all templates, built-ins first, user templates sorted by
// name.
func (m *Manager) List() ([]*Template, error) {
	out := make([]*Template, len(builtins))
	copy(out, builtins)

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	var users []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		tpl, err := m.load(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		users = append(users, tpl)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return append(out, users...), nil
}

// Get returns the named template, checking built-ins first.
func (m *Manager) Get(name string) (*Template, error) {
	for _, tpl := range builtins {
		if tpl.Name == name {
			return tpl, nil
		}
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	tpl, err := m.load(m.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("template %q not found", name)
		}
		return nil, err
	}
	return tpl, nil
}

// Save persists a user template. Built-in names are reserved.
func (m *Manager) Save(tpl *Template) error {
	if tpl == nil {
		return fmt.Errorf("template cannot be nil")
	}
	if err := validateName(tpl.Name); err != nil {
		return err
	}
	if isBuiltin(tpl.Name) {
		return fmt.Errorf("cannot overwrite built-in template %q", tpl.Name)
	}
	if len(tpl.Settings) == 0 {
		return fmt.Errorf("template %q has no settings", tpl.Name)
	}
	for key := range tpl.Settings {
		if !isKnownKey(key) {
			return fmt.Errorf("template %q references unknown setting %q", tpl.Name, key)
		}
	}

	if tpl.CreatedAt.IsZero() {
		tpl.CreatedAt = time.Now()
	}
	data, err := yaml.Marshal(tpl)
	if err != nil {
		return fmt.Errorf("failed to encode template %q: %w", tpl.Name, err)
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create template directory: %w", err)
	}
	if err := os.WriteFile(m.path(tpl.Name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write template %q: %w", tpl.Name, err)
	}
	return nil
}

// Delete removes a user template. Built-ins cannot be deleted.
func (m *Manager) Delete(name string) error {
	if isBuiltin(name) {
		return fmt.Errorf("cannot delete built-in template %q", name)
	}
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(m.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("template %q not found", name)
		}
		return fmt.Errorf("failed to delete template %q: %w", name, err)
	}
	return nil
}

// Apply writes the template's settings into the configuration store.
func (m *Manager) Apply(name string, store *config.Store) error {
	tpl, err := m.Get(name)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tpl.Settings))
	for key := range tpl.Settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := store.Set(key, tpl.Settings[key]); err != nil {
			return fmt.Errorf("failed to apply template %q: %w", name, err)
		}
	}
	return nil
}

// SnapshotCurrent builds a template from the store's current settings,
// restricted to the generation and quality sections.
func SnapshotCurrent(name, description string, store *config.Store) *Template {
	settings := map[string]any{}
	for _, key := range config.Keys() {
		if strings.HasPrefix(key, "generation.") || strings.HasPrefix(key, "quality.") {
			settings[key] = store.Get(key)
		}
	}
	return &Template{Name: name, Description: description, Settings: settings}
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.dir, name+".yaml")
}

func (m *Manager) load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", path, err)
	}
	if tpl.Name == "" {
		tpl.Name = strings.TrimSuffix(filepath.Base(path), ".yaml")
	}
	return &tpl, nil
}

func isBuiltin(name string) bool {
	for _, tpl := range builtins {
		if tpl.Name == name {
			return true
		}
	}
	return false
}

func isKnownKey(key string) bool {
	for _, known := range config.Keys() {
		if known == key {
			return true
		}
	}
	return false
}

// validateName rejects empty names and names that would escape the
// template directory.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		return fmt.Errorf("invalid template name %q", name)
	}
	return nil
}
