package templates

import (
	"path/filepath"
	"testing"

	"github.com/ForgeLite/forgelite/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), "templates"))
}

func TestListIncludesBuiltins(t *testing.T) {
	m := newTestManager(t)

	all, err := m.List()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "starter", all[0].Name)
	assert.True(t, all[0].BuiltIn)
}

func TestGetBuiltin(t *testing.T) {
	m := newTestManager(t)

	tpl, err := m.Get("enterprise")
	require.NoError(t, err)
	assert.Equal(t, 95, tpl.Settings["quality.coverage_threshold"])

	_, err = m.Get("nonexistent")
	assert.Error(t, err)
}

func TestSaveAndReloadUserTemplate(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Save(&Template{
		Name:        "my-team",
		Description: "Team defaults",
		Settings:    map[string]any{"quality.coverage_threshold": 85},
	}))

	tpl, err := m.Get("my-team")
	require.NoError(t, err)
	assert.Equal(t, "Team defaults", tpl.Description)
	assert.Equal(t, 85, tpl.Settings["quality.coverage_threshold"])

	all, err := m.List()
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "my-team", all[3].Name)
}

func TestSaveRejectsInvalidTemplates(t *testing.T) {
	m := newTestManager(t)

	assert.Error(t, m.Save(nil))
	assert.Error(t, m.Save(&Template{Name: "", Settings: map[string]any{"quality.lint": true}}))
	assert.Error(t, m.Save(&Template{Name: "../escape", Settings: map[string]any{"quality.lint": true}}))
	assert.Error(t, m.Save(&Template{Name: "starter", Settings: map[string]any{"quality.lint": true}}), "built-in names are reserved")
	assert.Error(t, m.Save(&Template{Name: "empty", Settings: nil}))
	assert.Error(t, m.Save(&Template{Name: "bad-key", Settings: map[string]any{"no.such.key": 1}}))
}

func TestDelete(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Save(&Template{Name: "scratch", Settings: map[string]any{"quality.lint": false}}))

	require.NoError(t, m.Delete("scratch"))
	_, err := m.Get("scratch")
	assert.Error(t, err)

	assert.Error(t, m.Delete("starter"), "built-ins cannot be deleted")
	assert.Error(t, m.Delete("scratch"), "already gone")
}

func TestApplyWritesSettingsToStore(t *testing.T) {
	m := newTestManager(t)
	store, err := config.Open(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	require.NoError(t, m.Apply("enterprise", store))
	assert.Equal(t, 95, store.GetInt("quality.coverage_threshold"))
	assert.True(t, store.GetBool("quality.type_check"))
}

func TestSnapshotCurrent(t *testing.T) {
	store, err := config.Open(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, store.Set("generation.framework", "vue"))

	tpl := SnapshotCurrent("mine", "snapshot", store)
	assert.Equal(t, "vue", tpl.Settings["generation.framework"])
	assert.NotContains(t, tpl.Settings, "agent.command")
	assert.NotContains(t, tpl.Settings, "session.mode")

	m := newTestManager(t)
	require.NoError(t, m.Save(tpl))
}
