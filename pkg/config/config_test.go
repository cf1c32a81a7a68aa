package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := Open(path)
	require.NoError(t, err)
	return store
}

func TestOpenWithMissingFileUsesDefaults(t *testing.T) {
	store := openTestStore(t)

	assert.Equal(t, "react", store.GetString("generation.framework"))
	assert.Equal(t, 80, store.GetInt("quality.coverage_threshold"))
	assert.True(t, store.GetBool("quality.lint"))
	assert.Equal(t, ModeMenu, store.InteractionMode())
}

func TestSetPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("generation.framework", "vue"))
	require.NoError(t, store.Set("quality.coverage_threshold", 95))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "vue", reopened.GetString("generation.framework"))
	assert.Equal(t, 95, reopened.GetInt("quality.coverage_threshold"))
}

func TestSetRejectsUnknownKey(t *testing.T) {
	store := openTestStore(t)
	err := store.Set("no.such.key", "value")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown configuration key")
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("FORGELITE_GENERATION_FRAMEWORK", "svelte")

	store := openTestStore(t)
	assert.Equal(t, "svelte", store.GetString("generation.framework"))
}

func TestResetToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("generation.framework", "angular"))
	require.NoError(t, store.ResetToDefaults())
	assert.Equal(t, "react", store.GetString("generation.framework"))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "react", reopened.GetString("generation.framework"))
}

func TestInteractionMode(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.SetInteractionMode(ModeCommand))
	assert.Equal(t, ModeCommand, store.InteractionMode())

	err := store.SetInteractionMode("vim")
	require.Error(t, err)
	assert.Equal(t, ModeCommand, store.InteractionMode())
}

func TestGetUnknownKeyReturnsNil(t *testing.T) {
	store := openTestStore(t)
	assert.Nil(t, store.Get("bogus.key"))
	assert.NotNil(t, store.Get("agent.command"))
}

func TestKeysSortedAndComplete(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "session.mode")
	assert.Contains(t, keys, "agent.timeout_seconds")
	assert.IsType(t, []string{}, keys)
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}

func TestOpenRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}
