package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContextStartsAtMain(t *testing.T) {
	ctx := NewContext(ModeMenu)
	assert.Equal(t, "main", ctx.Level)
	assert.Equal(t, []string{"Main Menu"}, ctx.Breadcrumb)
	assert.True(t, ctx.AtRoot())
	assert.NotEmpty(t, ctx.SessionID)
}

func TestNavigatePushesBreadcrumb(t *testing.T) {
	ctx := NewContext(ModeMenu)
	ctx.Navigate("config")
	assert.Equal(t, "config", ctx.Level)
	assert.Equal(t, "Main Menu > Configuration", ctx.BreadcrumbString())

	ctx.Navigate("templates")
	assert.Equal(t, "Main Menu > Configuration > Templates", ctx.BreadcrumbString())
}

func TestNavigateSuppressesConsecutiveDuplicate(t *testing.T) {
	ctx := NewContext(ModeMenu)
	ctx.Navigate("config")
	ctx.Navigate("config")
	assert.Equal(t, []string{"Main Menu", "Configuration"}, ctx.Breadcrumb)

	// The same level may appear again after visiting another one.
	ctx.Navigate("templates")
	ctx.Navigate("config")
	assert.Equal(t, []string{"Main Menu", "Configuration", "Templates", "Configuration"}, ctx.Breadcrumb)
}

func TestBackPopsOneLevel(t *testing.T) {
	ctx := NewContext(ModeMenu)
	ctx.Navigate("config")
	ctx.Navigate("templates")

	require.True(t, ctx.Back())
	assert.Equal(t, "config", ctx.Level)
	require.True(t, ctx.Back())
	assert.Equal(t, "main", ctx.Level)
	assert.False(t, ctx.Back(), "back at the root is a no-op")
	assert.Equal(t, "Main Menu", ctx.BreadcrumbString())
}

func TestHomeResetsToMain(t *testing.T) {
	ctx := NewContext(ModeMenu)
	ctx.Navigate("config")
	ctx.Navigate("templates")
	ctx.Home()
	assert.Equal(t, "main", ctx.Level)
	assert.Equal(t, []string{"Main Menu"}, ctx.Breadcrumb)
}

func TestNavigateToMainResets(t *testing.T) {
	ctx := NewContext(ModeMenu)
	ctx.Navigate("config")
	ctx.Navigate("main")
	assert.True(t, ctx.AtRoot())
}

func TestHistoryRecordsInputsAndNavMarkers(t *testing.T) {
	ctx := NewContext(ModeMenu)
	ctx.RecordInput("config")
	ctx.Navigate("config")
	ctx.RecordInput("show")
	ctx.Home()
	assert.Equal(t, []string{"config", "nav:main", "show", "nav:config"}, ctx.History)

	ctx.RecordInput("")
	assert.Len(t, ctx.History, 4, "blank lines are not recorded")
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, ModeCommand, ParseMode("command"))
	assert.Equal(t, ModeCommand, ParseMode("  CMD "))
	assert.Equal(t, ModeMenu, ParseMode("menu"))
	assert.Equal(t, ModeMenu, ParseMode(""))
	assert.Equal(t, ModeMenu, ParseMode("nonsense"))
}
