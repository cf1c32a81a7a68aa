package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMenu() *Definition {
	return &Definition{
		ID:    "sample",
		Title: "Sample",
		Sections: []Section{
			{
				ID: "one",
				Items: []Item{
					{ID: "go", Label: "Go", Action: Navigate("other")},
					{ID: "run", Label: "Run", Action: Execute("sample:run", nil)},
				},
			},
			{
				ID: "two",
				Items: []Item{
					{ID: "back", Label: "Back", Action: Back()},
				},
			},
		},
		Metadata: Metadata{ContextLevel: "sample", AllowBack: true},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(sampleMenu()))

	def, err := r.Get("sample")
	require.NoError(t, err)
	assert.Equal(t, "Sample", def.Title)
	assert.True(t, r.Has("sample"))

	_, err = r.Get("missing")
	assert.Error(t, err)
}

func TestRegistryReplacesOnReRegister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(sampleMenu()))

	replacement := sampleMenu()
	replacement.Title = "Replacement"
	require.NoError(t, r.Register(replacement))

	def, err := r.Get("sample")
	require.NoError(t, err)
	assert.Equal(t, "Replacement", def.Title)
}

func TestValidateRejectsMalformedDefinitions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"missing id", func(d *Definition) { d.ID = "" }},
		{"missing title", func(d *Definition) { d.Title = "" }},
		{"no sections", func(d *Definition) { d.Sections = nil }},
		{"item without id", func(d *Definition) { d.Sections[0].Items[0].ID = "" }},
		{"navigate without target", func(d *Definition) { d.Sections[0].Items[0].Action = Navigate("") }},
		{"execute without handler", func(d *Definition) { d.Sections[0].Items[1].Action = Execute("", nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := sampleMenu()
			tt.mutate(def)
			assert.Error(t, Validate(def))
		})
	}
}

func TestItemsFlattensSectionsInOrder(t *testing.T) {
	items := sampleMenu().Items()
	require.Len(t, items, 3)
	assert.Equal(t, "go", items[0].ID)
	assert.Equal(t, "run", items[1].ID)
	assert.Equal(t, "back", items[2].ID)
}

func TestEnabledCapabilities(t *testing.T) {
	assert.True(t, Enabled{}.Allow(nil), "zero value allows")
	assert.False(t, Never().Allow(nil))
	assert.True(t, When(func(data map[string]any) bool { return data["on"] == true }).Allow(map[string]any{"on": true}))
	assert.False(t, When(func(data map[string]any) bool { return data["on"] == true }).Allow(nil))
}

func TestEnabledExpr(t *testing.T) {
	enabled, err := WhenExpr(`debug == true`)
	require.NoError(t, err)

	assert.True(t, enabled.Allow(map[string]any{"debug": true}))
	assert.False(t, enabled.Allow(map[string]any{"debug": false}))
	assert.False(t, enabled.Allow(nil), "undefined variable disables the item")

	_, err = WhenExpr(`debug ==`)
	assert.Error(t, err)
}

func TestCoreMenusAreValidAndRegistrable(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, RegisterCoreMenus(r))

	for _, id := range []string{"main", "config", "templates", "generate", "advanced", "settings"} {
		def, err := r.Get(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, def.Metadata.ContextLevel)
	}

	main, err := r.Get("main")
	require.NoError(t, err)
	assert.False(t, main.Metadata.AllowBack)

	// Every navigate target of a core menu must itself be a core menu.
	for _, id := range r.IDs() {
		def, err := r.Get(id)
		require.NoError(t, err)
		for _, item := range def.Items() {
			if item.Action.Kind == ActionNavigate {
				assert.True(t, r.Has(item.Action.Target), "menu %s item %s targets %s", id, item.ID, item.Action.Target)
			}
		}
	}
}

func TestSecurityItemGatedByDebug(t *testing.T) {
	var security *Item
	for _, item := range configMenu().Items() {
		if item.ID == "security" {
			it := item
			security = &it
		}
	}
	require.NotNil(t, security)
	assert.False(t, security.Enabled.Allow(map[string]any{}))
	assert.True(t, security.Enabled.Allow(map[string]any{"debug": true}))
}
