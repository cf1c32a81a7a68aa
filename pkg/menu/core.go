package menu

// DisplayNames maps each core level to the label shown in the breadcrumb.
var DisplayNames = map[string]string{
	"main":      "Main Menu",
	"config":    "Configuration",
	"templates": "Templates",
	"generate":  "Generate",
	"advanced":  "Advanced",
	"settings":  "Settings",
}

// LevelForDisplayName resolves a breadcrumb label back to its level id,
// defaulting to main for unknown labels.
func LevelForDisplayName(name string) string {
	for level, display := range DisplayNames {
		if display == name {
			return level
		}
	}
	return "main"
}

// mustWhenExpr is for static menu construction, where the expressions are
// author-controlled.
func mustWhenExpr(source string) Enabled {
	enabled, err := WhenExpr(source)
	if err != nil {
		panic(err)
	}
	return enabled
}

// CoreMenus returns the built-in screen definitions: main, config,
// templates, generate, advanced, and settings.
func CoreMenus() []*Definition {
	return []*Definition{
		mainMenu(),
		configMenu(),
		templatesMenu(),
		generateMenu(),
		advancedMenu(),
		settingsMenu(),
	}
}

// RegisterCoreMenus registers every core menu into the registry.
func RegisterCoreMenus(r *Registry) error {
	for _, def := range CoreMenus() {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func mainMenu() *Definition {
	return &Definition{
		ID:          "main",
		Title:       "Main Menu",
		Description: "Transform task descriptions into tested, production-ready code",
		Sections: []Section{
			{
				ID:      "actions",
				Heading: "Options",
				Items: []Item{
					{
						ID:          "generate",
						Label:       "Generate Code",
						Description: "Start a code-generation workflow",
						Shortcuts:   []string{"gen", "g"},
						Action:      Navigate("generate"),
					},
					{
						ID:          "config",
						Label:       "Configuration",
						Description: "Manage settings and templates",
						Shortcuts:   []string{"cfg"},
						Action:      Navigate("config"),
					},
					{
						ID:          "templates",
						Label:       "Templates",
						Description: "Manage configuration templates",
						Shortcuts:   []string{"tpl"},
						Action:      Navigate("templates"),
					},
					{
						ID:          "advanced",
						Label:       "Advanced Settings",
						Description: "Expert settings, debugging, and metrics",
						Shortcuts:   []string{"adv"},
						Action:      Navigate("advanced"),
					},
					{
						ID:          "settings",
						Label:       "Settings",
						Description: "Interaction mode and session preferences",
						Action:      Navigate("settings"),
					},
					{
						ID:          "help",
						Label:       "Help",
						Description: "Show available commands",
						Shortcuts:   []string{"?"},
						Action:      Execute("system:help", nil),
					},
					{
						ID:          "quit",
						Label:       "Quit",
						Description: "Exit the session",
						Shortcuts:   []string{"exit"},
						Action:      Exit(),
					},
				},
			},
		},
		Metadata: Metadata{ContextLevel: "main", AllowBack: false},
	}
}

func configMenu() *Definition {
	return &Definition{
		ID:          "config",
		Title:       "Configuration",
		Description: "Project configuration and settings management",
		Sections: []Section{
			{
				ID:      "commands",
				Heading: "Commands",
				Items: []Item{
					{
						ID:          "show",
						Label:       "Show Configuration",
						Description: "Display the current configuration",
						Action:      Execute("config:show", nil),
					},
					{
						ID:          "edit",
						Label:       "Edit Setting",
						Description: "Change a configuration value",
						Action:      Execute("config:edit", nil),
					},
					{
						ID:          "templates",
						Label:       "Templates",
						Description: "Browse configuration templates",
						Action:      Navigate("templates"),
					},
					{
						ID:          "framework",
						Label:       "Framework",
						Description: "Framework-specific settings",
						Shortcuts:   []string{"fw"},
						Action:      Execute("config:framework", nil),
					},
					{
						ID:          "quality",
						Label:       "Quality Gates",
						Description: "Coverage thresholds and lint rules",
						Action:      Execute("config:quality", nil),
					},
					{
						// Security settings expose the policy file; only
						// meaningful when running with the debug flag.
						ID:          "security",
						Label:       "Security Policy",
						Description: "Allow/deny lists for paths and commands",
						Shortcuts:   []string{"sec"},
						Action:      Execute("config:security", nil),
						Enabled:     mustWhenExpr(`debug == true`),
					},
					{
						ID:     "back",
						Label:  "Back",
						Action: Back(),
					},
				},
			},
		},
		Metadata: Metadata{ContextLevel: "config", AllowBack: true},
	}
}

func templatesMenu() *Definition {
	return &Definition{
		ID:          "templates",
		Title:       "Templates",
		Description: "Configuration templates (starter, enterprise, performance)",
		Sections: []Section{
			{
				ID:      "commands",
				Heading: "Commands",
				Items: []Item{
					{
						ID:          "list",
						Label:       "List Templates",
						Description: "Show all available templates",
						Shortcuts:   []string{"ls"},
						Action:      Execute("templates:list", nil),
					},
					{
						ID:          "use",
						Label:       "Use Template",
						Description: "Apply a template to the configuration",
						Action:      Execute("templates:use", nil),
					},
					{
						ID:          "preview",
						Label:       "Preview Template",
						Description: "Show a template without applying it",
						Action:      Execute("templates:preview", nil),
					},
					{
						ID:          "create",
						Label:       "Create Template",
						Description: "Save the current configuration as a template",
						Action:      Execute("templates:create", nil),
					},
					{
						ID:          "delete",
						Label:       "Delete Template",
						Description: "Remove a user template",
						Action:      Execute("templates:delete", nil),
					},
					{
						ID:          "reset",
						Label:       "Reset",
						Description: "Restore the default configuration",
						Action:      Execute("templates:reset", nil),
					},
					{
						ID:     "back",
						Label:  "Back",
						Action: Back(),
					},
				},
			},
		},
		Metadata: Metadata{ContextLevel: "templates", AllowBack: true},
	}
}

func generateMenu() *Definition {
	return &Definition{
		ID:          "generate",
		Title:       "Generate",
		Description: "AI-powered code generation workflow",
		Sections: []Section{
			{
				ID:      "commands",
				Heading: "Commands",
				Items: []Item{
					{
						ID:          "task",
						Label:       "Run Task",
						Description: "Generate code from a task description",
						Action:      Execute("generate:task", nil),
					},
					{
						ID:          "component",
						Label:       "Component",
						Description: "Generate a single component",
						Action:      Execute("generate:task", map[string]string{"kind": "component"}),
					},
					{
						ID:          "api",
						Label:       "API",
						Description: "Generate an API endpoint",
						Action:      Execute("generate:task", map[string]string{"kind": "api"}),
					},
					{
						ID:          "test",
						Label:       "Tests",
						Description: "Generate tests for existing code",
						Action:      Execute("generate:task", map[string]string{"kind": "test"}),
					},
					{
						ID:     "back",
						Label:  "Back",
						Action: Back(),
					},
				},
			},
		},
		Metadata: Metadata{ContextLevel: "generate", AllowBack: true},
	}
}

func advancedMenu() *Definition {
	return &Definition{
		ID:          "advanced",
		Title:       "Advanced",
		Description: "Expert settings, debugging, and metrics",
		Sections: []Section{
			{
				ID:      "commands",
				Heading: "Commands",
				Items: []Item{
					{
						ID:          "language",
						Label:       "Language",
						Description: "Target language preferences",
						Action:      Execute("advanced:language", nil),
					},
					{
						ID:          "agents",
						Label:       "Agents",
						Description: "Agent executor configuration",
						Action:      Execute("advanced:agents", nil),
					},
					{
						ID:          "logging",
						Label:       "Logging",
						Description: "Audit log location and verbosity",
						Action:      Execute("advanced:logging", nil),
					},
					{
						ID:          "metrics",
						Label:       "Metrics",
						Description: "Command execution statistics",
						Action:      Execute("advanced:metrics", nil),
					},
					{
						ID:          "debug",
						Label:       "Debug Info",
						Description: "Internal session state (admin)",
						Action:      Execute("advanced:debug", nil),
					},
					{
						ID:     "back",
						Label:  "Back",
						Action: Back(),
					},
				},
			},
		},
		Metadata: Metadata{ContextLevel: "advanced", AllowBack: true},
	}
}

func settingsMenu() *Definition {
	return &Definition{
		ID:          "settings",
		Title:       "Settings",
		Description: "Interaction mode and session preferences",
		Sections: []Section{
			{
				ID:      "commands",
				Heading: "Commands",
				Items: []Item{
					{
						ID:          "mode",
						Label:       "Interaction Mode",
						Description: "Set the default interaction mode (menu or command)",
						Action:      Execute("settings:mode", nil),
					},
					{
						ID:          "session",
						Label:       "Session Info",
						Description: "Current session and usage summary",
						Action:      Execute("settings:session", nil),
					},
					{
						ID:          "reset",
						Label:       "Reset Preferences",
						Description: "Restore default preferences",
						Action:      Execute("settings:reset", nil),
					},
					{
						ID:     "back",
						Label:  "Back",
						Action: Back(),
					},
				},
			},
		},
		Metadata: Metadata{ContextLevel: "settings", AllowBack: true},
	}
}
