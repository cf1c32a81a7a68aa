package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ForgeLite/forgelite/pkg/command"
	"github.com/ForgeLite/forgelite/pkg/task"
	"github.com/ForgeLite/forgelite/pkg/templates"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// registerCoreHandlers wires every menu-reachable operation into the
// command registry.
func (a *app) registerCoreHandlers() error {
	handlers := []*command.Handler{
		{
			ID:          "system:help",
			Description: "Show available commands",
			Permissions: []command.Permission{command.PermissionRead},
			Func:        a.helpHandler,
		},
		{
			ID:          "config:show",
			Description: "Display the current configuration",
			Permissions: []command.Permission{command.PermissionRead},
			Func:        a.configShowHandler,
		},
		{
			ID:          "config:edit",
			Description: "Change a configuration value",
			Permissions: []command.Permission{command.PermissionWrite},
			Func:        a.configEditHandler,
		},
		{
			ID:          "config:framework",
			Description: "Show or set the target framework",
			Permissions: []command.Permission{command.PermissionWrite},
			Func:        a.settingHandler("generation.framework", "framework"),
		},
		{
			ID:          "config:quality",
			Description: "Show or set the coverage threshold",
			Permissions: []command.Permission{command.PermissionWrite},
			Func:        a.qualityHandler,
		},
		{
			ID:          "config:security",
			Description: "Show the security policy summary",
			Permissions: []command.Permission{command.PermissionRead},
			Func:        a.securityHandler,
		},
		{
			ID:          "templates:list",
			Description: "List available templates",
			Permissions: []command.Permission{command.PermissionRead},
			Func:        a.templatesListHandler,
		},
		{
			ID:          "templates:use",
			Description: "Apply a template to the configuration",
			Permissions: []command.Permission{command.PermissionWrite},
			Validation:  &command.Validation{Required: true},
			Func:        a.templatesUseHandler,
		},
		{
			ID:          "templates:preview",
			Description: "Show a template without applying it",
			Permissions: []command.Permission{command.PermissionRead},
			Validation:  &command.Validation{Required: true},
			Func:        a.templatesPreviewHandler,
		},
		{
			ID:          "templates:create",
			Description: "Save the current configuration as a template",
			Permissions: []command.Permission{command.PermissionWrite},
			Validation:  &command.Validation{Required: true},
			Func:        a.templatesCreateHandler,
		},
		{
			ID:          "templates:delete",
			Description: "Remove a user template",
			Permissions: []command.Permission{command.PermissionWrite},
			Validation:  &command.Validation{Required: true},
			Func:        a.templatesDeleteHandler,
		},
		{
			ID:          "templates:reset",
			Description: "Restore the default configuration",
			Permissions: []command.Permission{command.PermissionWrite},
			Func:        a.templatesResetHandler,
		},
		{
			ID:          "generate:task",
			Description: "Generate code from a task description",
			Permissions: []command.Permission{command.PermissionExecute},
			Func:        a.generateHandler,
		},
		{
			ID:          "advanced:language",
			Description: "Show or set the target language",
			Permissions: []command.Permission{command.PermissionWrite},
			Func:        a.settingHandler("generation.language", "language"),
		},
		{
			ID:          "advanced:agents",
			Description: "Show or set agent executor settings",
			Permissions: []command.Permission{command.PermissionWrite},
			Func:        a.agentsHandler,
		},
		{
			ID:          "advanced:logging",
			Description: "Show audit log configuration",
			Permissions: []command.Permission{command.PermissionRead},
			Func:        a.loggingHandler,
		},
		{
			ID:          "advanced:metrics",
			Description: "Show command execution statistics",
			Permissions: []command.Permission{command.PermissionRead},
			Func:        a.metricsHandler,
		},
		{
			ID:          "advanced:debug",
			Description: "Show internal session state",
			Permissions: []command.Permission{command.PermissionAdmin},
			Func:        a.debugHandler,
		},
		{
			ID:          "settings:mode",
			Description: "Set the default interaction mode",
			Permissions: []command.Permission{command.PermissionWrite},
			Func:        a.modeHandler,
		},
		{
			ID:          "settings:session",
			Description: "Show session and usage summary",
			Permissions: []command.Permission{command.PermissionRead},
			Func:        a.sessionInfoHandler,
		},
		{
			ID:          "settings:reset",
			Description: "Restore default preferences",
			Permissions: []command.Permission{command.PermissionWrite},
			Func:        a.settingsResetHandler,
		},
	}

	for _, h := range handlers {
		if err := a.registry.Register(h); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) helpHandler(ctx *command.Context) (*command.Result, error) {
	return &command.Result{
		Success: true,
		Message: "Select an item by number, shortcut, or name. Global commands: help, back, home, clear, quit.",
	}, nil
}

func (a *app) configShowHandler(ctx *command.Context) (*command.Result, error) {
	data, err := yaml.Marshal(a.cfg.Snapshot())
	if err != nil {
		return nil, err
	}
	return &command.Result{Success: true, Message: string(data)}, nil
}

func (a *app) configEditHandler(ctx *command.Context) (*command.Result, error) {
	fields := strings.Fields(ctx.Param("input"))
	if len(fields) < 2 {
		return &command.Result{Success: false, Message: "Usage: edit <key> <value>"}, nil
	}
	key, value := fields[0], strings.Join(fields[1:], " ")
	if err := a.cfg.Set(key, coerce(value)); err != nil {
		return &command.Result{Success: false, Message: err.Error()}, nil
	}
	return &command.Result{Success: true, Message: fmt.Sprintf("Set %s = %s", key, value)}, nil
}

// settingHandler builds a show-or-set handler for one string setting.
func (a *app) settingHandler(key, label string) command.HandlerFunc {
	return func(ctx *command.Context) (*command.Result, error) {
		input := strings.TrimSpace(ctx.Param("input"))
		if input == "" {
			return &command.Result{
				Success: true,
				Message: fmt.Sprintf("Current %s: %s", label, a.cfg.GetString(key)),
			}, nil
		}
		if err := a.cfg.Set(key, input); err != nil {
			return &command.Result{Success: false, Message: err.Error()}, nil
		}
		return &command.Result{Success: true, Message: fmt.Sprintf("Set %s to %s", label, input)}, nil
	}
}

func (a *app) qualityHandler(ctx *command.Context) (*command.Result, error) {
	input := strings.TrimSpace(ctx.Param("input"))
	if input == "" {
		return &command.Result{
			Success: true,
			Message: fmt.Sprintf("Coverage threshold: %d%%, lint: %t, type check: %t",
				a.cfg.GetInt("quality.coverage_threshold"),
				a.cfg.GetBool("quality.lint"),
				a.cfg.GetBool("quality.type_check")),
		}, nil
	}
	threshold, err := strconv.Atoi(input)
	if err != nil || threshold < 0 || threshold > 100 {
		return &command.Result{Success: false, Message: fmt.Sprintf("Invalid coverage threshold: %s", input)}, nil
	}
	if err := a.cfg.Set("quality.coverage_threshold", threshold); err != nil {
		return &command.Result{Success: false, Message: err.Error()}, nil
	}
	return &command.Result{Success: true, Message: fmt.Sprintf("Coverage threshold set to %d%%", threshold)}, nil
}

func (a *app) securityHandler(ctx *command.Context) (*command.Result, error) {
	return &command.Result{
		Success: true,
		Message: fmt.Sprintf("Policy file: %s\n%s", securityPolicyPath(), a.checker.Report()),
	}, nil
}

func (a *app) templatesListHandler(ctx *command.Context) (*command.Result, error) {
	all, err := a.templates.List()
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, tpl := range all {
		marker := " "
		if tpl.BuiltIn {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %-14s %s\n", marker, tpl.Name, tpl.Description)
	}
	b.WriteString("(* built-in)")
	return &command.Result{Success: true, Message: b.String()}, nil
}

func (a *app) templatesUseHandler(ctx *command.Context) (*command.Result, error) {
	name := firstField(ctx.Param("input"))
	if err := a.templates.Apply(name, a.cfg); err != nil {
		return &command.Result{Success: false, Message: err.Error()}, nil
	}
	return &command.Result{Success: true, Message: fmt.Sprintf("Applied template %q", name)}, nil
}

func (a *app) templatesPreviewHandler(ctx *command.Context) (*command.Result, error) {
	name := firstField(ctx.Param("input"))
	tpl, err := a.templates.Get(name)
	if err != nil {
		return &command.Result{Success: false, Message: err.Error()}, nil
	}
	data, err := yaml.Marshal(tpl.Settings)
	if err != nil {
		return nil, err
	}
	return &command.Result{Success: true, Message: fmt.Sprintf("%s: %s\n%s", tpl.Name, tpl.Description, data)}, nil
}

func (a *app) templatesCreateHandler(ctx *command.Context) (*command.Result, error) {
	name := firstField(ctx.Param("input"))
	tpl := templates.SnapshotCurrent(name, "Saved from current configuration", a.cfg)
	if err := a.templates.Save(tpl); err != nil {
		return &command.Result{Success: false, Message: err.Error()}, nil
	}
	return &command.Result{Success: true, Message: fmt.Sprintf("Saved template %q", name)}, nil
}

func (a *app) templatesDeleteHandler(ctx *command.Context) (*command.Result, error) {
	name := firstField(ctx.Param("input"))
	if err := a.templates.Delete(name); err != nil {
		return &command.Result{Success: false, Message: err.Error()}, nil
	}
	return &command.Result{Success: true, Message: fmt.Sprintf("Deleted template %q", name)}, nil
}

func (a *app) templatesResetHandler(ctx *command.Context) (*command.Result, error) {
	if err := a.cfg.ResetToDefaults(); err != nil {
		return nil, err
	}
	return &command.Result{Success: true, Message: "Configuration restored to defaults"}, nil
}

func (a *app) generateHandler(ctx *command.Context) (*command.Result, error) {
	description := strings.TrimSpace(ctx.Param("input"))
	if description == "" {
		return &command.Result{Success: false, Message: "Usage: task <description of what to generate>"}, nil
	}

	t := &task.Task{
		ID:          uuid.NewString(),
		Description: description,
		Kind:        ctx.Param("kind"),
		Framework:   a.cfg.GetString("generation.framework"),
		Language:    a.cfg.GetString("generation.language"),
	}
	res, err := a.executor.Execute(context.Background(), t)
	if err != nil {
		return &command.Result{Success: false, Message: err.Error()}, nil
	}
	data := map[string]any{
		"task_id":  t.ID,
		"attempts": res.Attempts,
		"duration": res.Duration.String(),
	}
	if len(res.Artifacts) > 0 {
		data["artifacts"] = res.Artifacts
	}
	if !res.Success {
		return &command.Result{
			Success: false,
			Message: fmt.Sprintf("Generation failed (exit %d):\n%s", res.ExitCode, res.Output),
			Data:    data,
		}, nil
	}
	message := res.Output
	if len(res.Artifacts) > 0 {
		message += fmt.Sprintf("\nArtifacts:\n  %s", strings.Join(res.Artifacts, "\n  "))
	}
	return &command.Result{Success: true, Message: message, Data: data}, nil
}

func (a *app) agentsHandler(ctx *command.Context) (*command.Result, error) {
	fields := strings.Fields(ctx.Param("input"))
	if len(fields) == 0 {
		return &command.Result{
			Success: true,
			Message: fmt.Sprintf("Agent command: %s, model: %s, timeout: %ds, retries: %d",
				a.cfg.GetString("agent.command"),
				a.cfg.GetString("agent.model"),
				a.cfg.GetInt("agent.timeout_seconds"),
				a.cfg.GetInt("agent.max_retries")),
		}, nil
	}
	if len(fields) < 2 {
		return &command.Result{Success: false, Message: "Usage: agents <command|model> <value>"}, nil
	}
	var key string
	switch fields[0] {
	case "command":
		key = "agent.command"
	case "model":
		key = "agent.model"
	default:
		return &command.Result{Success: false, Message: fmt.Sprintf("Unknown agent setting: %s", fields[0])}, nil
	}
	if err := a.cfg.Set(key, strings.Join(fields[1:], " ")); err != nil {
		return &command.Result{Success: false, Message: err.Error()}, nil
	}
	return &command.Result{Success: true, Message: fmt.Sprintf("Set %s", key)}, nil
}

func (a *app) loggingHandler(ctx *command.Context) (*command.Result, error) {
	path, err := auditLogPath()
	if err != nil {
		return nil, err
	}
	return &command.Result{
		Success: true,
		Message: fmt.Sprintf("Audit log: %s (enabled: %t)", path, a.cfg.GetBool("audit.enabled")),
	}, nil
}

func (a *app) metricsHandler(ctx *command.Context) (*command.Result, error) {
	stats := a.registry.Stats()
	var b strings.Builder
	fmt.Fprintf(&b, "Executions: %d (%d ok, %d failed), avg %.1fms\n",
		stats.TotalExecutions, stats.SuccessfulExecutions, stats.FailedExecutions, stats.AverageDurationMS)
	for id, count := range stats.CommandFrequency {
		fmt.Fprintf(&b, "  %-20s %d\n", id, count)
	}
	return &command.Result{Success: true, Message: strings.TrimRight(b.String(), "\n")}, nil
}

func (a *app) debugHandler(ctx *command.Context) (*command.Result, error) {
	return &command.Result{
		Success: true,
		Message: fmt.Sprintf("Session: %s\nLevel: %s\nDebug: %t\nRegistered commands: %d",
			ctx.SessionID, ctx.Level, ctx.DebugMode, len(a.registry.IDs())),
	}, nil
}

func (a *app) modeHandler(ctx *command.Context) (*command.Result, error) {
	input := strings.TrimSpace(ctx.Param("input"))
	if input == "" {
		return &command.Result{
			Success: true,
			Message: fmt.Sprintf("Default interaction mode: %s (use 'mode menu' or 'mode command' to change)", a.cfg.InteractionMode()),
		}, nil
	}
	if err := a.cfg.SetInteractionMode(input); err != nil {
		return &command.Result{Success: false, Message: err.Error()}, nil
	}
	return &command.Result{Success: true, Message: fmt.Sprintf("Default interaction mode set to %s", input)}, nil
}

func (a *app) sessionInfoHandler(ctx *command.Context) (*command.Result, error) {
	snap := a.states.Snapshot()
	return &command.Result{
		Success: true,
		Message: fmt.Sprintf("Session: %s\nSessions on this machine: %d\nLast active: %s\nHistory entries: %d",
			ctx.SessionID, snap.SessionCount, snap.LastActive.Format("2006-01-02 15:04:05"), len(a.history.Entries())),
	}, nil
}

func (a *app) settingsResetHandler(ctx *command.Context) (*command.Result, error) {
	if err := a.cfg.SetInteractionMode("menu"); err != nil {
		return nil, err
	}
	if err := a.states.SetLastMode(""); err != nil {
		return nil, err
	}
	return &command.Result{Success: true, Message: "Preferences restored to defaults"}, nil
}

// coerce converts common literals so YAML round-trips keep their types.
func coerce(value string) any {
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
