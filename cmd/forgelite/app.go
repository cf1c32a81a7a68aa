package main

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ForgeLite/forgelite/pkg/audit"
	"github.com/ForgeLite/forgelite/pkg/command"
	"github.com/ForgeLite/forgelite/pkg/config"
	"github.com/ForgeLite/forgelite/pkg/menu"
	"github.com/ForgeLite/forgelite/pkg/security"
	"github.com/ForgeLite/forgelite/pkg/state"
	"github.com/ForgeLite/forgelite/pkg/task"
	"github.com/ForgeLite/forgelite/pkg/templates"
	"github.com/adrg/xdg"
)

// app bundles the wired collaborators shared by the interactive session
// and the direct subcommands.
type app struct {
	cfg       *config.Store
	templates *templates.Manager
	states    *state.Manager
	history   *state.History
	checker   *security.Checker
	registry  *command.Registry
	menus     *menu.Registry
	executor  task.Executor
	sink      audit.Sink
	debug     bool
}

func newApp(flags *rootFlags) (*app, error) {
	cfg, err := config.Open(flags.configPath)
	if err != nil {
		return nil, err
	}

	states, err := state.NewManager("")
	if err != nil {
		return nil, err
	}
	history, err := state.NewHistory("", 0)
	if err != nil {
		return nil, err
	}

	policy, err := security.LoadPolicy(securityPolicyPath())
	if err != nil {
		return nil, err
	}
	var approver security.Approver
	if policy.RequireApproval {
		approver = security.PromptApprover{}
	}
	checker, err := security.NewChecker(policy, approver)
	if err != nil {
		return nil, err
	}

	sink, err := openAuditSink(cfg)
	if err != nil {
		return nil, err
	}

	var executor task.Executor
	if flags.dryRun {
		executor = &task.MockExecutor{}
	} else {
		executor, err = task.NewAgentExecutor(task.AgentOptions{
			Command:    cfg.GetString("agent.command"),
			Model:      cfg.GetString("agent.model"),
			Timeout:    time.Duration(cfg.GetInt("agent.timeout_seconds")) * time.Second,
			MaxRetries: cfg.GetInt("agent.max_retries"),
			Checker:    checker,
			Spinner:    true,
		})
		if err != nil {
			return nil, err
		}
	}

	menus := menu.NewRegistry()
	if err := menu.RegisterCoreMenus(menus); err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		templates: templates.NewManager(""),
		states:    states,
		history:   history,
		checker:   checker,
		menus:     menus,
		executor:  executor,
		sink:      sink,
		debug:     flags.debug,
	}
	a.registry = command.NewRegistry(command.WithSink(sink))
	if err := a.registerCoreHandlers(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	_ = a.sink.Close()
}

func securityPolicyPath() string {
	return filepath.Join(xdg.ConfigHome, "forgelite", "security.yaml")
}

func auditKeyPath() string {
	return filepath.Join(xdg.StateHome, "forgelite", "audit.key")
}

func auditLogPath() (string, error) {
	return audit.DefaultLogPath("forgelite")
}

// openAuditSink opens the durable HMAC-chained audit log, creating the
// machine-local signing key on first use.
func openAuditSink(cfg *config.Store) (audit.Sink, error) {
	if !cfg.GetBool("audit.enabled") {
		return audit.NopSink{}, nil
	}
	key, err := loadOrCreateAuditKey(auditKeyPath())
	if err != nil {
		return nil, err
	}
	path, err := audit.DefaultLogPath("forgelite")
	if err != nil {
		return nil, err
	}
	sink, err := audit.NewFileSink(path, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return sink, nil
}

func loadOrCreateAuditKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil && len(key) >= 16 {
		return key, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read audit key: %w", err)
	}

	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate audit key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to write audit key: %w", err)
	}
	return key, nil
}
