package session

import (
	"context"
	"testing"

	"github.com/ForgeLite/forgelite/pkg/command"
	"github.com/ForgeLite/forgelite/pkg/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader feeds a fixed sequence of lines, then reports end of
// input.
type scriptedReader struct {
	lines []string
	next  int
}

func (s *scriptedReader) ReadLine() (string, error) {
	if s.next >= len(s.lines) {
		return "", ErrInputClosed
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}

func newTestEngine(t *testing.T, opts Options, lines ...string) (*Engine, *command.Registry) {
	t.Helper()

	menus := menu.NewRegistry()
	require.NoError(t, menu.RegisterCoreMenus(menus))

	registry := opts.Commands
	if registry == nil {
		registry = command.NewRegistry()
	}

	opts.Menus = menus
	opts.Commands = registry
	opts.Reader = &scriptedReader{lines: lines}

	engine, err := NewEngine(opts)
	require.NoError(t, err)
	return engine, registry
}

func TestNewEngineRequiresCollaborators(t *testing.T) {
	menus := menu.NewRegistry()
	require.NoError(t, menu.RegisterCoreMenus(menus))
	registry := command.NewRegistry()
	reader := &scriptedReader{}

	_, err := NewEngine(Options{Commands: registry, Reader: reader})
	assert.Error(t, err)
	_, err = NewEngine(Options{Menus: menus, Reader: reader})
	assert.Error(t, err)
	_, err = NewEngine(Options{Menus: menus, Commands: registry})
	assert.Error(t, err)

	empty := menu.NewRegistry()
	_, err = NewEngine(Options{Menus: empty, Commands: registry, Reader: reader})
	assert.Error(t, err, "a main menu is required")
}

func TestRunEndsWhenInputCloses(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})
	require.NoError(t, engine.Run(context.Background()))
	assert.True(t, engine.Context().AtRoot())
}

func TestRunClosedInputUnwindsToRoot(t *testing.T) {
	engine, _ := newTestEngine(t, Options{}, "config", "templates")
	require.NoError(t, engine.Run(context.Background()))
	// Each end-of-input read pops one level before the final one ends the
	// session at the root.
	assert.Equal(t, "main", engine.Context().Level)
}

func TestRunQuitRequiresConfirmation(t *testing.T) {
	engine, _ := newTestEngine(t, Options{}, "quit", "n", "config", "quit", "yes")
	require.NoError(t, engine.Run(context.Background()))
	// The declined quit kept the session alive long enough to navigate.
	assert.Equal(t, "config", engine.Context().Level)
}

func TestRunQuitAcceptsShortY(t *testing.T) {
	engine, _ := newTestEngine(t, Options{}, "quit", "y")
	require.NoError(t, engine.Run(context.Background()))
}

func TestRunExitIsGlobalQuitAlias(t *testing.T) {
	engine, _ := newTestEngine(t, Options{}, "config", "exit", "y")
	require.NoError(t, engine.Run(context.Background()))
	// The confirmed exit ended the session in place instead of the input
	// unwinding it level by level.
	assert.Equal(t, "config", engine.Context().Level)
}

func TestRunMainIsGlobalHomeAlias(t *testing.T) {
	engine, _ := newTestEngine(t, Options{}, "config", "main", "quit", "y")
	require.NoError(t, engine.Run(context.Background()))
	assert.True(t, engine.Context().AtRoot())
}

func TestRunRecordsInputHistory(t *testing.T) {
	engine, _ := newTestEngine(t, Options{}, "config", "back", "quit", "y")
	require.NoError(t, engine.Run(context.Background()))
	// Navigation interleaves a marker for the level left behind; the quit
	// confirmation is consumed inline and never recorded.
	assert.Equal(t, []string{"config", "nav:main", "back", "quit"}, engine.Context().History)
}

func TestRunNavigationAndGlobals(t *testing.T) {
	engine, _ := newTestEngine(t, Options{},
		"gen",   // shortcut to generate
		"back",  // back to main
		"2",     // numbered selection: config
		"home",  // global reset
		"back",  // no-op at root
		"quit", "y",
	)
	require.NoError(t, engine.Run(context.Background()))
	assert.True(t, engine.Context().AtRoot())
}

func TestRunExecutesRegisteredHandler(t *testing.T) {
	registry := command.NewRegistry()
	calls := 0
	require.NoError(t, registry.Register(&command.Handler{
		ID: "config:show",
		Func: func(c *command.Context) (*command.Result, error) {
			calls++
			assert.Equal(t, "config", c.Level)
			return &command.Result{Success: true, Message: "ok"}, nil
		},
	}))

	engine, _ := newTestEngine(t, Options{Commands: registry},
		"config", "show", "quit", "y",
	)
	require.NoError(t, engine.Run(context.Background()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "config", engine.Context().Level)
}

func TestRunBlocksDangerousInput(t *testing.T) {
	registry := command.NewRegistry()
	calls := 0
	require.NoError(t, registry.Register(&command.Handler{
		ID: "config:show",
		Func: func(c *command.Context) (*command.Result, error) {
			calls++
			return &command.Result{Success: true}, nil
		},
	}))

	engine, _ := newTestEngine(t, Options{Commands: registry},
		"config", "show $(whoami)", "quit", "y",
	)
	require.NoError(t, engine.Run(context.Background()))
	assert.Zero(t, calls, "input with a blocked pattern never reaches a handler")
}

func TestRunModeSwitchInvokesCallback(t *testing.T) {
	var switches []Mode
	engine, _ := newTestEngine(t, Options{OnModeChange: func(m Mode) { switches = append(switches, m) }},
		"c", "m", "quit", "y",
	)
	require.NoError(t, engine.Run(context.Background()))
	assert.Equal(t, []Mode{ModeCommand, ModeMenu}, switches)
	assert.Equal(t, ModeMenu, engine.Context().Mode)
}

func TestRunCommandModeExecutesWithArgs(t *testing.T) {
	registry := command.NewRegistry()
	var input string
	require.NoError(t, registry.Register(&command.Handler{
		ID: "templates:use",
		Func: func(c *command.Context) (*command.Result, error) {
			input = c.Param("input")
			return &command.Result{Success: true}, nil
		},
	}))

	engine, _ := newTestEngine(t, Options{Commands: registry, Mode: ModeCommand},
		"templates", "use starter", "quit", "y",
	)
	require.NoError(t, engine.Run(context.Background()))
	assert.Equal(t, "starter", input)
}

func TestRunAdminHandlerDeniedWithoutDebug(t *testing.T) {
	registry := command.NewRegistry()
	calls := 0
	require.NoError(t, registry.Register(&command.Handler{
		ID:          "advanced:debug",
		Permissions: []command.Permission{command.PermissionAdmin},
		Func: func(c *command.Context) (*command.Result, error) {
			calls++
			return &command.Result{Success: true}, nil
		},
	}))

	engine, _ := newTestEngine(t, Options{Commands: registry},
		"adv", "debug", "quit", "y",
	)
	require.NoError(t, engine.Run(context.Background()))
	assert.Zero(t, calls)

	engine, _ = newTestEngine(t, Options{Commands: registry, DebugMode: true},
		"adv", "debug", "quit", "y",
	)
	require.NoError(t, engine.Run(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	engine, _ := newTestEngine(t, Options{}, "config")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, engine.Run(ctx))
}

func TestRunInterruptGoesBack(t *testing.T) {
	menus := menu.NewRegistry()
	require.NoError(t, menu.RegisterCoreMenus(menus))
	registry := command.NewRegistry()

	reader := &interruptingReader{
		script: []interruptStep{
			{line: "config"},
			{interrupt: true},
			{line: "quit"},
			{line: "y"},
		},
	}
	engine, err := NewEngine(Options{Menus: menus, Commands: registry, Reader: reader})
	require.NoError(t, err)
	require.NoError(t, engine.Run(context.Background()))
	assert.True(t, engine.Context().AtRoot(), "interrupt pops back to the main menu")
}

type interruptStep struct {
	line      string
	interrupt bool
}

type interruptingReader struct {
	script []interruptStep
	next   int
}

func (r *interruptingReader) ReadLine() (string, error) {
	if r.next >= len(r.script) {
		return "", ErrInputClosed
	}
	step := r.script[r.next]
	r.next++
	if step.interrupt {
		return "", ErrInterrupted
	}
	return step.line, nil
}
