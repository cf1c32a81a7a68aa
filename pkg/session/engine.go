package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ForgeLite/forgelite/pkg/command"
	"github.com/ForgeLite/forgelite/pkg/menu"
	"github.com/ForgeLite/forgelite/pkg/validate"
	"github.com/pterm/pterm"
)

// Options configures a session Engine.
type Options struct {
	Menus    *menu.Registry
	Commands *command.Registry
	Reader   LineReader
	// Mode is the starting interaction mode; defaults to menu.
	Mode Mode
	// DebugMode unlocks admin-gated commands and debug-only menu items.
	DebugMode bool
	// OnModeChange, when set, is invoked after a mode switch so the caller
	// can persist the preference.
	OnModeChange func(Mode)
	// Validator overrides the default input validator.
	Validator *validate.Validator
	// History seeds the command-mode history, oldest first.
	History []string
	// OnHistory receives every command-mode entry as it is recorded.
	OnHistory func(string)
}

// Engine runs the interactive session loop.
type Engine struct {
	menus     *menu.Registry
	commands  *command.Registry
	reader    LineReader
	validator *validate.Validator
	renderers map[Mode]Renderer
	onMode    func(Mode)

	ctx *Context
}

// NewEngine creates a session engine. The menu registry, command registry,
// and reader are required.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Menus == nil {
		return nil, fmt.Errorf("menu registry is required")
	}
	if opts.Commands == nil {
		return nil, fmt.Errorf("command registry is required")
	}
	if opts.Reader == nil {
		return nil, fmt.Errorf("input reader is required")
	}
	if !opts.Menus.Has("main") {
		return nil, fmt.Errorf("menu registry must define a main menu")
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeMenu
	}
	validator := opts.Validator
	if validator == nil {
		validator = validate.New()
	}
	commandRenderer := NewCommandRenderer(opts.Commands, &CommandRendererOptions{
		History:   opts.History,
		OnHistory: opts.OnHistory,
	})

	sessionCtx := NewContext(mode)
	sessionCtx.DebugMode = opts.DebugMode
	sessionCtx.Data["debug"] = opts.DebugMode

	return &Engine{
		menus:     opts.Menus,
		commands:  opts.Commands,
		reader:    opts.Reader,
		validator: validator,
		onMode:    opts.OnModeChange,
		renderers: map[Mode]Renderer{
			ModeMenu:    NewMenuRenderer(opts.Commands),
			ModeCommand: commandRenderer,
		},
		ctx: sessionCtx,
	}, nil
}

// Context exposes the navigation state, primarily for wiring and tests.
func (e *Engine) Context() *Context {
	return e.ctx
}

// Run drives the read-dispatch-render loop until the user quits, input
// ends, or ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		def, err := e.menus.Get(e.ctx.Level)
		if err != nil {
			// An unknown level means corrupted navigation state; recover
			// at the main menu.
			e.ctx.Home()
			continue
		}
		if err := e.renderers[e.ctx.Mode].Render(def, e.ctx); err != nil {
			return err
		}

		line, err := e.reader.ReadLine()
		switch {
		case errors.Is(err, ErrInputClosed):
			if e.ctx.Back() {
				continue
			}
			return nil
		case errors.Is(err, ErrInterrupted):
			pterm.Println()
			e.ctx.Back()
			continue
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if !e.checkInput(line, def) {
			continue
		}
		e.ctx.RecordInput(line)

		if done, handled := e.handleGlobal(line); handled {
			if done {
				return nil
			}
			continue
		}

		result, err := e.renderers[e.ctx.Mode].HandleInput(def, e.ctx, line)
		if err != nil {
			return err
		}
		if done := e.apply(result); done {
			return nil
		}
	}
}

// checkInput validates the line and prints violations with suggestions.
// Returns false when the input must not reach a renderer.
func (e *Engine) checkInput(line string, def *menu.Definition) bool {
	res := e.validator.Validate(line, e.ctx.Level)
	for _, warning := range res.Warnings {
		pterm.Warning.Println(warning)
	}
	if res.Valid {
		return true
	}
	for _, violation := range res.Errors {
		pterm.Error.Println(violation)
	}
	if suggestions := e.validator.Suggest(line, e.ctx.Level); len(suggestions) > 0 {
		pterm.FgGray.Printf("Did you mean: %s?\n", strings.Join(suggestions, ", "))
	}
	return false
}

// handleGlobal processes the commands available at every level. The first
// return value reports session termination; the second reports whether the
// line was consumed.
func (e *Engine) handleGlobal(line string) (done, handled bool) {
	switch strings.ToLower(line) {
	case "help":
		e.printHelp()
		return false, true
	case "back":
		if !e.ctx.Back() {
			pterm.Info.Println("Already at the main menu.")
		}
		return false, true
	case "home", "main":
		e.ctx.Home()
		return false, true
	case "clear":
		fmt.Print("\033[H\033[2J")
		return false, true
	case "quit", "exit":
		return e.confirmQuit(), true
	default:
		return false, false
	}
}

// confirmQuit asks for confirmation; only y or yes terminates the session.
func (e *Engine) confirmQuit() bool {
	pterm.DefaultBasicText.Print("Quit the session? [y/N] ")
	line, err := e.reader.ReadLine()
	if errors.Is(err, ErrInputClosed) {
		return true
	}
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		pterm.Info.Println("Goodbye.")
		return true
	default:
		return false
	}
}

// apply translates a renderer result into navigation state changes.
func (e *Engine) apply(result InputResult) (done bool) {
	switch result.Action {
	case ActionNavigate:
		if !e.menus.Has(result.Target) {
			pterm.Error.Printf("Unknown menu: %s\n", result.Target)
			return false
		}
		e.ctx.Navigate(result.Target)
	case ActionBack:
		if !e.ctx.Back() {
			pterm.Info.Println("Already at the main menu.")
		}
	case ActionHome:
		e.ctx.Home()
	case ActionQuit:
		return e.confirmQuit()
	case ActionSwitchMode:
		if result.Mode != "" && result.Mode != e.ctx.Mode {
			e.ctx.Mode = result.Mode
			pterm.Info.Printf("Switched to %s mode.\n", result.Mode)
			if e.onMode != nil {
				e.onMode(result.Mode)
			}
		}
	case ActionStay:
		// Nothing to do.
	}
	return false
}

func (e *Engine) printHelp() {
	pterm.DefaultSection.Println("Help")
	pterm.DefaultBasicText.Println("Global commands, available at every level:")
	for _, cmd := range validate.GlobalCommands() {
		pterm.DefaultBasicText.Printf("  %-8s\n", cmd)
	}
	if vocab := validate.Vocabulary(e.ctx.Level); len(vocab) > 0 {
		pterm.DefaultBasicText.Printf("Commands here: %s\n", strings.Join(vocab, ", "))
	}
	pterm.FgGray.Println("Type 'm' for menu mode, 'c' for command mode.")
}
