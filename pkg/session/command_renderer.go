package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ForgeLite/forgelite/pkg/command"
	"github.com/ForgeLite/forgelite/pkg/menu"
	"github.com/ForgeLite/forgelite/pkg/validate"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pterm/pterm"
)

// DefaultHistoryLimit bounds the in-session command history ring.
const DefaultHistoryLimit = 100

// CommandRenderer presents a typed-command interface with history,
// completions, and typo suggestions.
type CommandRenderer struct {
	registry *command.Registry

	history      []string
	historyLimit int
	// onHistory, when set, is invoked for every recorded entry so the
	// caller can persist history across sessions.
	onHistory func(string)
}

// CommandRendererOptions configures the command-mode renderer.
type CommandRendererOptions struct {
	// History seeds the ring, oldest first, e.g. from a previous session.
	History []string
	// HistoryLimit overrides DefaultHistoryLimit when positive.
	HistoryLimit int
	// OnHistory receives every recorded entry.
	OnHistory func(string)
}

// NewCommandRenderer creates the command-mode renderer.
func NewCommandRenderer(registry *command.Registry, opts *CommandRendererOptions) *CommandRenderer {
	if opts == nil {
		opts = &CommandRendererOptions{}
	}
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	r := &CommandRenderer{
		registry:     registry,
		historyLimit: limit,
	}
	// Seed before attaching the callback so restored entries are not
	// re-persisted.
	for _, entry := range opts.History {
		r.record(entry)
	}
	r.onHistory = opts.OnHistory
	return r
}

// Render draws the compact command-mode header.
func (c *CommandRenderer) Render(def *menu.Definition, ctx *Context) error {
	pterm.FgGray.Println(ctx.BreadcrumbString())
	pterm.DefaultBasicText.Printf("%s  %s\n", pterm.Bold.Sprint(def.Title), pterm.FgGray.Sprint("(type 'help' for commands, 'm' for menu mode)"))
	return nil
}

// HandleInput tokenizes one line as command plus arguments and resolves the
// command against the current screen's items.
func (c *CommandRenderer) HandleInput(def *menu.Definition, ctx *Context, line string) (InputResult, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return stay(""), nil
	}
	token, args := fields[0], fields[1:]
	c.record(strings.Join(fields, " "))

	switch strings.ToLower(token) {
	case "m", "menu":
		return InputResult{Action: ActionSwitchMode, Mode: ModeMenu}, nil
	case "history":
		c.printHistory()
		return stay("history"), nil
	}

	if item, ok := resolveItem(def, token); ok {
		return applyItem(item, ctx, c.registry, args)
	}

	msg := fmt.Sprintf("Unknown command: %s", token)
	pterm.Error.Println(msg)

	if completions := c.Complete(def, token); len(completions) > 0 {
		pterm.FgGray.Printf("Completions: %s\n", strings.Join(completions, ", "))
	} else {
		printSuggestions(token, def)
	}
	return stay(msg), nil
}

// Complete returns candidate commands that fuzzy-match the input, best
// matches first. Candidates are the current screen's tokens, the global
// commands, and the last ten history entries.
func (c *CommandRenderer) Complete(def *menu.Definition, input string) []string {
	candidates := append(vocabulary(def), validate.GlobalCommands()...)
	recent := c.history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	candidates = append(candidates, recent...)

	ranked := fuzzy.RankFindNormalizedFold(input, candidates)
	sort.Sort(ranked)
	out := make([]string, 0, len(ranked))
	seen := make(map[string]bool, len(ranked))
	for _, r := range ranked {
		if seen[r.Target] {
			continue
		}
		seen[r.Target] = true
		out = append(out, r.Target)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// History returns the recorded entries, oldest first.
func (c *CommandRenderer) History() []string {
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

func (c *CommandRenderer) record(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}
	c.history = append(c.history, entry)
	if len(c.history) > c.historyLimit {
		c.history = c.history[len(c.history)-c.historyLimit:]
	}
	if c.onHistory != nil {
		c.onHistory(entry)
	}
}

func (c *CommandRenderer) printHistory() {
	if len(c.history) == 0 {
		pterm.FgGray.Println("No command history yet.")
		return
	}
	recent := c.history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	for i, entry := range recent {
		pterm.DefaultBasicText.Printf("%3d  %s\n", i+1, entry)
	}
}
