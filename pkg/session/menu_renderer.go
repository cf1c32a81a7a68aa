package session

import (
	"fmt"
	"strings"

	"github.com/ForgeLite/forgelite/pkg/command"
	"github.com/ForgeLite/forgelite/pkg/match"
	"github.com/ForgeLite/forgelite/pkg/menu"
	"github.com/pterm/pterm"
)

const (
	suggestionThreshold = 0.5
	maxSuggestions      = 3
)

// MenuRenderer presents numbered, guided screens.
type MenuRenderer struct {
	registry *command.Registry
}

// NewMenuRenderer creates the menu-mode renderer.
func NewMenuRenderer(registry *command.Registry) *MenuRenderer {
	return &MenuRenderer{registry: registry}
}

// Render draws the screen header, breadcrumb, and numbered item list.
// Rendering reads the definition and context without mutating either, so
// repeated renders of the same state produce the same screen.
func (m *MenuRenderer) Render(def *menu.Definition, ctx *Context) error {
	pterm.DefaultSection.Println(def.Title)
	if def.Description != "" {
		pterm.Info.Println(def.Description)
	}
	pterm.FgGray.Println(ctx.BreadcrumbString())

	number := 0
	for _, section := range def.Sections {
		if section.Heading != "" {
			pterm.DefaultBasicText.Println(pterm.Bold.Sprint(section.Heading))
		}
		for _, item := range section.Items {
			number++
			label := fmt.Sprintf("%2d. %s", number, item.Label)
			if len(item.Shortcuts) > 0 {
				label += fmt.Sprintf(" (%s)", strings.Join(item.Shortcuts, ", "))
			}
			if !item.Enabled.Allow(ctx.Data) {
				pterm.FgGray.Println(label + "  [unavailable]")
				continue
			}
			if item.Description != "" {
				pterm.DefaultBasicText.Printf("%s  %s\n", label, pterm.FgGray.Sprint(item.Description))
			} else {
				pterm.DefaultBasicText.Println(label)
			}
		}
	}
	return nil
}

// HandleInput resolves one line of input as a menu selection.
func (m *MenuRenderer) HandleInput(def *menu.Definition, ctx *Context, line string) (InputResult, error) {
	token := strings.TrimSpace(line)
	if token == "" {
		return stay(""), nil
	}

	switch strings.ToLower(token) {
	case "c", "command":
		return InputResult{Action: ActionSwitchMode, Mode: ModeCommand}, nil
	}

	if item, ok := resolveItem(def, token); ok {
		return applyItem(item, ctx, m.registry, nil)
	}

	msg := fmt.Sprintf("Unknown selection: %s", token)
	pterm.Error.Println(msg)
	printSuggestions(token, def)
	return stay(msg), nil
}

// printSuggestions ranks the definition's vocabulary against the token and
// prints the closest matches, if any clear the threshold.
func printSuggestions(token string, def *menu.Definition) {
	ranked := match.Rank(token, vocabulary(def), suggestionThreshold, maxSuggestions)
	if len(ranked) == 0 {
		pterm.FgGray.Println("No suggestions found. Type 'help' for available commands.")
		return
	}
	pterm.FgGray.Printf("Did you mean: %s?\n", strings.Join(ranked, ", "))
}
