// Package session implements the interactive session engine.
//
// The engine owns a single read-dispatch-render loop over a navigation
// Context. Input is validated, checked against the global commands, and then
// handed to the renderer for the active interaction mode. Renderers resolve
// selections against menu definitions and dispatch command handlers through
// the registry; the engine applies the navigation outcome.
//
// # Interaction Modes
//
//   - menu: numbered selections with shortcuts, guided screens
//   - command: typed commands with history, completions, and suggestions
//
// Both modes operate on the same menu definitions and the same registry, so
// switching modes mid-session loses nothing.
package session

import (
	"strings"

	"github.com/ForgeLite/forgelite/pkg/menu"
	"github.com/google/uuid"
)

// Mode selects the interaction style of the session.
type Mode string

const (
	ModeMenu    Mode = "menu"
	ModeCommand Mode = "command"
)

// ParseMode normalizes a mode string, defaulting to menu.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "command", "cmd", "c":
		return ModeCommand
	default:
		return ModeMenu
	}
}

// Context is the navigation state of one interactive session.
type Context struct {
	SessionID   string
	Level       string
	Breadcrumb  []string
	Mode        Mode
	CurrentItem string
	DebugMode   bool

	// History is the ordered trail of raw inputs, interleaved with
	// nav:<level> markers recording the level left on each navigation.
	History []string

	// Data is shared session state visible to menu enablement expressions
	// and command handlers.
	Data map[string]any
}

// NewContext creates a session context positioned at the main menu.
func NewContext(mode Mode) *Context {
	ctx := &Context{
		SessionID:  uuid.NewString(),
		Mode:       mode,
		Data:       make(map[string]any),
		Breadcrumb: []string{},
	}
	ctx.reset()
	return ctx
}

func (c *Context) reset() {
	c.Level = "main"
	c.Breadcrumb = []string{menu.DisplayNames["main"]}
	c.CurrentItem = ""
}

// RecordInput appends one processed input line to the session history.
func (c *Context) RecordInput(line string) {
	if line == "" {
		return
	}
	c.History = append(c.History, line)
}

// Navigate moves the session to the named level and pushes its display name
// onto the breadcrumb. Navigating to the level already on top of the
// breadcrumb does not push a duplicate.
func (c *Context) Navigate(level string) {
	c.History = append(c.History, "nav:"+c.Level)
	if level == "main" {
		c.reset()
		return
	}
	c.Level = level
	display := menu.DisplayNames[level]
	if display == "" {
		display = level
	}
	if len(c.Breadcrumb) > 0 && c.Breadcrumb[len(c.Breadcrumb)-1] == display {
		return
	}
	c.Breadcrumb = append(c.Breadcrumb, display)
}

// Back pops one breadcrumb level and returns true, or returns false when
// the session is already at the main menu.
func (c *Context) Back() bool {
	if len(c.Breadcrumb) <= 1 {
		return false
	}
	c.Breadcrumb = c.Breadcrumb[:len(c.Breadcrumb)-1]
	c.Level = menu.LevelForDisplayName(c.Breadcrumb[len(c.Breadcrumb)-1])
	c.CurrentItem = ""
	return true
}

// Home resets the session to the main menu.
func (c *Context) Home() {
	if c.Level != "main" {
		c.History = append(c.History, "nav:"+c.Level)
	}
	c.reset()
}

// AtRoot reports whether the session is at the main menu.
func (c *Context) AtRoot() bool {
	return len(c.Breadcrumb) <= 1
}

// BreadcrumbString renders the navigation trail for display.
func (c *Context) BreadcrumbString() string {
	return strings.Join(c.Breadcrumb, " > ")
}
