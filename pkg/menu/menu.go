// Package menu defines the declarative menu schema consumed by both
// interaction modes.
//
// A Definition describes one screen: its sections, items, shortcuts, and
// per-item actions. Definitions are built at process start and never mutated
// at runtime; the session engine resolves user input against them through
// the renderers.
package menu

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ActionKind discriminates the closed set of things a menu item can do.
type ActionKind int

const (
	// ActionNavigate moves the session to another level.
	ActionNavigate ActionKind = iota
	// ActionExecute dispatches a registered command handler.
	ActionExecute
	// ActionBack pops one navigation level.
	ActionBack
	// ActionExit requests session termination.
	ActionExit
)

// Action is the tagged variant attached to a menu item. Use the
// constructors; consumers switch exhaustively on Kind.
type Action struct {
	Kind    ActionKind
	Target  string            // navigate target level
	Handler string            // execute handler id
	Data    map[string]string // extra parameters for execute
}

// Navigate returns an action that moves to the named level.
func Navigate(target string) Action {
	return Action{Kind: ActionNavigate, Target: target}
}

// Execute returns an action that dispatches the named command handler.
func Execute(handler string, data map[string]string) Action {
	return Action{Kind: ActionExecute, Handler: handler, Data: data}
}

// Back returns the pop-one-level action.
func Back() Action {
	return Action{Kind: ActionBack}
}

// Exit returns the end-session action.
func Exit() Action {
	return Action{Kind: ActionExit}
}

type enabledKind int

const (
	enabledAlways enabledKind = iota
	enabledNever
	enabledFunc
	enabledExpr
)

// Enabled decides whether an item is selectable against the live session
// data. The zero value is Always.
type Enabled struct {
	kind    enabledKind
	fn      func(data map[string]any) bool
	program *vm.Program
	source  string
}

// Always returns an Enabled that is always selectable.
func Always() Enabled { return Enabled{kind: enabledAlways} }

// Never returns an Enabled that is never selectable. The item is still
// displayed; selection is rejected with an explicit message.
func Never() Enabled { return Enabled{kind: enabledNever} }

// When returns an Enabled backed by a predicate over the session data.
func When(fn func(data map[string]any) bool) Enabled {
	return Enabled{kind: enabledFunc, fn: fn}
}

// WhenExpr compiles a boolean expression evaluated against the session data,
// e.g. `debug == true` or `template != ""`.
func WhenExpr(source string) (Enabled, error) {
	program, err := expr.Compile(source, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return Enabled{}, fmt.Errorf("failed to compile enabled expression %q: %w", source, err)
	}
	return Enabled{kind: enabledExpr, program: program, source: source}, nil
}

// Allow evaluates the capability against the session data. Expression
// evaluation errors disable the item rather than failing the render.
func (e Enabled) Allow(data map[string]any) bool {
	switch e.kind {
	case enabledAlways:
		return true
	case enabledNever:
		return false
	case enabledFunc:
		if e.fn == nil {
			return true
		}
		return e.fn(data)
	case enabledExpr:
		if data == nil {
			data = map[string]any{}
		}
		out, err := expr.Run(e.program, data)
		if err != nil {
			return false
		}
		result, ok := out.(bool)
		return ok && result
	default:
		return true
	}
}

// Item is one selectable entry of a menu section.
type Item struct {
	ID          string
	Label       string
	Description string
	// Shortcuts are aliases by which the item can be selected, in addition
	// to its 1-based display number and its id.
	Shortcuts []string
	Action    Action
	Enabled   Enabled
}

// Section groups items under a heading.
type Section struct {
	ID      string
	Heading string
	Items   []Item
}

// Metadata carries screen-level behavior flags.
type Metadata struct {
	ContextLevel string
	AllowBack    bool
}

// Definition is the immutable declarative description of one screen.
type Definition struct {
	ID          string
	Title       string
	Description string
	Sections    []Section
	Metadata    Metadata
}

// Items returns the definition's items flattened in declaration order.
func (d *Definition) Items() []Item {
	var items []Item
	for _, section := range d.Sections {
		items = append(items, section.Items...)
	}
	return items
}
