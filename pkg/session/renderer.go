package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ForgeLite/forgelite/pkg/command"
	"github.com/ForgeLite/forgelite/pkg/menu"
	"github.com/pterm/pterm"
)

// Renderer presents one interaction mode. Render draws the current screen;
// HandleInput processes one already-read line against it. The engine is the
// only reader of the input stream.
type Renderer interface {
	Render(def *menu.Definition, ctx *Context) error
	HandleInput(def *menu.Definition, ctx *Context, line string) (InputResult, error)
}

// resolveItem maps an input token to a menu item. Resolution order: 1-based
// display number, exact shortcut, exact item id, then shortcut or id prefix.
// A prefix shared by several items resolves to the first in declaration
// order. Disabled items still resolve; the caller rejects them with a
// message.
func resolveItem(def *menu.Definition, token string) (menu.Item, bool) {
	items := def.Items()
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return menu.Item{}, false
	}

	if n, err := strconv.Atoi(token); err == nil {
		if n >= 1 && n <= len(items) {
			return items[n-1], true
		}
		return menu.Item{}, false
	}

	for _, item := range items {
		for _, shortcut := range item.Shortcuts {
			if strings.ToLower(shortcut) == token {
				return item, true
			}
		}
	}

	for _, item := range items {
		if strings.ToLower(item.ID) == token {
			return item, true
		}
	}

	for _, item := range items {
		if strings.HasPrefix(strings.ToLower(item.ID), token) {
			return item, true
		}
		for _, shortcut := range item.Shortcuts {
			if strings.HasPrefix(strings.ToLower(shortcut), token) {
				return item, true
			}
		}
	}
	return menu.Item{}, false
}

// vocabulary lists every token a definition's items answer to.
func vocabulary(def *menu.Definition) []string {
	var words []string
	for _, item := range def.Items() {
		words = append(words, item.ID)
		words = append(words, item.Shortcuts...)
	}
	return words
}

// applyItem executes a resolved item's action and translates it into an
// InputResult. Execute actions are dispatched through the registry with the
// item's data merged into the parameters.
func applyItem(item menu.Item, ctx *Context, registry *command.Registry, args []string) (InputResult, error) {
	if !item.Enabled.Allow(ctx.Data) {
		msg := fmt.Sprintf("'%s' is not available right now", item.Label)
		pterm.Warning.Println(msg)
		return stay(msg), nil
	}
	ctx.CurrentItem = item.ID

	switch item.Action.Kind {
	case menu.ActionNavigate:
		return InputResult{Action: ActionNavigate, Target: item.Action.Target}, nil

	case menu.ActionBack:
		return InputResult{Action: ActionBack}, nil

	case menu.ActionExit:
		return InputResult{Action: ActionQuit}, nil

	case menu.ActionExecute:
		params := map[string]string{}
		for k, v := range item.Action.Data {
			params[k] = v
		}
		if len(args) > 0 {
			params["input"] = strings.Join(args, " ")
		}
		cmdCtx := &command.Context{
			SessionID:  ctx.SessionID,
			Level:      ctx.Level,
			DebugMode:  ctx.DebugMode,
			Parameters: params,
			Args:       args,
			Data:       ctx.Data,
		}
		res, err := registry.Execute(item.Action.Handler, cmdCtx)
		if err != nil {
			pterm.Error.Println(err.Error())
			return stay(err.Error()), nil
		}
		if res.Message != "" {
			if res.Success {
				pterm.Success.Println(res.Message)
			} else {
				pterm.Error.Println(res.Message)
			}
		}
		if res.Success && res.NavigateTo != "" {
			return InputResult{Action: ActionNavigate, Target: res.NavigateTo, Message: res.Message}, nil
		}
		return stay(res.Message), nil

	default:
		return stay(""), fmt.Errorf("item %q has an unknown action kind", item.ID)
	}
}
