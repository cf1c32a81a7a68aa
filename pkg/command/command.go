// Package command implements the unified command registry.
//
// Every command in the tool, whether triggered from a menu selection, a
// typed command, or a non-interactive subcommand, passes through the
// registry for permission validation, input-schema checks, timed execution
// with error capture, and audit logging. The registry keeps a bounded
// in-memory audit window for statistics and mirrors every entry to a durable
// audit.Sink.
//
// # Command Lifecycle
//
// A handler moves through: registered → validated → executing →
// completed|failed. Execute never invokes a handler that has not cleared the
// permission and validation gates, and it never lets a handler error or
// panic escape: failures are converted into a failed Result.
//
// # Ownership
//
// The handler map and audit buffer are owned by the single session loop.
// The internal mutex only covers the direct-subcommand path, which shares a
// registry with no session running; multi-session sharing requires external
// synchronization.
package command

import (
	"fmt"
	"regexp"
)

// Permission is a capability tag a handler may require.
type Permission string

const (
	PermissionRead    Permission = "read"
	PermissionWrite   Permission = "write"
	PermissionExecute Permission = "execute"
	PermissionAdmin   Permission = "admin"
)

// Validation declares the input-schema rules checked before a handler runs.
type Validation struct {
	// Required rejects execution when no parameters were supplied.
	Required bool
	// Pattern is a regular expression the "input" parameter must match.
	Pattern string
	// MinLength and MaxLength bound the "input" parameter; zero disables.
	MinLength int
	MaxLength int
}

// Context carries the session state a handler executes against.
type Context struct {
	SessionID  string
	Level      string
	DebugMode  bool
	Parameters map[string]string
	Args       []string
	Data       map[string]any
}

// Param returns a named parameter, or "" when absent.
func (c *Context) Param(name string) string {
	if c == nil || c.Parameters == nil {
		return ""
	}
	return c.Parameters[name]
}

// Result is the outcome of one command execution.
type Result struct {
	Success bool
	Message string
	Data    map[string]any

	// NavigateTo asks the session engine to move to another level after the
	// command completes.
	NavigateTo string
}

// HandlerFunc is the executable body of a command.
type HandlerFunc func(ctx *Context) (*Result, error)

// Handler is a registered unit of executable command behavior.
type Handler struct {
	ID          string
	Description string
	Permissions []Permission
	Validation  *Validation
	Func        HandlerFunc
}

// checkPermission evaluates one capability tag against the session.
// Read, write, and execute are granted to every session; admin requires the
// debug flag. Unknown tags are granted, matching the registry's permissive
// default for unrecognized capabilities.
func checkPermission(perm Permission, ctx *Context) bool {
	switch perm {
	case PermissionRead, PermissionWrite, PermissionExecute:
		return true
	case PermissionAdmin:
		return ctx != nil && ctx.DebugMode
	default:
		return true
	}
}

// validateInput applies a handler's declared validation rules to the
// context. The "input" parameter is the subject of the pattern and length
// rules.
func validateInput(rules *Validation, ctx *Context) error {
	if rules == nil {
		return nil
	}

	if rules.Required && (ctx == nil || len(ctx.Parameters) == 0) {
		return fmt.Errorf("parameters are required for this command")
	}

	input := ctx.Param("input")

	if rules.Pattern != "" && input != "" {
		re, err := regexp.Compile(rules.Pattern)
		if err != nil {
			return fmt.Errorf("invalid validation pattern: %w", err)
		}
		if !re.MatchString(input) {
			return fmt.Errorf("input does not match required pattern")
		}
	}

	if rules.MinLength > 0 && input != "" && len(input) < rules.MinLength {
		return fmt.Errorf("input must be at least %d characters", rules.MinLength)
	}

	if rules.MaxLength > 0 && input != "" && len(input) > rules.MaxLength {
		return fmt.Errorf("input must be no more than %d characters", rules.MaxLength)
	}

	return nil
}
