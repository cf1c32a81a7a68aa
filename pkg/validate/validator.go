// Package validate rejects malformed or unsafe raw input before it reaches
// any command, and produces ranked suggestions for near-miss input.
//
// The validator is a stateless rules engine. Every rule that fires is
// accumulated into the result rather than short-circuiting, so the user sees
// all problems with a line at once. The deny patterns are a fast pre-filter
// for obviously hostile input; they do not replace the security policy
// checker consulted by individual handlers.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ForgeLite/forgelite/pkg/match"
)

// MaxInputLength is the maximum accepted raw input length in characters.
const MaxInputLength = 1000

// Result is the outcome of validating one raw input line.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

type denyRule struct {
	pattern *regexp.Regexp
	message string
}

// Patterns that should never appear in interactive input. Matching input is
// rejected outright.
var denyRules = []denyRule{
	{regexp.MustCompile(`\.\./`), "path traversal sequence"},
	{regexp.MustCompile(`(?i)<script`), "script injection marker"},
	{regexp.MustCompile(`(?i)javascript:`), "javascript protocol"},
	{regexp.MustCompile(`eval\(`), "eval call"},
	{regexp.MustCompile(`\$\(`), "command substitution"},
	{regexp.MustCompile("`"), "backtick"},
}

// globalCommands are accepted at every level, in both interaction modes.
var globalCommands = []string{"help", "back", "home", "clear", "quit"}

// levelCommands is the static per-level command vocabulary used for
// validation hints and suggestions.
var levelCommands = map[string][]string{
	"main":      {"config", "templates", "generate", "advanced", "settings"},
	"config":    {"show", "edit", "templates", "framework", "quality", "security"},
	"templates": {"list", "use", "preview", "create", "delete", "reset"},
	"generate":  {"task", "component", "api", "test"},
	"advanced":  {"language", "agents", "logging", "metrics", "debug"},
	"settings":  {"mode", "session", "reset"},
}

// Commands in the templates level that require a non-empty argument.
var templateArgCommands = map[string]bool{
	"use":     true,
	"edit":    true,
	"delete":  true,
	"preview": true,
}

// Validator validates raw input lines and suggests known commands.
type Validator struct {
	suggestThreshold float64
	maxSuggestions   int
}

// New creates a Validator with the default suggestion threshold (0.6) and
// suggestion cap (5).
func New() *Validator {
	return &Validator{
		suggestThreshold: 0.6,
		maxSuggestions:   5,
	}
}

// Validate applies all rules to input in the context of the given level.
// Violations accumulate; the input is valid only when no errors fired.
func (v *Validator) Validate(input, level string) Result {
	var errors, warnings []string

	if utf8.RuneCountInString(input) > MaxInputLength {
		errors = append(errors, fmt.Sprintf("input is too long (maximum %d characters)", MaxInputLength))
	}

	for _, rule := range denyRules {
		if rule.pattern.MatchString(input) {
			errors = append(errors, fmt.Sprintf("input contains potentially harmful pattern: %s", rule.message))
		}
	}

	if level == "templates" {
		tplErrors, tplWarnings := validateTemplateInput(input)
		errors = append(errors, tplErrors...)
		warnings = append(warnings, tplWarnings...)
	}

	return Result{
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}

// Suggest returns known commands for the level ranked by similarity to the
// input, capped at 5. A purely numeric input beyond the level's numbered
// range yields numeric-shortcut hints instead.
func (v *Validator) Suggest(input, level string) []string {
	suggestions := match.Rank(input, Vocabulary(level), v.suggestThreshold, v.maxSuggestions)

	if n, err := strconv.Atoi(input); err == nil {
		numbered := levelCommands[level]
		if n < 1 || n > len(numbered) {
			for i, cmd := range numbered {
				if len(suggestions) >= v.maxSuggestions {
					break
				}
				suggestions = append(suggestions, fmt.Sprintf("%d (%s)", i+1, cmd))
			}
		}
	}

	if len(suggestions) > v.maxSuggestions {
		suggestions = suggestions[:v.maxSuggestions]
	}
	return suggestions
}

// Vocabulary returns the full command vocabulary for a level: the global
// commands plus the level-specific ones.
func Vocabulary(level string) []string {
	vocab := make([]string, 0, len(globalCommands)+len(levelCommands[level]))
	vocab = append(vocab, globalCommands...)
	vocab = append(vocab, levelCommands[level]...)
	return vocab
}

// GlobalCommands returns the commands accepted at every level.
func GlobalCommands() []string {
	out := make([]string, len(globalCommands))
	copy(out, globalCommands)
	return out
}

func validateTemplateInput(input string) (errors, warnings []string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, nil
	}

	cmd := strings.ToLower(fields[0])
	arg := strings.Join(fields[1:], " ")

	if templateArgCommands[cmd] && arg == "" {
		errors = append(errors, fmt.Sprintf("command %q requires a template name", cmd))
	}

	if cmd == "create" && arg != "" && len(arg) < 3 {
		warnings = append(warnings, "template names should be at least 3 characters long")
	}

	return errors, warnings
}
