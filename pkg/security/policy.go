// Package security enforces guardrails on file access and command
// execution during generation tasks.
//
// A Policy combines allow and block lists for paths and commands with size
// and time limits. The Checker evaluates requested actions against the
// policy and records every decision; violations never abort the session,
// they deny the single action.
package security

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy declares what generation tasks may touch.
type Policy struct {
	AllowedPaths    []string `yaml:"allowed_paths"`
	BlockedPaths    []string `yaml:"blocked_paths"`
	AllowedCommands []string `yaml:"allowed_commands"`
	BlockedCommands []string `yaml:"blocked_commands"`
	// MaxFileSize bounds written files, in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`
	// MaxExecutionSeconds bounds one command execution.
	MaxExecutionSeconds int `yaml:"max_execution_seconds"`
	RequireApproval     bool `yaml:"require_approval"`
	AuditAll            bool `yaml:"audit_all"`
}

// DefaultPolicy returns the built-in guardrails: project-local paths and a
// conservative command allowlist.
func DefaultPolicy() *Policy {
	return &Policy{
		AllowedPaths: []string{
			"./src/**", "./tests/**", "./docs/**", "./scripts/**",
			"./*.json", "./*.md", "./*.yml", "./*.yaml",
		},
		BlockedPaths: []string{
			"/etc/**", "/usr/**", "/bin/**",
			"~/.ssh/**", "~/.aws/**",
			"**/node_modules/**", "**/.git/**", "**/.env*",
			"**/secrets/**", "**/private/**",
		},
		AllowedCommands: []string{
			"npm", "yarn", "node", "tsc", "jest", "eslint", "prettier",
			"git", "ls", "cat", "echo", "pwd", "which", "grep", "find",
		},
		BlockedCommands: []string{
			"rm", "rmdir", "del", "sudo", "su", "chmod", "chown",
			"curl", "wget", "ssh", "scp", "rsync",
			"dd", "format", "fdisk", "mount", "umount",
		},
		MaxFileSize:         10 * 1024 * 1024,
		MaxExecutionSeconds: 30,
		RequireApproval:     false,
		AuditAll:            true,
	}
}

// LoadPolicy reads a policy overlay from a YAML file. Fields absent from
// the file keep their default values.
func LoadPolicy(path string) (*Policy, error) {
	policy := DefaultPolicy()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return policy, nil
		}
		return nil, fmt.Errorf("failed to read security policy %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("failed to parse security policy %s: %w", path, err)
	}
	return policy, nil
}

// compileGlob translates a path pattern into a regular expression. "**"
// crosses directory separators, "*" does not.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch {
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i++
		case pattern[i] == '*':
			b.WriteString("[^/]*")
		default:
			b.WriteString(regexp.QuoteMeta(string(pattern[i])))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// compileGlobs compiles a pattern list, rejecting the first invalid entry.
func compileGlobs(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := compileGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid path pattern %q: %w", pattern, err)
		}
		out = append(out, re)
	}
	return out, nil
}
