package security

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

// Violation severities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Violation describes one policy breach.
type Violation struct {
	Type        string
	Severity    string
	Description string
	Action      string
	Policy      string
	Timestamp   time.Time
}

// Event is one audited security decision.
type Event struct {
	Timestamp  time.Time
	Action     string
	Target     string
	Approved   bool
	Violations []Violation
}

// dangerousCommand patterns deny a command regardless of the allowlist.
var dangerousCommand = []*regexp.Regexp{
	regexp.MustCompile(`rm\s+-rf`),
	regexp.MustCompile(`chmod\s+777`),
	regexp.MustCompile(`>\s*/dev`),
	regexp.MustCompile(`curl.*\|\s*sh`),
	regexp.MustCompile(`wget.*\|\s*sh`),
	regexp.MustCompile(`sudo\s+`),
}

// Approver decides whether an action requiring approval may proceed.
type Approver interface {
	Approve(action, target string) (bool, error)
}

// AutoApprover grants every approval request. Each grant is surfaced as a
// warning so fail-open behavior is visible in the session and the event
// log.
type AutoApprover struct{}

func (AutoApprover) Approve(action, target string) (bool, error) {
	pterm.Warning.Printf("Auto-approving %s on %s (no approver configured)\n", action, target)
	return true, nil
}

// DenyAllApprover refuses every approval request. Install it to make
// approval-gated policies fail closed in unattended runs.
type DenyAllApprover struct{}

func (DenyAllApprover) Approve(action, target string) (bool, error) {
	return false, nil
}

// PromptApprover asks the user interactively.
type PromptApprover struct{}

func (PromptApprover) Approve(action, target string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(fmt.Sprintf("Allow %s on %s?", action, target))
}

// Checker evaluates actions against a policy and records every decision.
type Checker struct {
	mu       sync.Mutex
	policy   *Policy
	approver Approver
	events   []Event

	allowedPaths []*regexp.Regexp
	blockedPaths []*regexp.Regexp
}

// NewChecker compiles the policy's path patterns. A nil approver gets the
// fail-open AutoApprover.
func NewChecker(policy *Policy, approver Approver) (*Checker, error) {
	if policy == nil {
		policy = DefaultPolicy()
	}
	if approver == nil {
		approver = AutoApprover{}
	}

	allowed, err := compileGlobs(policy.AllowedPaths)
	if err != nil {
		return nil, err
	}
	blocked, err := compileGlobs(policy.BlockedPaths)
	if err != nil {
		return nil, err
	}

	return &Checker{
		policy:       policy,
		approver:     approver,
		allowedPaths: allowed,
		blockedPaths: blocked,
	}, nil
}

// CheckPath validates file access. Blocked paths violate at high severity;
// paths outside the allowlist at medium.
func (c *Checker) CheckPath(path, action string) (bool, []Violation) {
	normalized := normalizePath(path)
	var violations []Violation

	blocked := matchAny(c.blockedPaths, normalized)
	if blocked {
		violations = append(violations, Violation{
			Type:        "path_violation",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Access to blocked path: %s", path),
			Action:      "file_" + action,
			Policy:      "blocked_paths",
			Timestamp:   time.Now(),
		})
	}
	if !blocked && !matchAny(c.allowedPaths, normalized) {
		violations = append(violations, Violation{
			Type:        "path_violation",
			Severity:    SeverityMedium,
			Description: fmt.Sprintf("Access to non-allowlisted path: %s", path),
			Action:      "file_" + action,
			Policy:      "allowed_paths",
			Timestamp:   time.Now(),
		})
	}

	c.record("file_"+action, path, violations)
	return len(violations) == 0, violations
}

// CheckCommand validates one shell command: the base command against the
// block and allow lists, the full line against the dangerous patterns.
func (c *Checker) CheckCommand(command string) (bool, []Violation) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return true, nil
	}
	base := fields[0]
	var violations []Violation

	blocked := false
	for _, name := range c.policy.BlockedCommands {
		if name == base {
			blocked = true
			violations = append(violations, Violation{
				Type:        "command_violation",
				Severity:    SeverityCritical,
				Description: fmt.Sprintf("Attempt to execute blocked command: %s", base),
				Action:      "command_exec",
				Policy:      "blocked_commands",
				Timestamp:   time.Now(),
			})
			break
		}
	}
	if !blocked && !contains(c.policy.AllowedCommands, base) {
		violations = append(violations, Violation{
			Type:        "command_violation",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Attempt to execute non-allowlisted command: %s", base),
			Action:      "command_exec",
			Policy:      "allowed_commands",
			Timestamp:   time.Now(),
		})
	}
	for _, pattern := range dangerousCommand {
		if pattern.MatchString(command) {
			violations = append(violations, Violation{
				Type:        "command_violation",
				Severity:    SeverityCritical,
				Description: fmt.Sprintf("Command contains a dangerous pattern: %s", command),
				Action:      "command_exec",
				Policy:      "dangerous_patterns",
				Timestamp:   time.Now(),
			})
			break
		}
	}

	c.record("command_exec", command, violations)
	return len(violations) == 0, violations
}

// CheckFileSize validates a write against the size limit.
func (c *Checker) CheckFileSize(path string, size int64) (bool, []Violation) {
	if size <= c.policy.MaxFileSize {
		return true, nil
	}
	violations := []Violation{{
		Type:        "size_violation",
		Severity:    SeverityMedium,
		Description: fmt.Sprintf("File size %d bytes exceeds limit of %d bytes", size, c.policy.MaxFileSize),
		Action:      "file_write",
		Policy:      "max_file_size",
		Timestamp:   time.Now(),
	}}
	c.record("file_write", path, violations)
	return false, violations
}

// RequireApproval consults the approver when the policy demands approval.
// Without that demand the action proceeds unprompted.
func (c *Checker) RequireApproval(action, target string) (bool, error) {
	if !c.policy.RequireApproval {
		return true, nil
	}
	approved, err := c.approver.Approve(action, target)
	if err != nil {
		return false, fmt.Errorf("approval failed: %w", err)
	}
	var violations []Violation
	if !approved {
		violations = append(violations, Violation{
			Type:        "approval_required",
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Approval denied for %s on %s", action, target),
			Action:      action,
			Policy:      "require_approval",
			Timestamp:   time.Now(),
		})
	}
	c.record(action, target, violations)
	return approved, nil
}

// Events returns a copy of the recorded decisions.
func (c *Checker) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Report summarizes recorded violations by severity.
func (c *Checker) Report() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := map[string]int{}
	total := 0
	for _, event := range c.events {
		for _, violation := range event.Violations {
			counts[violation.Severity]++
			total++
		}
	}
	return fmt.Sprintf("Security report: %d violations (%d critical, %d high, %d medium, %d low)",
		total, counts[SeverityCritical], counts[SeverityHigh], counts[SeverityMedium], counts[SeverityLow])
}

func (c *Checker) record(action, target string, violations []Violation) {
	if !c.policy.AuditAll && len(violations) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, Event{
		Timestamp:  time.Now(),
		Action:     action,
		Target:     target,
		Approved:   len(violations) == 0,
		Violations: violations,
	})
}

func normalizePath(path string) string {
	cleaned := filepath.ToSlash(filepath.Clean(path))
	if !strings.HasPrefix(cleaned, "/") && !strings.HasPrefix(cleaned, "~") && !strings.HasPrefix(cleaned, "./") {
		cleaned = "./" + cleaned
	}
	return cleaned
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
