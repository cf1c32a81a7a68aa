package task

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ForgeLite/forgelite/pkg/security"
)

// APIKeyEnv is the environment variable consulted before the system
// keyring.
const APIKeyEnv = "FORGELITE_API_KEY"

// AgentExecutor shells out to an agent CLI for each task.
type AgentExecutor struct {
	command    string
	model      string
	timeout    time.Duration
	maxRetries int
	checker    *security.Checker
	showSpin   bool
}

// AgentOptions configures an AgentExecutor.
type AgentOptions struct {
	// Command is the agent binary to invoke.
	Command string
	// Model selects the agent model, when the agent supports it.
	Model string
	// Timeout bounds one attempt; zero means 2 minutes.
	Timeout time.Duration
	// MaxRetries is the number of re-attempts after a failure.
	MaxRetries int
	// Checker validates the agent invocation against the security policy.
	Checker *security.Checker
	// Spinner shows progress on the terminal while the agent runs.
	Spinner bool
}

// NewAgentExecutor creates an executor for the given agent command.
func NewAgentExecutor(opts AgentOptions) (*AgentExecutor, error) {
	if opts.Command == "" {
		return nil, fmt.Errorf("agent command is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &AgentExecutor{
		command:    opts.Command,
		model:      opts.Model,
		timeout:    timeout,
		maxRetries: opts.MaxRetries,
		checker:    opts.Checker,
		showSpin:   opts.Spinner,
	}, nil
}

// Execute runs the agent, retrying failed attempts up to the configured
// limit. The task prompt is passed on stdin; the API key, when resolvable,
// through the environment.
func (a *AgentExecutor) Execute(ctx context.Context, task *Task) (*Result, error) {
	if task == nil || strings.TrimSpace(task.Description) == "" {
		return nil, fmt.Errorf("task description is required")
	}

	if a.checker != nil {
		// The allowlist governs commands the agent proposes, not the
		// operator-configured agent binary. Only an explicit block or a
		// dangerous pattern rejects the binary itself.
		if ok, violations := a.checker.CheckCommand(a.command); !ok {
			for _, v := range violations {
				if v.Severity == security.SeverityCritical {
					return nil, fmt.Errorf("agent command rejected by security policy: %s", v.Description)
				}
			}
		}
		approved, err := a.checker.RequireApproval("command_exec", a.command)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, fmt.Errorf("agent execution was not approved")
		}
	}

	var spin *spinner.Spinner
	if a.showSpin {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Suffix = " generating..."
		spin.Start()
		defer spin.Stop()
	}

	start := time.Now()
	var lastResult *Result
	var lastErr error
	for attempt := 1; attempt <= a.maxRetries+1; attempt++ {
		lastResult, lastErr = a.runOnce(ctx, task)
		if lastErr == nil && lastResult.Success {
			lastResult.Duration = time.Since(start)
			lastResult.Attempts = attempt
			return lastResult, nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("agent execution failed: %w", lastErr)
	}
	lastResult.Duration = time.Since(start)
	lastResult.Attempts = a.maxRetries + 1
	return lastResult, nil
}

func (a *AgentExecutor) runOnce(ctx context.Context, task *Task) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := a.buildArgs(task)
	cmd := exec.CommandContext(runCtx, a.command, args...)
	cmd.Stdin = strings.NewReader(a.buildPrompt(task))
	if task.WorkingDir != "" {
		cmd.Dir = task.WorkingDir
	}

	cmd.Env = os.Environ()
	if key, err := ResolveAPIKey(); err == nil && key != "" {
		cmd.Env = append(cmd.Env, APIKeyEnv+"="+key)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	result := &Result{
		Success:   err == nil,
		Output:    out.String(),
		Artifacts: parseArtifacts(out.String()),
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, err
	}
	return result, nil
}

// artifactLine matches agent output reporting a file it touched.
var artifactLine = regexp.MustCompile(`(?im)^\s*(?:created|modified|updated|wrote)[:\s]+(\S+)\s*$`)

// parseArtifacts extracts the files the agent reported working on, in
// order of first mention.
func parseArtifacts(output string) []string {
	var artifacts []string
	seen := make(map[string]bool)
	for _, m := range artifactLine.FindAllStringSubmatch(output, -1) {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		artifacts = append(artifacts, m[1])
	}
	return artifacts
}

func (a *AgentExecutor) buildArgs(task *Task) []string {
	var args []string
	if a.model != "" {
		args = append(args, "--model", a.model)
	}
	return args
}

// buildPrompt renders the task as the agent prompt, folding in the
// configured framework and language.
func (a *AgentExecutor) buildPrompt(task *Task) string {
	var b strings.Builder
	b.WriteString(task.Description)
	if task.Kind != "" {
		fmt.Fprintf(&b, "\n\nGenerate a %s.", task.Kind)
	}
	if task.Framework != "" {
		fmt.Fprintf(&b, "\nFramework: %s.", task.Framework)
	}
	if task.Language != "" {
		fmt.Fprintf(&b, "\nLanguage: %s.", task.Language)
	}
	return b.String()
}
