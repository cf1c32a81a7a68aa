// Package task runs code-generation tasks through an external agent
// process.
package task

import (
	"context"
	"time"
)

// Task describes one generation request.
type Task struct {
	ID          string
	Description string
	// Kind refines the request: component, api, test, or empty for a
	// free-form task.
	Kind       string
	Framework  string
	Language   string
	WorkingDir string
}

// Result is the outcome of one task execution.
type Result struct {
	Success bool
	Output  string
	// Artifacts are the files the agent reported creating or changing.
	Artifacts []string
	ExitCode  int
	Duration  time.Duration
	Attempts  int
}

// Executor runs generation tasks.
type Executor interface {
	Execute(ctx context.Context, task *Task) (*Result, error)
}
