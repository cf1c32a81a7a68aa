package task

import (
	"context"
	"fmt"
	"sync"
)

// MockExecutor records tasks and returns canned results. It backs tests
// and the dry-run mode.
type MockExecutor struct {
	mu    sync.Mutex
	tasks []*Task

	// Fail makes every execution report failure.
	Fail bool
	// Err is returned verbatim when set.
	Err error
	// Artifacts are reported on every successful result.
	Artifacts []string
}

// Execute records the task and fabricates a result.
func (m *MockExecutor) Execute(ctx context.Context, task *Task) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()

	if m.Fail {
		return &Result{Success: false, Output: "mock failure", ExitCode: 1, Attempts: 1}, nil
	}
	return &Result{
		Success:   true,
		Output:    fmt.Sprintf("[dry-run] would generate: %s", task.Description),
		Artifacts: m.Artifacts,
		Attempts:  1,
	}, nil
}

// Tasks returns the tasks executed so far.
func (m *MockExecutor) Tasks() []*Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}
