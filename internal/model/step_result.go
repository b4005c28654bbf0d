package model

import (
	"time"
)

const (
	// StatusPending indicates a step has not started yet.
	StatusPending = "pending"
	// StatusRunning indicates a step is actively executing.
	StatusRunning = "running"
	// StatusSuccess marks a step that exited with status 0.
	StatusSuccess = "success"
	// StatusSkipped indicates the step was not executed (dry-run).
	StatusSkipped = "skipped"
	// StatusFailed marks a non-zero exit or a command that could not start.
	StatusFailed = "failed"
)

// StepRef identifies a step within the current sequence.
type StepRef struct {
	Index   int
	Total   int
	ID      string
	Name    string
	Command string
}

// Label returns the human-readable name, falling back to the step ID.
func (r StepRef) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// StepResult captures the outcome of executing a single step.
type StepResult struct {
	StepID    string
	Status    string
	Message   string
	ExitCode  int
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}

// Completed reports whether the result is terminal.
func (r StepResult) Completed() bool {
	switch r.Status {
	case StatusSuccess, StatusSkipped, StatusFailed:
		return true
	default:
		return false
	}
}
