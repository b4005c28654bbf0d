package main

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/alexisbeaulieu97/predeploy/internal/runner"
)

type scriptedRunner struct {
	mu    sync.Mutex
	codes map[string]int
	calls []string
	stdin io.Reader
}

func (s *scriptedRunner) Run(_ context.Context, cmd runner.Command) (runner.Outcome, error) {
	line := cmd.String()
	s.mu.Lock()
	s.calls = append(s.calls, line)
	s.mu.Unlock()
	return runner.Outcome{ExitCode: s.codes[line]}, nil
}

// useRunner swaps the step runner factory for the duration of the test.
func useRunner(t *testing.T, r *scriptedRunner) {
	t.Helper()
	original := newStepRunner
	newStepRunner = func(stdin io.Reader, _, _ io.Writer) runner.Runner {
		r.stdin = stdin
		return r
	}
	t.Cleanup(func() { newStepRunner = original })
}

// useTerminal makes every output look like a terminal so the interactive
// view is started.
func useTerminal(t *testing.T) {
	t.Helper()
	original := isTerminal
	isTerminal = func(io.Writer) bool { return true }
	t.Cleanup(func() { isTerminal = original })
}

func executeCommand(args ...string) (string, string, error) {
	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// executeCombined runs the root command with stdout and stderr sharing one
// buffer, preserving the order in which they were written.
func executeCombined(args ...string) (string, error) {
	root := newRootCmd()
	combined := &bytes.Buffer{}
	root.SetOut(combined)
	root.SetErr(combined)
	root.SetArgs(args)
	err := root.Execute()
	return combined.String(), err
}
