// Package runner launches step commands as child processes and reports their
// exit status.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"

	"github.com/mattn/go-shellwords"
)

const (
	// ExitNotFound is reported when the step executable cannot be located.
	ExitNotFound = 127
	// ExitCannotExecute is reported when the executable exists but cannot start.
	ExitCannotExecute = 126

	outputTailLines = 20
)

// Command is a single external invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  map[string]string
}

// String renders the command line for logs and status output.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Outcome is what a finished command left behind.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// PrimaryOutput returns stderr if present, otherwise stdout.
func (o Outcome) PrimaryOutput() string {
	if o.Stderr != "" {
		return o.Stderr
	}
	return o.Stdout
}

// Tail returns the last lines of the primary output.
func (o Outcome) Tail() string {
	out := o.PrimaryOutput()
	if out == "" {
		return ""
	}
	lines := strings.Split(out, "\n")
	if len(lines) > outputTailLines {
		lines = lines[len(lines)-outputTailLines:]
	}
	return strings.Join(lines, "\n")
}

// Runner executes a command synchronously. A non-zero exit is reported
// through Outcome.ExitCode with a nil error; the error is reserved for
// commands that could not be started.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Outcome, error)
}

// Parse splits a command line into a Command without invoking a shell.
func Parse(raw string) (Command, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false

	words, err := parser.Parse(raw)
	if err != nil {
		return Command{}, fmt.Errorf("parse command %q: %w", raw, err)
	}
	if parser.Position >= 0 {
		return Command{}, fmt.Errorf("parse command %q: shell operators are not supported", raw)
	}
	if len(words) == 0 {
		return Command{}, errors.New("command line is empty")
	}
	return Command{Name: words[0], Args: words[1:]}, nil
}

// ExecRunner runs commands as child processes of the current process.
// A nil Stdin connects the child to the null device.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates an ExecRunner streaming child output to the writers.
// Nil writers keep the output captured only.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{Stdout: stdout, Stderr: stderr}
}

var _ Runner = (*ExecRunner)(nil)

// Run starts the command and blocks until it exits.
func (r *ExecRunner) Run(ctx context.Context, command Command) (Outcome, error) {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	cmd.Env = buildEnv(command.Env)
	cmd.Stdin = r.Stdin
	if command.Dir != "" {
		cmd.Dir = command.Dir
	}

	outcome, err := runStreaming(cmd, r.Stdout, r.Stderr)
	if err == nil {
		return outcome, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome.ExitCode = exitStatus(exitErr)
		return outcome, nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		outcome.ExitCode = ExitNotFound
	} else {
		outcome.ExitCode = ExitCannotExecute
	}
	return outcome, err
}

func exitStatus(exitErr *exec.ExitError) int {
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	if code := exitErr.ExitCode(); code > 0 {
		return code
	}
	return 1
}

func buildEnv(custom map[string]string) []string {
	env := os.Environ()
	keys := make([]string, 0, len(custom))
	for k := range custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, custom[k]))
	}
	return env
}
