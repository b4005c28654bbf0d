package errors

import (
	"errors"
	"fmt"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// StepFailedError reports the step that stopped the sequence and the exit
// status it returned. Err is set when the command never started.
type StepFailedError struct {
	StepID   string
	StepName string
	ExitCode int
	Output   string
	Err      error
}

// NewStepFailedError constructs a StepFailedError.
func NewStepFailedError(stepID, stepName string, exitCode int, output string, err error) error {
	return &StepFailedError{StepID: stepID, StepName: stepName, ExitCode: exitCode, Output: output, Err: err}
}

func (e *StepFailedError) Error() string {
	if e == nil {
		return ""
	}

	label := e.StepID
	if e.StepName != "" {
		label = fmt.Sprintf("%s (%s)", e.StepName, e.StepID)
	}
	if e.Err != nil {
		return fmt.Sprintf("step %s failed with exit code %d: %v", label, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("step %s failed with exit code %d", label, e.ExitCode)
}

// Unwrap exposes the launch error, if any.
func (e *StepFailedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExitCode maps an error returned by the CLI to a process exit status.
// A failed step propagates its own status verbatim; any other error is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var stepErr *StepFailedError
	if errors.As(err, &stepErr) && stepErr.ExitCode != 0 {
		return stepErr.ExitCode
	}
	return 1
}
