// Package sequencer runs the predeploy steps one after another and stops at
// the first step that does not exit cleanly.
package sequencer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/predeploy/internal/config"
	"github.com/alexisbeaulieu97/predeploy/internal/logger"
	"github.com/alexisbeaulieu97/predeploy/internal/model"
	"github.com/alexisbeaulieu97/predeploy/internal/runner"
	predeployerrors "github.com/alexisbeaulieu97/predeploy/pkg/errors"
)

// Reporter receives progress notifications. StepFinished is called exactly
// once for every step that was attempted.
type Reporter interface {
	StepStarted(ref model.StepRef)
	StepFinished(ref model.StepRef, result model.StepResult)
}

// Options configures a Sequencer.
type Options struct {
	Steps    []config.Step
	Runner   runner.Runner
	Reporter Reporter
	Logger   *logger.Logger
	WorkDir  string
	DryRun   bool
}

type plannedStep struct {
	ref     model.StepRef
	command runner.Command
}

// Sequencer executes a fixed list of steps in order.
type Sequencer struct {
	steps    []plannedStep
	runner   runner.Runner
	reporter Reporter
	log      *logger.Logger
	dryRun   bool
}

// New validates the options and resolves every step's command up front so a
// malformed command line fails before anything runs.
func New(opts Options) (*Sequencer, error) {
	if opts.Runner == nil && !opts.DryRun {
		return nil, fmt.Errorf("sequencer requires a runner")
	}
	if len(opts.Steps) == 0 {
		return nil, predeployerrors.NewValidationError("steps", "no steps to run", nil)
	}

	planned := make([]plannedStep, 0, len(opts.Steps))
	for i, step := range opts.Steps {
		cmd, err := step.Command(opts.WorkDir)
		if err != nil {
			return nil, predeployerrors.NewValidationError(fmt.Sprintf("steps[%d].run", i), err.Error(), err)
		}
		planned = append(planned, plannedStep{
			ref: model.StepRef{
				Index:   i + 1,
				Total:   len(opts.Steps),
				ID:      step.ID,
				Name:    step.Name,
				Command: cmd.String(),
			},
			command: cmd,
		})
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Sequencer{
		steps:    planned,
		runner:   opts.Runner,
		reporter: opts.Reporter,
		log:      log,
		dryRun:   opts.DryRun,
	}, nil
}

// Steps returns the resolved step references in execution order.
func (s *Sequencer) Steps() []model.StepRef {
	refs := make([]model.StepRef, 0, len(s.steps))
	for _, step := range s.steps {
		refs = append(refs, step.ref)
	}
	return refs
}

// Run executes the steps in order. It returns the results of every attempted
// step and, on the first failure, a *errors.StepFailedError carrying the
// step's exit status. Steps after the failing one are never started.
func (s *Sequencer) Run(ctx context.Context) ([]model.StepResult, error) {
	runLog := s.log.WithFields(map[string]any{"run_id": uuid.NewString()})
	runLog.Debug(fmt.Sprintf("running %d steps", len(s.steps)))

	results := make([]model.StepResult, 0, len(s.steps))
	for _, step := range s.steps {
		result, err := s.runStep(ctx, runLog.WithStep(step.ref), step)
		results = append(results, result)
		if err != nil {
			return results, err
		}
	}

	runLog.Debug("all steps completed")
	return results, nil
}

func (s *Sequencer) runStep(ctx context.Context, log *logger.Logger, step plannedStep) (model.StepResult, error) {
	s.notifyStarted(step.ref)
	log.Debug("starting " + step.ref.Command)

	if s.dryRun {
		result := model.StepResult{
			StepID:    step.ref.ID,
			Status:    model.StatusSkipped,
			Message:   "dry-run: " + step.ref.Command,
			Timestamp: time.Now(),
		}
		s.notifyFinished(step.ref, result)
		return result, nil
	}

	start := time.Now()
	outcome, runErr := s.runner.Run(ctx, step.command)
	result := model.StepResult{
		StepID:    step.ref.ID,
		ExitCode:  outcome.ExitCode,
		Duration:  time.Since(start),
		Timestamp: time.Now(),
	}

	switch {
	case runErr != nil:
		if result.ExitCode == 0 {
			result.ExitCode = runner.ExitCannotExecute
		}
		result.Status = model.StatusFailed
		result.Message = runErr.Error()
		result.Error = runErr
	case outcome.ExitCode != 0:
		result.Status = model.StatusFailed
		result.Message = fmt.Sprintf("exit code %d", outcome.ExitCode)
	default:
		result.Status = model.StatusSuccess
		result.Message = "done"
	}

	s.notifyFinished(step.ref, result)

	if result.Status != model.StatusFailed {
		log.Debug("step succeeded")
		return result, nil
	}

	tail := outcome.Tail()
	err := predeployerrors.NewStepFailedError(step.ref.ID, step.ref.Name, result.ExitCode, tail, runErr)
	result.Error = err
	if tail != "" {
		log.WithFields(map[string]any{"output": tail}).Error(err, "step failed")
	} else {
		log.Error(err, "step failed")
	}
	return result, err
}

func (s *Sequencer) notifyStarted(ref model.StepRef) {
	if s.reporter != nil {
		s.reporter.StepStarted(ref)
	}
}

func (s *Sequencer) notifyFinished(ref model.StepRef, result model.StepResult) {
	if s.reporter != nil {
		s.reporter.StepFinished(ref, result)
	}
}
