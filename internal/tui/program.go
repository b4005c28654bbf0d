package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/predeploy/internal/model"
)

// ProgramReporter forwards sequencer progress to a running Bubble Tea
// program. Messages sent after the program exited are dropped.
type ProgramReporter struct {
	program *tea.Program
}

// NewProgramReporter wraps a program created with NewModel.
func NewProgramReporter(p *tea.Program) *ProgramReporter {
	return &ProgramReporter{program: p}
}

// StepStarted marks the step as running.
func (r *ProgramReporter) StepStarted(ref model.StepRef) {
	r.program.Send(StepStartMsg{Ref: ref})
}

// StepFinished records the step result.
func (r *ProgramReporter) StepFinished(ref model.StepRef, result model.StepResult) {
	r.program.Send(StepCompleteMsg{Ref: ref, Result: result})
}
