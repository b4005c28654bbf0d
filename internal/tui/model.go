package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/predeploy/internal/model"
)

// StepStartMsg indicates a step has started executing.
type StepStartMsg struct {
	Ref model.StepRef
}

// StepCompleteMsg reports that a step has finished execution.
type StepCompleteMsg struct {
	Ref    model.StepRef
	Result model.StepResult
}

// DoneMsg tells the view the sequence is over and the program should exit.
type DoneMsg struct {
	Err error
}

// Model contains the Bubble Tea state for the interactive progress view.
type Model struct {
	title     string
	refs      []model.StepRef
	results   map[string]model.StepResult
	completed int
	finished  bool
	err       error

	spinner spinner.Model
	bar     progress.Model
	styles  styles
}

// NewModel constructs the view for the ordered steps.
func NewModel(title string, refs []model.StepRef) Model {
	results := make(map[string]model.StepResult, len(refs))
	for _, ref := range refs {
		results[ref.ID] = model.StepResult{StepID: ref.ID, Status: model.StatusPending}
	}

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30

	styles := newStyles(lipgloss.DefaultRenderer())

	return Model{
		title:   title,
		refs:    append([]model.StepRef(nil), refs...),
		results: results,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.running)),
		bar:     bar,
		styles:  styles,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// TotalSteps returns the number of steps tracked by the model.
func (m Model) TotalSteps() int {
	return len(m.refs)
}

// CompletedSteps returns the number of steps that reached a terminal status.
func (m Model) CompletedSteps() int {
	return m.completed
}

// IsFinished reports whether the sequence has ended.
func (m Model) IsFinished() bool {
	return m.finished
}

// Result returns the latest known result for the step.
func (m Model) Result(id string) model.StepResult {
	return m.results[id]
}
