package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/predeploy/internal/model"
)

// Update handles Bubble Tea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case StepStartMsg:
		if _, ok := m.results[msg.Ref.ID]; !ok {
			return m, nil
		}
		m.results[msg.Ref.ID] = model.StepResult{StepID: msg.Ref.ID, Status: model.StatusRunning}
		return m, nil
	case StepCompleteMsg:
		existing, ok := m.results[msg.Ref.ID]
		if !ok {
			return m, nil
		}
		if !existing.Completed() {
			m.completed++
		}
		m.results[msg.Ref.ID] = msg.Result
		return m, nil
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}
