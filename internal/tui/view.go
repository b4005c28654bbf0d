package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/predeploy/internal/model"
)

// View renders the current state of the model.
func (m Model) View() string {
	sections := []string{m.styles.title.Render(m.heading())}

	ratio := 0.0
	if total := len(m.refs); total > 0 {
		ratio = float64(m.completed) / float64(total)
	}
	label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d/%d", m.completed, len(m.refs)))
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Left, label, " ", m.bar.ViewAs(ratio)))

	lines := make([]string, 0, len(m.refs))
	for _, ref := range m.refs {
		res := m.results[ref.ID]
		if res.Status == model.StatusRunning {
			lines = append(lines, fmt.Sprintf("%s %s %s", m.styles.index.Render(fmt.Sprintf("[%d/%d]", ref.Index, ref.Total)), m.spinner.View(), ref.Label()))
			continue
		}
		lines = append(lines, m.styles.statusLine(ref, res))
	}
	sections = append(sections, m.styles.section.Render("Steps"), strings.Join(lines, "\n"))

	if summary := m.summary(); summary != "" {
		sections = append(sections, m.styles.section.Render("Summary"), summary)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) heading() string {
	if strings.TrimSpace(m.title) != "" {
		return "predeploy • " + m.title
	}
	return "predeploy"
}

func (m Model) summary() string {
	if !m.finished {
		return ""
	}
	if m.err != nil {
		return m.styles.failure.Render(m.err.Error())
	}
	if m.completed == len(m.refs) {
		return m.styles.success.Render("All steps completed")
	}
	return m.styles.pending.Render(fmt.Sprintf("Stopped after %d of %d steps", m.completed, len(m.refs)))
}
