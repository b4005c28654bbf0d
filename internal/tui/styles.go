package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/predeploy/internal/model"
)

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	index   lipgloss.Style
	success lipgloss.Style
	running lipgloss.Style
	failure lipgloss.Style
	skipped lipgloss.Style
	pending lipgloss.Style
	detail  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1),
		index:   r.NewStyle().Foreground(lipgloss.Color("244")),
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		running: r.NewStyle().Foreground(lipgloss.Color("33")),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		skipped: r.NewStyle().Foreground(lipgloss.Color("244")),
		pending: r.NewStyle().Foreground(lipgloss.Color("240")),
		detail:  r.NewStyle().Foreground(lipgloss.Color("246")),
	}
}

// icon returns the glyph representing a step status.
func (s styles) icon(status string) string {
	switch status {
	case model.StatusSuccess:
		return s.success.Render("✓")
	case model.StatusRunning:
		return s.running.Render("⏳")
	case model.StatusFailed:
		return s.failure.Render("✗")
	case model.StatusSkipped:
		return s.skipped.Render("⊘")
	default:
		return s.pending.Render("…")
	}
}
