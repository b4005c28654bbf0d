package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/predeploy/internal/model"
)

// LineReporter prints one status line per finished step. Colors are only
// emitted when the writer is a terminal.
type LineReporter struct {
	mu     sync.Mutex
	out    io.Writer
	styles styles
}

// NewLineReporter creates a LineReporter writing to out.
func NewLineReporter(out io.Writer) *LineReporter {
	return &LineReporter{out: out, styles: newStyles(lipgloss.NewRenderer(out))}
}

// StepStarted is a no-op; the status line is written once the step exits.
func (r *LineReporter) StepStarted(model.StepRef) {}

// StepFinished writes the status line for the step.
func (r *LineReporter) StepFinished(ref model.StepRef, result model.StepResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.styles.statusLine(ref, result))
}

func (s styles) statusLine(ref model.StepRef, result model.StepResult) string {
	var b strings.Builder
	b.WriteString(s.index.Render(fmt.Sprintf("[%d/%d]", ref.Index, ref.Total)))
	b.WriteString(" ")
	b.WriteString(s.icon(result.Status))
	b.WriteString(" ")
	b.WriteString(ref.Label())

	switch result.Status {
	case model.StatusFailed:
		b.WriteString(": ")
		b.WriteString(s.failure.Render(result.Message))
	case model.StatusSkipped:
		if result.Message != "" {
			b.WriteString(": ")
			b.WriteString(s.detail.Render(result.Message))
		}
	}

	if d := result.Duration.Truncate(10 * time.Millisecond); d > 0 {
		b.WriteString(s.detail.Render(fmt.Sprintf(" (%s)", d)))
	}
	return b.String()
}
