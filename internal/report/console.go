package report

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/kitty/internal/harness"
)

// Console palette.
var (
	passColor  = lipgloss.Color("#8BC34A")
	failColor  = lipgloss.Color("#e53935")
	titleColor = lipgloss.Color("#2196F3")
	mutedColor = lipgloss.Color("#8a8f98")
)

// ConsoleSink logs every result to a writer as a styled text report.
// Colors are dropped when the writer is not a terminal.
type ConsoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	opts   TextOptions
	styles consoleStyles
}

// NewConsoleSink creates a console sink writing to w.
func NewConsoleSink(w io.Writer, opts TextOptions) *ConsoleSink {
	return &ConsoleSink{
		w:      w,
		opts:   opts,
		styles: newConsoleStyles(lipgloss.NewRenderer(w)),
	}
}

// Report implements harness.Sink. Concurrent reports are serialized so
// reports never interleave.
func (c *ConsoleSink) Report(_ context.Context, result *harness.SubmissionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.w, "\n"); err != nil {
		return err
	}
	return writeReport(c.w, result, c.opts, c.styles)
}

type consoleStyles struct {
	title lipgloss.Style
	ok    lipgloss.Style
	bad   lipgloss.Style
	dim   lipgloss.Style
}

func newConsoleStyles(r *lipgloss.Renderer) consoleStyles {
	return consoleStyles{
		title: r.NewStyle().Bold(true).Foreground(titleColor),
		ok:    r.NewStyle().Bold(true).Foreground(passColor),
		bad:   r.NewStyle().Bold(true).Foreground(failColor),
		dim:   r.NewStyle().Foreground(mutedColor),
	}
}

func (s consoleStyles) heading(v string) string { return s.title.Render(v) }
func (s consoleStyles) pass(v string) string    { return s.ok.Render(v) }
func (s consoleStyles) fail(v string) string    { return s.bad.Render(v) }
func (s consoleStyles) muted(v string) string   { return s.dim.Render(v) }
