// Package progress drives a bubbletea progress bar across a pack or
// unpack run, fed by byte counts from a counting reader wrapped around
// whatever is actually being streamed.
package progress

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Tracker accumulates bytes processed against a known total and reports
// a 0..1 fraction. It's safe to update from any goroutine; the bubbletea
// program polls it on a ticker rather than being sent a message per byte.
type Tracker struct {
	label string
	total int64
	done  atomic.Int64
}

// NewTracker returns a Tracker that will report done/total once Add is
// called.
func NewTracker(label string, total int64) *Tracker {
	return &Tracker{label: label, total: total}
}

// Add records n more bytes processed.
func (t *Tracker) Add(n int) {
	t.done.Add(int64(n))
}

func (t *Tracker) fraction() float64 {
	if t.total <= 0 {
		return 1
	}
	f := float64(t.done.Load()) / float64(t.total)
	if f > 1 {
		f = 1
	}
	return f
}

type tickMsg time.Time

type model struct {
	tracker *Tracker
	bar     progress.Model
	done    bool
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 4
		return m, nil
	case tickMsg:
		if m.done {
			return m, tea.Quit
		}
		frac := m.tracker.fraction()
		cmd := m.bar.SetPercent(frac)
		if frac >= 1 {
			m.done = true
		}
		return m, tea.Batch(cmd, tick())
	case progress.FrameMsg:
		newModel, cmd := m.bar.Update(msg)
		if newBar, ok := newModel.(progress.Model); ok {
			m.bar = newBar
		}
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	label := lipgloss.NewStyle().Bold(true).Render(m.tracker.label)
	return fmt.Sprintf("%s\n%s\n", label, m.bar.View())
}

// Run drives the bar in the foreground while work runs in the
// background, quitting once the tracker reaches its total, and returns
// whatever error work returns.
func Run(tracker *Tracker, work func() error) error {
	bar := progress.New(progress.WithDefaultGradient())
	p := tea.NewProgram(model{tracker: tracker, bar: bar})

	workErr := make(chan error, 1)
	go func() {
		workErr <- work()
		tracker.done.Store(tracker.total)
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	return <-workErr
}

// countingReader reports every Read to a Tracker before returning it to
// the caller.
type countingReader struct {
	r       io.ReadCloser
	tracker *Tracker
}

// Wrap returns a ReadCloser that forwards to r, reporting bytes read to
// tracker as they're consumed.
func Wrap(r io.ReadCloser, tracker *Tracker) io.ReadCloser {
	return &countingReader{r: r, tracker: tracker}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.tracker.Add(n)
	}
	return n, err
}

func (c *countingReader) Close() error {
	return c.r.Close()
}

// countingWriter reports every Write to a Tracker before forwarding it.
type countingWriter struct {
	w       io.Writer
	tracker *Tracker
}

// WrapWriter returns a Writer that forwards to w, reporting bytes
// written to tracker as they're produced.
func WrapWriter(w io.Writer, tracker *Tracker) io.Writer {
	return &countingWriter{w: w, tracker: tracker}
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.tracker.Add(n)
	}
	return n, err
}
