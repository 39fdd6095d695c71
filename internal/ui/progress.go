package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/winsweep/internal/core"
	"github.com/lakshaymaurya-felt/winsweep/internal/sweep"
)

// Counter exposes running totals to the progress view.
type Counter interface {
	Snapshot() sweep.Totals
}

// ─── Messages ────────────────────────────────────────────────────────────────

type currentMsg string

type failureMsg string

type stopMsg struct{}

// ─── Model ───────────────────────────────────────────────────────────────────

// ProgressModel is the bubbletea Model behind the live sweep view.
type ProgressModel struct {
	spinner  spinner.Model
	counter  Counter
	styles   Styles
	current  string
	failures int
	width    int
	done     bool
}

// NewProgressModel returns a model reading totals from counter.
func NewProgressModel(counter Counter, styles Styles) ProgressModel {
	return ProgressModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(styles.Header),
		),
		counter: counter,
		styles:  styles,
		width:   80,
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case currentMsg:
		m.current = string(msg)
		return m, nil

	case failureMsg:
		m.failures++
		// Errors stay on screen above the live line.
		return m, tea.Println(m.styles.Error.Render("Error: " + string(msg)))

	case stopMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.done {
		return ""
	}

	totals := m.counter.Snapshot()
	var s strings.Builder
	s.WriteString(m.spinner.View())
	s.WriteString(" ")
	s.WriteString(fmt.Sprintf("%d items, %s", totals.Items, core.FormatSize(totals.Bytes)))
	if m.failures > 0 {
		s.WriteString(m.styles.Error.Render(fmt.Sprintf("  %d errors", m.failures)))
	}
	if m.current != "" {
		s.WriteString("\n")
		s.WriteString(m.styles.Muted.Render(truncateLeft(m.current, m.width-2)))
	}
	return s.String()
}

// truncateLeft keeps the tail of s, which is the informative end of a path.
func truncateLeft(s string, width int) string {
	if width < 4 {
		width = 4
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return "…" + string(r[len(r)-width+1:])
}

// ─── Progress sink ───────────────────────────────────────────────────────────

// Progress is a sweep.Sink that drives a live spinner instead of printing a
// line per entry. Stop must be called to restore the terminal.
type Progress struct {
	program *tea.Program
	done    chan struct{}
	err     error
}

// StartProgress launches the view on out. Keyboard input is not read;
// interruption is left to the caller's signal handling.
func StartProgress(out io.Writer, counter Counter) *Progress {
	styles := NewStyles(lipgloss.NewRenderer(out))
	p := &Progress{
		program: tea.NewProgram(
			NewProgressModel(counter, styles),
			tea.WithOutput(out),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		_, p.err = p.program.Run()
	}()
	return p
}

// Message implements sweep.Sink.
func (p *Progress) Message(text string) {
	p.program.Send(currentMsg(text))
}

// Error implements sweep.Sink.
func (p *Progress) Error(text string) {
	p.program.Send(failureMsg(text))
}

// Stop ends the view and waits for the final frame.
func (p *Progress) Stop() error {
	p.program.Send(stopMsg{})
	<-p.done
	return p.err
}
