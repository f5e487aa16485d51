package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

type doneMsg struct{}

type spinModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

func (m spinModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m spinModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), Muted.Render(m.title))
}

// Spin runs fn, showing a spinner on w while it works. Output that is not a
// terminal gets no spinner. fn always runs to completion; input is ignored
// so a long restore cannot be abandoned half way.
func Spin(w io.Writer, title string, fn func() error) error {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return fn()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Success

	p := tea.NewProgram(spinModel{spinner: s, title: title},
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	result := make(chan error, 1)
	go func() {
		err := fn()
		result <- err
		p.Send(doneMsg{})
	}()

	_, runErr := p.Run()
	err := <-result
	if err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("spinner failed: %w", runErr)
	}
	return nil
}
