package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user aborts a running task
var ErrCancelled = errors.New("cancelled by user")

// DoneMsg signals that the spinner operation has completed.
type DoneMsg struct {
	Success bool
	Message string
}

// SpinnerModel represents the spinner component state.
type SpinnerModel struct {
	spinner      spinner.Model
	message      string
	done         bool
	success      bool
	cancelled    bool
	finalMessage string
	style        lipgloss.Style
}

// NewSpinnerModel creates a new spinner model with the given message.
func NewSpinnerModel(message string) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return SpinnerModel{
		spinner: s,
		message: message,
		style:   lipgloss.NewStyle(),
	}
}

// Init starts the animation.
func (m SpinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the spinner state.
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.done = true
			m.success = false
			m.cancelled = true
			m.finalMessage = "Cancelled"
			return m, tea.Quit
		}

	case DoneMsg:
		if m.done {
			return m, nil
		}
		m.done = true
		m.success = msg.Success
		m.finalMessage = msg.Message
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the spinner to a string.
func (m SpinnerModel) View() string {
	if m.done {
		if m.finalMessage == "" {
			return ""
		}
		if m.success {
			return SuccessStyle.Render("✓") + " " + m.finalMessage + "\n"
		}
		return ErrorStyle.Render("✗") + " " + m.finalMessage + "\n"
	}

	return m.spinner.View() + " " + m.style.Render(m.message)
}

// IsDone returns whether the spinner has finished.
func (m SpinnerModel) IsDone() bool {
	return m.done
}

// IsSuccess returns whether the spinner completed successfully.
func (m SpinnerModel) IsSuccess() bool {
	return m.success
}

// IsCancelled returns whether the user aborted the spinner.
func (m SpinnerModel) IsCancelled() bool {
	return m.cancelled
}

// RunSpinnerWithTask executes task while showing a spinner on the terminal.
// The task's error is returned unchanged. When the user presses q or ctrl+c
// the task's context is cancelled and ErrCancelled is returned.
func RunSpinnerWithTask(ctx context.Context, message string, task func(ctx context.Context) error, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewSpinnerModel(message), opts...)

	var taskErr error
	done := make(chan struct{})

	go func() {
		defer close(done)

		// Small delay to ensure spinner is visible
		time.Sleep(50 * time.Millisecond)

		taskErr = task(ctx)

		if taskErr != nil {
			p.Send(DoneMsg{Success: false, Message: "Failed"})
		} else {
			p.Send(DoneMsg{Success: true, Message: message})
		}
	}()

	finalModel, err := p.Run()
	if err != nil {
		cancel()
		<-done
		return fmt.Errorf("spinner error: %w", err)
	}

	if m, ok := finalModel.(SpinnerModel); ok && m.IsCancelled() {
		cancel()
		<-done
		return ErrCancelled
	}
	<-done

	return taskErr
}
