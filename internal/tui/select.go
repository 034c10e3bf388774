package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// SelectModel represents a selection menu with arrow-key navigation.
type SelectModel struct {
	title    string
	choices  []string
	cursor   int
	selected int
	done     bool
}

// NewSelectModel creates a new selection menu with the given title and choices.
func NewSelectModel(title string, choices []string) SelectModel {
	return SelectModel{
		title:    title,
		choices:  choices,
		selected: -1,
	}
}

// Init initializes the model. Required by tea.Model interface.
func (m SelectModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming events and updates the model state.
func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.cursor
			m.done = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.selected = -1
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the current state of the model.
func (m SelectModel) View() string {
	if m.done {
		return ""
	}

	s := HeaderStyle.Render(m.title) + "\n\n"
	for i, choice := range m.choices {
		if m.cursor == i {
			s += SelectedStyle.Render("> "+choice) + "\n"
		} else {
			s += "  " + choice + "\n"
		}
	}
	s += "\n" + MutedStyle.Render("(up/down to move, Enter to select, q to quit)") + "\n"

	return s
}

// Selected returns the index of the selected choice, or -1 if cancelled.
func (m SelectModel) Selected() int {
	return m.selected
}

// RunSelect runs the selection menu and returns the selected index.
// Returns -1 if the user cancelled the selection.
func RunSelect(title string, choices []string, opts ...tea.ProgramOption) (int, error) {
	if len(choices) == 0 {
		return -1, fmt.Errorf("no choices provided")
	}

	finalModel, err := tea.NewProgram(NewSelectModel(title, choices), opts...).Run()
	if err != nil {
		return -1, fmt.Errorf("failed to run select menu: %w", err)
	}

	m, ok := finalModel.(SelectModel)
	if !ok {
		return -1, fmt.Errorf("unexpected model type")
	}

	return m.Selected(), nil
}
