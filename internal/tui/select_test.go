package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next
}

func TestSelectModel(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{name: "enter selects first", keys: []string{"enter"}, want: 0},
		{name: "down then enter", keys: []string{"down", "down", "enter"}, want: 2},
		{name: "cursor clamps at bottom", keys: []string{"down", "down", "down", "down", "enter"}, want: 2},
		{name: "cursor clamps at top", keys: []string{"up", "k", "enter"}, want: 0},
		{name: "vim keys", keys: []string{"j", "j", "k", "enter"}, want: 1},
		{name: "esc cancels", keys: []string{"down", "esc"}, want: -1},
		{name: "q cancels", keys: []string{"q"}, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = NewSelectModel("Pick a deployment", []string{"a", "b", "c"})
			for _, k := range tt.keys {
				m = press(m, k)
			}
			got := m.(SelectModel).Selected()
			if got != tt.want {
				t.Errorf("Selected() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSelectModel_View(t *testing.T) {
	m := NewSelectModel("Pick", []string{"dpl_1", "dpl_2"})
	if m.View() == "" {
		t.Error("expected non-empty view while selecting")
	}
	done := press(m, "enter").(SelectModel)
	if done.View() != "" {
		t.Error("expected empty view once done")
	}
}

func TestRunSelect_NoChoices(t *testing.T) {
	if _, err := RunSelect("Pick", nil); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestSpinnerModel_Done(t *testing.T) {
	m := NewSpinnerModel("Fetching")
	next, _ := m.Update(DoneMsg{Success: true, Message: "Fetched"})
	s := next.(SpinnerModel)
	if !s.IsDone() || !s.IsSuccess() {
		t.Errorf("spinner state = done %v success %v", s.IsDone(), s.IsSuccess())
	}
}
