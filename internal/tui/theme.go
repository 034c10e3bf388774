// Package tui provides terminal styling and small interactive components for opscheck.
package tui

import (
	"strings"

	"github.com/audiojones/opscheck/pkg/diagnose"
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("39")  // blue
	ColorSecondary = lipgloss.Color("45")  // cyan
	ColorSuccess   = lipgloss.Color("42")  // green
	ColorError     = lipgloss.Color("196") // red
	ColorWarning   = lipgloss.Color("214") // orange
	ColorMuted     = lipgloss.Color("240") // gray
)

// Text styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)
)

// Status indicators
const (
	StatusSuccess = "[OK]"
	StatusError   = "[ERR]"
	StatusWarning = "[WARN]"
)

// RenderSuccess renders a success message with its indicator
func RenderSuccess(text string) string {
	return SuccessStyle.Render(StatusSuccess + " " + text)
}

// RenderError renders an error message with its indicator
func RenderError(text string) string {
	return ErrorStyle.Render(StatusError + " " + text)
}

// RenderWarning renders a warning message with its indicator
func RenderWarning(text string) string {
	return WarningStyle.Render(StatusWarning + " " + text)
}

// RenderMuted renders text with the muted style
func RenderMuted(text string) string {
	return MutedStyle.Render(text)
}

// StateIndicator maps a deployment state to a short visual marker
func StateIndicator(state string) string {
	switch strings.ToUpper(state) {
	case "READY":
		return "[+] " + state
	case "ERROR", "CANCELED":
		return "[-] " + state
	case "BUILDING", "INITIALIZING":
		return "[*] " + state
	case "QUEUED":
		return "[~] " + state
	default:
		return "[ ] " + state
	}
}

// StateStyle returns the style a deployment state is rendered with
func StateStyle(state string) lipgloss.Style {
	switch strings.ToUpper(state) {
	case "READY":
		return SuccessStyle
	case "ERROR", "CANCELED":
		return ErrorStyle
	case "BUILDING", "INITIALIZING", "QUEUED":
		return WarningStyle
	default:
		return lipgloss.NewStyle()
	}
}

// RenderReport colours the section lines of a diagnostic report.
// The text itself is unchanged, so stripping ANSI codes yields the plain report.
func RenderReport(report string, ins diagnose.Insights) string {
	lines := strings.Split(report, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, diagnose.MarkerBuildStatus):
			lines[i] = StateStyle(ins.BuildStatus).Render(line)
		case strings.HasPrefix(line, diagnose.MarkerRootCause):
			if ins.RootCause == diagnose.NoRootCause {
				lines[i] = MutedStyle.Render(line)
			} else {
				lines[i] = ErrorStyle.Render(line)
			}
		case strings.HasPrefix(line, diagnose.MarkerDeployment),
			strings.HasPrefix(line, diagnose.MarkerFix):
			lines[i] = HeaderStyle.Render(line)
		case line == diagnose.HeadingMissingEnvs, line == diagnose.HeadingMissingDeps:
			lines[i] = WarningStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
