package cli

import (
	"github.com/agentx-labs/dashlaunch/internal/doctor"
	"github.com/charmbracelet/lipgloss"
)

const (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	// CmdStyle is for command lines and paths.
	CmdStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)
)

// summaryStyle picks the style for a doctor summary line.
func summaryStyle(r *doctor.Report) lipgloss.Style {
	switch {
	case r.Failed():
		return ErrorStyle
	case r.Count(doctor.StatusWarn) > 0:
		return WarningStyle
	default:
		return SuccessStyle
	}
}
