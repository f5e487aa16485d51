// Package ui renders CLI output with lipgloss, shows bubbletea spinners
// and prompts with survey.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#007a4a", Dark: "#1adf9a"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#737373", Dark: "#a3a3a3"}
	ColorBorder  = lipgloss.AdaptiveColor{Light: "#d4d4d4", Dark: "#404040"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"}
)

var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	Muted   = lipgloss.NewStyle().Foreground(ColorMuted)
	Success = lipgloss.NewStyle().Foreground(ColorPrimary)
	Warning = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	Error   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
)

// SuccessLine formats a check-marked message.
func SuccessLine(msg string) string {
	return Success.Render("✓ " + msg)
}

// WarningLine formats a warning message.
func WarningLine(msg string) string {
	return Warning.Render("! " + msg)
}
