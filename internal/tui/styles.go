package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#8BC34A")
	muted  = lipgloss.Color("#6b7280")
	danger = lipgloss.Color("#e53935")
)

// Styles groups the lipgloss styles used by the chat widget.
type Styles struct {
	Header  lipgloss.Style
	Badge   lipgloss.Style
	User    lipgloss.Style
	AI      lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Input   lipgloss.Style
	Spinner lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		Badge:   lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		User:    lipgloss.NewStyle().Bold(true),
		AI:      lipgloss.NewStyle().Foreground(accent),
		Muted:   lipgloss.NewStyle().Foreground(muted),
		Error:   lipgloss.NewStyle().Foreground(danger),
		Input:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		Spinner: lipgloss.NewStyle().Foreground(accent),
	}
}
