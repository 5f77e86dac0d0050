// Package style centralizes the lipgloss styles the CLI renders text
// output with.
package style

import "github.com/charmbracelet/lipgloss"

var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	OkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
