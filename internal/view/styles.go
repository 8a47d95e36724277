// Package view renders grade reports and fact-check results for the
// terminal.
package view

import (
	"github.com/charmbracelet/lipgloss"

	"nutriproof/internal/grade"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#737373"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3a3a3"))

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("#fafafa"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

var letterColors = map[string]lipgloss.Color{
	"A":            lipgloss.Color("#2e7d32"),
	"B":            lipgloss.Color("#4caf50"),
	"C":            lipgloss.Color("#ffc107"),
	"D":            lipgloss.Color("#f44336"),
	"F":            lipgloss.Color("#c62828"),
	grade.LetterNA: lipgloss.Color("#737373"),
}

// Status classes for a single result card.
const (
	StatusTrue          = "true"
	StatusFalse         = "false"
	StatusPartiallyTrue = "partially-true"
	StatusUnknown       = "unknown"
)

var statusColors = map[string]lipgloss.Color{
	StatusTrue:          lipgloss.Color("#2e7d32"),
	StatusFalse:         lipgloss.Color("#c62828"),
	StatusPartiallyTrue: lipgloss.Color("#ffc107"),
	StatusUnknown:       lipgloss.Color("#737373"),
}
