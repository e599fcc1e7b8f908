package tui

import "github.com/charmbracelet/lipgloss"

// Darkroom palette: cool slate with a teal accent.
var (
	accentColor  = lipgloss.Color("#4FB3BF")
	imageColor   = lipgloss.Color("#A3BE8C")
	cautionColor = lipgloss.Color("#EBCB8B")
	dangerColor  = lipgloss.Color("#D08770")
	frameColor   = lipgloss.Color("#4C566A")
	inkColor     = lipgloss.Color("#ECEFF4")
	faintColor   = lipgloss.Color("#8C97A8")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor).MarginBottom(1)
	subtitleStyle = lipgloss.NewStyle().Italic(true).Foreground(faintColor)
	headingStyle  = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			Underline(true).
			MarginTop(1).
			MarginBottom(1)

	dimStyle     = lipgloss.NewStyle().Foreground(faintColor)
	countStyle   = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	spinnerStyle = lipgloss.NewStyle().Foreground(accentColor)
	imageStyle   = lipgloss.NewStyle().Foreground(imageColor)
	labelStyle   = lipgloss.NewStyle().Width(18).Foreground(faintColor)
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(inkColor)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(imageColor)
	warningStyle = lipgloss.NewStyle().Foreground(cautionColor)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(dangerColor)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(cautionColor).MarginTop(1)
	helpStyle    = lipgloss.NewStyle().Faint(true).MarginTop(2)

	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(frameColor).
			Padding(0, 2)
	yesButtonStyle = buttonStyle.BorderForeground(imageColor).Background(lipgloss.Color("#2E3D33"))
	noButtonStyle  = buttonStyle.BorderForeground(dangerColor).Background(lipgloss.Color("#3D2E2E"))
	errorBoxStyle  = buttonStyle.BorderForeground(dangerColor).Padding(1, 2).MarginTop(1)
)

const (
	iconImage    = "▪"
	iconSkipped  = "–"
	iconOverride = "!"
	iconSuccess  = "✔"
	iconError    = "✘"
	iconFolder   = "▸"
)
