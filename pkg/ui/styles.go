package ui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors, picked for both light and dark terminals
var (
	colorPath    = lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FD7FF"}
	colorVersion = lipgloss.AdaptiveColor{Light: "#5F8700", Dark: "#AFFF5F"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFD75F"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#9E9E9E"}
	colorError   = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
)

var (
	pathStyle    = lipgloss.NewStyle().Foreground(colorPath)
	versionStyle = lipgloss.NewStyle().Foreground(colorVersion).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

// ErrorStyle renders fatal errors on stderr
var ErrorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)
