package main

import "github.com/charmbracelet/lipgloss"

// Semantic colors for command output.
var (
	successColor = lipgloss.Color("#8BC34A") // Lime Green
	warnColor    = lipgloss.Color("#FFC107") // Yellow
	errorColor   = lipgloss.Color("#e53935") // Red
	accentColor  = lipgloss.Color("#2196F3") // Blue
	mutedColor   = lipgloss.Color("245")
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warnStyle    = lipgloss.NewStyle().Foreground(warnColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	accentStyle  = lipgloss.NewStyle().Foreground(accentColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)
