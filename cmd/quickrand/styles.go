package main

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Width(22)

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)
