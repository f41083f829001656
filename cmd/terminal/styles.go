package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/review-bench/internal/report"
)

type styles struct {
	app      lipgloss.Style
	header   lipgloss.Style
	viewport lipgloss.Style
	footer   lipgloss.Style
	inactive lipgloss.Style
	error    lipgloss.Style
	success  lipgloss.Style
	prompt   lipgloss.Style
	command  lipgloss.Style

	category map[string]lipgloss.Style
}

// GetTheme derives the UI styles from the chart palette of the same name.
func GetTheme(theme report.ThemeName) styles {
	return newStylesFromPalette(report.GetTheme(theme))
}

func newStylesFromPalette(p report.ThemePalette) styles {
	return styles{
		app: lipgloss.NewStyle().Margin(0, 1),
		header: lipgloss.NewStyle().
			Foreground(p.Header).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Header).
			Padding(0, 2).
			MarginBottom(1),
		viewport: lipgloss.NewStyle().
			PaddingLeft(1),
		footer: lipgloss.NewStyle().
			MarginTop(1).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.Header).
			PaddingTop(1),
		inactive: lipgloss.NewStyle().Foreground(p.Inactive),
		error:    lipgloss.NewStyle().Foreground(p.Critical).Bold(true),
		success:  lipgloss.NewStyle().Foreground(p.Other).Bold(true),
		prompt:   lipgloss.NewStyle().Foreground(p.Nitpick).Bold(true),
		command:  lipgloss.NewStyle().Foreground(p.Header).Italic(true),
		category: map[string]lipgloss.Style{
			"CRITICAL_BUG": lipgloss.NewStyle().Foreground(p.Critical).Bold(true),
			"NITPICK":      lipgloss.NewStyle().Foreground(p.Nitpick),
			"OTHER":        lipgloss.NewStyle().Foreground(p.Other),
		},
	}
}
