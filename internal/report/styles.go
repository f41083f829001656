package report

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

type ThemeName string

const (
	ThemeClassic ThemeName = "classic"
	ThemeMatrix  ThemeName = "matrix"
	ThemeAmber   ThemeName = "amber"
	ThemeDracula ThemeName = "dracula"
	ThemeIceBlue ThemeName = "ice"
)

// ThemePalette colors the charts: one color per category plus chrome.
type ThemePalette struct {
	Critical lipgloss.Color
	Nitpick  lipgloss.Color
	Other    lipgloss.Color
	Header   lipgloss.Color
	Inactive lipgloss.Color
}

var palettes = map[ThemeName]ThemePalette{
	ThemeClassic: {
		Critical: lipgloss.Color("#ff6b6b"),
		Nitpick:  lipgloss.Color("#4ecdc4"),
		Other:    lipgloss.Color("#45b7d1"),
		Header:   lipgloss.Color("51"),
		Inactive: lipgloss.Color("240"),
	},
	ThemeMatrix: {
		Critical: lipgloss.Color("196"),
		Nitpick:  lipgloss.Color("190"), // lime
		Other:    lipgloss.Color("46"),  // green
		Header:   lipgloss.Color("82"),
		Inactive: lipgloss.Color("240"),
	},
	ThemeAmber: {
		Critical: lipgloss.Color("196"),
		Nitpick:  lipgloss.Color("208"), // orange
		Other:    lipgloss.Color("214"), // amber
		Header:   lipgloss.Color("220"),
		Inactive: lipgloss.Color("240"),
	},
	ThemeDracula: {
		Critical: lipgloss.Color("203"),
		Nitpick:  lipgloss.Color("212"), // pink
		Other:    lipgloss.Color("117"), // cyan
		Header:   lipgloss.Color("141"),
		Inactive: lipgloss.Color("240"),
	},
	ThemeIceBlue: {
		Critical: lipgloss.Color("196"),
		Nitpick:  lipgloss.Color("159"), // ice
		Other:    lipgloss.Color("39"),  // blue
		Header:   lipgloss.Color("51"),
		Inactive: lipgloss.Color("240"),
	},
}

// GetTheme returns the named palette, falling back to classic.
func GetTheme(theme ThemeName) ThemePalette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[ThemeClassic]
}

func ListThemes() []ThemeName {
	return []ThemeName{ThemeClassic, ThemeMatrix, ThemeAmber, ThemeDracula, ThemeIceBlue}
}

type styles struct {
	header   lipgloss.Style
	bot      lipgloss.Style
	inactive lipgloss.Style
	segment  map[string]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, p ThemePalette) styles {
	return styles{
		header: r.NewStyle().
			Foreground(p.Header).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Header).
			Padding(0, 2),
		bot:      r.NewStyle().Bold(true),
		inactive: r.NewStyle().Foreground(p.Inactive),
		segment: map[string]lipgloss.Style{
			"critical": r.NewStyle().Foreground(p.Critical),
			"nitpick":  r.NewStyle().Foreground(p.Nitpick),
			"other":    r.NewStyle().Foreground(p.Other),
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
