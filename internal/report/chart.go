package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sevigo/review-bench/internal/core"
)

// Distinct glyphs keep the chart readable when colors are unavailable.
var segmentGlyphs = []struct {
	key   string
	cat   core.Category
	glyph string
}{
	{"critical", core.CategoryCriticalBug, "█"},
	{"nitpick", core.CategoryNitpick, "▓"},
	{"other", core.CategoryOther, "░"},
}

// segmentWidths splits width cells between the three ratios using largest
// remainders, so the segments always fill exactly width cells when the
// ratios sum to one.
func segmentWidths(m core.BotMetrics, width int) []int {
	if m.TotalComments == 0 {
		return []int{0, 0, 0}
	}
	widths := make([]int, len(segmentGlyphs))
	rems := make([]float64, len(segmentGlyphs))
	used := 0
	for i, s := range segmentGlyphs {
		exact := m.Ratio(s.cat) * float64(width)
		widths[i] = int(math.Floor(exact))
		rems[i] = exact - float64(widths[i])
		used += widths[i]
	}
	for used < width {
		best := 0
		for i := range rems {
			if rems[i] > rems[best] {
				best = i
			}
		}
		if rems[best] <= 0 {
			break
		}
		widths[best]++
		rems[best] = 0
		used++
	}
	return widths
}

// RenderDistribution draws one stacked horizontal bar per bot showing its
// category mix, followed by a legend.
func RenderDistribution(r *lipgloss.Renderer, res *core.Results, theme ThemeName, barWidth int) string {
	if barWidth <= 0 {
		barWidth = 50
	}
	st := newStyles(r, GetTheme(theme))

	nameWidth := 0
	for _, bot := range res.Bots {
		nameWidth = max(nameWidth, lipgloss.Width(bot))
	}

	lines := []string{st.header.Render("Comment Category Distribution by Code Review Bot"), ""}
	for _, bot := range res.Bots {
		m := res.Metrics[bot]
		var bar strings.Builder
		widths := segmentWidths(m, barWidth)
		filled := 0
		for i, s := range segmentGlyphs {
			if widths[i] > 0 {
				bar.WriteString(st.segment[s.key].Render(strings.Repeat(s.glyph, widths[i])))
			}
			filled += widths[i]
		}
		if filled < barWidth {
			bar.WriteString(st.inactive.Render(strings.Repeat("·", barWidth-filled)))
		}
		label := st.bot.Render(bot + strings.Repeat(" ", nameWidth-lipgloss.Width(bot)))
		lines = append(lines, fmt.Sprintf("%s │%s│ %s/%s/%s (n=%d)", label, bar.String(),
			pct(m.CriticalBugRatio), pct(m.NitpickRatio), pct(m.OtherRatio), m.TotalComments))
	}

	legend := make([]string, 0, len(segmentGlyphs))
	for _, s := range segmentGlyphs {
		legend = append(legend, st.segment[s.key].Render(s.glyph)+" "+categoryLabels[s.cat])
	}
	lines = append(lines, "", strings.Join(legend, "   "))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderComparison renders the per-bot summary as a bordered table. The bot
// with the highest critical bug ratio is highlighted.
func RenderComparison(r *lipgloss.Renderer, res *core.Results, theme ThemeName) string {
	p := GetTheme(theme)
	headerStyle := r.NewStyle().Foreground(p.Header).Bold(true).Padding(0, 1)
	cellStyle := r.NewStyle().Padding(0, 1)
	bestStyle := cellStyle.Foreground(p.Critical).Bold(true)

	best, bestRatio := -1, 0.0
	rows := make([][]string, 0, len(res.Bots))
	for i, bot := range res.Bots {
		m := res.Metrics[bot]
		if m.TotalComments > 0 && m.CriticalBugRatio > bestRatio {
			best, bestRatio = i, m.CriticalBugRatio
		}
		row := []string{bot, strconv.Itoa(m.TotalComments)}
		for _, c := range core.Categories {
			row = append(row, fmt.Sprintf("%d (%s)", m.Count(c), pct(m.Ratio(c))))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(p.Inactive)).
		Headers("Bot", "Total", "Critical", "Nitpicks", "Other").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == best:
				return bestStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}
