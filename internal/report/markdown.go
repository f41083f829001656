package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/sevigo/review-bench/internal/core"
)

// Markdown renders the summary and per-PR classifications as GitHub
// flavoured markdown.
func Markdown(res *core.Results, now time.Time) string {
	var b strings.Builder
	t := ComputeTotals(res)

	b.WriteString("# Code Review Bot Analysis\n\n")
	fmt.Fprintf(&b, "_Generated on %s_\n\n", now.Format(time.DateTime))
	fmt.Fprintf(&b, "**%d** comments analyzed: **%d** critical bugs (%s), **%d** nitpicks (%s), **%d** other (%s).\n\n",
		t.Comments,
		t.Counts[core.CategoryCriticalBug], pct(t.Ratio(core.CategoryCriticalBug)),
		t.Counts[core.CategoryNitpick], pct(t.Ratio(core.CategoryNitpick)),
		t.Counts[core.CategoryOther], pct(t.Ratio(core.CategoryOther)))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Bot | Total | Critical | Nitpicks | Other |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, bot := range res.Bots {
		m := res.Metrics[bot]
		fmt.Fprintf(&b, "| %s | %d |", escapeCell(bot), m.TotalComments)
		for _, c := range core.Categories {
			fmt.Fprintf(&b, " %d (%s) |", m.Count(c), pct(m.Ratio(c)))
		}
		b.WriteString("\n")
	}

	for _, bot := range res.Bots {
		prs := res.PRNumbers(bot)
		if len(prs) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", bot)
		for _, pr := range prs {
			fmt.Fprintf(&b, "\n### PR #%d\n\n", pr)
			b.WriteString("| # | Category | File | Lines | Comment | Reasoning |\n")
			b.WriteString("|---:|---|---|---|---|---|\n")
			for _, r := range res.Classifications[bot][pr] {
				cat := string(r.Category)
				if r.Flagged {
					cat += " ⚠"
				}
				fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
					r.CommentIndex, cat, escapeCell(r.FileName), escapeCell(r.LineNumbers),
					escapeCell(truncate(r.Comment, 160)), escapeCell(truncate(r.Reasoning, 160)))
			}
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

// RenderMarkdown renders md for a terminal. style is a glamour standard
// style name such as "dark", "light" or "notty".
func RenderMarkdown(md string, style string, width int) (string, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
