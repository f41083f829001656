package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/sevigo/review-bench/internal/core"
	"github.com/sevigo/review-bench/internal/report"
)

func findBot(res *core.Results, name string) (string, bool) {
	for _, b := range res.Bots {
		if strings.EqualFold(b, name) {
			return b, true
		}
	}
	return "", false
}

// renderBots lists every bot with a bar for its critical bug ratio.
func renderBots(st styles, res *core.Results, bar progress.Model) string {
	if len(res.Bots) == 0 {
		return st.inactive.Render("No bots in these results.")
	}
	width := 0
	for _, b := range res.Bots {
		width = max(width, len(b))
	}
	var b strings.Builder
	b.WriteString(st.success.Render("BOTS (critical bug ratio):"))
	for _, bot := range res.Bots {
		m := res.Metrics[bot]
		fmt.Fprintf(&b, "\n  %-*s %s %s", width, bot, bar.ViewAs(m.CriticalBugRatio),
			st.inactive.Render(fmt.Sprintf("n=%d", m.TotalComments)))
	}
	b.WriteString("\n\n" + st.inactive.Render("Use '/bot [name]' to drill into a bot."))
	return b.String()
}

// renderBotDetail shows per-PR category counts for one bot.
func renderBotDetail(st styles, res *core.Results, bot string) string {
	m := res.Metrics[bot]
	var b strings.Builder
	b.WriteString(st.success.Render(fmt.Sprintf("BOT %s", bot)))
	fmt.Fprintf(&b, "\n  total %d │ critical %d │ nitpick %d │ other %d",
		m.TotalComments, m.Count(core.CategoryCriticalBug), m.Count(core.CategoryNitpick), m.Count(core.CategoryOther))

	prs := res.PRNumbers(bot)
	if len(prs) == 0 {
		b.WriteString("\n\n" + st.inactive.Render("No classified comments."))
		return b.String()
	}
	b.WriteString("\n")
	for _, pr := range prs {
		counts := make(map[core.Category]int)
		for _, r := range res.Classifications[bot][pr] {
			counts[core.ParseCategory(string(r.Category))]++
		}
		fmt.Fprintf(&b, "\n  PR #%-6d %s %s %s", pr,
			st.category["CRITICAL_BUG"].Render(fmt.Sprintf("C:%d", counts[core.CategoryCriticalBug])),
			st.category["NITPICK"].Render(fmt.Sprintf("N:%d", counts[core.CategoryNitpick])),
			st.category["OTHER"].Render(fmt.Sprintf("O:%d", counts[core.CategoryOther])))
	}
	b.WriteString("\n\n" + st.inactive.Render("Use '/pr [number]' to read the classifications."))
	return b.String()
}

func renderRecord(st styles, r core.Classification) string {
	cat := string(r.Category)
	style, ok := st.category[cat]
	if !ok {
		style = st.category["OTHER"]
	}
	head := fmt.Sprintf("#%d %s", r.CommentIndex, style.Render(cat))
	if r.FileName != "" {
		head += st.inactive.Render(fmt.Sprintf("  %s:%s", r.FileName, r.LineNumbers))
	}
	if r.Flagged {
		head += " " + st.error.Render("⚠ unclassified")
	}
	return fmt.Sprintf("%s\n  %s\n  %s", head,
		strings.ReplaceAll(strings.TrimSpace(r.Comment), "\n", "\n  "),
		st.inactive.Render("↳ "+strings.TrimSpace(r.Reasoning)))
}

// renderPR lists one bot's classifications on a PR, optionally filtered to
// a single category.
func renderPR(st styles, res *core.Results, bot string, pr int, filter core.Category) string {
	records, ok := res.Classifications[bot][pr]
	if !ok {
		return st.error.Render(fmt.Sprintf("%s has no classified comments on PR #%d.", bot, pr))
	}
	var out []string
	for _, r := range records {
		if filter != "" && core.ParseCategory(string(r.Category)) != filter {
			continue
		}
		out = append(out, renderRecord(st, r))
	}
	title := st.success.Render(fmt.Sprintf("%s on PR #%d", bot, pr))
	if filter != "" {
		title += st.inactive.Render(" (filter: " + string(filter) + ")")
	}
	if len(out) == 0 {
		return title + "\n" + st.inactive.Render("Nothing matches the current filter.")
	}
	return title + "\n\n" + strings.Join(out, "\n\n")
}

// renderMatches lists every record accepted by match across all bots.
func renderMatches(st styles, res *core.Results, title string, match func(core.Classification) bool) string {
	var out []string
	for _, bot := range res.Bots {
		for _, pr := range res.PRNumbers(bot) {
			for _, r := range res.Classifications[bot][pr] {
				if match(r) {
					out = append(out, st.prompt.Render(fmt.Sprintf("%s · PR #%d", bot, pr))+" "+renderRecord(st, r))
				}
			}
		}
	}
	if len(out) == 0 {
		return st.inactive.Render(title + ": no matches.")
	}
	return st.success.Render(fmt.Sprintf("%s: %d matches", title, len(out))) + "\n\n" + strings.Join(out, "\n\n")
}

func searchMatcher(query string) func(core.Classification) bool {
	q := strings.ToLower(query)
	return func(r core.Classification) bool {
		return strings.Contains(strings.ToLower(r.Comment), q) ||
			strings.Contains(strings.ToLower(r.FileName), q) ||
			strings.Contains(strings.ToLower(r.Reasoning), q)
	}
}

func flaggedMatcher(r core.Classification) bool { return r.Flagged }

func parseFilter(arg string) (core.Category, error) {
	if strings.EqualFold(arg, "all") {
		return "", nil
	}
	for _, c := range core.Categories {
		if strings.EqualFold(arg, string(c)) || strings.EqualFold(strings.ReplaceAll(arg, "-", "_"), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q, expected one of %v or all", arg, core.Categories)
}

func parsePRArg(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid PR number %q", arg)
	}
	return n, nil
}

func summaryView(res *core.Results, theme report.ThemeName) string {
	return report.RenderComparison(lipglossRenderer(), res, theme) + "\n\n" +
		report.RenderDistribution(lipglossRenderer(), res, theme, 40)
}
