// Package report turns finalized results into human and machine readable
// artifacts. Everything here is a pure transform of core.Results.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sevigo/review-bench/internal/core"
)

var categoryLabels = map[core.Category]string{
	core.CategoryCriticalBug: "Critical Bugs",
	core.CategoryNitpick:     "Nitpicks",
	core.CategoryOther:       "Other",
}

// Totals are the run-wide category counts.
type Totals struct {
	Comments int
	Counts   map[core.Category]int
}

// Ratio is count/Comments, or 0 for an empty run.
func (t Totals) Ratio(c core.Category) float64 {
	if t.Comments == 0 {
		return 0
	}
	return float64(t.Counts[c]) / float64(t.Comments)
}

// ComputeTotals sums the raw counts of every bot.
func ComputeTotals(res *core.Results) Totals {
	t := Totals{Counts: make(map[core.Category]int, len(core.Categories))}
	for _, bot := range res.Bots {
		m := res.Metrics[bot]
		t.Comments += m.TotalComments
		for _, c := range core.Categories {
			t.Counts[c] += m.Count(c)
		}
	}
	return t
}

func pct(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100)
}

// WriteText writes the plain text report. The detailed section listing
// every classification is included only when detailed is set.
func WriteText(w io.Writer, res *core.Results, now time.Time, detailed bool) error {
	bw := bufio.NewWriter(w)
	writeHeader(bw, now)
	writeOverall(bw, res)
	writePerBot(bw, res)
	if detailed {
		writeClassifications(bw, res)
	}
	writeSummaryTable(bw, res)
	return bw.Flush()
}

func rule(ch string) string { return strings.Repeat(ch, 80) }

func writeHeader(w io.Writer, now time.Time) {
	fmt.Fprintln(w, "Code Review Bot Analysis Report")
	fmt.Fprintln(w, rule("="))
	fmt.Fprintf(w, "Generated on: %s\n\n", now.Format(time.DateTime))
}

func writeOverall(w io.Writer, res *core.Results) {
	t := ComputeTotals(res)
	fmt.Fprintln(w, "Overall Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total Comments Analyzed: %d\n", t.Comments)
	fmt.Fprintf(w, "Total Critical Bugs Found: %d (%s)\n", t.Counts[core.CategoryCriticalBug], pct(t.Ratio(core.CategoryCriticalBug)))
	fmt.Fprintf(w, "Total Nitpicks Made: %d (%s)\n", t.Counts[core.CategoryNitpick], pct(t.Ratio(core.CategoryNitpick)))
	fmt.Fprintf(w, "Total Other Comments: %d (%s)\n\n", t.Counts[core.CategoryOther], pct(t.Ratio(core.CategoryOther)))
}

func writePerBot(w io.Writer, res *core.Results) {
	fmt.Fprintln(w, "\nPer-Bot Analysis")
	fmt.Fprintln(w, rule("="))
	for _, bot := range res.Bots {
		m := res.Metrics[bot]
		fmt.Fprintf(w, "\nBot: %s\n%s\n", bot, strings.Repeat("-", len(bot)+5))
		fmt.Fprintf(w, "Total Comments: %d\n", m.TotalComments)
		fmt.Fprintf(w, "Critical Bug Ratio: %s\n", pct(m.CriticalBugRatio))
		fmt.Fprintf(w, "Nitpick Ratio: %s\n", pct(m.NitpickRatio))
		fmt.Fprintf(w, "Other Feedback Ratio: %s\n", pct(m.OtherRatio))
		fmt.Fprintln(w, "\nRaw Numbers:")
		fmt.Fprintf(w, "- Critical Bugs: %d\n", m.Count(core.CategoryCriticalBug))
		fmt.Fprintf(w, "- Nitpicks: %d\n", m.Count(core.CategoryNitpick))
		fmt.Fprintf(w, "- Other Comments: %d\n\n", m.Count(core.CategoryOther))
	}
}

// groupByCategory buckets records by category, keeping their order.
func groupByCategory(records []core.Classification) map[core.Category][]core.Classification {
	out := make(map[core.Category][]core.Classification, len(core.Categories))
	for _, r := range records {
		c := core.ParseCategory(string(r.Category))
		out[c] = append(out[c], r)
	}
	return out
}

func writeClassifications(w io.Writer, res *core.Results) {
	fmt.Fprintln(w, "\nDetailed Classifications")
	fmt.Fprintln(w, rule("="))
	for _, bot := range res.Bots {
		prs := res.PRNumbers(bot)
		if len(prs) == 0 {
			continue
		}
		fmt.Fprintf(w, "\nBot: %s\n%s\n", bot, strings.Repeat("-", len(bot)+5))
		for _, pr := range prs {
			fmt.Fprintf(w, "\nPR #%d\n%s\n", pr, strings.Repeat("~", 20))
			grouped := groupByCategory(res.Classifications[bot][pr])
			for _, cat := range core.Categories {
				records := grouped[cat]
				if len(records) == 0 {
					continue
				}
				fmt.Fprintf(w, "\n%s Comments:\n%s\n", cat, strings.Repeat("-", 20))
				for _, r := range records {
					flag := ""
					if r.Flagged {
						flag = " [unclassified]"
					}
					fmt.Fprintf(w, "\nComment %d (File: %s, Lines: %s)%s\n", r.CommentIndex, r.FileName, r.LineNumbers, flag)
					fmt.Fprintf(w, "Comment: %s\n", strings.TrimSpace(r.Comment))
					fmt.Fprintf(w, "Code:\n%s\n", strings.TrimSpace(r.CodeChunk))
					fmt.Fprintf(w, "Reasoning: %s\n", strings.TrimSpace(r.Reasoning))
					fmt.Fprintln(w, strings.Repeat("-", 40))
				}
			}
			fmt.Fprintln(w)
		}
	}
}

func writeSummaryTable(w io.Writer, res *core.Results) {
	fmt.Fprintln(w, "\nSummary Table")
	fmt.Fprintln(w, rule("="))
	fmt.Fprintf(w, "%-20s %-10s %-15s %-15s %-15s\n", "Bot Name", "Total", "Critical", "Nitpicks", "Other")
	fmt.Fprintln(w, rule("-"))
	for _, bot := range res.Bots {
		m := res.Metrics[bot]
		fmt.Fprintf(w, "%-20s %-10d", bot, m.TotalComments)
		for _, c := range core.Categories {
			fmt.Fprintf(w, " %6d (%3.0f%%)", m.Count(c), m.Ratio(c)*100)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "\nNote: Percentages may not sum to 100% due to rounding")
}
