package main

import (
	"testing"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-bench/internal/core"
	"github.com/sevigo/review-bench/internal/report"
)

func sampleResults() *core.Results {
	res := core.NewResults()
	res.Bots = []string{"gemini", "coderabbitai[bot]"}
	res.Metrics["gemini"] = core.BotMetrics{CriticalBugRatio: 0.5, NitpickRatio: 0.5, TotalComments: 2}
	res.Metrics["coderabbitai[bot]"] = core.BotMetrics{OtherRatio: 1, TotalComments: 1}
	res.Classifications["gemini"] = map[int][]core.Classification{
		7: {
			{BotName: "gemini", PRNumber: 7, FileName: "main.go", LineNumbers: "10", Comment: "nil map write", Category: core.CategoryCriticalBug, Reasoning: "panics"},
			{BotName: "gemini", PRNumber: 7, Comment: "rename var", Category: core.CategoryNitpick, Reasoning: "style", CommentIndex: 1},
		},
	}
	res.Classifications["coderabbitai[bot]"] = map[int][]core.Classification{
		3: {{BotName: "coderabbitai[bot]", PRNumber: 3, Comment: "Summary of changes", Category: core.CategoryOther, Flagged: true}},
	}
	return res
}

func TestFindBot(t *testing.T) {
	res := sampleResults()
	bot, ok := findBot(res, "GEMINI")
	assert.True(t, ok)
	assert.Equal(t, "gemini", bot)
	_, ok = findBot(res, "copilot")
	assert.False(t, ok)
}

func TestRenderViews(t *testing.T) {
	st := GetTheme(report.ThemeClassic)
	res := sampleResults()

	bots := renderBots(st, res, progress.New(progress.WithWidth(10)))
	assert.Contains(t, bots, "gemini")
	assert.Contains(t, bots, "n=2")

	detail := renderBotDetail(st, res, "gemini")
	assert.Contains(t, detail, "PR #7")
	assert.Contains(t, detail, "C:1")
	assert.Contains(t, detail, "N:1")

	pr := renderPR(st, res, "gemini", 7, "")
	assert.Contains(t, pr, "nil map write")
	assert.Contains(t, pr, "main.go:10")
	assert.Contains(t, pr, "rename var")

	filtered := renderPR(st, res, "gemini", 7, core.CategoryNitpick)
	assert.NotContains(t, filtered, "nil map write")
	assert.Contains(t, filtered, "rename var")

	assert.Contains(t, renderPR(st, res, "gemini", 99, ""), "no classified comments on PR #99")
}

func TestRenderMatches(t *testing.T) {
	st := GetTheme(report.ThemeClassic)
	res := sampleResults()

	flagged := renderMatches(st, res, "Unclassified comments", flaggedMatcher)
	assert.Contains(t, flagged, "1 matches")
	assert.Contains(t, flagged, "Summary of changes")

	found := renderMatches(st, res, "Search", searchMatcher("MAIN.GO"))
	assert.Contains(t, found, "nil map write")
	assert.NotContains(t, found, "rename var")

	assert.Contains(t, renderMatches(st, res, "Search", searchMatcher("deadlock")), "no matches")
}

func TestParseFilter(t *testing.T) {
	c, err := parseFilter("critical-bug")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryCriticalBug, c)

	c, err = parseFilter("ALL")
	require.NoError(t, err)
	assert.Empty(t, c)

	_, err = parseFilter("style")
	assert.Error(t, err)
}

func TestParsePRArg(t *testing.T) {
	n, err := parsePRArg("#42")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = parsePRArg("abc")
	assert.Error(t, err)
	_, err = parsePRArg("0")
	assert.Error(t, err)
}

func TestProcessCommandWithoutResults(t *testing.T) {
	m := initialModel(report.ThemeClassic, "missing.json")
	m.isLoading = false
	assert.Nil(t, m.processCommand("/bots"))
	assert.Contains(t, m.history[len(m.history)-1], "No results loaded")
}

func TestProcessCommandSelectsBot(t *testing.T) {
	m := initialModel(report.ThemeClassic, "results.json")
	m.Update(resultsLoadedMsg{res: sampleResults(), path: "results.json"})

	m.processCommand("/bot Gemini")
	assert.Equal(t, "gemini", m.selectedBot)

	m.processCommand("/pr 7")
	assert.Equal(t, 7, m.selectedPR)
	assert.Contains(t, m.history[len(m.history)-1], "nil map write")

	m.processCommand("/filter nitpick")
	assert.Equal(t, core.CategoryNitpick, m.filter)
	assert.NotContains(t, m.history[len(m.history)-1], "nil map write")
}
