package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-bench/internal/core"
)

func TestResolvePRs(t *testing.T) {
	prs, err := resolvePRs([]string{"12", "#7", "https://github.com/microsoft/TypeScript/pull/99", "12"}, "microsoft/typescript")
	require.NoError(t, err)
	assert.Equal(t, []int{12, 7, 99}, prs)

	prs, err = resolvePRs(nil, "")
	require.NoError(t, err)
	assert.Nil(t, prs)

	_, err = resolvePRs([]string{"https://github.com/other/repo/pull/1"}, "microsoft/typescript")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := summarize([]core.ReviewComment{
		{BotName: "b[bot]", PRNumber: 2},
		{BotName: "a[bot]", PRNumber: 1},
		{BotName: "b[bot]", PRNumber: 2},
		{BotName: "b[bot]", PRNumber: 3},
	})
	assert.Equal(t, []string{"b[bot]", "a[bot]"}, s.bots)
	assert.Equal(t, 3, s.total["b[bot]"])
	assert.Equal(t, map[int]int{2: 2, 3: 1}, s.prs["b[bot]"])
}
