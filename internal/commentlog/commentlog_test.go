package commentlog

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-bench/internal/core"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeLog(t *testing.T, prs []core.PullRequest, byPR map[int][]core.ReviewComment) string {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, pr := range prs {
		require.NoError(t, w.WritePRHeader(pr))
		for _, c := range byPR[pr.Number] {
			require.NoError(t, w.WriteComment(c))
		}
	}
	require.NoError(t, w.Flush())
	return buf.String()
}

func TestRoundTrip(t *testing.T) {
	prs := []core.PullRequest{
		{Number: 42, Title: "Fix parser", HTMLURL: "https://github.com/o/r/pull/42"},
		{Number: 7, Title: "Docs"},
	}
	byPR := map[int][]core.ReviewComment{
		42: {
			{
				BotName: "coderabbitai[bot]", PRNumber: 42, FileName: "src/parser.ts",
				LineNumbers: "10-12", Comment: "Possible nil dereference.",
				Chunk: "if (x) {\n    return x.y;\n}",
			},
			{
				BotName: "gemini", PRNumber: 42, FileName: "src/lexer.ts", LineNumbers: "3",
				Comment:  "Off-by-one in loop bound.\n\nFile: this line looks like a tag\nBot: so does this\n*********",
				Category: "logic",
			},
			{BotName: "gemini", PRNumber: 42, Comment: "Missing file and chunk"},
		},
		7: {
			{BotName: "sonarcloud[bot]", PRNumber: 7, FileName: "README.md", Comment: "Typo"},
		},
	}

	got, err := Parse(strings.NewReader(writeLog(t, prs, byPR)), discardLogger())
	require.NoError(t, err)

	want := append(append([]core.ReviewComment{}, byPR[42]...), byPR[7]...)
	assert.Equal(t, want, got)
}

func TestParse_NormalizesComments(t *testing.T) {
	log := strings.Join([]string{
		"=== PR #5 Comments ===",
		"Bot: bot-a",
		"Comment: <!-- internal",
		"  marker -->  Real text  ",
		"*********",
		"Bot: bot-b",
		"Comment: :shipit:",
		"*********",
		"Bot: bot-c",
		"Comment: <!-- only a hidden note -->",
		"*********",
		"Bot: bot-d",
		"Comment:",
		"*********",
		"Bot: bot-e",
		"Comment: keep",
		"Code Snippet:",
		"",
		"   x := 1   ",
		"",
		"*********",
	}, "\n")

	got, err := Parse(strings.NewReader(log), discardLogger())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Real text", got[0].Comment)
	assert.Equal(t, "bot-a", got[0].BotName)
	assert.Equal(t, "keep", got[1].Comment)
	assert.Equal(t, "x := 1", got[1].Chunk)
}

// Logs produced before continuation indenting and record delimiters were
// handled: sections end only at the next tag or record.
func TestParse_UnindentedLog(t *testing.T) {
	log := `=== PR #12 Comments ===
PR Title: Add feature
PR URL: https://github.com/o/r/pull/12

Bot: github-actions[bot]
File: a.go
Lines: 4-4
Comment: first line
second line
Code Snippet:
func a() {}
Bot: gemini
File: b.go
Comment: issue (Severity: high)
Error processing PR #13: status 500

=== PR #14 Comments ===
PR Title: Other
PR URL: No URL

Bot: gemini
Comment: last
`
	got, err := Parse(strings.NewReader(log), discardLogger())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, core.ReviewComment{
		BotName: "github-actions[bot]", PRNumber: 12, FileName: "a.go",
		LineNumbers: "4-4", Comment: "first line\nsecond line", Chunk: "func a() {}",
	}, got[0])
	assert.Equal(t, 12, got[1].PRNumber)
	assert.Equal(t, "issue (Severity: high)\nError processing PR #13: status 500", got[1].Comment)
	assert.Equal(t, 14, got[2].PRNumber)
	assert.Equal(t, "last", got[2].Comment)
}

func TestParse_UnparseableHeaderDropsRecords(t *testing.T) {
	log := strings.Join([]string{
		"Bot: orphan",
		"Comment: before any header",
		"*********",
		"=== PR #3 Comments ===",
		"Bot: a",
		"Comment: kept",
		"*********",
		"=== PR #abc Comments ===",
		"Bot: b",
		"Comment: no pr id",
		"*********",
		"=== PR #4 Comments ===",
		"Bot: c",
		"Comment: kept too",
	}, "\r\n")

	got, err := Parse(strings.NewReader(log), discardLogger())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].PRNumber)
	assert.Equal(t, "kept", got[0].Comment)
	assert.Equal(t, 4, got[1].PRNumber)
	assert.Equal(t, "kept too", got[1].Comment)
}

func TestWriter_ErrorLineIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WritePRHeader(core.PullRequest{Number: 9}))
	require.NoError(t, w.WriteError(9, errors.New("fetch diff:\nstatus 502")))
	require.NoError(t, w.Flush())

	assert.Contains(t, buf.String(), "PR Title: No Title\n")
	assert.Contains(t, buf.String(), "Error processing PR #9: fetch diff: status 502\n")

	got, err := Parse(&buf, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, got)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_StickyError(t *testing.T) {
	w := NewWriter(failingWriter{})
	require.NoError(t, w.WriteComment(core.ReviewComment{BotName: "a", Comment: "x"}), "buffered")
	err := w.Flush()
	require.Error(t, err)
	assert.Equal(t, err, w.WriteComment(core.ReviewComment{BotName: "b", Comment: "y"}))
}

func TestLoadAndExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pr_comments.txt")

	assert.False(t, Exists(path))

	require.NoError(t, os.WriteFile(path, nil, 0o600))
	assert.False(t, Exists(path), "empty log does not count")
	assert.False(t, Exists(dir))

	content := writeLog(t,
		[]core.PullRequest{{Number: 1}},
		map[int][]core.ReviewComment{1: {{BotName: "gemini", PRNumber: 1, Comment: "c"}}},
	)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	assert.True(t, Exists(path))

	got, err := Load(path, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, []core.ReviewComment{{BotName: "gemini", PRNumber: 1, Comment: "c"}}, got)

	_, err = Load(filepath.Join(dir, "missing.txt"), discardLogger())
	assert.Error(t, err)
}

func TestDiscardable(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{":shipit:", true},
		{";label-x;", true},
		{":+1:", false},
		{"looks good :shipit:", false},
		{"real comment", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Discardable(tt.in))
		})
	}
}
