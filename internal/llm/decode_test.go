package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIssues_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
	}{
		{
			name:      "issues wrapper",
			input:     `{"issues": [{"bug_description": "a", "file_name": "f", "snippet": "s", "line_numbers": "1"}]}`,
			wantCount: 1,
		},
		{
			name:      "bare array",
			input:     `[{"bug_description": "a", "file_name": "f", "snippet": "s", "line_numbers": "1"}, {"bug_description": "b", "file_name": "f", "snippet": "s", "line_numbers": "2"}]`,
			wantCount: 2,
		},
		{
			name:      "single object",
			input:     `{"bug_description": "a", "file_name": "f", "snippet": "s", "line_numbers": "1"}`,
			wantCount: 1,
		},
		{
			name:      "empty issues",
			input:     `{"issues": []}`,
			wantCount: 0,
		},
		{
			name:      "null issues",
			input:     `{"issues": null}`,
			wantCount: 0,
		},
		{
			name:      "fenced with preamble",
			input:     "Here you go:\n```json\n{\"issues\": [{\"bug_description\": \"a\", \"file_name\": \"f\", \"snippet\": \"s\", \"line_numbers\": \"1\"}]}\n```",
			wantCount: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := DecodeIssues(tt.input)
			require.NoError(t, err)
			assert.Len(t, issues, tt.wantCount)
		})
	}
}

func TestDecodeIssues_Malformed(t *testing.T) {
	for _, input := range []string{"", "no json here", `{"issues": [`, `{"issues": "none"}`} {
		_, err := DecodeIssues(input)
		var malformed *MalformedResponseError
		require.True(t, errors.As(err, &malformed), "input %q", input)
		assert.Equal(t, input, malformed.Raw)
	}
}

func TestDecodeIssues_FieldAliasesAndMissing(t *testing.T) {
	raw := `{"issues": [
		{"bug_description": "Nil map write", "severity": "HIGH", "bug_type": "CRASH",
		 "file_name": "a.go", "line_numbers": [10, 12], "snippet": "m[k] = v"},
		{"description": "Leaked handle", "severity": "MEDIUM", "category": "RESOURCE",
		 "file": "b.go", "lines": 7, "code": "f, _ := os.Open(p)", "fix": "defer f.Close()"},
		{"severity": "LOW", "file_name": "c.go", "line_numbers": "1", "snippet": ""},
		"not an object"
	]}`

	issues, err := DecodeIssues(raw)
	require.NoError(t, err)
	require.Len(t, issues, 4)

	assert.Empty(t, issues[0].Missing)
	assert.Equal(t, "Nil map write", issues[0].Description)
	assert.Equal(t, "CRASH", issues[0].Type)
	assert.Equal(t, "10, 12", issues[0].LineNumbers)

	assert.Empty(t, issues[1].Missing)
	assert.Equal(t, "b.go", issues[1].FileName)
	assert.Equal(t, "7", issues[1].LineNumbers)
	assert.Equal(t, "RESOURCE", issues[1].Type)
	assert.Equal(t, "defer f.Close()", issues[1].Fix)

	assert.Equal(t, []string{"bug_description"}, issues[2].Missing)
	assert.Equal(t, requiredIssueFields, issues[3].Missing)
}

func TestDecodeCategorizations(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		got, err := DecodeCategorizations(`[
			{"comment_index": 1, "category": "NITPICK", "reasoning": " style "},
			{"comment_index": "0", "category": "CRITICAL_BUG"},
			{"category": "OTHER"}
		]`)
		require.NoError(t, err)
		assert.Equal(t, []Categorization{
			{CommentIndex: 1, HasIndex: true, Category: "NITPICK", Reasoning: "style"},
			{CommentIndex: 0, HasIndex: true, Category: "CRITICAL_BUG"},
			{Category: "OTHER"},
		}, got)
	})

	t.Run("single object", func(t *testing.T) {
		got, err := DecodeCategorizations(`{"comment_index": 0, "category": "NITPICK", "reasoning": "r"}`)
		require.NoError(t, err)
		assert.Equal(t, []Categorization{{CommentIndex: 0, HasIndex: true, Category: "NITPICK", Reasoning: "r"}}, got)
	})

	t.Run("wrapper with index alias", func(t *testing.T) {
		got, err := DecodeCategorizations("```json\n{\"comments\": [{\"index\": 2.0, \"category\": \"OTHER\"}]}\n```")
		require.NoError(t, err)
		assert.Equal(t, []Categorization{{CommentIndex: 2, HasIndex: true, Category: "OTHER"}}, got)
	})

	t.Run("non-integral index", func(t *testing.T) {
		got, err := DecodeCategorizations(`[{"comment_index": 1.5, "category": "OTHER"}, 42]`)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.False(t, got[0].HasIndex)
		assert.Equal(t, Categorization{}, got[1])
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := DecodeCategorizations(`[{"comment_index": 0,`)
		var malformed *MalformedResponseError
		assert.True(t, errors.As(err, &malformed))
	})
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n[1]\n```", "[1]"},
		{"```\n{\"a\":1}\n```\n", "{\"a\":1}"},
		{"  [1]  ", "[1]"},
		{"```[1]```", "[1]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCodeFence(tt.in))
	}
}
