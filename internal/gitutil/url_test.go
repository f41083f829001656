package gitutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoSlug(t *testing.T) {
	tests := []struct {
		name      string
		slug      string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{name: "slug", slug: "microsoft/typescript", wantOwner: "microsoft", wantRepo: "typescript"},
		{name: "https URL", slug: "https://github.com/microsoft/TypeScript.git", wantOwner: "microsoft", wantRepo: "TypeScript"},
		{name: "no scheme, trailing slash", slug: "github.com/sevigo/review-bench/", wantOwner: "sevigo", wantRepo: "review-bench"},
		{name: "missing repo", slug: "microsoft", wantErr: true},
		{name: "too many segments", slug: "a/b/c", wantErr: true},
		{name: "empty owner", slug: "/repo", wantErr: true},
		{name: "bad characters", slug: "own er/repo", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoSlug(tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestParsePullRequestURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantOwner string
		wantRepo  string
		wantID    int
		wantErr   bool
	}{
		{
			name:      "Valid HTTPS URL",
			url:       "https://github.com/microsoft/typescript/pull/123",
			wantOwner: "microsoft",
			wantRepo:  "typescript",
			wantID:    123,
		},
		{
			name:      "URL with trailing slash",
			url:       "https://github.com/microsoft/typescript/pull/789/",
			wantOwner: "microsoft",
			wantRepo:  "typescript",
			wantID:    789,
		},
		{name: "Invalid PR ID", url: "https://github.com/o/r/pull/abc", wantErr: true},
		{name: "Zero PR ID", url: "https://github.com/o/r/pull/0", wantErr: true},
		{name: "Issue URL", url: "https://github.com/o/r/issues/123", wantErr: true},
		{name: "Files tab", url: "https://github.com/o/r/pull/123/files", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, id, err := ParsePullRequestURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestParsePRRef(t *testing.T) {
	n, err := ParsePRRef("42", "microsoft", "typescript")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	n, err = ParsePRRef("#7", "microsoft", "typescript")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = ParsePRRef("https://github.com/Microsoft/TypeScript/pull/9", "microsoft", "typescript")
	require.NoError(t, err)
	assert.Equal(t, 9, n)

	_, err = ParsePRRef("https://github.com/other/repo/pull/9", "microsoft", "typescript")
	assert.ErrorContains(t, err, "does not belong")

	_, err = ParsePRRef("-3", "microsoft", "typescript")
	assert.Error(t, err)

	_, err = ParsePRRef("latest", "microsoft", "typescript")
	assert.Error(t, err)
}
