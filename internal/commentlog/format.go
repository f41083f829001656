// Package commentlog reads and writes the pr_comments.txt log: a
// human-readable record of every review comment gathered in a run, used to
// resume later runs without re-fetching from GitHub or re-analyzing diffs.
//
// A log looks like this:
//
//	=== PR #42 Comments ===
//	PR Title: Fix parser
//	PR URL: https://github.com/o/r/pull/42
//
//	Bot: coderabbitai[bot]
//	File: src/parser.ts
//	Lines: 10-12
//	Comment: First line of the comment
//	  continuation lines are indented
//	Code Snippet:
//	const x = 1;
//	*********
package commentlog

import (
	"regexp"
	"strings"
)

const (
	prHeaderPrefix  = "=== PR"
	prTitlePrefix   = "PR Title:"
	prURLPrefix     = "PR URL:"
	botPrefix       = "Bot:"
	filePrefix      = "File:"
	linesPrefix     = "Lines:"
	categoryPrefix  = "Category:"
	commentPrefix   = "Comment:"
	codeMarker      = "Code Snippet:"
	recordDelimiter = "*********"
	errorPrefix     = "Error processing PR #"

	continuationIndent = "  "
)

var (
	prNumberRe    = regexp.MustCompile(`PR #(\d+)`)
	htmlCommentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	markerOnlyRe  = regexp.MustCompile(`^[:;][\w-]+[:;]$`)
)

// NormalizeComment strips HTML comment spans and surrounding whitespace.
func NormalizeComment(s string) string {
	return strings.TrimSpace(htmlCommentRe.ReplaceAllString(s, ""))
}

// Discardable reports whether a normalized comment carries no content worth
// classifying: empty, or a bare marker such as ":shipit:".
func Discardable(normalized string) bool {
	return normalized == "" || markerOnlyRe.MatchString(normalized)
}
