// Package core defines the domain types shared by the evaluation pipeline and
// the small set of interfaces its stages are wired through.
package core

import "context"

// Analyzer finds issues in a pull request diff and reports them as review
// comments attributed to the analyzer itself. Implementations never fail: a
// diff that cannot be analyzed yields no comments.
type Analyzer interface {
	Name() string
	AnalyzeDiff(ctx context.Context, diff PRDiff) []ReviewComment
}

// Classifier categorizes review comments and aggregates per-bot metrics.
type Classifier interface {
	Classify(ctx context.Context, comments []ReviewComment) *Results
}
