// Package jobs runs evaluation passes over a repository's pull requests.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sevigo/review-bench/internal/commentlog"
	"github.com/sevigo/review-bench/internal/config"
	"github.com/sevigo/review-bench/internal/core"
	"github.com/sevigo/review-bench/internal/github"
)

// ErrNoFetcher is returned when a cold start is needed but no GitHub client
// was configured.
var ErrNoFetcher = errors.New("no comment log to resume from and no GitHub client configured")

// Options controls which pull requests a cold start covers and where the
// comment log lives.
type Options struct {
	LogPath string
	// PRLimit bounds how many recent PRs are listed. Ignored when PRNumbers
	// is set.
	PRLimit   int
	PRNumbers []int
	// Fresh forces a cold start even when a comment log already exists.
	Fresh   bool
	Workers int
}

// EvaluationJob is the two-mode pipeline. A warm start parses the existing
// comment log; a cold start fetches PRs, runs the diff analyzer and writes
// the log. Both then classify the collected comments.
type EvaluationJob struct {
	fetcher    github.Client
	analyzer   core.Analyzer
	classifier core.Classifier
	runCfg     *config.RunConfig
	opts       Options
	logger     *slog.Logger
}

// NewEvaluationJob wires a job. fetcher may be nil when only warm starts are
// expected.
func NewEvaluationJob(fetcher github.Client, analyzer core.Analyzer, classifier core.Classifier, runCfg *config.RunConfig, opts Options, logger *slog.Logger) *EvaluationJob {
	if analyzer == nil {
		panic("analyzer cannot be nil")
	}
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &EvaluationJob{
		fetcher:    fetcher,
		analyzer:   analyzer,
		classifier: classifier,
		runCfg:     runCfg,
		opts:       opts,
		logger:     logger,
	}
}

// Run collects comments, applies the run's bot filters and classifies them.
func (j *EvaluationJob) Run(ctx context.Context) (*core.Results, error) {
	comments, err := j.Collect(ctx)
	if err != nil {
		return nil, err
	}

	kept := make([]core.ReviewComment, 0, len(comments))
	for _, c := range comments {
		if j.runCfg.KeepBot(c.BotName, j.analyzer.Name()) {
			kept = append(kept, c)
		}
	}
	j.logger.Info("classifying comment quality",
		"comments", len(kept),
		"filtered_out", len(comments)-len(kept),
	)
	return j.classifier.Classify(ctx, kept), nil
}

// Collect returns the comments for this run without classifying them.
func (j *EvaluationJob) Collect(ctx context.Context) ([]core.ReviewComment, error) {
	if !j.opts.Fresh && commentlog.Exists(j.opts.LogPath) {
		j.logger.Info("reading comments from existing log", "path", j.opts.LogPath)
		comments, err := commentlog.Load(j.opts.LogPath, j.logger)
		if err != nil {
			return nil, err
		}
		j.logger.Info("loaded comments from log", "count", len(comments))
		return comments, nil
	}
	if j.fetcher == nil {
		return nil, ErrNoFetcher
	}
	return j.coldStart(ctx)
}

func (j *EvaluationJob) listPRs(ctx context.Context) ([]core.PullRequest, error) {
	if len(j.opts.PRNumbers) > 0 {
		prs := make([]core.PullRequest, 0, len(j.opts.PRNumbers))
		for _, n := range j.opts.PRNumbers {
			prs = append(prs, core.PullRequest{Number: n})
		}
		return prs, nil
	}
	prs, err := j.fetcher.FetchRecentPRs(ctx, j.opts.PRLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}
	return prs, nil
}

// coldStart writes the log to a temporary file that replaces LogPath only
// once every PR has been recorded, so an interrupted run never leaves a
// truncated log behind to be resumed from.
func (j *EvaluationJob) coldStart(ctx context.Context) ([]core.ReviewComment, error) {
	j.logger.Info("fetching new PR comments")
	prs, err := j.listPRs(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(j.opts.LogPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(j.opts.LogPath), filepath.Base(j.opts.LogPath)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create comment log: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	outcomes := newPRPool(j.processPR, j.opts.Workers, j.logger).Run(ctx, prs)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := commentlog.NewWriter(tmp)
	var comments []core.ReviewComment
	for _, o := range outcomes {
		if err := w.WritePRHeader(o.PR); err != nil {
			return nil, fmt.Errorf("failed to write comment log: %w", err)
		}
		if o.Err != nil {
			j.logger.Error("error processing PR", "pr", o.PR.Number, "error", o.Err)
			if err := w.WriteError(o.PR.Number, o.Err); err != nil {
				return nil, fmt.Errorf("failed to write comment log: %w", err)
			}
			continue
		}
		for _, c := range o.Comments {
			if err := w.WriteComment(c); err != nil {
				return nil, fmt.Errorf("failed to write comment log: %w", err)
			}
			comments = append(comments, c)
		}
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write comment log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close comment log: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.opts.LogPath); err != nil {
		return nil, fmt.Errorf("failed to save comment log: %w", err)
	}

	j.logger.Info("comment log written", "path", j.opts.LogPath, "prs", len(prs), "comments", len(comments))
	return comments, nil
}

// processPR gathers one PR's bot comments followed by the analyzer's
// findings. Any fetch failure fails the whole PR.
func (j *EvaluationJob) processPR(ctx context.Context, pr core.PullRequest) ([]core.ReviewComment, error) {
	log := j.logger.With("pr", pr.Number)

	log.Info("fetching PR diff")
	diff, err := j.fetcher.FetchPRDiff(ctx, pr.Number)
	if err != nil {
		return nil, fmt.Errorf("fetching diff: %w", err)
	}
	log.Info("fetching PR comments")
	existing, err := j.fetcher.FetchPRComments(ctx, pr.Number)
	if err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}
	log.Info("analyzing PR diff")
	found := j.analyzer.AnalyzeDiff(ctx, diff)
	if _, offDiff := SplitByDiff(log, found, diff.FilesChanged); len(offDiff) > 0 {
		log.Warn("analyzer reported issues in files outside the diff", "count", len(offDiff))
	}

	out := make([]core.ReviewComment, 0, len(existing)+len(found))
	for _, c := range append(existing, found...) {
		if c, ok := normalize(c); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// normalize applies the same cleanup the log reader does, so a cold start
// classifies exactly what a later warm start would load.
func normalize(c core.ReviewComment) (core.ReviewComment, bool) {
	c.Comment = commentlog.NormalizeComment(c.Comment)
	c.Chunk = strings.TrimSpace(c.Chunk)
	return c, !commentlog.Discardable(c.Comment)
}
