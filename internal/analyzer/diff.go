// Package analyzer holds the LLM-backed stages of an evaluation run: the
// diff analyzer that contributes its own review comments, and the batch
// classifier that categorizes every comment and aggregates bot metrics.
package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sevigo/review-bench/internal/commentlog"
	"github.com/sevigo/review-bench/internal/core"
	"github.com/sevigo/review-bench/internal/llm"
	"github.com/sevigo/review-bench/internal/retry"
)

const maxLoggedResponse = 2048

// DiffAnalyzer asks the model for bugs in a PR diff and turns each reported
// issue into a ReviewComment attributed to the analyzer.
type DiffAnalyzer struct {
	name      string
	completer llm.Completer
	prompts   *llm.PromptManager
	executor  *retry.Executor
	logger    *slog.Logger

	maxDiffTokens int
}

var _ core.Analyzer = (*DiffAnalyzer)(nil)

// NewDiffAnalyzer creates a DiffAnalyzer. An empty name defaults to the
// completer's provider name.
func NewDiffAnalyzer(name string, completer llm.Completer, prompts *llm.PromptManager, executor *retry.Executor, logger *slog.Logger) *DiffAnalyzer {
	if name == "" {
		name = completer.Name()
	}
	return &DiffAnalyzer{
		name:      name,
		completer: completer,
		prompts:   prompts,
		executor:  executor,
		logger:    logger.With("analyzer", name),
	}
}

func (a *DiffAnalyzer) Name() string { return a.name }

// WithMaxDiffTokens caps the diff sent to the model. Zero means unlimited.
func (a *DiffAnalyzer) WithMaxDiffTokens(n int) *DiffAnalyzer {
	a.maxDiffTokens = n
	return a
}

// AnalyzeDiff never fails: transport errors, exhausted retries and
// unparseable responses all yield an empty result for the diff.
func (a *DiffAnalyzer) AnalyzeDiff(ctx context.Context, diff core.PRDiff) []core.ReviewComment {
	log := a.logger.With("pr", diff.PRNumber)

	content, dropped := llm.TruncateDiff(ctx, llm.CounterFor(a.completer), diff.DiffContent, a.maxDiffTokens)
	if dropped > 0 {
		log.Warn("diff exceeds token budget, dropping trailing files", "dropped_files", dropped, "max_tokens", a.maxDiffTokens)
	}

	prompt, err := a.prompts.Render(llm.DiffAnalysisPrompt, llm.ProviderFor(a.completer.Name()), llm.DiffPromptData{
		PRNumber: diff.PRNumber,
		Diff:     content,
	})
	if err != nil {
		log.Error("failed to render diff analysis prompt", "error", err)
		return nil
	}

	raw, err := complete(ctx, a.executor, a.completer, prompt)
	if err != nil {
		log.Error("diff analysis failed", "error", err)
		return nil
	}

	issues, err := llm.DecodeIssues(raw)
	if err != nil {
		logMalformed(log, "could not parse diff analysis response", err)
		return nil
	}

	var comments []core.ReviewComment
	for i, issue := range issues {
		if len(issue.Missing) > 0 {
			log.Warn("dropping issue with missing fields", "issue", i, "missing", issue.Missing)
			continue
		}
		text := commentlog.NormalizeComment(issueComment(issue))
		if commentlog.Discardable(text) {
			log.Warn("dropping issue with empty description", "issue", i)
			continue
		}
		category := issue.Type
		if category == "" {
			category = issue.Severity
		}
		comments = append(comments, core.ReviewComment{
			FileName:    issue.FileName,
			Chunk:       strings.TrimSpace(issue.Snippet),
			Comment:     text,
			LineNumbers: issue.LineNumbers,
			BotName:     a.name,
			PRNumber:    diff.PRNumber,
			Category:    category,
		})
	}

	log.Info("diff analyzed", "issues", len(issues), "comments", len(comments))
	return comments
}

func issueComment(issue llm.Issue) string {
	var sb strings.Builder
	sb.WriteString(issue.Description)
	if issue.Severity != "" {
		sb.WriteString(" (Severity: ")
		sb.WriteString(issue.Severity)
		sb.WriteString(")")
	}
	if issue.Fix != "" {
		sb.WriteString("\n\nSuggested fix: ")
		sb.WriteString(issue.Fix)
	}
	return sb.String()
}

// complete runs one JSON completion through the rate-limited executor.
func complete(ctx context.Context, ex *retry.Executor, c llm.Completer, prompt string) (string, error) {
	return retry.Do(ctx, ex, func(ctx context.Context) (string, error) {
		return c.Complete(ctx, llm.Request{Prompt: prompt, JSON: true})
	})
}

func logMalformed(log *slog.Logger, msg string, err error) {
	var malformed *llm.MalformedResponseError
	if !errors.As(err, &malformed) {
		log.Error(msg, "error", err)
		return
	}
	raw := malformed.Raw
	if len(raw) > maxLoggedResponse {
		raw = raw[:maxLoggedResponse] + "...(truncated)"
	}
	log.Error(msg, "error", malformed.Err, "raw_response", raw)
}
