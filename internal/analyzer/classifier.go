package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/review-bench/internal/core"
	"github.com/sevigo/review-bench/internal/llm"
	"github.com/sevigo/review-bench/internal/retry"
)

const (
	DefaultBatchSize = 25

	reasoningMissing  = "No reasoning provided"
	reasoningNoResult = "No classification returned by model"
)

// Group is the comments of one bot on one PR, in their original order.
type Group struct {
	Bot      string
	PR       int
	Comments []core.ReviewComment
}

// Partition groups comments by bot, then by PR. Bots and PRs appear in order
// of first occurrence; comments keep their relative order.
func Partition(comments []core.ReviewComment) []Group {
	type key struct {
		bot string
		pr  int
	}
	var (
		bots   []string
		prsFor = make(map[string][]int)
		byKey  = make(map[key][]core.ReviewComment)
	)
	for _, c := range comments {
		k := key{c.BotName, c.PRNumber}
		if _, seen := prsFor[c.BotName]; !seen {
			bots = append(bots, c.BotName)
		}
		if _, seen := byKey[k]; !seen {
			prsFor[c.BotName] = append(prsFor[c.BotName], c.PRNumber)
		}
		byKey[k] = append(byKey[k], c)
	}

	groups := make([]Group, 0, len(byKey))
	for _, bot := range bots {
		for _, pr := range prsFor[bot] {
			groups = append(groups, Group{Bot: bot, PR: pr, Comments: byKey[key{bot, pr}]})
		}
	}
	return groups
}

// Batches splits n items into consecutive [start, end) ranges of at most size.
func Batches(n, size int) [][2]int {
	if size <= 0 {
		size = DefaultBatchSize
	}
	out := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}
	return out
}

// Classifier categorizes comments in per-bot/per-PR batches. Groups are
// processed concurrently up to Workers at a time; the executor's rate
// limiter bounds the aggregate call rate.
type Classifier struct {
	completer llm.Completer
	prompts   *llm.PromptManager
	executor  *retry.Executor
	logger    *slog.Logger

	BatchSize int
	Workers   int
}

var _ core.Classifier = (*Classifier)(nil)

func NewClassifier(completer llm.Completer, prompts *llm.PromptManager, executor *retry.Executor, batchSize, workers int, logger *slog.Logger) *Classifier {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if workers <= 0 {
		workers = 1
	}
	return &Classifier{
		completer: completer,
		prompts:   prompts,
		executor:  executor,
		logger:    logger,
		BatchSize: batchSize,
		Workers:   workers,
	}
}

type groupResult struct {
	tally   core.Tally
	records []core.Classification
}

// Classify runs every batch and returns finalized metrics plus the
// classification ledger. A failed batch is logged and contributes nothing;
// it never stops other batches.
func (c *Classifier) Classify(ctx context.Context, comments []core.ReviewComment) *core.Results {
	groups := Partition(comments)
	slots := make([]groupResult, len(groups))

	var g errgroup.Group
	g.SetLimit(c.Workers)
	for i := range groups {
		g.Go(func() error {
			slots[i] = c.classifyGroup(ctx, groups[i])
			return nil
		})
	}
	_ = g.Wait()

	results := core.NewResults()
	tallies := make(map[string]core.Tally)
	for i, grp := range groups {
		t, seen := tallies[grp.Bot]
		if !seen {
			results.Bots = append(results.Bots, grp.Bot)
		}
		t.Merge(slots[i].tally)
		tallies[grp.Bot] = t

		if len(slots[i].records) == 0 {
			continue
		}
		if results.Classifications[grp.Bot] == nil {
			results.Classifications[grp.Bot] = make(map[int][]core.Classification)
		}
		results.Classifications[grp.Bot][grp.PR] = slots[i].records
	}
	results.Metrics = core.FinalizeAll(tallies)
	return results
}

func (c *Classifier) classifyGroup(ctx context.Context, grp Group) groupResult {
	var res groupResult
	log := c.logger.With("bot", grp.Bot, "pr", grp.PR)

	for _, b := range Batches(len(grp.Comments), c.BatchSize) {
		if ctx.Err() != nil {
			log.Warn("classification cancelled", "error", ctx.Err())
			return res
		}
		start, end := b[0], b[1]
		batch := grp.Comments[start:end]

		entries, err := c.classifyBatch(ctx, grp, batch)
		if err != nil {
			logMalformed(log.With("batch_start", start, "batch_size", len(batch)), "skipping batch", err)
			continue
		}

		assigned := pairByIndex(log, entries, len(batch))
		for i, comment := range batch {
			rec := core.Classification{
				BotName:      grp.Bot,
				PRNumber:     grp.PR,
				FileName:     comment.FileName,
				LineNumbers:  comment.LineNumbers,
				Comment:      comment.Comment,
				CodeChunk:    comment.Chunk,
				CommentIndex: start + i,
			}
			if e := assigned[i]; e != nil {
				rec.Category = core.ParseCategory(e.Category)
				rec.Reasoning = e.Reasoning
				if rec.Reasoning == "" {
					rec.Reasoning = reasoningMissing
				}
			} else {
				rec.Category = core.CategoryOther
				rec.Reasoning = reasoningNoResult
				rec.Flagged = true
			}
			res.tally.Add(rec.Category)
			res.records = append(res.records, rec)
		}
	}
	return res
}

func (c *Classifier) classifyBatch(ctx context.Context, grp Group, batch []core.ReviewComment) ([]llm.Categorization, error) {
	prompt, err := c.prompts.Render(llm.CommentCategorizationPrompt, llm.ProviderFor(c.completer.Name()), llm.CategorizationPromptData{
		PRNumber: grp.PR,
		BotName:  grp.Bot,
		Comments: FormatComments(batch),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering categorization prompt: %w", err)
	}
	raw, err := complete(ctx, c.executor, c.completer, prompt)
	if err != nil {
		return nil, err
	}
	return llm.DecodeCategorizations(raw)
}

// pairByIndex matches entries to batch positions by comment_index. Entries
// without a usable index, out of range, or repeating an index are ignored.
func pairByIndex(log *slog.Logger, entries []llm.Categorization, n int) []*llm.Categorization {
	assigned := make([]*llm.Categorization, n)
	var ignored int
	for i := range entries {
		e := &entries[i]
		switch {
		case !e.HasIndex || e.CommentIndex < 0 || e.CommentIndex >= n:
			ignored++
		case assigned[e.CommentIndex] != nil:
			ignored++
		default:
			assigned[e.CommentIndex] = e
		}
	}

	var missing int
	for _, a := range assigned {
		if a == nil {
			missing++
		}
	}
	if ignored > 0 || missing > 0 {
		log.Warn("categorization response does not cover the batch",
			"batch_size", n, "entries", len(entries), "ignored_entries", ignored, "unclassified", missing)
	}
	return assigned
}

// FormatComments renders a batch for the categorization prompt. Indices are
// positions within the batch and are what the model echoes back.
func FormatComments(batch []core.ReviewComment) string {
	parts := make([]string, len(batch))
	for i, c := range batch {
		parts[i] = fmt.Sprintf("Comment %d:\nFile: %s\nLines: %s\nComment: %s\nCode:\n%s",
			i, c.FileName, c.LineNumbers, c.Comment, c.Chunk)
	}
	return strings.Join(parts, "\n\n")
}
