package llm

import (
	"context"
	"strings"

	"github.com/sevigo/goframe/llms"
)

const diffFileMarker = "diff --git "

// TokenCounter reports how many tokens text occupies for a model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) int
}

// EstimateCounter is a fast character-based estimation used when a model
// cannot count its own tokens.
type EstimateCounter struct{}

func (EstimateCounter) CountTokens(_ context.Context, text string) int {
	return EstimateTokens(text)
}

func EstimateTokens(text string) int {
	return len(text) / 3
}

// CounterFor returns c itself when it can count tokens, otherwise the estimator.
func CounterFor(c Completer) TokenCounter {
	if tc, ok := c.(TokenCounter); ok {
		return tc
	}
	return EstimateCounter{}
}

func countWithModel(ctx context.Context, model llms.Model, text string) int {
	if t, ok := model.(llms.Tokenizer); ok {
		n, err := t.CountTokens(ctx, text)
		if err == nil {
			return n
		}
	}
	return EstimateTokens(text)
}

// TruncateDiff keeps whole file sections of a unified diff until maxTokens
// is reached and reports how many sections were dropped. A first section
// that alone exceeds the budget is cut by characters so the prompt is never
// empty. maxTokens <= 0 disables the budget.
func TruncateDiff(ctx context.Context, counter TokenCounter, diff string, maxTokens int) (string, int) {
	if maxTokens <= 0 || counter.CountTokens(ctx, diff) <= maxTokens {
		return diff, 0
	}

	sections := splitDiffSections(diff)
	var (
		b    strings.Builder
		used int
		kept int
	)
	for _, s := range sections {
		n := counter.CountTokens(ctx, s)
		if used+n > maxTokens {
			break
		}
		b.WriteString(s)
		used += n
		kept++
	}
	if kept == 0 {
		cut := min(len(sections[0]), maxTokens*3)
		return sections[0][:cut], len(sections) - 1
	}
	return b.String(), len(sections) - kept
}

func splitDiffSections(diff string) []string {
	var sections []string
	start := 0
	for i := 0; i < len(diff); {
		next := strings.Index(diff[i:], "\n"+diffFileMarker)
		if next < 0 {
			break
		}
		cut := i + next + 1
		if cut > start {
			sections = append(sections, diff[start:cut])
		}
		start = cut
		i = cut
	}
	return append(sections, diff[start:])
}
