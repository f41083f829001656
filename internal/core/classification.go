package core

import (
	"sort"
	"strings"
)

// Category is the outcome of classifying a single review comment.
type Category string

const (
	CategoryCriticalBug Category = "CRITICAL_BUG"
	CategoryNitpick     Category = "NITPICK"
	CategoryOther       Category = "OTHER"
)

// Categories lists every category in report order.
var Categories = []Category{CategoryCriticalBug, CategoryNitpick, CategoryOther}

// ParseCategory maps a model-provided label onto a Category. Casing, spaces and
// hyphens are ignored ("Critical Bug" and "critical-bug" both match); anything
// unrecognised is OTHER.
func ParseCategory(s string) Category {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch Category(norm) {
	case CategoryCriticalBug:
		return CategoryCriticalBug
	case CategoryNitpick:
		return CategoryNitpick
	default:
		return CategoryOther
	}
}

// Classification is the audit record for one classified comment.
type Classification struct {
	BotName     string   `json:"bot_name" yaml:"bot_name"`
	PRNumber    int      `json:"pr_number" yaml:"pr_number"`
	FileName    string   `json:"file_name" yaml:"file_name"`
	LineNumbers string   `json:"line_numbers" yaml:"line_numbers"`
	Comment     string   `json:"comment" yaml:"comment"`
	CodeChunk   string   `json:"code_chunk" yaml:"code_chunk"`
	Category    Category `json:"category" yaml:"category"`
	Reasoning   string   `json:"reasoning" yaml:"reasoning"`
	// CommentIndex is the position of the comment within its bot/PR group
	// (batch offset + in-batch offset).
	CommentIndex int `json:"comment_index" yaml:"comment_index"`
	// Flagged marks records whose category was defaulted because the model
	// returned no usable entry for the comment.
	Flagged bool `json:"flagged,omitempty" yaml:"flagged,omitempty"`
}

// Results is the finalized output of a run, consumed by the report writers.
type Results struct {
	// Bots holds bot names in first-seen order.
	Bots            []string                            `json:"bots" yaml:"bots"`
	Metrics         map[string]BotMetrics               `json:"metrics" yaml:"metrics"`
	Classifications map[string]map[int][]Classification `json:"classifications" yaml:"classifications"`
}

// NewResults returns an empty Results with initialized maps.
func NewResults() *Results {
	return &Results{
		Metrics:         make(map[string]BotMetrics),
		Classifications: make(map[string]map[int][]Classification),
	}
}

// PRNumbers returns the PR numbers classified for bot in ascending order.
func (r *Results) PRNumbers(bot string) []int {
	prs := r.Classifications[bot]
	keys := make([]int, 0, len(prs))
	for pr := range prs {
		keys = append(keys, pr)
	}
	sort.Ints(keys)
	return keys
}
