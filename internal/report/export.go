package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/review-bench/internal/core"
)

// WriteJSON writes res as indented JSON. LoadJSON reads it back.
func WriteJSON(w io.Writer, res *core.Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

// LoadJSON reads results previously written by WriteJSON.
func LoadJSON(path string) (*core.Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results %s: %w", path, err)
	}
	res := core.NewResults()
	if err := json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("failed to decode results %s: %w", path, err)
	}
	// Results written by hand or by an older run may lack the bot order.
	if len(res.Bots) == 0 {
		res.Bots = sortedKeys(res.Metrics)
	}
	return res, nil
}

// WriteYAML writes res as YAML.
func WriteYAML(w io.Writer, res *core.Results) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return enc.Close()
}

func ratioField(r float64) string {
	return strconv.FormatFloat(r, 'f', 4, 64)
}

// WriteMetricsCSV writes one row per bot with raw counts and ratios.
func WriteMetricsCSV(w io.Writer, res *core.Results) error {
	cw := csv.NewWriter(w)
	header := []string{"bot", "total_comments",
		"critical_bug_count", "critical_bug_ratio",
		"nitpick_count", "nitpick_ratio",
		"other_count", "other_ratio"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, bot := range res.Bots {
		m := res.Metrics[bot]
		row := []string{bot, strconv.Itoa(m.TotalComments)}
		for _, c := range core.Categories {
			row = append(row, strconv.Itoa(m.Count(c)), ratioField(m.Ratio(c)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteClassificationsCSV writes one row per classification record.
func WriteClassificationsCSV(w io.Writer, res *core.Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"bot", "pr", "comment_index", "category", "flagged",
		"file_name", "line_numbers", "comment", "reasoning"}); err != nil {
		return err
	}
	for _, bot := range res.Bots {
		for _, pr := range res.PRNumbers(bot) {
			for _, r := range res.Classifications[bot][pr] {
				row := []string{bot, strconv.Itoa(pr), strconv.Itoa(r.CommentIndex), string(r.Category),
					strconv.FormatBool(r.Flagged), r.FileName, r.LineNumbers, r.Comment, r.Reasoning}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
