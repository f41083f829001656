package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/review-bench/internal/core"
)

// Artifact file names written by WriteAll.
const (
	DetailedReportFile  = "analysis_report.txt"
	MarkdownReportFile  = "analysis_report.md"
	ResultsJSONFile     = "results.json"
	ResultsYAMLFile     = "results.yaml"
	MetricsCSVFile      = "metrics.csv"
	ClassificationsFile = "classifications.csv"
	DistributionFile    = "comment_distribution.txt"
	ComparisonFile      = "bot_comparison.txt"
)

// WriteAll writes every report artifact into dir and returns their paths in
// write order.
func WriteAll(dir string, res *core.Results, now time.Time, theme ThemeName) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	artifacts := []struct {
		name  string
		write func(io.Writer) error
	}{
		{DetailedReportFile, func(w io.Writer) error { return WriteText(w, res, now, true) }},
		{MarkdownReportFile, func(w io.Writer) error {
			_, err := io.WriteString(w, Markdown(res, now))
			return err
		}},
		{ResultsJSONFile, func(w io.Writer) error { return WriteJSON(w, res) }},
		{ResultsYAMLFile, func(w io.Writer) error { return WriteYAML(w, res) }},
		{MetricsCSVFile, func(w io.Writer) error { return WriteMetricsCSV(w, res) }},
		{ClassificationsFile, func(w io.Writer) error { return WriteClassificationsCSV(w, res) }},
		{DistributionFile, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, RenderDistribution(lipgloss.NewRenderer(w), res, theme, 50))
			return err
		}},
		{ComparisonFile, func(w io.Writer) error {
			_, err := fmt.Fprintln(w, RenderComparison(lipgloss.NewRenderer(w), res, theme))
			return err
		}},
	}

	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(dir, a.name)
		if err := writeFile(path, a.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
