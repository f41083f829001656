package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sevigo/review-bench/internal/config"
	"github.com/sevigo/review-bench/internal/report"
)

var (
	resultsPath   string
	reportFormat  string
	renderMD      bool
	markdownStyle string
	wrapWidth     int
	regenerate    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-render reports from a saved results.json",
	Long: `Re-render reports from a saved results.json without calling GitHub or an LLM.

Examples:
  bench-cli report
  bench-cli report --format markdown --render
  bench-cli report --results old/results.json --format csv > metrics.csv
  bench-cli report --write`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	flags := reportCmd.Flags()
	flags.StringVar(&resultsPath, "results", "", "Path to results.json (default <output-dir>/results.json)")
	flags.StringVarP(&reportFormat, "format", "f", "text", "Output format: text, detailed, markdown, json, yaml, csv or chart")
	flags.BoolVar(&renderMD, "render", false, "Render markdown for the terminal")
	flags.StringVar(&markdownStyle, "style", "dark", "Markdown style when rendering: dark, light or notty")
	flags.IntVar(&wrapWidth, "width", 100, "Word wrap width when rendering markdown")
	flags.StringVar(&theme, "theme", string(report.ThemeClassic), "Chart color theme")
	flags.BoolVar(&regenerate, "write", false, "Rewrite every report artifact next to the results file")
	rootCmd.AddCommand(reportCmd)
}

// outputDir resolves OUTPUT_DIR the same way a run does, without requiring
// the credentials a run validates.
func outputDir() string {
	cfg, err := config.LoadConfig()
	if err != nil || cfg.OutputDir == "" {
		return "analysis_results"
	}
	return cfg.OutputDir
}

func runReport(_ *cobra.Command, _ []string) error {
	path := resultsPath
	if path == "" {
		path = filepath.Join(outputDir(), report.ResultsJSONFile)
	}
	res, err := report.LoadJSON(path)
	if err != nil {
		return err
	}

	if regenerate {
		paths, err := report.WriteAll(filepath.Dir(path), res, time.Now(), report.ThemeName(theme))
		if err != nil {
			return err
		}
		for _, p := range paths {
			dimColor.Printf("   ├── %s\n", p)
		}
		successColor.Printf("✅ %d reports written\n", len(paths))
		return nil
	}

	out := os.Stdout
	switch reportFormat {
	case "text":
		return report.WriteText(out, res, time.Now(), false)
	case "detailed":
		return report.WriteText(out, res, time.Now(), true)
	case "markdown", "md":
		md := report.Markdown(res, time.Now())
		if renderMD {
			rendered, err := report.RenderMarkdown(md, markdownStyle, wrapWidth)
			if err != nil {
				return err
			}
			md = rendered
		}
		_, err := fmt.Fprint(out, md)
		return err
	case "json":
		return report.WriteJSON(out, res)
	case "yaml":
		return report.WriteYAML(out, res)
	case "csv":
		return report.WriteMetricsCSV(out, res)
	case "chart":
		r := lipgloss.NewRenderer(out)
		fmt.Fprintln(out, report.RenderDistribution(r, res, report.ThemeName(theme), 50))
		fmt.Fprintln(out)
		fmt.Fprintln(out, report.RenderComparison(r, res, report.ThemeName(theme)))
		return nil
	default:
		return fmt.Errorf("unknown format %q", reportFormat)
	}
}
