package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/review-bench/internal/config"
	"github.com/sevigo/review-bench/internal/report"
)

func main() {
	resultsFlag := flag.String("results", "", "Path to results.json (default <OUTPUT_DIR>/results.json)")
	themeFlag := flag.String("theme", "", "UI theme (classic, matrix, amber, dracula, ice)")
	listThemes := flag.Bool("list-themes", false, "List all available themes")
	flag.Parse()

	if *listThemes {
		fmt.Println("Available themes:")
		for _, theme := range report.ListThemes() {
			fmt.Printf("  - %s\n", theme)
		}
		os.Exit(0)
	}

	path := *resultsFlag
	if path == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		path = filepath.Join(cfg.OutputDir, report.ResultsJSONFile)
	}

	selectedTheme := *themeFlag
	if selectedTheme == "" {
		selectedTheme = os.Getenv("REVIEW_BENCH_THEME")
	}
	if selectedTheme == "" {
		selectedTheme = string(report.ThemeClassic)
	}

	theme := report.ThemeName(selectedTheme)
	validTheme := false
	for _, t := range report.ListThemes() {
		if t == theme {
			validTheme = true
			break
		}
	}
	if !validTheme {
		fmt.Printf("Invalid theme '%s'. Use --list-themes to see available options.\n", theme)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(theme, path), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("error running program", "error", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
