package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sevigo/review-bench/internal/commentlog"
	"github.com/sevigo/review-bench/internal/config"
	"github.com/sevigo/review-bench/internal/core"
	"github.com/sevigo/review-bench/internal/logger"
)

var byPR bool

var logCmd = &cobra.Command{
	Use:   "log [path]",
	Short: "Summarize a comment log without classifying it",
	Long: `Parse a comment log and print how many comments each bot left.

The path defaults to <output-dir>/pr_comments.txt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLog,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	logCmd.Flags().BoolVar(&byPR, "by-pr", false, "Break counts down per pull request")
	rootCmd.AddCommand(logCmd)
}

type logSummary struct {
	bots  []string
	total map[string]int
	prs   map[string]map[int]int
}

func summarize(comments []core.ReviewComment) logSummary {
	s := logSummary{total: make(map[string]int), prs: make(map[string]map[int]int)}
	for _, c := range comments {
		if _, ok := s.total[c.BotName]; !ok {
			s.bots = append(s.bots, c.BotName)
			s.prs[c.BotName] = make(map[int]int)
		}
		s.total[c.BotName]++
		s.prs[c.BotName][c.PRNumber]++
	}
	return s
}

func runLog(_ *cobra.Command, args []string) error {
	path := filepath.Join(outputDir(), config.CommentLogName)
	if len(args) == 1 {
		path = args[0]
	}

	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	log := logger.NewLogger(logger.Config{Level: level, Output: "stderr"}, nil)
	comments, err := commentlog.Load(path, log)
	if err != nil {
		return err
	}
	s := summarize(comments)

	titleColor.Printf("📄 %s\n", path)
	dimColor.Printf("   %d comments from %d bots\n\n", len(comments), len(s.bots))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	if byPR {
		fmt.Fprintln(w, "BOT\tPR\tCOMMENTS")
	} else {
		fmt.Fprintln(w, "BOT\tPRS\tCOMMENTS")
	}
	for _, bot := range s.bots {
		if !byPR {
			fmt.Fprintf(w, "%s\t%d\t%d\n", bot, len(s.prs[bot]), s.total[bot])
			continue
		}
		prs := make([]int, 0, len(s.prs[bot]))
		for pr := range s.prs[bot] {
			prs = append(prs, pr)
		}
		sort.Ints(prs)
		for _, pr := range prs {
			fmt.Fprintf(w, "%s\t#%d\t%d\n", bot, pr, s.prs[bot][pr])
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(comments) == 0 {
		slog.Warn("comment log contains no records", "path", path)
	}
	return nil
}
