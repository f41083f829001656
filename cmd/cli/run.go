package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sevigo/review-bench/internal/gitutil"
	"github.com/sevigo/review-bench/internal/jobs"
	"github.com/sevigo/review-bench/internal/report"
	"github.com/sevigo/review-bench/internal/wire"
)

var (
	verbose  bool
	fresh    bool
	noCharts bool
	theme    string
	prRefs   []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate review bots on recent pull requests",
	Long: `Evaluate review bots on recent pull requests.

When <output-dir>/pr_comments.txt exists and is non-empty, comments are read
from it and GitHub is not contacted. Otherwise the most recent PRs (or the
ones given with --pr) are fetched, their diffs are analyzed and the log is
written before classification starts.

Examples:
  bench-cli run --repo microsoft/typescript --limit 20
  bench-cli run --pr 123 --pr https://github.com/microsoft/typescript/pull/456 --fresh
  bench-cli run --provider anthropic --rpm 30 --verbose`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	flags := runCmd.Flags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output with timing information")
	flags.BoolVar(&fresh, "fresh", false, "Ignore an existing comment log and fetch again")
	flags.BoolVar(&noCharts, "no-charts", false, "Do not print charts to the terminal")
	flags.StringVar(&theme, "theme", string(report.ThemeClassic), "Chart color theme")
	flags.StringArrayVar(&prRefs, "pr", nil, "PR number, #number or URL to evaluate (repeatable)")
	flags.Int("limit", 0, "Number of recent PRs to evaluate")
	flags.Int("rpm", 0, "Maximum LLM requests per minute")
	flags.Int("batch-size", 0, "Comments per classification request")
	flags.Int("workers", 0, "Concurrent PR fetches and classification groups")
	flags.Int("max-diff-tokens", 0, "Token budget for each diff sent to the analyzer (0 = unlimited)")

	bindFlag(flags, "PR_LIMIT", "limit")
	bindFlag(flags, "REQUESTS_PER_MINUTE", "rpm")
	bindFlag(flags, "BATCH_SIZE", "batch-size")
	bindFlag(flags, "MAX_WORKERS", "workers")
	bindFlag(flags, "MAX_DIFF_TOKENS", "max-diff-tokens")
	rootCmd.AddCommand(runCmd)
}

func resolvePRs(refs []string, repoSlug string) ([]int, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	owner, repo, err := gitutil.ParseRepoSlug(repoSlug)
	if err != nil {
		return nil, err
	}
	prs := make([]int, 0, len(refs))
	seen := make(map[int]bool, len(refs))
	for _, ref := range refs {
		n, err := gitutil.ParsePRRef(ref, owner, repo)
		if err != nil {
			return nil, err
		}
		if !seen[n] {
			seen[n] = true
			prs = append(prs, n)
		}
	}
	return prs, nil
}

func runEvaluate(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	timer := newStepTimer(3, verbose)
	overallStart := time.Now()
	titleColor.Println("🔬 review-bench - Bot Evaluation")

	timer.step("Initializing application")
	a, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w\n\nTip: Check your .env file and environment variables", err)
	}
	defer cleanup()

	prs, err := resolvePRs(prRefs, a.Cfg.GitHubRepo)
	if err != nil {
		return fmt.Errorf("invalid --pr value: %w", err)
	}
	timer.info("Repository: %s", a.Cfg.GitHubRepo)
	timer.info("Analyzer: %s", a.Analyzer.Name())
	timer.info("Comment log: %s", a.Cfg.CommentLogPath())
	timer.done()

	timer.step("Collecting and classifying comments")
	job, err := a.NewEvaluationJob(ctx, jobs.Options{PRNumbers: prs, Fresh: fresh})
	if err != nil {
		return fmt.Errorf("%w\n\nTip: Set GITHUB_TOKEN, or keep an existing comment log to resume from", err)
	}
	res, err := job.Run(ctx)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	timer.done(fmt.Sprintf("%d bots evaluated", len(res.Bots)))

	timer.step("Writing reports")
	paths, err := report.WriteAll(a.Cfg.OutputDir, res, time.Now(), report.ThemeName(theme))
	if err != nil {
		return err
	}
	for _, p := range paths {
		timer.info("%s", p)
	}
	timer.done()

	if len(res.Bots) == 0 {
		warnColor.Println("\nNo bot comments were found.")
	} else if !noCharts {
		r := lipgloss.NewRenderer(os.Stdout)
		fmt.Println()
		fmt.Println(report.RenderDistribution(r, res, report.ThemeName(theme), 50))
		fmt.Println()
		fmt.Println(report.RenderComparison(r, res, report.ThemeName(theme)))
	}

	if verbose {
		dimColor.Printf("\n⏱️  Total time: %s\n", time.Since(overallStart).Round(time.Millisecond))
	}
	fmt.Println()
	successColor.Printf("✅ Analysis complete! Results saved in %s\n", a.Cfg.OutputDir)
	return nil
}
