// Package app holds the wired components of a review-bench run.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/review-bench/internal/commentlog"
	"github.com/sevigo/review-bench/internal/config"
	"github.com/sevigo/review-bench/internal/core"
	"github.com/sevigo/review-bench/internal/github"
	"github.com/sevigo/review-bench/internal/jobs"
)

// App holds the main application components.
type App struct {
	Cfg        *config.Config
	RunCfg     *config.RunConfig
	Logger     *slog.Logger
	Analyzer   core.Analyzer
	Classifier core.Classifier

	newGitHubClient func(ctx context.Context) (github.Client, error)
}

// NewApp assembles an App. GitHub credentials are only checked when a cold
// start actually needs a client.
func NewApp(cfg *config.Config, runCfg *config.RunConfig, logger *slog.Logger, analyzer core.Analyzer, classifier core.Classifier) *App {
	logger.Info("initializing review-bench",
		"repo", cfg.GitHubRepo,
		"llm_provider", cfg.LLMProvider,
		"analyzer", analyzer.Name(),
		"requests_per_minute", cfg.RequestsPerMinute,
		"batch_size", cfg.BatchSize,
		"max_workers", cfg.MaxWorkers)

	a := &App{
		Cfg:        cfg,
		RunCfg:     runCfg,
		Logger:     logger,
		Analyzer:   analyzer,
		Classifier: classifier,
	}
	a.newGitHubClient = a.connectGitHub
	return a
}

// WithGitHubClient replaces the GitHub client factory.
func (a *App) WithGitHubClient(fn func(ctx context.Context) (github.Client, error)) *App {
	a.newGitHubClient = fn
	return a
}

func (a *App) connectGitHub(ctx context.Context) (github.Client, error) {
	if err := a.Cfg.ValidateGitHub(); err != nil {
		return nil, err
	}
	if a.Cfg.UsesGitHubApp() {
		a.Logger.Info("using GitHub App installation auth", "app_id", a.Cfg.GitHubAppID)
		return github.NewInstallationClient(a.Cfg.GitHubAppID, a.Cfg.GitHubInstallationID,
			a.Cfg.GitHubPrivateKeyPath, a.Cfg.GitHubRepo, a.Logger)
	}
	return github.NewPATClient(ctx, a.Cfg.GitHubToken, a.Cfg.GitHubRepo, a.Logger)
}

// NewEvaluationJob builds the evaluation job for opts. The GitHub client is
// only created when the comment log cannot be resumed from.
func (a *App) NewEvaluationJob(ctx context.Context, opts jobs.Options) (*jobs.EvaluationJob, error) {
	if opts.LogPath == "" {
		opts.LogPath = a.Cfg.CommentLogPath()
	}
	if opts.PRLimit <= 0 {
		opts.PRLimit = a.Cfg.PRLimit
	}
	if opts.Workers <= 0 {
		opts.Workers = a.Cfg.MaxWorkers
	}

	var client github.Client
	if opts.Fresh || !commentlog.Exists(opts.LogPath) {
		c, err := a.newGitHubClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub client: %w", err)
		}
		client = c
	}
	return jobs.NewEvaluationJob(client, a.Analyzer, a.Classifier, a.RunCfg, opts, a.Logger), nil
}
