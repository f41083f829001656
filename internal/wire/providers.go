package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/wire"

	"github.com/sevigo/review-bench/internal/analyzer"
	"github.com/sevigo/review-bench/internal/app"
	"github.com/sevigo/review-bench/internal/config"
	"github.com/sevigo/review-bench/internal/core"
	"github.com/sevigo/review-bench/internal/llm"
	"github.com/sevigo/review-bench/internal/logger"
	"github.com/sevigo/review-bench/internal/ratelimit"
	"github.com/sevigo/review-bench/internal/retry"
)

var AppSet = wire.NewSet(
	app.NewApp,
	logger.NewLogger,
	llm.NewPromptManager,
	provideConfig,
	provideRunConfig,
	provideLoggerConfig,
	provideLogWriter,
	provideLimiter,
	provideExecutor,
	provideCompleter,
	provideDiffAnalyzer,
	provideClassifier,
	wire.Bind(new(retry.Acquirer), new(*ratelimit.Limiter)),
	wire.Bind(new(core.Analyzer), new(*analyzer.DiffAnalyzer)),
	wire.Bind(new(core.Classifier), new(*analyzer.Classifier)),
)

func provideConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func provideRunConfig(cfg *config.Config, logger *slog.Logger) (*config.RunConfig, error) {
	rc, err := config.LoadRunConfig(cfg.RunConfigPath)
	if errors.Is(err, config.ErrRunConfigNotFound) {
		logger.Debug("no run config found, using defaults", "path", cfg.RunConfigPath)
		return rc, nil
	}
	return rc, err
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.LoggerConfig
}

func provideLogWriter(cfg logger.Config) (io.Writer, func(), error) {
	return logger.Open(cfg)
}

func provideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RequestsPerMinute)
}

func provideExecutor(cfg *config.Config, limiter retry.Acquirer, logger *slog.Logger) *retry.Executor {
	return retry.NewExecutor(cfg.MaxRetries, cfg.InitialRetryDelay, limiter, logger)
}

func provideCompleter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llm.Completer, error) {
	return llm.NewCompleter(ctx, llm.ProviderConfig{
		Provider:        cfg.LLMProvider,
		Model:           cfg.GeneratorModelName,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		OllamaHost:      cfg.OllamaHost,
	}, logger)
}

func provideDiffAnalyzer(cfg *config.Config, rc *config.RunConfig, completer llm.Completer, prompts *llm.PromptManager, executor *retry.Executor, logger *slog.Logger) *analyzer.DiffAnalyzer {
	return analyzer.NewDiffAnalyzer(rc.AnalyzerName, completer, prompts, executor, logger).
		WithMaxDiffTokens(cfg.MaxDiffTokens)
}

func provideClassifier(cfg *config.Config, completer llm.Completer, prompts *llm.PromptManager, executor *retry.Executor, logger *slog.Logger) *analyzer.Classifier {
	return analyzer.NewClassifier(completer, prompts, executor, cfg.BatchSize, cfg.MaxWorkers, logger)
}
