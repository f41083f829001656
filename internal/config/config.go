// Package config loads review-bench settings from the environment, an
// optional .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/review-bench/internal/logger"
)

const (
	DefaultEnvFile       = ".env"
	DefaultRunConfigPath = ".review-bench.yml"
	CommentLogName       = "pr_comments.txt"
)

// Config holds the application's configuration values.
type Config struct {
	GitHubToken          string
	GitHubRepo           string
	GitHubAppID          int64
	GitHubInstallationID int64
	GitHubPrivateKeyPath string

	LLMProvider        string
	GeminiAPIKey       string
	AnthropicAPIKey    string
	OllamaHost         string
	GeneratorModelName string

	RequestsPerMinute int
	MaxRetries        int
	InitialRetryDelay time.Duration
	BatchSize         int
	MaxWorkers        int
	PRLimit           int
	MaxDiffTokens     int

	OutputDir     string
	RunConfigPath string

	LoggerConfig logger.Config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GITHUB_REPO", "microsoft/typescript")
	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("REQUESTS_PER_MINUTE", 60)
	v.SetDefault("MAX_RETRIES", 5)
	v.SetDefault("INITIAL_RETRY_DELAY", "1s")
	v.SetDefault("BATCH_SIZE", 25)
	v.SetDefault("MAX_WORKERS", 1)
	v.SetDefault("PR_LIMIT", 100)
	v.SetDefault("MAX_DIFF_TOKENS", 0)
	v.SetDefault("OUTPUT_DIR", "analysis_results")
	v.SetDefault("RUN_CONFIG_PATH", DefaultRunConfigPath)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stderr")
}

// LoadConfig reads configuration through the global viper instance, which
// is where the CLI binds its flags.
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper(), DefaultEnvFile)
}

// Load reads configuration from v. Precedence, highest first: bound flags,
// environment variables, the dotenv file at envFile, defaults.
func Load(v *viper.Viper, envFile string) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	if err := v.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding GEMINI_API_KEY: %w", err)
	}

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}

	cfg := &Config{
		GitHubToken:          v.GetString("GITHUB_TOKEN"),
		GitHubRepo:           v.GetString("GITHUB_REPO"),
		GitHubAppID:          v.GetInt64("GITHUB_APP_ID"),
		GitHubInstallationID: v.GetInt64("GITHUB_INSTALLATION_ID"),
		GitHubPrivateKeyPath: v.GetString("GITHUB_PRIVATE_KEY_PATH"),
		LLMProvider:          strings.ToLower(v.GetString("LLM_PROVIDER")),
		GeminiAPIKey:         v.GetString("GEMINI_API_KEY"),
		AnthropicAPIKey:      v.GetString("ANTHROPIC_API_KEY"),
		OllamaHost:           v.GetString("OLLAMA_HOST"),
		GeneratorModelName:   v.GetString("GENERATOR_MODEL_NAME"),
		RequestsPerMinute:    v.GetInt("REQUESTS_PER_MINUTE"),
		MaxRetries:           v.GetInt("MAX_RETRIES"),
		InitialRetryDelay:    v.GetDuration("INITIAL_RETRY_DELAY"),
		BatchSize:            v.GetInt("BATCH_SIZE"),
		MaxWorkers:           v.GetInt("MAX_WORKERS"),
		MaxDiffTokens:        v.GetInt("MAX_DIFF_TOKENS"),
		PRLimit:              v.GetInt("PR_LIMIT"),
		OutputDir:            v.GetString("OUTPUT_DIR"),
		RunConfigPath:        v.GetString("RUN_CONFIG_PATH"),
		LoggerConfig: logger.Config{
			Level:    v.GetString("LOG_LEVEL"),
			Format:   v.GetString("LOG_FORMAT"),
			Output:   v.GetString("LOG_OUTPUT"),
			FilePath: v.GetString("LOG_FILE"),
		},
	}
	return cfg, nil
}

// Validate checks the settings every evaluation run needs.
func (c *Config) Validate() error {
	var errs []error
	if c.RequestsPerMinute <= 0 {
		errs = append(errs, fmt.Errorf("REQUESTS_PER_MINUTE must be positive, got %d", c.RequestsPerMinute))
	}
	if c.MaxRetries <= 0 {
		errs = append(errs, fmt.Errorf("MAX_RETRIES must be positive, got %d", c.MaxRetries))
	}
	if c.InitialRetryDelay <= 0 {
		errs = append(errs, fmt.Errorf("INITIAL_RETRY_DELAY must be positive, got %s", c.InitialRetryDelay))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize))
	}
	if c.MaxWorkers <= 0 {
		errs = append(errs, fmt.Errorf("MAX_WORKERS must be positive, got %d", c.MaxWorkers))
	}
	if c.MaxDiffTokens < 0 {
		errs = append(errs, fmt.Errorf("MAX_DIFF_TOKENS must not be negative, got %d", c.MaxDiffTokens))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("OUTPUT_DIR must be set"))
	}

	switch c.LLMProvider {
	case "gemini", "gemini-sdk":
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY (or GOOGLE_API_KEY) must be set for the gemini provider"))
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY must be set for the anthropic provider"))
		}
	case "ollama":
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider))
	}
	return errors.Join(errs...)
}

// ValidateGitHub checks the settings needed to fetch from GitHub: a token,
// or a complete set of GitHub App credentials.
func (c *Config) ValidateGitHub() error {
	if c.GitHubRepo == "" {
		return errors.New("GITHUB_REPO must be set")
	}
	if c.GitHubToken != "" || c.UsesGitHubApp() {
		return nil
	}
	return errors.New("GITHUB_TOKEN must be set (or GITHUB_APP_ID, GITHUB_INSTALLATION_ID and GITHUB_PRIVATE_KEY_PATH)")
}

// UsesGitHubApp reports whether GitHub App installation auth is configured.
func (c *Config) UsesGitHubApp() bool {
	return c.GitHubAppID != 0 && c.GitHubInstallationID != 0 && c.GitHubPrivateKeyPath != ""
}

// CommentLogPath is where the resumable comment log lives.
func (c *Config) CommentLogPath() string {
	return filepath.Join(c.OutputDir, CommentLogName)
}
