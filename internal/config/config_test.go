package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GITHUB_TOKEN", "GITHUB_REPO", "GITHUB_APP_ID", "GITHUB_INSTALLATION_ID", "GITHUB_PRIVATE_KEY_PATH",
		"LLM_PROVIDER", "GEMINI_API_KEY", "GOOGLE_API_KEY", "ANTHROPIC_API_KEY", "OLLAMA_HOST",
		"GENERATOR_MODEL_NAME", "REQUESTS_PER_MINUTE", "MAX_RETRIES", "INITIAL_RETRY_DELAY",
		"BATCH_SIZE", "MAX_WORKERS", "PR_LIMIT", "OUTPUT_DIR", "RUN_CONFIG_PATH",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "LOG_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "microsoft/typescript", cfg.GitHubRepo)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 60, cfg.RequestsPerMinute)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.InitialRetryDelay)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 1, cfg.MaxWorkers)
	assert.Equal(t, 100, cfg.PRLimit)
	assert.Equal(t, filepath.Join("analysis_results", "pr_comments.txt"), cfg.CommentLogPath())
	assert.Equal(t, DefaultRunConfigPath, cfg.RunConfigPath)
	assert.Equal(t, "stderr", cfg.LoggerConfig.Output)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"GITHUB_TOKEN=ghp_file\nGOOGLE_API_KEY=google-key\nBATCH_SIZE=10\nINITIAL_RETRY_DELAY=250ms\n"), 0o600))
	t.Setenv("BATCH_SIZE", "5")
	t.Setenv("LLM_PROVIDER", "Anthropic")

	cfg, err := Load(viper.New(), envFile)
	require.NoError(t, err)

	assert.Equal(t, "ghp_file", cfg.GitHubToken)
	assert.Equal(t, 5, cfg.BatchSize, "environment wins over the env file")
	assert.Equal(t, 250*time.Millisecond, cfg.InitialRetryDelay)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
}

func TestLoad_GoogleAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google")
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "google", cfg.GeminiAPIKey)

	t.Setenv("GEMINI_API_KEY", "gemini")
	cfg, err = Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.GeminiAPIKey)
}

func TestLoad_BadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	_, err := Load(viper.New(), dir)
	assert.Error(t, err, "a directory is not a readable env file")
}

func validConfig() *Config {
	return &Config{
		GitHubRepo:        "microsoft/typescript",
		LLMProvider:       "gemini",
		GeminiAPIKey:      "k",
		RequestsPerMinute: 60,
		MaxRetries:        5,
		InitialRetryDelay: time.Second,
		BatchSize:         25,
		MaxWorkers:        1,
		OutputDir:         "out",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "ollama needs no key", mutate: func(c *Config) { c.LLMProvider, c.GeminiAPIKey = "ollama", "" }},
		{name: "zero rate", mutate: func(c *Config) { c.RequestsPerMinute = 0 }, wantErr: "REQUESTS_PER_MINUTE"},
		{name: "negative batch", mutate: func(c *Config) { c.BatchSize = -1 }, wantErr: "BATCH_SIZE"},
		{name: "zero retries", mutate: func(c *Config) { c.MaxRetries = 0 }, wantErr: "MAX_RETRIES"},
		{name: "zero delay", mutate: func(c *Config) { c.InitialRetryDelay = 0 }, wantErr: "INITIAL_RETRY_DELAY"},
		{name: "zero workers", mutate: func(c *Config) { c.MaxWorkers = 0 }, wantErr: "MAX_WORKERS"},
		{name: "missing gemini key", mutate: func(c *Config) { c.GeminiAPIKey = "" }, wantErr: "GEMINI_API_KEY"},
		{name: "missing anthropic key", mutate: func(c *Config) { c.LLMProvider = "anthropic" }, wantErr: "ANTHROPIC_API_KEY"},
		{name: "unknown provider", mutate: func(c *Config) { c.LLMProvider = "openai" }, wantErr: "unsupported LLM_PROVIDER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_ValidateGitHub(t *testing.T) {
	c := validConfig()
	assert.Error(t, c.ValidateGitHub())

	c.GitHubToken = "ghp"
	assert.NoError(t, c.ValidateGitHub())

	c.GitHubToken = ""
	c.GitHubAppID, c.GitHubInstallationID, c.GitHubPrivateKeyPath = 1, 2, "key.pem"
	assert.True(t, c.UsesGitHubApp())
	assert.NoError(t, c.ValidateGitHub())

	c.GitHubRepo = ""
	assert.Error(t, c.ValidateGitHub())
}

func TestLoadRunConfig(t *testing.T) {
	dir := t.TempDir()

	rc, err := LoadRunConfig(filepath.Join(dir, "absent.yml"))
	assert.True(t, errors.Is(err, ErrRunConfigNotFound))
	require.NotNil(t, rc)
	assert.True(t, rc.KeepBot("anything[bot]", "gemini"))

	path := filepath.Join(dir, "run.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
analyzer_name: gemini-flash
include_bots: ["coderabbitai[bot]", "*-ai[bot]", "sonar*"]
exclude_bots: ["sonarqube[bot]"]
`), 0o600))

	rc, err = LoadRunConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini-flash", rc.AnalyzerName)

	tests := []struct {
		bot  string
		keep bool
	}{
		{"coderabbitai[bot]", true},
		{"CodeRabbitAI[bot]", true},
		{"copilot-ai[bot]", true},
		{"sonarcloud[bot]", true},
		{"sonarqube[bot]", false},
		{"dependabot[bot]", false},
		{"gemini-flash", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.keep, rc.KeepBot(tt.bot, rc.AnalyzerName), tt.bot)
	}
}

func TestLoadRunConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"syntax.yml":  "include_bots: [unclosed",
		"empty.yml":   "exclude_bots: ['']",
		"pattern.yml": "include_bots: ['a*b']",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		_, err := LoadRunConfig(path)
		assert.ErrorIs(t, err, ErrRunConfigParsing, name)
	}
}
