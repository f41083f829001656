package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "bench-cli",
	Short: "bench-cli evaluates automated code review bots.",
	Long: `bench-cli fetches recent pull requests, runs an LLM bug finder over their diffs,
classifies every bot comment as CRITICAL_BUG, NITPICK or OTHER and reports
per-bot quality metrics.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// bindFlag ties a flag to a configuration key so flags override the
// environment and the .env file.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
		slog.Error("Error binding flag", "flag", name, "error", err)
		os.Exit(1)
	}
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringP("github-token", "t", "", "GitHub token")
	flags.StringP("repo", "r", "", "Repository to evaluate (owner/repo or URL)")
	flags.String("provider", "", "LLM provider: gemini, gemini-sdk, anthropic or ollama")
	flags.String("model", "", "Model name for the selected provider")
	flags.StringP("output-dir", "o", "", "Directory for the comment log and reports")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("run-config", "", "Path to the YAML run config")

	bindFlag(flags, "GITHUB_TOKEN", "github-token")
	bindFlag(flags, "GITHUB_REPO", "repo")
	bindFlag(flags, "LLM_PROVIDER", "provider")
	bindFlag(flags, "GENERATOR_MODEL_NAME", "model")
	bindFlag(flags, "OUTPUT_DIR", "output-dir")
	bindFlag(flags, "LOG_LEVEL", "log-level")
	bindFlag(flags, "RUN_CONFIG_PATH", "run-config")
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
