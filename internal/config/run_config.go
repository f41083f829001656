package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrRunConfigNotFound = errors.New("run config file not found")
	ErrRunConfigParsing  = errors.New("run config parsing failed")
)

// RunConfig is the optional per-run YAML file (.review-bench.yml).
//
//	analyzer_name: gemini
//	include_bots: ["coderabbitai[bot]", "*-ai[bot]"]
//	exclude_bots: ["dependabot[bot]"]
type RunConfig struct {
	// AnalyzerName is the bot name stamped on diff analyzer comments.
	// Empty means the LLM provider name.
	AnalyzerName string   `yaml:"analyzer_name"`
	IncludeBots  []string `yaml:"include_bots"`
	ExcludeBots  []string `yaml:"exclude_bots"`
}

// LoadRunConfig reads path. A missing file yields an empty RunConfig
// together with ErrRunConfigNotFound, which callers may ignore.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RunConfig{}, ErrRunConfigNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	rc := &RunConfig{}
	if err := yaml.Unmarshal(data, rc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunConfigParsing, err)
	}
	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunConfigParsing, err)
	}
	return rc, nil
}

func (rc *RunConfig) Validate() error {
	for _, list := range [][]string{rc.IncludeBots, rc.ExcludeBots} {
		for _, p := range list {
			if strings.TrimSpace(p) == "" {
				return errors.New("bot patterns must not be empty")
			}
			if strings.Count(p, "*") > 1 || (strings.Contains(p, "*") && !strings.HasPrefix(p, "*") && !strings.HasSuffix(p, "*")) {
				return fmt.Errorf("bot pattern %q: only a leading or trailing * is supported", p)
			}
		}
	}
	return nil
}

// KeepBot reports whether comments by bot take part in the run. The
// analyzer's own comments are always kept.
func (rc *RunConfig) KeepBot(bot, analyzer string) bool {
	if rc == nil || strings.EqualFold(bot, analyzer) {
		return true
	}
	if len(rc.IncludeBots) > 0 && !matchAny(rc.IncludeBots, bot) {
		return false
	}
	return !matchAny(rc.ExcludeBots, bot)
}

func matchAny(patterns []string, name string) bool {
	name = strings.ToLower(name)
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		switch {
		case strings.HasPrefix(p, "*"):
			if strings.HasSuffix(name, p[1:]) {
				return true
			}
		case strings.HasSuffix(p, "*"):
			if strings.HasPrefix(name, p[:len(p)-1]) {
				return true
			}
		case p == name:
			return true
		}
	}
	return false
}
