package llm

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// PromptKey names a task; ModelProvider names a prompt variant. Files in
// prompts/ are named <key>_<provider>.prompt.
type (
	PromptKey     string
	ModelProvider string
)

const (
	DefaultProvider ModelProvider = "default"

	DiffAnalysisPrompt          PromptKey = "diff_analysis"
	CommentCategorizationPrompt PromptKey = "comment_categorization"
)

// DiffPromptData feeds the diff_analysis templates.
type DiffPromptData struct {
	PRNumber int
	Diff     string
}

// CategorizationPromptData feeds the comment_categorization templates.
type CategorizationPromptData struct {
	PRNumber int
	BotName  string
	Comments string
}

type PromptManager struct {
	prompts map[PromptKey]map[ModelProvider]*template.Template
}

func NewPromptManager() (*PromptManager, error) {
	return loadPrompts(promptFiles, "prompts")
}

func loadPrompts(fsys fs.FS, dir string) (*PromptManager, error) {
	pm := &PromptManager{prompts: make(map[PromptKey]map[ModelProvider]*template.Template)}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".prompt" {
			continue
		}
		key, provider, err := splitPromptName(e.Name())
		if err != nil {
			return nil, err
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", e.Name(), err)
		}
		tmpl, err := template.New(e.Name()).Option("missingkey=error").Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt %s: %w", e.Name(), err)
		}
		if pm.prompts[key] == nil {
			pm.prompts[key] = make(map[ModelProvider]*template.Template)
		}
		pm.prompts[key][provider] = tmpl
	}
	return pm, nil
}

func splitPromptName(name string) (PromptKey, ModelProvider, error) {
	base := strings.TrimSuffix(name, path.Ext(name))
	i := strings.LastIndex(base, "_")
	if i <= 0 || i == len(base)-1 {
		return "", "", fmt.Errorf("invalid prompt filename %s (expected key_provider.prompt)", name)
	}
	return PromptKey(base[:i]), ModelProvider(base[i+1:]), nil
}

// ProviderFor maps a completer name onto its prompt variant.
func ProviderFor(completerName string) ModelProvider {
	switch completerName {
	case ProviderAnthropic:
		return ModelProvider(ProviderAnthropic)
	default:
		return DefaultProvider
	}
}

// Render executes the prompt for key, preferring the provider variant and
// falling back to the default one.
func (pm *PromptManager) Render(key PromptKey, provider ModelProvider, data any) (string, error) {
	variants, ok := pm.prompts[key]
	if !ok {
		return "", fmt.Errorf("no prompts found for key '%s'", key)
	}
	tmpl, ok := variants[provider]
	if !ok {
		if tmpl, ok = variants[DefaultProvider]; !ok {
			return "", fmt.Errorf("no prompt for key '%s' and provider '%s', and no default", key, provider)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
