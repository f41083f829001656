package llm

import (
	"context"
	"errors"
	"strings"
)

const (
	anthropicAPIURL       = "https://api.anthropic.com/v1/messages"
	anthropicAPIVersion   = "2023-06-01"
	DefaultAnthropicModel = "claude-3-opus-20240229"
	anthropicMaxTokens    = 4096
)

// AnthropicCompleter calls the Anthropic Messages API.
type AnthropicCompleter struct {
	apiKey string
	model  string
	opts   restOptions
}

func NewAnthropicCompleter(apiKey, model string, opts ...RESTOption) (*AnthropicCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is not set")
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &AnthropicCompleter{
		apiKey: apiKey,
		model:  model,
		opts:   applyRESTOptions(anthropicAPIURL, opts),
	}, nil
}

func (a *AnthropicCompleter) Name() string { return ProviderAnthropic }

// Complete sends the prompt as a single user message. The Messages API has
// no JSON mode; req.JSON is honored through the prompt wording only.
func (a *AnthropicCompleter) Complete(ctx context.Context, req Request) (string, error) {
	body := anthropicRequest{
		Model:     a.model,
		MaxTokens: anthropicMaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}
	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": anthropicAPIVersion,
	}

	var resp anthropicResponse
	if err := postJSON(ctx, a.opts.client, ProviderAnthropic, a.opts.baseURL, headers, body, &resp); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", &TransportError{Provider: ProviderAnthropic, StatusCode: 200, Err: ErrEmptyResponse}
	}
	return sb.String(), nil
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
