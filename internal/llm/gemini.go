package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	geminiAPIURL       = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultGeminiModel = "gemini-1.5-flash-002"
)

// GeminiCompleter calls the Gemini generateContent REST endpoint. Unlike the
// SDK-backed completer it can request application/json output.
type GeminiCompleter struct {
	apiKey string
	model  string
	opts   restOptions
}

func NewGeminiCompleter(apiKey, model string, opts ...RESTOption) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY (or GOOGLE_API_KEY) is not set")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiCompleter{
		apiKey: apiKey,
		model:  model,
		opts:   applyRESTOptions(geminiAPIURL, opts),
	}, nil
}

func (g *GeminiCompleter) Name() string { return ProviderGemini }

func (g *GeminiCompleter) Complete(ctx context.Context, req Request) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: req.Prompt}},
		}},
	}
	if req.JSON {
		body.GenerationConfig = &geminiGenConfig{ResponseMimeType: "application/json"}
	}

	url := fmt.Sprintf("%s/%s:generateContent", strings.TrimRight(g.opts.baseURL, "/"), g.model)
	headers := map[string]string{"x-goog-api-key": g.apiKey}

	var resp geminiResponse
	if err := postJSON(ctx, g.opts.client, ProviderGemini, url, headers, body, &resp); err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &TransportError{Provider: ProviderGemini, StatusCode: 200, Err: ErrEmptyResponse}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}
