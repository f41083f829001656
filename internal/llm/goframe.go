package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"
)

const (
	DefaultOllamaModel = "qwen2.5-coder:7b"
	DefaultOllamaHost  = "http://localhost:11434"

	jsonOnlyInstruction = "\n\nRespond with valid JSON only. Do not wrap it in markdown."
)

var throttleMarkers = []string{"429", "RESOURCE_EXHAUSTED", "rate limit", "Too Many Requests"}

// GoframeCompleter adapts a goframe llms.Model. The SDK does not expose
// status codes, so throttling is recognized from the error text here and
// nowhere else.
type GoframeCompleter struct {
	name     string
	generate func(ctx context.Context, prompt string) (string, error)
	count    func(ctx context.Context, text string) int
}

func NewGoframeCompleter(name string, model llms.Model) *GoframeCompleter {
	return &GoframeCompleter{
		name: name,
		generate: func(ctx context.Context, prompt string) (string, error) {
			return llms.GenerateFromSinglePrompt(ctx, model, prompt)
		},
		count: func(ctx context.Context, text string) int {
			return countWithModel(ctx, model, text)
		},
	}
}

func (g *GoframeCompleter) Name() string { return g.name }

// CountTokens uses the model's tokenizer when it has one.
func (g *GoframeCompleter) CountTokens(ctx context.Context, text string) int {
	if g.count == nil {
		return EstimateTokens(text)
	}
	return g.count(ctx, text)
}

func (g *GoframeCompleter) Complete(ctx context.Context, req Request) (string, error) {
	prompt := req.Prompt
	if req.JSON {
		prompt += jsonOnlyInstruction
	}

	out, err := g.generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &TransportError{Provider: g.name, CanRetry: looksThrottled(err), Err: err}
	}
	if strings.TrimSpace(out) == "" {
		return "", &TransportError{Provider: g.name, Err: ErrEmptyResponse}
	}
	return out, nil
}

func looksThrottled(err error) bool {
	msg := err.Error()
	for _, m := range throttleMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func newGoframeGemini(ctx context.Context, apiKey, model string) (*GoframeCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY (or GOOGLE_API_KEY) is not set")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	m, err := gemini.New(ctx,
		gemini.WithModel(model),
		gemini.WithAPIKey(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini model: %w", err)
	}
	return NewGoframeCompleter(ProviderGemini, m), nil
}

func newGoframeOllama(host, model string, logger *slog.Logger) (*GoframeCompleter, error) {
	if model == "" {
		model = DefaultOllamaModel
	}
	if host == "" {
		host = DefaultOllamaHost
	}
	m, err := ollama.New(
		ollama.WithServerURL(host),
		ollama.WithModel(model),
		ollama.WithHTTPClient(newOllamaHTTPClient()),
		ollama.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama model: %w", err)
	}
	return NewGoframeCompleter(ProviderOllama, m), nil
}

func newOllamaHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   5 * time.Minute,
	}
}
