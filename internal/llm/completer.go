package llm

import "context"

const (
	ProviderGemini    = "gemini"
	ProviderGeminiSDK = "gemini-sdk"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Request is a single completion call.
type Request struct {
	Prompt string
	// JSON asks the provider to constrain output to a JSON document where it
	// supports doing so. Callers still validate whatever comes back.
	JSON bool
}

// Completer is the LLM collaborator: it turns one prompt into raw response
// text. Implementations report failures as *TransportError so callers can
// tell throttling apart from everything else.
//
//go:generate mockgen -destination=../mocks/mock_completer.go -package=mocks . Completer
type Completer interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}
