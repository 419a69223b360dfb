package ports

import "context"

// LLMClient defines the interface for the text generation providers behind the reference
// analysis backend
type LLMClient interface {
	// Generate returns the model's raw text answer to a prompt
	Generate(ctx context.Context, prompt string) (string, error)

	// Provider names the provider for logs, metrics and fallback messages
	Provider() string
}
