package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

// ProviderName identifies Ollama in logs and fallback messages
const ProviderName = "Ollama"

// DefaultHost is used when no host is configured
const DefaultHost = "http://localhost:11434"

// OllamaClient generates text with a model served by a local Ollama instance
type OllamaClient struct {
	client      *api.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewOllamaClient creates a new Ollama client
func NewOllamaClient(host, model string, temperature float32, httpClient *http.Client, logger *zap.Logger) (*OllamaClient, error) {
	if host == "" {
		host = DefaultHost
	}
	if model == "" {
		return nil, errors.New("ollama model name is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaClient{
		client:      api.NewClient(baseURL, httpClient),
		model:       model,
		temperature: temperature,
		logger:      logger,
	}, nil
}

// Provider implements ports.LLMClient
func (c *OllamaClient) Provider() string {
	return ProviderName
}

// Generate implements ports.LLMClient
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
		Format: []byte(`"json"`),
		Options: map[string]interface{}{
			"temperature": c.temperature,
		},
	}

	var response strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	result := strings.TrimSpace(response.String())
	if result == "" {
		return "", errors.New("empty response from Ollama")
	}

	c.logger.Debug("Ollama response received",
		zap.String("model", c.model),
		zap.Int("length", len(result)))

	return result, nil
}
