package factory

import (
	"net/http"

	"github.com/mikey/phishguard/internal/adapters/ollama"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/ports"
	"go.uber.org/zap"
)

// OllamaFactory creates Ollama LLM clients
type OllamaFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewOllamaFactory creates a new Ollama factory
func NewOllamaFactory(cfg *config.Config, logger *zap.Logger) *OllamaFactory {
	return &OllamaFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates an Ollama LLM client. Requests are bounded by llm.timeout.
func (f *OllamaFactory) CreateLLMClient() (ports.LLMClient, error) {
	ollamaCfg := f.cfg.GetOllama()
	httpClient := &http.Client{Timeout: f.cfg.GetLLM().Timeout}

	client, err := ollama.NewOllamaClient(
		ollamaCfg.Host,
		ollamaCfg.ModelName,
		ollamaCfg.Temperature,
		httpClient,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}
