package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/ports"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration
func (f *LLMFactory) CreateLLMClient(ctx context.Context) (ports.LLMClient, error) {
	provider := strings.ToLower(f.cfg.GetLLM().Provider)
	f.logger.Info("Creating LLM client", zap.String("provider", provider))

	switch provider {
	case "gemini":
		return NewGeminiFactory(f.cfg, f.logger).CreateLLMClient(ctx)
	case "openai":
		return NewOpenAIFactory(f.cfg, f.logger).CreateLLMClient()
	case "bedrock":
		return NewBedrockFactory(f.cfg, f.logger).CreateLLMClient(ctx)
	case "ollama":
		return NewOllamaFactory(f.cfg, f.logger).CreateLLMClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
