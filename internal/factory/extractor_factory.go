package factory

import (
	"github.com/mikey/phishguard/internal/adapters/browser"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/extractor"
	"github.com/mikey/phishguard/internal/utils"
	"go.uber.org/zap"
)

// ExtractorFactory creates the content extraction pieces shared by the CLI and the web UI
type ExtractorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewExtractorFactory creates a new extractor factory
func NewExtractorFactory(cfg *config.Config, logger *zap.Logger) *ExtractorFactory {
	return &ExtractorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextProcessor creates a new TextProcessor
func (f *ExtractorFactory) CreateTextProcessor() *utils.TextProcessor {
	return utils.NewTextProcessor(f.logger)
}

// CreateExtractor creates the default strategy chain
func (f *ExtractorFactory) CreateExtractor(textProcessor *utils.TextProcessor) *extractor.Chain {
	return extractor.NewDefaultChain(f.logger, textProcessor)
}

// CreateTabSource creates the live tab capture source from the browser section
func (f *ExtractorFactory) CreateTabSource() *browser.TabSource {
	browserCfg := f.cfg.GetBrowser()
	return browser.NewTabSource(
		browserCfg.DebugURL,
		browserCfg.TabMatch,
		browserCfg.WaitSelector,
		browserCfg.Timeout,
		f.logger,
	)
}
