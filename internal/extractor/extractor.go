// Package extractor locates the body text of an email in the sources a scan can start
// from: a snapshot of the message view, a raw MIME message, or pasted text.
package extractor

import (
	"context"
	"strings"

	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/utils"
	"go.uber.org/zap"
)

// Strategy pulls email text out of one kind of source.
// An empty result with a nil error means the strategy found nothing.
type Strategy interface {
	Name() string
	Extract(src core.Source) (string, error)
}

// Chain tries its strategies in order; the first non-empty result wins
type Chain struct {
	strategies    []Strategy
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewChain creates an extractor trying strategies in the given order
func NewChain(logger *zap.Logger, textProcessor *utils.TextProcessor, strategies ...Strategy) *Chain {
	return &Chain{
		strategies:    strategies,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// NewDefaultChain creates an extractor with the default strategy order
func NewDefaultChain(logger *zap.Logger, textProcessor *utils.TextProcessor) *Chain {
	return NewChain(logger, textProcessor, DefaultStrategies()...)
}

// DefaultStrategies returns the message view locators followed by the MIME and plain text
// strategies
func DefaultStrategies() []Strategy {
	strategies := make([]Strategy, 0, len(MessageViewLocators)+2)
	for _, loc := range MessageViewLocators {
		strategies = append(strategies, loc)
	}
	return append(strategies, MIMEStrategy{}, TextStrategy{})
}

// Extract implements core.ContentExtractor
func (c *Chain) Extract(ctx context.Context, src core.Source) (string, error) {
	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := strategy.Extract(src)
		if err != nil {
			c.logger.Debug("Extraction strategy failed",
				zap.String("strategy", strategy.Name()),
				zap.Error(err))
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		c.logger.Debug("Email content extracted",
			zap.String("strategy", strategy.Name()),
			zap.Int("length", len(text)))
		return c.textProcessor.SanitizeUTF8(text), nil
	}

	return "", core.ErrContentNotFound
}

// TextStrategy returns pasted or piped text as is
type TextStrategy struct{}

// Name implements Strategy
func (TextStrategy) Name() string { return "text" }

// Extract implements Strategy
func (TextStrategy) Extract(src core.Source) (string, error) {
	return src.Text, nil
}

var _ core.ContentExtractor = (*Chain)(nil)
