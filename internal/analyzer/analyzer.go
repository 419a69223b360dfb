// Package analyzer is the reference implementation of the email analysis backend: it asks
// an LLM about the email body and about every URL found in it.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/metrics"
	"github.com/mikey/phishguard/internal/ports"
	"github.com/mikey/phishguard/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options tunes an Analyzer
type Options struct {
	// MaxBodySize caps the email body sent to the model, in bytes. Zero disables the cap.
	MaxBodySize int
	// URLConcurrency bounds concurrent URL analyses
	URLConcurrency int
	// CallTimeout bounds each model call
	CallTimeout time.Duration
}

// Analyzer produces analysis responses in the wire shape the client expects
type Analyzer struct {
	llm           ports.LLMClient
	cache         ports.VerdictCache
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	opts          Options
}

// NewAnalyzer creates an Analyzer. cache may be nil.
func NewAnalyzer(
	llm ports.LLMClient,
	cache ports.VerdictCache,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	opts Options,
) *Analyzer {
	if opts.URLConcurrency <= 0 {
		opts.URLConcurrency = 1
	}
	return &Analyzer{
		llm:           llm,
		cache:         cache,
		textProcessor: textProcessor,
		logger:        logger,
		opts:          opts,
	}
}

// Analyze runs the content analysis and one analysis per distinct URL. Model failures are
// folded into fallback verdicts so the response is always complete.
func (a *Analyzer) Analyze(ctx context.Context, emailBody string) *core.AnalysisResponse {
	body := a.textProcessor.SanitizeUTF8(emailBody)
	urls := ExtractURLs(body)

	resp := &core.AnalysisResponse{
		URLAnalysis: make(core.URLPayloadSet, len(urls)),
	}

	var g errgroup.Group
	g.SetLimit(a.opts.URLConcurrency + 1)

	g.Go(func() error {
		resp.ContentAnalysis = a.analyzeContent(ctx, a.textProcessor.TruncateText(body, a.opts.MaxBodySize))
		return nil
	})

	for i, url := range urls {
		g.Go(func() error {
			resp.URLAnalysis[i] = core.URLPayload{URL: url, Payload: a.analyzeURL(ctx, url)}
			return nil
		})
	}

	_ = g.Wait()

	a.logger.Info("Email analyzed",
		zap.String("provider", a.llm.Provider()),
		zap.Int("body_size", len(body)),
		zap.Int("url_count", len(urls)))

	return resp
}

func (a *Analyzer) analyzeContent(ctx context.Context, body string) core.Payload {
	text, err := a.generate(ctx, "content", ContentPrompt(body))
	if err != nil {
		payload, _ := core.ObjectPayload(core.ContentAnalysis{
			PhishingLikelihood: core.UnknownLikelihood,
			SuspiciousElements: []string{},
			Explanation:        a.providerError(err),
		})
		return payload
	}
	return core.TextPayload(text)
}

func (a *Analyzer) analyzeURL(ctx context.Context, url string) core.Payload {
	if a.cache != nil {
		if cached, ok := a.cache.Get(url); ok {
			payload, err := core.ObjectPayload(cached)
			if err == nil {
				return payload
			}
		}
	}

	text, err := a.generate(ctx, "url", URLPrompt(url))
	if err != nil {
		a.logger.Warn("URL analysis failed", zap.String("url", url), zap.Error(err))
		payload, _ := core.ObjectPayload(core.URLAnalysis{
			SuspiciousLikelihood: core.UnknownLikelihood,
			SuspiciousElements:   []string{},
			Explanation:          a.providerError(err),
		})
		return payload
	}

	if a.cache != nil {
		var verdict core.URLAnalysis
		if json.Unmarshal([]byte(text), &verdict) == nil && verdict.SuspiciousLikelihood != "" {
			a.cache.Set(url, verdict)
		}
	}

	return core.TextPayload(text)
}

// generate calls the model under the per-call timeout and returns its cleaned output
func (a *Analyzer) generate(ctx context.Context, kind, prompt string) (string, error) {
	if a.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.CallTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := a.llm.Generate(ctx, prompt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordLLMCall(a.llm.Provider(), kind, status, time.Since(start))
	if err != nil {
		return "", err
	}

	return CleanModelOutput(text), nil
}

func (a *Analyzer) providerError(err error) string {
	return fmt.Sprintf("Error with %s API: %v", a.llm.Provider(), err)
}

// CleanModelOutput strips markdown fences and any chatter around the JSON object a model
// was asked to produce
func CleanModelOutput(text string) string {
	text = utils.StripCodeFence(text)
	if strings.HasPrefix(text, "{") {
		return text
	}
	return strings.TrimSpace(utils.ExtractJSONObject(text))
}
