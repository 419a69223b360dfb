package di

import (
	"context"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phishguard/internal/adapters/backend"
	"github.com/mikey/phishguard/internal/adapters/cache"
	"github.com/mikey/phishguard/internal/analyzer"
	"github.com/mikey/phishguard/internal/api"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/extractor"
	"github.com/mikey/phishguard/internal/factory"
	"github.com/mikey/phishguard/internal/logging"
	"github.com/mikey/phishguard/internal/ports"
	"github.com/mikey/phishguard/internal/render"
	"github.com/mikey/phishguard/internal/utils"
	"github.com/mikey/phishguard/internal/web"
)

// BuildWebContainer creates the dependency injection container of the companion web UI
func BuildWebContainer(configFile string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.Load(configFile)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideScanService(container); err != nil {
		return nil, err
	}

	// Register renderer and UI handler
	if err := container.Provide(render.NewHTMLRenderer); err != nil {
		return nil, err
	}
	if err := container.Provide(func(svc *core.ScanService, renderer *render.HTMLRenderer, logger *zap.Logger) (*web.Handler, error) {
		return web.NewHandler(svc, renderer, logger)
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(cfg *config.Config, h *web.Handler, logger *zap.Logger) ports.Server {
		serverCfg := cfg.GetServer()
		return api.NewServer(serverCfg.ListenAddress, h.Router(), serverCfg.ReadTimeout, serverCfg.WriteTimeout, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// BuildBackendContainer creates the dependency injection container of the reference analysis backend
func BuildBackendContainer(configFile string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.Load(configFile)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewExtractorFactory); err != nil {
		return nil, err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (ports.LLMClient, error) {
		return f.CreateLLMClient(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register URL verdict cache
	if err := container.Provide(func(f *factory.CacheFactory) *cache.URLCache {
		return f.CreateURLCache()
	}); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.ExtractorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register analyzer
	if err := container.Provide(func(
		cfg *config.Config,
		llm ports.LLMClient,
		urlCache *cache.URLCache,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
	) *analyzer.Analyzer {
		serverCfg := cfg.GetBackendServer()
		return analyzer.NewAnalyzer(llm, urlCache, textProcessor, logger, analyzer.Options{
			MaxBodySize:    serverCfg.MaxBodySize,
			URLConcurrency: serverCfg.URLConcurrency,
			CallTimeout:    cfg.GetLLM().Timeout,
		})
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(cfg *config.Config, a *analyzer.Analyzer, logger *zap.Logger) ports.Server {
		serverCfg := cfg.GetBackendServer()
		router := api.NewBackendRouter(a, serverCfg.AllowedOrigins, logger)
		// model calls run for the whole request, so the write timeout follows the LLM timeout
		writeTimeout := 2*cfg.GetLLM().Timeout + 10*time.Second
		return api.NewServer(serverCfg.ListenAddress, router, 15*time.Second, writeTimeout, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideScanService registers the client side pipeline: extractor, analysis client,
// preference store and the scan service on top of them. It expects a config and a logger.
func provideScanService(container *dig.Container) error {
	// Register factories
	if err := container.Provide(factory.NewExtractorFactory); err != nil {
		return err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return err
	}

	// Register text processor and extractor
	if err := container.Provide(func(f *factory.ExtractorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ExtractorFactory, tp *utils.TextProcessor) *extractor.Chain {
		return f.CreateExtractor(tp)
	}); err != nil {
		return err
	}

	// Register analysis client
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *backend.Client {
		backendCfg := cfg.GetBackend()
		return backend.NewClient(backendCfg.URL, backendCfg.Timeout, logger)
	}); err != nil {
		return err
	}

	// Register preference store
	if err := container.Provide(func(f *factory.StoreFactory) (factory.Store, error) {
		return f.CreatePreferenceStore(context.Background())
	}); err != nil {
		return err
	}

	// Register scan service
	return container.Provide(func(
		chain *extractor.Chain,
		client *backend.Client,
		store factory.Store,
		logger *zap.Logger,
	) *core.ScanService {
		return core.NewScanService(chain, client, store, logger)
	})
}
