package factory

import (
	"github.com/mikey/phishguard/internal/adapters/cache"
	"github.com/mikey/phishguard/internal/config"
	"go.uber.org/zap"
)

// CacheFactory creates the URL verdict cache of the analysis backend
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateURLCache creates a URL cache from backend_server.url_cache_ttl and
// backend_server.url_cache_cleanup
func (f *CacheFactory) CreateURLCache() *cache.URLCache {
	serverCfg := f.cfg.GetBackendServer()
	return cache.NewURLCache(f.logger, serverCfg.URLCacheTTL, serverCfg.URLCacheCleanup)
}
