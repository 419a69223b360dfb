// Package cache holds the reference backend's URL verdict cache.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/metrics"
	"go.uber.org/zap"
)

type entry struct {
	analysis  core.URLAnalysis
	expiresAt time.Time
}

// URLCache is an in-memory TTL cache of URL verdicts keyed by normalized URL
type URLCache struct {
	entries     map[string]entry
	mu          sync.RWMutex
	logger      *zap.Logger
	ttl         time.Duration
	cleanupFreq time.Duration
	now         func() time.Time
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewURLCache creates a URL cache and starts its background cleanup
func NewURLCache(logger *zap.Logger, ttl, cleanupFreq time.Duration) *URLCache {
	c := &URLCache{
		entries:     make(map[string]entry),
		logger:      logger,
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		now:         time.Now,
		stopCh:      make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go c.startCleanupTask()
	}

	return c
}

// Get returns the cached verdict for a URL
func (c *URLCache) Get(url string) (core.URLAnalysis, bool) {
	c.mu.RLock()
	e, ok := c.entries[cacheKey(url)]
	c.mu.RUnlock()

	hit := ok && c.now().Before(e.expiresAt)
	metrics.RecordURLCacheLookup(hit)
	if !hit {
		return core.URLAnalysis{}, false
	}
	return e.analysis, true
}

// Set stores a verdict for the cache's TTL. Fallback verdicts are not cached so a
// transient provider failure is retried on the next scan.
func (c *URLCache) Set(url string, analysis core.URLAnalysis) {
	if c.ttl <= 0 || analysis.SuspiciousLikelihood == core.UnknownLikelihood {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(url)] = entry{
		analysis:  analysis,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len returns the number of stored entries, expired ones included
func (c *URLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes expired entries
func (c *URLCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiredCount := 0

	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			expiredCount++
		}
	}

	c.logger.Debug("Cleaned up expired URL verdicts", zap.Int("expired_count", expiredCount))
}

func (c *URLCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Cleanup()
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task
func (c *URLCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func cacheKey(url string) string {
	return strings.TrimRight(strings.TrimSpace(url), "/")
}
