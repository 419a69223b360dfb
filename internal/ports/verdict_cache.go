package ports

import "github.com/mikey/phishguard/internal/core"

// VerdictCache defines the interface for caching per-URL analysis results
type VerdictCache interface {
	// Get retrieves a cached verdict for a URL
	Get(url string) (core.URLAnalysis, bool)

	// Set stores a verdict for a URL
	Set(url string, analysis core.URLAnalysis)
}
