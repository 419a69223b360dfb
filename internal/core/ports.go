package core

import (
	"context"
	"io"
)

// ContentExtractor produces the email text of a scan source
type ContentExtractor interface {
	// Extract returns the trimmed email text or ErrContentNotFound
	Extract(ctx context.Context, src Source) (string, error)
}

// AnalysisClient talks to the remote analysis backend
type AnalysisClient interface {
	// Analyze sends the email text for analysis
	Analyze(ctx context.Context, text string) (*AnalysisResponse, error)

	// Health checks backend reachability
	Health(ctx context.Context) error
}

// PreferenceStore persists small values across sessions
type PreferenceStore interface {
	// Load returns the value stored under key or ErrNotFound
	Load(ctx context.Context, key string) ([]byte, error)

	// Save stores a value under key, replacing any previous value
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error
}

// Renderer turns scan outcomes into a user-facing report
type Renderer interface {
	// Render writes the report for a normalized result
	Render(w io.Writer, result *NormalizedResult) error

	// RenderError writes the error display in place of a result
	RenderError(w io.Writer, err error) error
}
