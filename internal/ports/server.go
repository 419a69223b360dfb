package ports

import "context"

// Server defines the interface for the long running HTTP services
type Server interface {
	// Start serves until the server is stopped; it returns nil after a clean shutdown
	Start() error

	// Stop gracefully shuts the server down
	Stop(ctx context.Context) error
}
