package factory

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mikey/phishguard/internal/adapters/store"
	"github.com/mikey/phishguard/internal/config"
	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// Store is a preference store that owns a connection or file handle
type Store interface {
	core.PreferenceStore
	io.Closer
}

// StoreFactory creates preference stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePreferenceStore creates the store selected by store.type
func (f *StoreFactory) CreatePreferenceStore(ctx context.Context) (Store, error) {
	storeCfg := f.cfg.GetStore()
	storeType := strings.ToLower(storeCfg.Type)
	f.logger.Info("Creating preference store", zap.String("type", storeType))

	switch storeType {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return checked(store.NewSQLiteStore(storeCfg.SQLitePath, f.logger))
	case "mysql":
		return checked(store.NewMySQLStore(ctx, storeCfg.MySQLDSN, f.logger))
	case "redis":
		return checked(store.NewRedisStore(ctx, storeCfg.RedisURL, storeCfg.RedisPrefix))
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}

// checked keeps a failed constructor from leaking a typed nil into the Store interface
func checked[S Store](s S, err error) (Store, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
