// Package wire provides dependency injection for the chimera application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/chimera/internal/adapters/cli"
	"github.com/example/chimera/internal/adapters/sqldb"
	"github.com/example/chimera/internal/app"
	"github.com/example/chimera/internal/config"
	"github.com/example/chimera/internal/core/catalog"
	"github.com/example/chimera/internal/db"
	"github.com/example/chimera/internal/ports/primary"
	"github.com/example/chimera/internal/ports/secondary"
)

var (
	cfg    *config.Config
	logger = zap.NewNop()

	store            secondary.Store
	operationService primary.OperationService
	initErr          error
	once             sync.Once
)

var errNotConfigured = errors.New("wire: Configure was not called")

// Configure sets the settings and logger used when services are first built.
// It must be called before any service accessor.
func Configure(c *config.Config, l *zap.Logger) {
	cfg = c
	if l != nil {
		logger = l
	}
}

// OperationService returns the singleton OperationService instance.
// The first call opens the database connection.
func OperationService() (primary.OperationService, error) {
	once.Do(initServices)
	return operationService, initErr
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	if cfg == nil {
		initErr = errNotConfigured
		return
	}

	ctx := context.Background()
	database, err := db.Open(cfg)
	if err != nil {
		initErr = err
		return
	}

	// Storage adapter (secondary port) with injected DB
	store = sqldb.NewStore(database)
	if err := store.Ping(ctx); err != nil {
		_ = store.Close()
		store = nil
		initErr = fmt.Errorf("failed to connect to %s: %w", cfg.Target(), err)
		return
	}

	// Dispatcher (primary port implementation)
	operationService = app.NewDispatcher(catalog.Default(), store, logger)
	logger.Debug("services initialized", zap.String("target", cfg.Target()))
}

// OperationAdapterWithOutput returns a new OperationAdapter writing to the given output.
// This variant allows testing or alternate output destinations.
func OperationAdapterWithOutput(out io.Writer) (*cliadapter.OperationAdapter, error) {
	svc, err := OperationService()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewOperationAdapter(svc, out), nil
}

// Close releases the database connection, if one was opened.
func Close() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// CatalogAdapterWithOutput returns an adapter that can list the catalog
// without opening a database connection.
func CatalogAdapterWithOutput(out io.Writer) *cliadapter.OperationAdapter {
	return cliadapter.NewOperationAdapter(app.NewDispatcher(catalog.Default(), nil, logger), out)
}
