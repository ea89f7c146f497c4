// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/strataroute/internal/app/system/indexes"
	"github.com/dalemusser/strataroute/internal/app/upstream"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB and builds the management API client.
//
// WAFFLE calls this after configuration is loaded but before
// EnsureSchema and Startup. The upstream client holds no connection
// state beyond an http.Client, but it validates the base URL here so a
// misconfigured proxy endpoint fails startup instead of the first page
// load.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	db := client.Database(appCfg.MongoDatabase)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	upstreamClient, err := upstream.New(upstream.Config{
		BaseURL:       appCfg.UpstreamBaseURL,
		ManagementKey: appCfg.UpstreamManagementKey,
		Timeout:       appCfg.UpstreamTimeout,
		Logger:        logger,
	})
	if err != nil {
		return DBDeps{}, fmt.Errorf("failed to build management API client: %w", err)
	}

	logger.Info("management API client ready",
		zap.String("base_url", appCfg.UpstreamBaseURL),
		zap.Duration("timeout", appCfg.UpstreamTimeout),
	)

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Upstream:      upstreamClient,
	}, nil
}

// EnsureSchema creates the indexes the console's collections need.
//
// This runs after ConnectDB succeeds but before Startup and before the
// HTTP handler is built. The context has a timeout based on
// coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}
	return nil
}
