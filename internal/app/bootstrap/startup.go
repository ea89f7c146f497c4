// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/strataroute/internal/app/resources"
	"github.com/dalemusser/strataroute/internal/app/store/audit"
	"github.com/dalemusser/strataroute/internal/app/system/auditlog"
	"github.com/dalemusser/strataroute/internal/app/system/tasks"
	"github.com/dalemusser/strataroute/internal/app/system/timeouts"
	"github.com/dalemusser/strataroute/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built and requests are served.
//
// Returning a non-nil error aborts startup and prevents the server from
// starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	// Fail fast on a broken embedded timezone list rather than on the
	// first settings page load.
	if err := timezones.Load(); err != nil {
		logger.Error("embedded timezone list failed to load", zap.Error(err))
		return err
	}

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("handler timeouts overridden from environment", zap.Int("count", n))
	}

	startTaskRunner(appCfg, deps, logger)

	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	auditLogger := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Config: appCfg.AuditLogConfig,
		System: appCfg.AuditLogSystem,
	})

	taskRunner = tasks.New(logger)
	taskRunner.Register(tasks.AuditPruneJob(deps.MongoDatabase, auditLogger, logger))
	taskRunner.Register(tasks.UpstreamHealthJob(deps.Upstream, logger))
	taskRunner.Start()
}
