// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/strataroute/internal/app/store/audit"
	settingsstore "github.com/dalemusser/strataroute/internal/app/store/settings"
	"github.com/dalemusser/strataroute/internal/app/system/auditlog"
)

// UpstreamPinger is satisfied by the management API client.
type UpstreamPinger interface {
	Ping(ctx context.Context) error
}

// AuditPruneJob creates a job that deletes audit events older than the
// retention configured in console settings. The retention is re-read on
// every sweep so settings changes take effect without a restart.
func AuditPruneJob(db *mongo.Database, auditLog *auditlog.Logger, logger *zap.Logger) Job {
	return Job{
		Name:     "audit-prune",
		Interval: 6 * time.Hour,
		Run: func(ctx context.Context) error {
			settings, err := settingsstore.New(db).Get(ctx)
			if err != nil {
				return err
			}

			cutoff := time.Now().Add(-settings.AuditRetention)
			deleted, err := audit.New(db).Prune(ctx, cutoff)
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("pruned old audit events",
					zap.Int64("deleted", deleted),
					zap.Time("cutoff", cutoff))
				auditLog.AuditPruned(ctx, deleted)
			}
			return nil
		},
	}
}

// UpstreamHealthJob creates a job that pings the proxy's management API
// so the health gauge and status page reflect reachability even when
// nobody is watching the dashboard.
func UpstreamHealthJob(client UpstreamPinger, logger *zap.Logger) Job {
	return Job{
		Name:     "upstream-health",
		Interval: 30 * time.Second,
		Run: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := client.Ping(pingCtx); err != nil {
				logger.Warn("upstream proxy unreachable", zap.Error(err))
				// Reachability is reported through the gauge; a flapping
				// upstream should not spam the job error log.
				return nil
			}
			return nil
		},
	}
}
