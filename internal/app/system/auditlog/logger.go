// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/strataroute/internal/app/store/audit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Config controls logging for proxy configuration changes.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Config string
	// System controls logging for console-local events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	System string
}

// Logger provides convenience methods for recording audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.Target != "" {
		fields = append(fields, zap.String("target", event.Target))
	}
	if event.TargetName != "" {
		fields = append(fields, zap.String("target_name", event.TargetName))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryConfig:
		setting = l.config.Config
	case audit.CategorySystem:
		setting = l.config.System
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Proxy configuration events ---

// ConfigChange records an attempted change to a proxy object. eventType
// is one of the audit.EventProvider*/EventMapping*/EventKey* constants.
// err, when non-nil, marks the event failed and carries the reason.
func (l *Logger) ConfigChange(ctx context.Context, r *http.Request, eventType, target, targetName string, err error) {
	event := audit.Event{
		Category:   audit.CategoryConfig,
		EventType:  eventType,
		Target:     target,
		TargetName: targetName,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    err == nil,
	}
	if err != nil {
		event.FailureReason = err.Error()
	}
	l.Log(ctx, event)
}

// --- Console events ---

// SettingsUpdated records a console settings save.
func (l *Logger) SettingsUpdated(ctx context.Context, r *http.Request, changed map[string]string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategorySystem,
		EventType: audit.EventSettingsUpdated,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   changed,
	})
}

// PresetSaved records a saved dashboard range preset.
func (l *Logger) PresetSaved(ctx context.Context, r *http.Request, id, name string) {
	l.Log(ctx, audit.Event{
		Category:   audit.CategorySystem,
		EventType:  audit.EventPresetSaved,
		Target:     id,
		TargetName: name,
		IP:         getClientIP(r),
		UserAgent:  r.UserAgent(),
		Success:    true,
	})
}

// PresetDeleted records removal of a dashboard range preset.
func (l *Logger) PresetDeleted(ctx context.Context, r *http.Request, id string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategorySystem,
		EventType: audit.EventPresetDeleted,
		Target:    id,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// AuditPruned records a retention sweep. Called by the background job,
// so there is no request context.
func (l *Logger) AuditPruned(ctx context.Context, deleted int64) {
	if deleted == 0 {
		return
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategorySystem,
		EventType: audit.EventAuditPruned,
		Success:   true,
		Details:   map[string]string{"deleted": strconv.FormatInt(deleted, 10)},
	})
}
