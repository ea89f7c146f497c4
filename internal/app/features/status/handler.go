// internal/app/features/status/handler.go
package status

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/dalemusser/strataroute/internal/app/system/timeouts"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/strataroute/internal/app/upstream"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

var startTime = time.Now()

// Handler holds dependencies for the status page.
type Handler struct {
	Client   *mongo.Client
	Upstream *upstream.Client
	Log      *zap.Logger
	CoreCfg  *config.CoreConfig
	AppCfg   AppConfig
}

// AppConfig mirrors the bootstrap app configuration for status display.
// Secrets are masked before rendering.
type AppConfig struct {
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	UpstreamBaseURL       string
	UpstreamManagementKey string
	UpstreamTimeout       time.Duration

	SessionKey string
	CSRFKey    string

	AuditLogConfig string
	AuditLogSystem string
}

// NewHandler creates a new status Handler.
func NewHandler(client *mongo.Client, upstreamClient *upstream.Client, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) *Handler {
	return &Handler{
		Client:   client,
		Upstream: upstreamClient,
		CoreCfg:  coreCfg,
		AppCfg:   appCfg,
		Log:      logger,
	}
}

// ConfigItem represents a single configuration variable for display.
type ConfigItem struct {
	Name  string
	Value string
}

// ConfigGroup represents a logical group of configuration items.
type ConfigGroup struct {
	Name  string
	Items []ConfigItem
}

// statusVM is the view model for the status page.
type statusVM struct {
	viewdata.BaseVM

	// Routing proxy
	UpstreamBaseURL string
	UpstreamOK      bool
	UpstreamError   string
	UpstreamPingMS  int64

	// Database
	DBConnected bool
	DBError     string
	DBPingMS    int64
	DBVersion   string

	// Process
	GoVersion    string
	Uptime       string
	NumGoroutine int
	MemAlloc     string

	ConfigGroups []ConfigGroup
}

// Serve handles GET /status.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	vm := statusVM{
		BaseVM:          viewdata.NewBaseVM(w, r, "System Status", "/"),
		UpstreamBaseURL: h.AppCfg.UpstreamBaseURL,
		GoVersion:       runtime.Version(),
		Uptime:          formatDuration(time.Since(startTime)),
		NumGoroutine:    runtime.NumGoroutine(),
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	vm.MemAlloc = formatBytes(m.Alloc)

	if h.Upstream != nil {
		pingStart := time.Now()
		if err := h.Upstream.Ping(ctx); err != nil {
			vm.UpstreamError = err.Error()
			h.Log.Warn("status page: proxy ping failed", zap.Error(err))
		} else {
			vm.UpstreamOK = true
			vm.UpstreamPingMS = time.Since(pingStart).Milliseconds()
		}
	}

	if h.Client != nil {
		pingStart := time.Now()
		if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
			vm.DBError = err.Error()
			h.Log.Warn("status page: database ping failed", zap.Error(err))
		} else {
			vm.DBConnected = true
			vm.DBPingMS = time.Since(pingStart).Milliseconds()

			var result bson.M
			if err := h.Client.Database("admin").RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Decode(&result); err == nil {
				if version, ok := result["version"].(string); ok {
					vm.DBVersion = version
				}
			}
		}
	}

	vm.ConfigGroups = h.buildConfigGroups()

	templates.Render(w, r, "status/index", vm)
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return formatPlural(days, "day") + " " + formatPlural(hours, "hour")
	}
	if hours > 0 {
		return formatPlural(hours, "hour") + " " + formatPlural(minutes, "min")
	}
	return formatPlural(minutes, "min")
}

func formatPlural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// formatBytes formats bytes in a human-readable way.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// mask hides all but the edges of a secret.
func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

// buildConfigGroups creates organized groups of config items for display.
func (h *Handler) buildConfigGroups() []ConfigGroup {
	boolStr := func(b bool) string {
		if b {
			return "true"
		}
		return "false"
	}

	groups := []ConfigGroup{}

	if h.CoreCfg != nil {
		groups = append(groups, ConfigGroup{
			Name: "Environment",
			Items: []ConfigItem{
				{Name: "env", Value: h.CoreCfg.Env},
				{Name: "log_level", Value: h.CoreCfg.LogLevel},
			},
		})
		groups = append(groups, ConfigGroup{
			Name: "HTTP Server",
			Items: []ConfigItem{
				{Name: "http_port", Value: fmt.Sprintf("%d", h.CoreCfg.HTTP.HTTPPort)},
				{Name: "https_port", Value: fmt.Sprintf("%d", h.CoreCfg.HTTP.HTTPSPort)},
				{Name: "use_https", Value: boolStr(h.CoreCfg.HTTP.UseHTTPS)},
				{Name: "read_timeout", Value: h.CoreCfg.HTTP.ReadTimeout.String()},
				{Name: "write_timeout", Value: h.CoreCfg.HTTP.WriteTimeout.String()},
				{Name: "idle_timeout", Value: h.CoreCfg.HTTP.IdleTimeout.String()},
				{Name: "shutdown_timeout", Value: h.CoreCfg.HTTP.ShutdownTimeout.String()},
			},
		})
	}

	groups = append(groups, ConfigGroup{
		Name: "Routing Proxy",
		Items: []ConfigItem{
			{Name: "upstream_base_url", Value: h.AppCfg.UpstreamBaseURL},
			{Name: "upstream_management_key", Value: mask(h.AppCfg.UpstreamManagementKey)},
			{Name: "upstream_timeout", Value: h.AppCfg.UpstreamTimeout.String()},
		},
	})

	groups = append(groups, ConfigGroup{
		Name: "Database",
		Items: []ConfigItem{
			{Name: "mongo_uri", Value: mask(h.AppCfg.MongoURI)},
			{Name: "mongo_database", Value: h.AppCfg.MongoDatabase},
			{Name: "mongo_max_pool_size", Value: fmt.Sprintf("%d", h.AppCfg.MongoMaxPoolSize)},
			{Name: "mongo_min_pool_size", Value: fmt.Sprintf("%d", h.AppCfg.MongoMinPoolSize)},
		},
	})

	groups = append(groups, ConfigGroup{
		Name: "Security",
		Items: []ConfigItem{
			{Name: "session_key", Value: mask(h.AppCfg.SessionKey)},
			{Name: "csrf_key", Value: mask(h.AppCfg.CSRFKey)},
		},
	})

	groups = append(groups, ConfigGroup{
		Name: "Audit Logging",
		Items: []ConfigItem{
			{Name: "audit_log_config", Value: h.AppCfg.AuditLogConfig},
			{Name: "audit_log_system", Value: h.AppCfg.AuditLogSystem},
		},
	})

	tc := timeouts.Current()
	groups = append(groups, ConfigGroup{
		Name: "Handler Timeouts",
		Items: []ConfigItem{
			{Name: "timeout_ping", Value: tc.Ping.String()},
			{Name: "timeout_short", Value: tc.Short.String()},
			{Name: "timeout_medium", Value: tc.Medium.String()},
			{Name: "timeout_long", Value: tc.Long.String()},
			{Name: "timeout_export", Value: tc.Export.String()},
		},
	})

	return groups
}
