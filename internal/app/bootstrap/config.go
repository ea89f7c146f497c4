// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables, so the upstream
// base URL is read from STRATAROUTE_UPSTREAM_BASE_URL and so on.
const EnvVarPrefix = "STRATAROUTE"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for config
// files, STRATAROUTE_* environment variables, and command-line flags.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "strataroute", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Routing proxy management API
	{Name: "upstream_base_url", Default: "http://localhost:8080", Desc: "Base URL of the routing proxy"},
	{Name: "upstream_management_key", Default: "", Desc: "Bearer token for the proxy's management API"},
	{Name: "upstream_timeout", Default: "15s", Desc: "Per-request timeout for management API calls"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Preference cookie signing key (must be strong in production)"},
	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// Audit logging settings
	{Name: "audit_log_config", Default: "all", Desc: "Proxy config change logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_system", Default: "db", Desc: "Console event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		UpstreamBaseURL:       appValues.String("upstream_base_url"),
		UpstreamManagementKey: appValues.String("upstream_management_key"),
		UpstreamTimeout:       appValues.Duration("upstream_timeout", 15*time.Second),

		SessionKey: appValues.String("session_key"),
		CSRFKey:    appValues.String("csrf_key"),

		AuditLogConfig: appValues.String("audit_log_config"),
		AuditLogSystem: appValues.String("audit_log_system"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	u, err := url.Parse(appCfg.UpstreamBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("upstream_base_url must be an http or https URL, got %q", appCfg.UpstreamBaseURL)
	}

	if appCfg.UpstreamManagementKey == "" && coreCfg.Env == "prod" {
		return fmt.Errorf("upstream_management_key is required in production")
	}

	return nil
}
