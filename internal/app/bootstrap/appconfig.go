// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to the console itself.
type AppConfig struct {
	// MongoDB connection configuration. Mongo holds only console-local
	// state: settings, range presets, and the audit trail.
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Routing proxy management API. All routing state (providers,
	// mappings, keys, logs, usage) lives behind this endpoint.
	UpstreamBaseURL       string        // e.g., http://localhost:8080
	UpstreamManagementKey string        // Bearer token for /v0/management
	UpstreamTimeout       time.Duration // per-request HTTP timeout (default: 15s)

	// Browser session configuration. The console has no user accounts;
	// the session cookie only carries the theme choice and flashes.
	SessionKey string // Secret key for signing the preference cookie

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Audit logging configuration.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	AuditLogConfig string // Proxy configuration changes (providers, mappings, keys)
	AuditLogSystem string // Console-local events (settings, presets, pruning)
}
