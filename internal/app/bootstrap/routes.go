// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	apikeysfeature "github.com/dalemusser/strataroute/internal/app/features/apikeys"
	auditlogfeature "github.com/dalemusser/strataroute/internal/app/features/auditlog"
	dashboardfeature "github.com/dalemusser/strataroute/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/strataroute/internal/app/features/errors"
	healthfeature "github.com/dalemusser/strataroute/internal/app/features/health"
	homefeature "github.com/dalemusser/strataroute/internal/app/features/home"
	mappingsfeature "github.com/dalemusser/strataroute/internal/app/features/mappings"
	providersfeature "github.com/dalemusser/strataroute/internal/app/features/providers"
	requestlogsfeature "github.com/dalemusser/strataroute/internal/app/features/requestlogs"
	settingsfeature "github.com/dalemusser/strataroute/internal/app/features/settings"
	statusfeature "github.com/dalemusser/strataroute/internal/app/features/status"
	appresources "github.com/dalemusser/strataroute/internal/app/resources"
	"github.com/dalemusser/strataroute/internal/app/store/audit"
	"github.com/dalemusser/strataroute/internal/app/system/auditlog"
	"github.com/dalemusser/strataroute/internal/app/system/metrics"
	"github.com/dalemusser/strataroute/internal/app/system/uiprefs"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. The console is browser-only:
// every route is an HTML page or an HTMX/JSON fragment for one, plus
// health and metrics endpoints for operators.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Browser preferences: theme choice and flash messages.
	prefs := uiprefs.New([]byte(appCfg.SessionKey), secure, logger)

	// Initialize viewdata so BaseVM can load settings and preferences.
	viewdata.Init(deps.MongoDatabase, prefs)

	// Create error logger and error pages for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)
	errPages := errorsfeature.NewHandler()

	// Create audit store and logger for tracking configuration changes.
	auditStore := audit.New(deps.MongoDatabase)
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Config: appCfg.AuditLogConfig,
		System: appCfg.AuditLogSystem,
	})

	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// CSRF protection. Every mutating route in the console is a browser
	// form post, so no path is exempted. The cookie name is prefixed to
	// avoid collisions with other services on the same domain.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("strataroute_csrf"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	r.Use(csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...))

	// Health check endpoints for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Upstream, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Prometheus metrics.
	r.Handle("/metrics", metrics.Handler())

	// Embedded static assets (CSS, JS, bundled into the binary).
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Landing page.
	homeHandler := homefeature.NewHandler()
	r.Get("/", homeHandler.ServeIndex)

	// Dashboard: usage timeline, summary stats, and range presets.
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, deps.Upstream, errLog, logger, auditLogger, prefs)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	// Proxy configuration: providers, model mappings, API keys.
	providersHandler := providersfeature.NewHandler(deps.Upstream, errLog, errPages, logger, auditLogger, prefs)
	r.Mount("/providers", providersfeature.Routes(providersHandler))

	mappingsHandler := mappingsfeature.NewHandler(deps.Upstream, errLog, errPages, logger, auditLogger, prefs)
	r.Mount("/mappings", mappingsfeature.Routes(mappingsHandler))

	apikeysHandler := apikeysfeature.NewHandler(deps.Upstream, errLog, errPages, logger, auditLogger, prefs)
	r.Mount("/api-keys", apikeysfeature.Routes(apikeysHandler))

	// Request logs with filtering and CSV export.
	requestlogsHandler := requestlogsfeature.NewHandler(deps.MongoDatabase, deps.Upstream, errLog, errPages, logger)
	r.Mount("/request-logs", requestlogsfeature.Routes(requestlogsHandler))

	// Audit log viewer.
	auditLogHandler := auditlogfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/audit-log", auditlogfeature.Routes(auditLogHandler))

	// Console settings, including the theme toggle posted from the nav.
	settingsHandler := settingsfeature.NewHandler(deps.MongoDatabase, errLog, logger, auditLogger, prefs)
	r.Mount("/settings", settingsfeature.Routes(settingsHandler))

	// System status page.
	statusHandler := statusfeature.NewHandler(deps.MongoClient, deps.Upstream, coreCfg, statusfeature.AppConfig{
		MongoURI:              appCfg.MongoURI,
		MongoDatabase:         appCfg.MongoDatabase,
		MongoMaxPoolSize:      appCfg.MongoMaxPoolSize,
		MongoMinPoolSize:      appCfg.MongoMinPoolSize,
		UpstreamBaseURL:       appCfg.UpstreamBaseURL,
		UpstreamManagementKey: appCfg.UpstreamManagementKey,
		UpstreamTimeout:       appCfg.UpstreamTimeout,
		SessionKey:            appCfg.SessionKey,
		CSRFKey:               appCfg.CSRFKey,
		AuditLogConfig:        appCfg.AuditLogConfig,
		AuditLogSystem:        appCfg.AuditLogSystem,
	}, logger)
	r.Mount("/status", statusfeature.Routes(statusHandler))

	// 404 catch-all for unmatched routes.
	r.NotFound(errPages.NotFound)

	return r, nil
}
