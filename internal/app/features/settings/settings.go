// internal/app/features/settings/settings.go
package settings

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/strataroute/internal/app/features/errors"
	settingsstore "github.com/dalemusser/strataroute/internal/app/store/settings"
	"github.com/dalemusser/strataroute/internal/app/system/auditlog"
	"github.com/dalemusser/strataroute/internal/app/system/formutil"
	"github.com/dalemusser/strataroute/internal/app/system/htmlsanitize"
	"github.com/dalemusser/strataroute/internal/app/system/timeouts"
	"github.com/dalemusser/strataroute/internal/app/system/timezones"
	"github.com/dalemusser/strataroute/internal/app/system/uiprefs"
	"github.com/dalemusser/strataroute/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxFooterLength caps the footer HTML field (10KB).
const MaxFooterLength = 10000

// Handler serves the console settings page. Settings are stored locally;
// nothing here touches the routing proxy.
type Handler struct {
	Store  *settingsstore.Store
	ErrLog *errorsfeature.ErrorLogger
	Log    *zap.Logger
	Audit  *auditlog.Logger
	Prefs  *uiprefs.Manager
}

// NewHandler creates a new settings handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger, auditLog *auditlog.Logger, prefs *uiprefs.Manager) *Handler {
	return &Handler{
		Store:  settingsstore.New(db),
		ErrLog: errLog,
		Log:    logger,
		Audit:  auditLog,
		Prefs:  prefs,
	}
}

// FormVM is the view model for the settings form.
type FormVM struct {
	formutil.Base

	SiteName           string
	FooterHTML         string
	ChartBins          int
	DisplayTimezone    string
	LogPageSize        int
	AuditRetentionDays int

	MinChartBins int
	MaxChartBins int
	ZoneGroups   []timezones.ZoneGroup
}

// ServeForm handles GET /settings - show the settings form.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	current, err := h.Store.Get(ctx)
	if err != nil {
		h.ErrLog.Log(r, "failed to load settings", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "settings/form", h.formVM(w, r, *current))
}

// HandleSave handles POST /settings - save the settings.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	in, msg := settingsInput(r)
	if msg != "" {
		data := h.formVM(w, r, in)
		data.SetError(msg)
		templates.Render(w, r, "settings/form", data)
		return
	}

	current, err := h.Store.Get(ctx)
	if err != nil {
		h.ErrLog.Log(r, "failed to load settings", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.Store.Save(ctx, in); err != nil {
		h.ErrLog.Log(r, "failed to save settings", err)
		data := h.formVM(w, r, in)
		data.SetError("Failed to save settings")
		templates.Render(w, r, "settings/form", data)
		return
	}

	changed := diffSettings(*current, in)
	if len(changed) > 0 {
		h.Audit.SettingsUpdated(ctx, r, changed)
		h.Log.Info("console settings updated", zap.Int("changed_fields", len(changed)))
	}

	h.Prefs.Success(w, r, "Settings saved")
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// HandleTheme handles POST /settings/theme - toggle the browser theme.
// The form lives in the nav bar, so it redirects back to the page the
// toggle was clicked on.
func (h *Handler) HandleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	if err := h.Prefs.SetTheme(w, r, r.FormValue("theme")); err != nil {
		h.ErrLog.Log(r, "failed to store theme", err)
	}

	dest := r.FormValue("return_to")
	if !strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "//") {
		dest = "/"
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) formVM(w http.ResponseWriter, r *http.Request, s models.ConsoleSettings) FormVM {
	groups, err := timezones.Groups()
	if err != nil {
		h.Log.Warn("timezone list unavailable", zap.Error(err))
	}

	return FormVM{
		Base:               formutil.NewBase(w, r, "Console Settings", "/"),
		SiteName:           s.SiteName,
		FooterHTML:         s.FooterHTML,
		ChartBins:          s.ChartBins,
		DisplayTimezone:    s.DisplayTimezone,
		LogPageSize:        s.LogPageSize,
		AuditRetentionDays: int(s.AuditRetention / (24 * time.Hour)),
		MinChartBins:       models.MinChartBins,
		MaxChartBins:       models.MaxChartBins,
		ZoneGroups:         groups,
	}
}

// settingsInput parses the form into a settings value, returning the
// first validation problem as a message. The footer HTML is sanitized
// here so raw markup never reaches the store.
func settingsInput(r *http.Request) (models.ConsoleSettings, string) {
	s := models.ConsoleSettings{
		SiteName:        strings.TrimSpace(r.FormValue("site_name")),
		FooterHTML:      r.FormValue("footer_html"),
		DisplayTimezone: r.FormValue("display_timezone"),
	}

	if s.SiteName == "" {
		return s, "Site name is required"
	}
	if len(s.FooterHTML) > MaxFooterLength {
		return s, "Footer HTML is too long. Maximum length is 10,000 characters."
	}
	s.FooterHTML = htmlsanitize.Sanitize(s.FooterHTML)

	bins, err := strconv.Atoi(r.FormValue("chart_bins"))
	if err != nil || bins < models.MinChartBins || bins > models.MaxChartBins {
		return s, fmt.Sprintf("Chart bins must be between %d and %d", models.MinChartBins, models.MaxChartBins)
	}
	s.ChartBins = bins

	if !timezones.Valid(s.DisplayTimezone) {
		return s, "Choose a timezone from the list"
	}

	pageSize, err := strconv.Atoi(r.FormValue("log_page_size"))
	if err != nil || pageSize < 1 || pageSize > 500 {
		return s, "Log page size must be between 1 and 500"
	}
	s.LogPageSize = pageSize

	days, err := strconv.Atoi(r.FormValue("audit_retention_days"))
	if err != nil || days < 1 || days > 3650 {
		return s, "Audit retention must be between 1 and 3650 days"
	}
	s.AuditRetention = time.Duration(days) * 24 * time.Hour

	return s, ""
}

// diffSettings lists the fields that actually changed, old -> new, for
// the audit trail.
func diffSettings(old, next models.ConsoleSettings) map[string]string {
	changed := map[string]string{}
	if old.SiteName != next.SiteName {
		changed["site_name"] = next.SiteName
	}
	if old.FooterHTML != next.FooterHTML {
		changed["footer_html"] = "updated"
	}
	if old.ChartBins != next.ChartBins {
		changed["chart_bins"] = strconv.Itoa(next.ChartBins)
	}
	if old.DisplayTimezone != next.DisplayTimezone {
		changed["display_timezone"] = next.DisplayTimezone
	}
	if old.LogPageSize != next.LogPageSize {
		changed["log_page_size"] = strconv.Itoa(next.LogPageSize)
	}
	if old.AuditRetention != next.AuditRetention {
		changed["audit_retention_days"] = strconv.Itoa(int(next.AuditRetention / (24 * time.Hour)))
	}
	return changed
}
