// internal/app/features/providers/handler.go
package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	errorsfeature "github.com/dalemusser/strataroute/internal/app/features/errors"
	"github.com/dalemusser/strataroute/internal/app/store/audit"
	"github.com/dalemusser/strataroute/internal/app/system/auditlog"
	"github.com/dalemusser/strataroute/internal/app/system/formutil"
	"github.com/dalemusser/strataroute/internal/app/system/timeouts"
	"github.com/dalemusser/strataroute/internal/app/system/uiprefs"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/strataroute/internal/app/upstream"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler handles provider management HTTP requests. Providers live in the
// routing proxy; every read and write goes through the upstream client.
type Handler struct {
	Upstream *upstream.Client
	ErrLog   *errorsfeature.ErrorLogger
	ErrPages *errorsfeature.Handler
	Log      *zap.Logger
	Audit    *auditlog.Logger
	Prefs    *uiprefs.Manager
}

// NewHandler creates a new providers handler.
func NewHandler(client *upstream.Client, errLog *errorsfeature.ErrorLogger, errPages *errorsfeature.Handler, logger *zap.Logger, auditLog *auditlog.Logger, prefs *uiprefs.Manager) *Handler {
	return &Handler{
		Upstream: client,
		ErrLog:   errLog,
		ErrPages: errPages,
		Log:      logger,
		Audit:    auditLog,
		Prefs:    prefs,
	}
}

// ServeList handles GET /providers - list all providers.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Upstream.ListProviders(ctx)
	if err != nil {
		h.ErrLog.Log(r, "failed to load providers", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	vms := make([]ProviderVM, len(list))
	for i, p := range list {
		vms[i] = toProviderVM(p)
	}

	data := ListVM{
		BaseVM:    viewdata.NewBaseVM(w, r, "Providers", "/"),
		Providers: vms,
	}
	templates.Render(w, r, "providers/list", data)
}

// ServeNew handles GET /providers/new - show create form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := FormVM{
		Base:    formutil.NewBase(w, r, "Add Provider", "/providers"),
		Enabled: true,
	}
	templates.Render(w, r, "providers/new", data)
}

// HandleCreate handles POST /providers - create a new provider.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	in := providerInput(r)
	data := FormVM{
		Base:    formutil.NewBase(w, r, "Add Provider", "/providers"),
		Name:    in.Name,
		Type:    in.Type,
		BaseURL: in.BaseURL,
		APIKey:  in.APIKey,
		Enabled: in.Enabled,
	}

	if msg := validateInput(in); msg != "" {
		data.SetError(msg)
		templates.Render(w, r, "providers/new", data)
		return
	}

	created, err := h.Upstream.CreateProvider(ctx, in)
	h.Audit.ConfigChange(ctx, r, audit.EventProviderCreated, created.ID, in.Name, err)
	if err != nil {
		if errors.Is(err, upstream.ErrConflict) {
			data.SetError("A provider with this name already exists")
			templates.Render(w, r, "providers/new", data)
			return
		}
		h.ErrLog.Log(r, "failed to create provider", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	h.Log.Info("provider created",
		zap.String("provider_id", created.ID),
		zap.String("name", created.Name))

	h.Prefs.Success(w, r, fmt.Sprintf("Provider %q created", created.Name))
	http.Redirect(w, r, "/providers/"+created.ID, http.StatusSeeOther)
}

// ServeDetail handles GET /providers/{id} - view provider details.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Upstream.GetProvider(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.renderFetchError(w, r, "failed to load provider", err)
		return
	}

	data := DetailVM{
		BaseVM:   viewdata.NewBaseVM(w, r, "Provider Details", "/providers"),
		Provider: toProviderVM(p),
	}
	templates.Render(w, r, "providers/detail", data)
}

// ServeEdit handles GET /providers/{id}/edit - show edit form.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	p, err := h.Upstream.GetProvider(ctx, id)
	if err != nil {
		h.renderFetchError(w, r, "failed to load provider", err)
		return
	}

	data := FormVM{
		Base:    formutil.NewBase(w, r, "Edit Provider", "/providers/"+id),
		ID:      p.ID,
		Name:    p.Name,
		Type:    p.Type,
		BaseURL: p.BaseURL,
		Enabled: p.Enabled,
		IsEdit:  true,
	}
	templates.Render(w, r, "providers/edit", data)
}

// HandleUpdate handles POST /providers/{id}/edit - update a provider.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	in := providerInput(r)
	data := FormVM{
		Base:    formutil.NewBase(w, r, "Edit Provider", "/providers/"+id),
		ID:      id,
		Name:    in.Name,
		Type:    in.Type,
		BaseURL: in.BaseURL,
		APIKey:  in.APIKey,
		Enabled: in.Enabled,
		IsEdit:  true,
	}

	if msg := validateInput(in); msg != "" {
		data.SetError(msg)
		templates.Render(w, r, "providers/edit", data)
		return
	}

	updated, err := h.Upstream.UpdateProvider(ctx, id, in)
	h.Audit.ConfigChange(ctx, r, audit.EventProviderUpdated, id, in.Name, err)
	if err != nil {
		switch {
		case errors.Is(err, upstream.ErrNotFound):
			h.ErrPages.NotFound(w, r)
		case errors.Is(err, upstream.ErrConflict):
			data.SetError("A provider with this name already exists")
			templates.Render(w, r, "providers/edit", data)
		default:
			h.ErrLog.Log(r, "failed to update provider", err)
			h.ErrPages.UpstreamDown(w, r)
		}
		return
	}

	h.Log.Info("provider updated",
		zap.String("provider_id", id),
		zap.String("name", updated.Name))

	h.Prefs.Success(w, r, fmt.Sprintf("Provider %q updated", updated.Name))
	http.Redirect(w, r, "/providers/"+id, http.StatusSeeOther)
}

// HandleEnable handles POST /providers/{id}/enable.
func (h *Handler) HandleEnable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

// HandleDisable handles POST /providers/{id}/disable.
func (h *Handler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *Handler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	err := h.Upstream.SetProviderEnabled(ctx, id, enabled)

	eventType := audit.EventProviderEnabled
	verb := "enabled"
	if !enabled {
		eventType = audit.EventProviderDisabled
		verb = "disabled"
	}
	h.Audit.ConfigChange(ctx, r, eventType, id, "", err)

	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			h.ErrPages.NotFound(w, r)
			return
		}
		h.ErrLog.Log(r, "failed to toggle provider", err)
		h.Prefs.Error(w, r, "The routing proxy could not be reached")
		http.Redirect(w, r, "/providers", http.StatusSeeOther)
		return
	}

	h.Log.Info("provider "+verb, zap.String("provider_id", id))
	h.Prefs.Success(w, r, "Provider "+verb)
	http.Redirect(w, r, "/providers/"+id, http.StatusSeeOther)
}

// HandleDelete handles POST /providers/{id}/delete - remove a provider.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	err := h.Upstream.DeleteProvider(ctx, id)
	h.Audit.ConfigChange(ctx, r, audit.EventProviderDeleted, id, "", err)
	if err != nil && !errors.Is(err, upstream.ErrNotFound) {
		if errors.Is(err, upstream.ErrConflict) {
			h.Prefs.Error(w, r, "Provider is still referenced by model mappings")
			http.Redirect(w, r, "/providers/"+id, http.StatusSeeOther)
			return
		}
		h.ErrLog.Log(r, "failed to delete provider", err)
		h.Prefs.Error(w, r, "The routing proxy could not be reached")
		http.Redirect(w, r, "/providers", http.StatusSeeOther)
		return
	}

	h.Log.Info("provider deleted", zap.String("provider_id", id))
	h.Prefs.Success(w, r, "Provider deleted")
	http.Redirect(w, r, "/providers", http.StatusSeeOther)
}

// renderFetchError maps an upstream read failure to the right error page.
func (h *Handler) renderFetchError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, upstream.ErrNotFound) {
		h.ErrPages.NotFound(w, r)
		return
	}
	h.ErrLog.Log(r, msg, err)
	h.ErrPages.UpstreamDown(w, r)
}

func providerInput(r *http.Request) upstream.ProviderInput {
	return upstream.ProviderInput{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Type:    strings.TrimSpace(r.FormValue("type")),
		BaseURL: strings.TrimSpace(r.FormValue("base_url")),
		APIKey:  strings.TrimSpace(r.FormValue("api_key")),
		Enabled: r.FormValue("enabled") == "on",
	}
}

// validateInput reports the first validation problem, or "".
func validateInput(in upstream.ProviderInput) string {
	if in.Name == "" {
		return "Name is required"
	}
	if in.Type == "" {
		return "Type is required"
	}
	if in.BaseURL == "" {
		return "Base URL is required"
	}
	u, err := url.Parse(in.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "Base URL must be an http or https URL"
	}
	return ""
}
