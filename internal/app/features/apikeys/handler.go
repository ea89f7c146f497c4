// internal/app/features/apikeys/handler.go
package apikeysfeature

import (
	"context"
	"errors"
	"fmt"
	"net/http"
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

// Handler handles API key management HTTP requests. Keys are credentials
// for the proxy's serving endpoints; the console never stores them, the
// one-time secret is relayed from the create response straight to the page.
type Handler struct {
	Upstream *upstream.Client
	ErrLog   *errorsfeature.ErrorLogger
	ErrPages *errorsfeature.Handler
	Log      *zap.Logger
	Audit    *auditlog.Logger
	Prefs    *uiprefs.Manager
}

// NewHandler creates a new API keys handler.
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

// ServeList handles GET /api-keys - list all API keys.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	keys, err := h.Upstream.ListAPIKeys(ctx)
	if err != nil {
		h.ErrLog.Log(r, "failed to load API keys", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	keyVMs := make([]APIKeyVM, len(keys))
	for i, k := range keys {
		keyVMs[i] = toAPIKeyVM(k)
	}

	data := APIKeyListVM{
		BaseVM: viewdata.NewBaseVM(w, r, "API Keys", "/"),
		Keys:   keyVMs,
	}
	templates.Render(w, r, "apikeys/list", data)
}

// ServeNew handles GET /api-keys/new - show create form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := APIKeyFormVM{
		Base: formutil.NewBase(w, r, "Create API Key", "/api-keys"),
	}
	templates.Render(w, r, "apikeys/new", data)
}

// HandleCreate handles POST /api-keys - create a new API key. On success
// the one-time secret page is rendered; there is no redirect, a refresh
// must not re-create the key and cannot recover the secret.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))

	data := APIKeyFormVM{
		Base:        formutil.NewBase(w, r, "Create API Key", "/api-keys"),
		Name:        name,
		Description: description,
	}

	if name == "" {
		data.SetError("Name is required")
		templates.Render(w, r, "apikeys/new", data)
		return
	}

	created, err := h.Upstream.CreateAPIKey(ctx, upstream.APIKeyInput{
		Name:        name,
		Description: description,
	})
	h.Audit.ConfigChange(ctx, r, audit.EventKeyCreated, created.Key.ID, name, err)
	if err != nil {
		if errors.Is(err, upstream.ErrConflict) {
			data.SetError("An API key with this name already exists")
			templates.Render(w, r, "apikeys/new", data)
			return
		}
		h.ErrLog.Log(r, "failed to create API key", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	h.Log.Info("API key created",
		zap.String("key_id", created.Key.ID),
		zap.String("name", name))

	createdData := APIKeyCreatedVM{
		BaseVM: viewdata.NewBaseVM(w, r, "API Key Created", "/api-keys"),
		Key:    toAPIKeyVM(created.Key),
		Secret: created.Secret,
	}
	templates.Render(w, r, "apikeys/created", createdData)
}

// ServeDetail handles GET /api-keys/{id} - view key details.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	key, err := h.Upstream.GetAPIKey(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			h.ErrPages.NotFound(w, r)
			return
		}
		h.ErrLog.Log(r, "failed to load API key", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	data := APIKeyDetailVM{
		BaseVM: viewdata.NewBaseVM(w, r, "API Key Details", "/api-keys"),
		Key:    toAPIKeyVM(key),
	}
	templates.Render(w, r, "apikeys/detail", data)
}

// ServeEdit handles GET /api-keys/{id}/edit - show edit form.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	key, err := h.Upstream.GetAPIKey(ctx, id)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			h.ErrPages.NotFound(w, r)
			return
		}
		h.ErrLog.Log(r, "failed to load API key", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	data := APIKeyFormVM{
		Base:        formutil.NewBase(w, r, "Edit API Key", "/api-keys/"+id),
		ID:          key.ID,
		Name:        key.Name,
		Description: key.Description,
		IsEdit:      true,
		IsActive:    key.Status == upstream.KeyStatusActive,
	}
	templates.Render(w, r, "apikeys/edit", data)
}

// HandleUpdate handles POST /api-keys/{id}/edit - update key metadata.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))

	data := APIKeyFormVM{
		Base:        formutil.NewBase(w, r, "Edit API Key", "/api-keys/"+id),
		ID:          id,
		Name:        name,
		Description: description,
		IsEdit:      true,
	}

	if name == "" {
		data.SetError("Name is required")
		templates.Render(w, r, "apikeys/edit", data)
		return
	}

	updated, err := h.Upstream.UpdateAPIKey(ctx, id, upstream.APIKeyInput{
		Name:        name,
		Description: description,
	})
	h.Audit.ConfigChange(ctx, r, audit.EventKeyUpdated, id, name, err)
	if err != nil {
		switch {
		case errors.Is(err, upstream.ErrNotFound):
			h.ErrPages.NotFound(w, r)
		case errors.Is(err, upstream.ErrConflict):
			data.SetError("An API key with this name already exists")
			templates.Render(w, r, "apikeys/edit", data)
		default:
			h.ErrLog.Log(r, "failed to update API key", err)
			h.ErrPages.UpstreamDown(w, r)
		}
		return
	}

	h.Log.Info("API key updated",
		zap.String("key_id", id),
		zap.String("name", updated.Name))

	h.Prefs.Success(w, r, fmt.Sprintf("API key %q updated", updated.Name))
	http.Redirect(w, r, "/api-keys/"+id, http.StatusSeeOther)
}

// HandleRevoke handles POST /api-keys/{id}/revoke - revoke an API key.
// Revocation is permanent; the key stops authenticating immediately.
func (h *Handler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	err := h.Upstream.RevokeAPIKey(ctx, id)
	h.Audit.ConfigChange(ctx, r, audit.EventKeyRevoked, id, "", err)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			h.ErrPages.NotFound(w, r)
			return
		}
		h.ErrLog.Log(r, "failed to revoke API key", err)
		h.Prefs.Error(w, r, "The routing proxy could not be reached")
		http.Redirect(w, r, "/api-keys/"+id, http.StatusSeeOther)
		return
	}

	h.Log.Info("API key revoked", zap.String("key_id", id))
	h.Prefs.Success(w, r, "API key revoked")
	http.Redirect(w, r, "/api-keys/"+id, http.StatusSeeOther)
}

// HandleDelete handles POST /api-keys/{id}/delete - permanently delete a key.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	err := h.Upstream.DeleteAPIKey(ctx, id)
	h.Audit.ConfigChange(ctx, r, audit.EventKeyDeleted, id, "", err)
	if err != nil && !errors.Is(err, upstream.ErrNotFound) {
		h.ErrLog.Log(r, "failed to delete API key", err)
		h.Prefs.Error(w, r, "The routing proxy could not be reached")
		http.Redirect(w, r, "/api-keys", http.StatusSeeOther)
		return
	}

	h.Log.Info("API key deleted", zap.String("key_id", id))
	h.Prefs.Success(w, r, "API key deleted")
	http.Redirect(w, r, "/api-keys", http.StatusSeeOther)
}
