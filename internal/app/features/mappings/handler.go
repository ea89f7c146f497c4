// internal/app/features/mappings/handler.go
package mappings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
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

// Handler handles model mapping HTTP requests. Mappings bind a public model
// alias to a target model on a provider; lower priority wins on alias clashes.
type Handler struct {
	Upstream *upstream.Client
	ErrLog   *errorsfeature.ErrorLogger
	ErrPages *errorsfeature.Handler
	Log      *zap.Logger
	Audit    *auditlog.Logger
	Prefs    *uiprefs.Manager
}

// NewHandler creates a new mappings handler.
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

// ServeList handles GET /mappings - list all model mappings.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Upstream.ListMappings(ctx)
	if err != nil {
		h.ErrLog.Log(r, "failed to load model mappings", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	names := h.providerNames(ctx, r)

	sort.Slice(list, func(i, j int) bool {
		if list[i].Alias != list[j].Alias {
			return list[i].Alias < list[j].Alias
		}
		return list[i].Priority < list[j].Priority
	})

	vms := make([]MappingVM, len(list))
	for i, m := range list {
		vms[i] = toMappingVM(m, names)
	}

	data := ListVM{
		BaseVM:   viewdata.NewBaseVM(w, r, "Model Mappings", "/"),
		Mappings: vms,
	}
	templates.Render(w, r, "mappings/list", data)
}

// ServeNew handles GET /mappings/new - show create form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := FormVM{
		Base:     formutil.NewBase(w, r, "Add Mapping", "/mappings"),
		Priority: 100,
		Enabled:  true,
	}
	data.Providers = h.providerOptions(ctx, r, "")
	templates.Render(w, r, "mappings/new", data)
}

// HandleCreate handles POST /mappings - create a new mapping.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	in := mappingInput(r)
	data := FormVM{
		Base:        formutil.NewBase(w, r, "Add Mapping", "/mappings"),
		Alias:       in.Alias,
		ProviderID:  in.ProviderID,
		TargetModel: in.TargetModel,
		Priority:    in.Priority,
		Enabled:     in.Enabled,
	}

	if msg := validateInput(in); msg != "" {
		data.Providers = h.providerOptions(ctx, r, in.ProviderID)
		data.SetError(msg)
		templates.Render(w, r, "mappings/new", data)
		return
	}

	created, err := h.Upstream.CreateMapping(ctx, in)
	h.Audit.ConfigChange(ctx, r, audit.EventMappingCreated, created.ID, in.Alias, err)
	if err != nil {
		if errors.Is(err, upstream.ErrConflict) {
			data.Providers = h.providerOptions(ctx, r, in.ProviderID)
			data.SetError("A mapping for this alias and provider already exists")
			templates.Render(w, r, "mappings/new", data)
			return
		}
		h.ErrLog.Log(r, "failed to create model mapping", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	h.Log.Info("model mapping created",
		zap.String("mapping_id", created.ID),
		zap.String("alias", created.Alias))

	h.Prefs.Success(w, r, fmt.Sprintf("Mapping %q created", created.Alias))
	http.Redirect(w, r, "/mappings", http.StatusSeeOther)
}

// ServeEdit handles GET /mappings/{id}/edit - show edit form.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	m, err := h.Upstream.GetMapping(ctx, id)
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			h.ErrPages.NotFound(w, r)
			return
		}
		h.ErrLog.Log(r, "failed to load model mapping", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	data := FormVM{
		Base:        formutil.NewBase(w, r, "Edit Mapping", "/mappings"),
		ID:          m.ID,
		Alias:       m.Alias,
		ProviderID:  m.ProviderID,
		TargetModel: m.TargetModel,
		Priority:    m.Priority,
		Enabled:     m.Enabled,
		IsEdit:      true,
	}
	data.Providers = h.providerOptions(ctx, r, m.ProviderID)
	templates.Render(w, r, "mappings/edit", data)
}

// HandleUpdate handles POST /mappings/{id}/edit - update a mapping.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	in := mappingInput(r)
	data := FormVM{
		Base:        formutil.NewBase(w, r, "Edit Mapping", "/mappings"),
		ID:          id,
		Alias:       in.Alias,
		ProviderID:  in.ProviderID,
		TargetModel: in.TargetModel,
		Priority:    in.Priority,
		Enabled:     in.Enabled,
		IsEdit:      true,
	}

	if msg := validateInput(in); msg != "" {
		data.Providers = h.providerOptions(ctx, r, in.ProviderID)
		data.SetError(msg)
		templates.Render(w, r, "mappings/edit", data)
		return
	}

	updated, err := h.Upstream.UpdateMapping(ctx, id, in)
	h.Audit.ConfigChange(ctx, r, audit.EventMappingUpdated, id, in.Alias, err)
	if err != nil {
		switch {
		case errors.Is(err, upstream.ErrNotFound):
			h.ErrPages.NotFound(w, r)
		case errors.Is(err, upstream.ErrConflict):
			data.Providers = h.providerOptions(ctx, r, in.ProviderID)
			data.SetError("A mapping for this alias and provider already exists")
			templates.Render(w, r, "mappings/edit", data)
		default:
			h.ErrLog.Log(r, "failed to update model mapping", err)
			h.ErrPages.UpstreamDown(w, r)
		}
		return
	}

	h.Log.Info("model mapping updated",
		zap.String("mapping_id", id),
		zap.String("alias", updated.Alias))

	h.Prefs.Success(w, r, fmt.Sprintf("Mapping %q updated", updated.Alias))
	http.Redirect(w, r, "/mappings", http.StatusSeeOther)
}

// HandleDelete handles POST /mappings/{id}/delete - remove a mapping.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	err := h.Upstream.DeleteMapping(ctx, id)
	h.Audit.ConfigChange(ctx, r, audit.EventMappingDeleted, id, "", err)
	if err != nil && !errors.Is(err, upstream.ErrNotFound) {
		h.ErrLog.Log(r, "failed to delete model mapping", err)
		h.Prefs.Error(w, r, "The routing proxy could not be reached")
		http.Redirect(w, r, "/mappings", http.StatusSeeOther)
		return
	}

	h.Log.Info("model mapping deleted", zap.String("mapping_id", id))
	h.Prefs.Success(w, r, "Mapping deleted")
	http.Redirect(w, r, "/mappings", http.StatusSeeOther)
}

// providerNames returns id -> display name for annotating mappings. A failed
// lookup degrades to raw IDs rather than failing the page.
func (h *Handler) providerNames(ctx context.Context, r *http.Request) map[string]string {
	provs, err := h.Upstream.ListProviders(ctx)
	if err != nil {
		h.Log.Warn("failed to load providers for mapping list", zap.Error(err))
		return nil
	}
	names := make(map[string]string, len(provs))
	for _, p := range provs {
		names[p.ID] = p.Name
	}
	return names
}

// providerOptions builds the dropdown for the mapping form.
func (h *Handler) providerOptions(ctx context.Context, r *http.Request, selected string) []ProviderOption {
	provs, err := h.Upstream.ListProviders(ctx)
	if err != nil {
		h.Log.Warn("failed to load providers for mapping form", zap.Error(err))
		return nil
	}
	opts := make([]ProviderOption, len(provs))
	for i, p := range provs {
		opts[i] = ProviderOption{ID: p.ID, Name: p.Name, Selected: p.ID == selected}
	}
	return opts
}

func mappingInput(r *http.Request) upstream.MappingInput {
	priority, _ := strconv.Atoi(r.FormValue("priority"))
	return upstream.MappingInput{
		Alias:       strings.TrimSpace(r.FormValue("alias")),
		ProviderID:  r.FormValue("provider_id"),
		TargetModel: strings.TrimSpace(r.FormValue("target_model")),
		Priority:    priority,
		Enabled:     r.FormValue("enabled") == "on",
	}
}

// validateInput reports the first validation problem, or "".
func validateInput(in upstream.MappingInput) string {
	if in.Alias == "" {
		return "Alias is required"
	}
	if strings.ContainsAny(in.Alias, " \t") {
		return "Alias must not contain whitespace"
	}
	if in.ProviderID == "" {
		return "Provider is required"
	}
	if in.TargetModel == "" {
		return "Target model is required"
	}
	if in.Priority < 0 {
		return "Priority must be zero or positive"
	}
	return ""
}
