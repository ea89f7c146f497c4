// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the dashboard feature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeDashboard)
	r.Get("/chart", h.ServeChart)
	r.Get("/series.json", h.ServeSeriesJSON)
	r.Post("/presets", h.HandleSavePreset)
	r.Get("/presets/{id}/apply", h.HandleApplyPreset)
	r.Post("/presets/{id}/delete", h.HandleDeletePreset)

	return r
}
