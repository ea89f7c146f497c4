// internal/app/features/settings/routes.go
package settings

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the settings feature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleSave)
	r.Post("/theme", h.HandleTheme)

	return r
}
