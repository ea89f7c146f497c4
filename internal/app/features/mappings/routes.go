// internal/app/features/mappings/routes.go
package mappings

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the mappings feature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleUpdate)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
