// internal/app/features/providers/routes.go
package providers

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the providers feature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeDetail)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleUpdate)
	r.Post("/{id}/enable", h.HandleEnable)
	r.Post("/{id}/disable", h.HandleDisable)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
