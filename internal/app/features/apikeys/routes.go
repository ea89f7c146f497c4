// internal/app/features/apikeys/routes.go
package apikeysfeature

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the API keys feature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeDetail)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleUpdate)
	r.Post("/{id}/revoke", h.HandleRevoke)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
