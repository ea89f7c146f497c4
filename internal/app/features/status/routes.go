// internal/app/features/status/routes.go
package status

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the status feature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve)
	return r
}
