// internal/app/features/requestlogs/routes.go
package requestlogs

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the request logs feature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/export.csv", h.ServeExportCSV)
	r.Get("/{id}", h.ServeDetail)

	return r
}
