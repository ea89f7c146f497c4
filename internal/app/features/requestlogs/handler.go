// internal/app/features/requestlogs/handler.go
package requestlogs

import (
	"context"
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/strataroute/internal/app/features/errors"
	"github.com/dalemusser/strataroute/internal/app/system/timeouts"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/strataroute/internal/app/upstream"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles request log browsing. The logs live in the routing proxy;
// the console pages through them with server-side filters.
type Handler struct {
	DB       *mongo.Database
	Upstream *upstream.Client
	ErrLog   *errorsfeature.ErrorLogger
	ErrPages *errorsfeature.Handler
	Log      *zap.Logger
}

// NewHandler creates a new request logs handler.
func NewHandler(db *mongo.Database, client *upstream.Client, errLog *errorsfeature.ErrorLogger, errPages *errorsfeature.Handler, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Upstream: client,
		ErrLog:   errLog,
		ErrPages: errPages,
		Log:      logger,
	}
}

// ServeList handles GET /request-logs - the filterable, paginated table.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	settings := viewdata.GetSettings(ctx, h.DB)
	loc := settings.Location()

	lq, filter := parseQuery(r, settings.LogPageSize, loc)

	page, err := h.Upstream.ListLogs(ctx, lq)
	if err != nil {
		h.ErrLog.Log(r, "failed to load request logs", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	vms := make([]LogVM, len(page.Logs))
	for i, l := range page.Logs {
		vms[i] = toLogVM(l, loc)
	}

	totalPages := int((page.Total + int64(lq.PageSize) - 1) / int64(lq.PageSize))
	data := ListVM{
		BaseVM:     viewdata.NewBaseVM(w, r, "Request Logs", "/"),
		Logs:       vms,
		Filter:     filter,
		Total:      page.Total,
		Page:       lq.Page,
		TotalPages: totalPages,
		ExportURL:  exportURL(filter),
	}
	if lq.Page > 1 {
		data.PrevURL = pageURL(filter, lq.Page-1)
	}
	if lq.Page < totalPages {
		data.NextURL = pageURL(filter, lq.Page+1)
	}

	templates.Render(w, r, "requestlogs/list", data)
}

// ServeDetail handles GET /request-logs/{id} - one routed request.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	l, err := h.Upstream.GetLog(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, upstream.ErrNotFound) {
			h.ErrPages.NotFound(w, r)
			return
		}
		h.ErrLog.Log(r, "failed to load request log", err)
		h.ErrPages.UpstreamDown(w, r)
		return
	}

	settings := viewdata.GetSettings(ctx, h.DB)
	data := DetailVM{
		BaseVM: viewdata.NewBaseVM(w, r, "Request Detail", "/request-logs"),
		Log:    toLogVM(l, settings.Location()),
	}
	templates.Render(w, r, "requestlogs/detail", data)
}
