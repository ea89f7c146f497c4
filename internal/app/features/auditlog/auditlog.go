// internal/app/features/auditlog/auditlog.go
package auditlogfeature

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	errorsfeature "github.com/dalemusser/strataroute/internal/app/features/errors"
	"github.com/dalemusser/strataroute/internal/app/store/audit"
	"github.com/dalemusser/strataroute/internal/app/system/timeouts"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const pageSize = 50

// Handler serves the console's own audit trail.
type Handler struct {
	DB     *mongo.Database
	ErrLog *errorsfeature.ErrorLogger
	Log    *zap.Logger
}

// NewHandler creates a new audit log handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		ErrLog: errLog,
		Log:    logger,
	}
}

// EventVM is the view model for one audit event row.
type EventVM struct {
	Time          string
	Category      string
	EventType     string
	Target        string
	TargetName    string
	IP            string
	Success       bool
	FailureReason string
	Details       map[string]string
}

// ListVM is the audit log page.
type ListVM struct {
	viewdata.BaseVM
	Events []EventVM

	Category  string
	EventType string

	Total      int64
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

// Routes returns the router for the audit log feature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}

// ServeList handles GET /audit-log - the paged event table.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q := r.URL.Query()
	category := q.Get("category")
	if category != audit.CategoryConfig && category != audit.CategorySystem {
		category = ""
	}
	eventType := q.Get("event_type")

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    int64(page-1) * pageSize,
	}

	store := audit.New(h.DB)
	events, err := store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.Log(r, "failed to load audit events", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	total, err := store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.Log(r, "failed to count audit events", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	settings := viewdata.GetSettings(ctx, h.DB)
	loc := settings.Location()

	vms := make([]EventVM, len(events))
	for i, e := range events {
		vms[i] = EventVM{
			Time:          e.CreatedAt.In(loc).Format("2006-01-02 15:04:05"),
			Category:      e.Category,
			EventType:     e.EventType,
			Target:        e.Target,
			TargetName:    e.TargetName,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		}
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	data := ListVM{
		BaseVM:     viewdata.NewBaseVM(w, r, "Audit Log", "/"),
		Events:     vms,
		Category:   category,
		EventType:  eventType,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
	if page > 1 {
		data.PrevURL = listURL(category, eventType, page-1)
	}
	if page < totalPages {
		data.NextURL = listURL(category, eventType, page+1)
	}

	templates.Render(w, r, "auditlog/list", data)
}

func listURL(category, eventType string, page int) string {
	v := url.Values{}
	if category != "" {
		v.Set("category", category)
	}
	if eventType != "" {
		v.Set("event_type", eventType)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return "/audit-log"
	}
	return "/audit-log?" + v.Encode()
}
