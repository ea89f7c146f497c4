// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	errorsfeature "github.com/dalemusser/strataroute/internal/app/features/errors"
	"github.com/dalemusser/strataroute/internal/app/store/presets"
	"github.com/dalemusser/strataroute/internal/app/system/auditlog"
	"github.com/dalemusser/strataroute/internal/app/system/jsonutil"
	"github.com/dalemusser/strataroute/internal/app/system/metrics"
	"github.com/dalemusser/strataroute/internal/app/system/timeline"
	"github.com/dalemusser/strataroute/internal/app/system/timeouts"
	"github.com/dalemusser/strataroute/internal/app/system/uiprefs"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
	"github.com/dalemusser/strataroute/internal/app/upstream"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler renders the usage dashboard.
type Handler struct {
	DB       *mongo.Database
	Upstream *upstream.Client
	ErrLog   *errorsfeature.ErrorLogger
	Log      *zap.Logger
	Audit    *auditlog.Logger
	Prefs    *uiprefs.Manager
	Metrics  *metrics.Metrics

	// Now is swapped in tests; time.Now otherwise.
	Now func() time.Time
}

// NewHandler creates a new dashboard Handler.
func NewHandler(db *mongo.Database, client *upstream.Client, errLog *errorsfeature.ErrorLogger, logger *zap.Logger, audit *auditlog.Logger, prefs *uiprefs.Manager) *Handler {
	return &Handler{
		DB:       db,
		Upstream: client,
		ErrLog:   errLog,
		Log:      logger,
		Audit:    audit,
		Prefs:    prefs,
		Metrics:  metrics.New(),
		Now:      time.Now,
	}
}

// ServeDashboard handles GET /dashboard - summary cards plus the timeline chart.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := h.buildView(ctx, w, r)
	h.Metrics.PageRendered("dashboard")
	templates.Render(w, r, "dashboard/index", data)
}

// ServeChart handles GET /dashboard/chart - the chart fragment alone, for
// HTMX refreshes without a full page render.
func (h *Handler) ServeChart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := h.buildView(ctx, w, r)
	templates.Render(w, r, "dashboard/chart", data)
}

// ServeSeriesJSON handles GET /dashboard/series.json - the rebinned series
// as JSON for external tooling.
func (h *Handler) ServeSeriesJSON(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	now := h.Now().UTC()
	window, _, _ := resolveWindow(r.URL.Query(), now)
	if !window.Valid() {
		jsonutil.BadRequest(w, "invalid time window")
		return
	}

	settings := viewdata.GetSettings(ctx, h.DB)
	loc := settings.Location()

	bins, series, err := h.fetchSeries(ctx, window, settings.ChartBins, loc)
	if err != nil {
		h.ErrLog.Log(r, "failed to load usage series", err)
		jsonutil.BadGateway(w, "upstream unavailable")
		return
	}

	jsonutil.OK(w, map[string]any{
		"start_time": window.Start.UTC(),
		"end_time":   window.End.UTC(),
		"bucket":     series.Bucket,
		"bins":       bins,
	})
}

// HandleSavePreset handles POST /dashboard/presets - save the current range.
func (h *Handler) HandleSavePreset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	p := presets.Preset{
		Name: strings.TrimSpace(r.FormValue("name")),
		Kind: r.FormValue("kind"),
	}
	switch p.Kind {
	case presets.KindRelative:
		secs, err := strconv.ParseInt(r.FormValue("lookback"), 10, 64)
		if err != nil || secs <= 0 {
			h.savePresetFailed(w, r, "Could not read the current range")
			return
		}
		p.Lookback = time.Duration(secs) * time.Second
	case presets.KindAbsolute:
		win, ok := timeline.ParseWindow(r.FormValue("start_time"), r.FormValue("end_time"))
		if !ok {
			h.savePresetFailed(w, r, "Could not read the current range")
			return
		}
		p.Start = win.Start
		p.End = win.End
	}

	store := presets.New(h.DB)
	saved, err := store.Create(ctx, p)
	if err != nil {
		switch err {
		case presets.ErrDuplicateName:
			h.savePresetFailed(w, r, "A preset with this name already exists")
		case presets.ErrInvalid:
			h.savePresetFailed(w, r, "Preset name is required")
		default:
			h.ErrLog.Log(r, "failed to save range preset", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	h.Audit.PresetSaved(ctx, r, saved.ID.Hex(), saved.Name)
	h.Prefs.Success(w, r, fmt.Sprintf("Preset %q saved", saved.Name))
	h.redirectBack(w, r)
}

// HandleApplyPreset handles GET /dashboard/presets/{id}/apply - resolve the
// preset against the current clock and redirect to the resulting window.
func (h *Handler) HandleApplyPreset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	store := presets.New(h.DB)
	p, err := store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if err == presets.ErrNotFound {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		h.ErrLog.Log(r, "failed to load range preset", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	window := p.Window(h.Now().UTC())
	http.Redirect(w, r, "/dashboard?"+window.QueryValues().Encode(), http.StatusSeeOther)
}

// HandleDeletePreset handles POST /dashboard/presets/{id}/delete.
func (h *Handler) HandleDeletePreset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	store := presets.New(h.DB)
	if err := store.Delete(ctx, id); err != nil && err != presets.ErrNotFound {
		h.ErrLog.Log(r, "failed to delete range preset", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.Audit.PresetDeleted(ctx, r, id)
	h.Prefs.Success(w, r, "Preset deleted")
	h.redirectBack(w, r)
}

// buildView assembles the full dashboard view model. Upstream failures leave
// the chart empty with an error message; the page itself still renders.
func (h *Handler) buildView(ctx context.Context, w http.ResponseWriter, r *http.Request) DashboardVM {
	now := h.Now().UTC()
	window, rangeKey, selected := resolveWindow(r.URL.Query(), now)

	settings := viewdata.GetSettings(ctx, h.DB)
	loc := settings.Location()

	data := DashboardVM{
		BaseVM:   viewdata.NewBaseVM(w, r, "Dashboard", "/"),
		Selected: selected,
		ClearURL: "/dashboard",
		ChartURL: "/dashboard/chart",
	}
	if r.URL.RawQuery != "" {
		data.ChartURL += "?" + r.URL.RawQuery
	}

	data.Ranges = make([]RangeVM, len(builtinRanges))
	for i, rc := range builtinRanges {
		data.Ranges[i] = RangeVM{
			Key:    rc.Key,
			Label:  rc.Label,
			URL:    "/dashboard?range=" + rc.Key,
			Active: !selected && rc.Key == rangeKey,
		}
	}

	if !window.Valid() {
		data.Chart = ChartVM{}
		return data
	}

	data.WindowStart = window.Start.In(loc).Format("2006-01-02 15:04")
	data.WindowEnd = window.End.In(loc).Format("2006-01-02 15:04")
	if selected {
		data.SelectionLabel = data.WindowStart + " to " + data.WindowEnd
		data.SaveKind = presets.KindAbsolute
		qv := window.QueryValues()
		data.SaveStart = qv.Get("start_time")
		data.SaveEnd = qv.Get("end_time")
	} else {
		data.SaveKind = presets.KindRelative
		data.SaveLookback = strconv.FormatInt(int64(window.Duration()/time.Second), 10)
	}

	summary, err := h.Upstream.Summary(ctx, upstream.UsageQuery{Window: window})
	if err != nil {
		h.ErrLog.Log(r, "failed to load usage summary", err)
		data.Chart = ChartVM{Error: "The routing proxy could not be reached. Retry shortly."}
		return data
	}
	data.Summary = toSummaryVM(summary)

	bins, series, err := h.fetchSeries(ctx, window, settings.ChartBins, loc)
	if err != nil {
		h.ErrLog.Log(r, "failed to load usage series", err)
		data.Chart = ChartVM{Error: "The routing proxy could not be reached. Retry shortly."}
		return data
	}
	data.Chart = toChartVM(bins, series.Bucket)

	store := presets.New(h.DB)
	saved, err := store.List(ctx)
	if err != nil {
		h.Log.Warn("failed to list range presets", zap.Error(err))
	}
	for _, p := range saved {
		data.Presets = append(data.Presets, toPresetVM(p, loc))
	}

	return data
}

// fetchSeries queries the upstream timeline and resamples it onto the
// configured number of display bins.
func (h *Handler) fetchSeries(ctx context.Context, window timeline.Window, binCount int, loc *time.Location) ([]timeline.Bin, upstream.UsageSeries, error) {
	bucket, minutes := granularityFor(window.Duration())
	series, err := h.Upstream.Series(ctx, upstream.UsageQuery{
		Window:        window,
		Bucket:        bucket,
		BucketMinutes: minutes,
	})
	if err != nil {
		return nil, upstream.UsageSeries{}, err
	}

	start := time.Now()
	bins := timeline.BuildSeries(series.Buckets, window, timeline.SeriesOptions{
		BinCount: binCount,
		Unit:     timeline.UnitWidth(series.Bucket, series.BucketMinutes),
		Location: loc,
	})
	h.Metrics.ObserveRebin(len(series.Buckets), time.Since(start))

	return bins, series, nil
}

func toChartVM(bins []timeline.Bin, bucket string) ChartVM {
	chart := ChartVM{Bucket: bucket}
	chart.Bars = make([]BarVM, len(bins))
	for i, b := range bins {
		bar := BarVM{
			Label:    b.Label,
			Success:  int64(math.Round(b.SuccessCount)),
			Errors:   int64(math.Round(b.ErrorCount)),
			DrillURL: "/dashboard?" + timeline.Activate(b).QueryValues().Encode(),
		}
		bar.Total = bar.Success + bar.Errors
		if bar.Total > chart.MaxTotal {
			chart.MaxTotal = bar.Total
		}
		if bar.Total > 0 {
			chart.HasData = true
		}
		chart.Bars[i] = bar
	}
	return chart
}

func toSummaryVM(s upstream.UsageSummary) SummaryVM {
	vm := SummaryVM{
		TotalRequests:   formatCount(s.TotalRequests),
		SuccessRequests: formatCount(s.SuccessRequests),
		ErrorRequests:   formatCount(s.ErrorRequests),
		InputTokens:     formatCount(s.InputTokens),
		OutputTokens:    formatCount(s.OutputTokens),
		AvgDuration:     fmt.Sprintf("%.0f ms", s.AvgDurationMs),
		ActiveKeys:      s.ActiveKeys,
		ActiveModels:    s.ActiveModels,
	}
	if s.TotalRequests > 0 {
		vm.ErrorRatePct = fmt.Sprintf("%.1f%%", 100*float64(s.ErrorRequests)/float64(s.TotalRequests))
	} else {
		vm.ErrorRatePct = "0.0%"
	}
	return vm
}

func toPresetVM(p presets.Preset, loc *time.Location) PresetVM {
	vm := PresetVM{
		ID:       p.ID.Hex(),
		Name:     p.Name,
		ApplyURL: "/dashboard/presets/" + p.ID.Hex() + "/apply",
	}
	if p.Kind == presets.KindRelative {
		vm.Detail = "last " + p.Lookback.String()
	} else {
		vm.Detail = p.Start.In(loc).Format("2006-01-02 15:04") + " to " + p.End.In(loc).Format("2006-01-02 15:04")
	}
	return vm
}

// formatCount renders a count with thousands separators.
func formatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// savePresetFailed flashes the validation error and returns to the dashboard.
func (h *Handler) savePresetFailed(w http.ResponseWriter, r *http.Request, msg string) {
	h.Prefs.Error(w, r, msg)
	h.redirectBack(w, r)
}

// redirectBack returns to the dashboard preserving the caller's range state.
func (h *Handler) redirectBack(w http.ResponseWriter, r *http.Request) {
	target := "/dashboard"
	if ret := r.FormValue("return_to"); strings.HasPrefix(ret, "/dashboard") {
		target = ret
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
