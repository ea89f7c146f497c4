package dashboard

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/strataroute/internal/app/features/errors"
	"github.com/dalemusser/strataroute/internal/app/store/presets"
	"github.com/dalemusser/strataroute/internal/app/system/timeline"
	"github.com/dalemusser/strataroute/internal/app/system/uiprefs"
	"github.com/dalemusser/strataroute/internal/app/upstream"
	"github.com/dalemusser/strataroute/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// fakeProxy answers the management usage endpoints with fixed data.
func fakeProxy(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v0/management/usage/summary", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(upstream.UsageSummary{
			TotalRequests:   1200,
			SuccessRequests: 1100,
			ErrorRequests:   100,
			InputTokens:     50000,
			OutputTokens:    24000,
			AvgDurationMs:   412.5,
			ActiveKeys:      3,
			ActiveModels:    2,
		})
	})
	mux.HandleFunc("/v0/management/usage/series", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(upstream.UsageSeries{
			Bucket: "hour",
			Buckets: []timeline.RawBucket{
				{Label: time.Now().UTC().Add(-2 * time.Hour).Format("2006-01-02 15:00:00"), SuccessCount: 40, ErrorCount: 2},
				{Label: time.Now().UTC().Add(-1 * time.Hour).Format("2006-01-02 15:00:00"), SuccessCount: 25, ErrorCount: 0},
			},
		})
	})
	return mux
}

func newTestHandler(t *testing.T, db *mongo.Database, proxy http.Handler) *Handler {
	t.Helper()
	client := testutil.NewUpstream(t, proxy)
	logger := zap.NewNop()
	h := NewHandler(db, client, errorsfeature.NewErrorLogger(logger), logger, nil,
		uiprefs.New([]byte("0123456789abcdef0123456789abcdef"), false, logger))
	return h
}

func TestResolveWindow(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		query        string
		wantKey      string
		wantSelected bool
		wantSpan     time.Duration
	}{
		{
			name:     "default range",
			query:    "",
			wantKey:  "24h",
			wantSpan: 24 * time.Hour,
		},
		{
			name:     "explicit range",
			query:    "range=6h",
			wantKey:  "6h",
			wantSpan: 6 * time.Hour,
		},
		{
			name:     "unknown range falls back",
			query:    "range=90d",
			wantKey:  "24h",
			wantSpan: 24 * time.Hour,
		},
		{
			name:         "selection wins over range",
			query:        "range=6h&start_time=2025-06-10T00:00:00.000Z&end_time=2025-06-10T01:00:00.000Z",
			wantSelected: true,
			wantSpan:     time.Hour,
		},
		{
			name:     "malformed selection ignored",
			query:    "start_time=bogus&end_time=2025-06-10T01:00:00.000Z",
			wantKey:  "24h",
			wantSpan: 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			w, key, selected := resolveWindow(q, now)

			if selected != tt.wantSelected {
				t.Errorf("selected = %v, want %v", selected, tt.wantSelected)
			}
			if key != tt.wantKey {
				t.Errorf("range key = %q, want %q", key, tt.wantKey)
			}
			if got := w.Duration(); got != tt.wantSpan {
				t.Errorf("span = %v, want %v", got, tt.wantSpan)
			}
			if !selected && !w.End.Equal(now) {
				t.Errorf("relative window end = %v, want %v", w.End, now)
			}
		})
	}
}

func TestGranularityFor(t *testing.T) {
	tests := []struct {
		span        time.Duration
		wantBucket  string
		wantMinutes int
	}{
		{time.Hour, "minute", 5},
		{3 * time.Hour, "minute", 5},
		{24 * time.Hour, "hour", 0},
		{72 * time.Hour, "hour", 0},
		{7 * 24 * time.Hour, "day", 0},
	}

	for _, tt := range tests {
		bucket, minutes := granularityFor(tt.span)
		if bucket != tt.wantBucket || minutes != tt.wantMinutes {
			t.Errorf("granularityFor(%v) = (%q, %d), want (%q, %d)",
				tt.span, bucket, minutes, tt.wantBucket, tt.wantMinutes)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-42000, "-42,000"},
	}

	for _, tt := range tests {
		if got := formatCount(tt.in); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestServeDashboard(t *testing.T) {
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, fakeProxy(t))

	req := testutil.NewRequest(http.MethodGet, "/dashboard")
	rec := testutil.NewRecorder()

	h.ServeDashboard(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "1,200")
	rec.AssertContains(t, "class=\"bar\"")
	rec.AssertContains(t, "Last 24 hours")
}

func TestServeDashboard_UpstreamDownStillRenders(t *testing.T) {
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)

	down := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	h := newTestHandler(t, db, down)

	req := testutil.NewRequest(http.MethodGet, "/dashboard")
	rec := testutil.NewRecorder()

	h.ServeDashboard(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "could not be reached")
}

func TestServeDashboard_SelectionState(t *testing.T) {
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, fakeProxy(t))

	req := testutil.NewRequest(http.MethodGet,
		"/dashboard?start_time=2025-06-10T00:00:00.000Z&end_time=2025-06-10T06:00:00.000Z")
	rec := testutil.NewRecorder()

	h.ServeDashboard(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Clear selection")
	rec.AssertContains(t, `name="kind" value="absolute"`)
}

func TestServeSeriesJSON(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, fakeProxy(t))

	req := testutil.NewRequest(http.MethodGet, "/dashboard/series.json?range=24h")
	rec := testutil.NewRecorder()

	h.ServeSeriesJSON(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Bucket string         `json:"bucket"`
		Bins   []timeline.Bin `json:"bins"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Bucket != "hour" {
		t.Errorf("bucket = %q, want %q", resp.Bucket, "hour")
	}
	if len(resp.Bins) == 0 {
		t.Fatal("expected display bins in response")
	}

	var total float64
	for _, b := range resp.Bins {
		total += b.SuccessCount + b.ErrorCount
	}
	// Both fake buckets fall inside the 24h window: 40+2+25+0.
	if total < 66.9 || total > 67.1 {
		t.Errorf("total mass = %v, want 67", total)
	}
}

func TestHandleSavePreset_Relative(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, fakeProxy(t))

	req := testutil.NewFormRequest("/dashboard/presets", map[string]string{
		"name":     "Morning watch",
		"kind":     "relative",
		"lookback": "21600",
	})
	rec := testutil.NewRecorder()

	h.HandleSavePreset(rec, req)

	rec.AssertRedirect(t, "/dashboard")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	saved, err := presets.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("got %d presets, want 1", len(saved))
	}
	if saved[0].Kind != presets.KindRelative || saved[0].Lookback != 6*time.Hour {
		t.Errorf("saved preset = %+v, want relative 6h", saved[0])
	}
}

func TestHandleSavePreset_MissingName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, fakeProxy(t))

	req := testutil.NewFormRequest("/dashboard/presets", map[string]string{
		"name":     "   ",
		"kind":     "relative",
		"lookback": "3600",
	})
	rec := testutil.NewRecorder()

	h.HandleSavePreset(rec, req)

	rec.AssertRedirect(t, "/dashboard")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	saved, err := presets.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(saved) != 0 {
		t.Errorf("got %d presets, want 0", len(saved))
	}
}

func TestHandleApplyPreset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, fakeProxy(t))
	h.Now = func() time.Time {
		return time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	saved, err := presets.New(db).Create(ctx, presets.Preset{
		Name:     "Last shift",
		Kind:     presets.KindRelative,
		Lookback: 8 * time.Hour,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	router := Routes(h)
	req := testutil.NewRequest(http.MethodGet, "/presets/"+saved.ID.Hex()+"/apply")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	loc := rec.Header().Get("Location")
	if !strings.Contains(loc, "start_time=2025-06-10T04%3A00%3A00.000Z") {
		t.Errorf("redirect location %q missing resolved start_time", loc)
	}
	if !strings.Contains(loc, "end_time=2025-06-10T12%3A00%3A00.000Z") {
		t.Errorf("redirect location %q missing resolved end_time", loc)
	}
}

func TestHandleDeletePreset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db, fakeProxy(t))

	ctx, cancel := testutil.TestContext()
	defer cancel()
	saved, err := presets.New(db).Create(ctx, presets.Preset{
		Name:     "Doomed",
		Kind:     presets.KindRelative,
		Lookback: time.Hour,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	router := Routes(h)
	req := testutil.NewFormRequest("/presets/"+saved.ID.Hex()+"/delete", map[string]string{})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertRedirect(t, "/dashboard")

	remaining, err := presets.New(db).List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("got %d presets, want 0", len(remaining))
	}
}

func TestToChartVM(t *testing.T) {
	bins := []timeline.Bin{
		{Label: "a", SuccessCount: 10.4, ErrorCount: 1.6},
		{Label: "b", SuccessCount: 0, ErrorCount: 0},
		{Label: "c", SuccessCount: 29.5, ErrorCount: 0.4},
	}

	chart := toChartVM(bins, "hour")

	if !chart.HasData {
		t.Error("HasData = false, want true")
	}
	if chart.MaxTotal != 30 {
		t.Errorf("MaxTotal = %d, want 30", chart.MaxTotal)
	}
	if chart.Bars[0].Success != 10 || chart.Bars[0].Errors != 2 {
		t.Errorf("bar 0 = %d/%d, want 10/2", chart.Bars[0].Success, chart.Bars[0].Errors)
	}
	if chart.Bars[1].Total != 0 {
		t.Errorf("bar 1 total = %d, want 0", chart.Bars[1].Total)
	}
	if !strings.HasPrefix(chart.Bars[0].DrillURL, "/dashboard?") {
		t.Errorf("drill URL = %q, want /dashboard?...", chart.Bars[0].DrillURL)
	}
}
