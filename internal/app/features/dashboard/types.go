// internal/app/features/dashboard/types.go
package dashboard

import (
	"net/url"
	"time"

	"github.com/dalemusser/strataroute/internal/app/system/timeline"
	"github.com/dalemusser/strataroute/internal/app/system/viewdata"
)

// rangeChoice is one built-in relative range offered next to saved presets.
type rangeChoice struct {
	Key      string
	Label    string
	Lookback time.Duration
}

var builtinRanges = []rangeChoice{
	{Key: "1h", Label: "Last hour", Lookback: time.Hour},
	{Key: "6h", Label: "Last 6 hours", Lookback: 6 * time.Hour},
	{Key: "24h", Label: "Last 24 hours", Lookback: 24 * time.Hour},
	{Key: "7d", Label: "Last 7 days", Lookback: 7 * 24 * time.Hour},
	{Key: "30d", Label: "Last 30 days", Lookback: 30 * 24 * time.Hour},
}

const defaultRangeKey = "24h"

// resolveWindow turns the request's query state into a concrete window.
// An explicit start_time/end_time pair (a drill-down selection or an applied
// absolute preset) wins over the relative range key; absence of both params
// means "no selection" and the default range applies.
func resolveWindow(q url.Values, now time.Time) (w timeline.Window, rangeKey string, selected bool) {
	if win, ok := timeline.ParseWindow(q.Get("start_time"), q.Get("end_time")); ok {
		return win, "", true
	}

	rangeKey = q.Get("range")
	for _, rc := range builtinRanges {
		if rc.Key == rangeKey {
			return timeline.Window{Start: now.Add(-rc.Lookback), End: now}, rc.Key, false
		}
	}
	for _, rc := range builtinRanges {
		if rc.Key == defaultRangeKey {
			return timeline.Window{Start: now.Add(-rc.Lookback), End: now}, rc.Key, false
		}
	}
	return timeline.Window{}, "", false
}

// granularityFor picks the bucket granularity to request from the upstream
// for a window of the given span. The upstream may still answer with a
// coarser one; the series echo is authoritative.
func granularityFor(span time.Duration) (bucket string, minutes int) {
	switch {
	case span <= 3*time.Hour:
		return "minute", 5
	case span <= 72*time.Hour:
		return "hour", 0
	default:
		return "day", 0
	}
}

// BarVM is one chart bar. Counts are rounded for display; the engine keeps
// them fractional internally.
type BarVM struct {
	Label    string
	Success  int64
	Errors   int64
	Total    int64
	DrillURL string
}

// ChartVM is the timeline chart fragment.
type ChartVM struct {
	Bars     []BarVM
	MaxTotal int64
	Bucket   string // granularity the upstream actually used
	HasData  bool
	Error    string // upstream failure message; chart not computed
}

// SummaryVM carries the stat cards.
type SummaryVM struct {
	TotalRequests   string
	SuccessRequests string
	ErrorRequests   string
	ErrorRatePct    string
	InputTokens     string
	OutputTokens    string
	AvgDuration     string
	ActiveKeys      int
	ActiveModels    int
}

// RangeVM is one built-in range link.
type RangeVM struct {
	Key    string
	Label  string
	URL    string
	Active bool
}

// PresetVM is one saved range with its apply link.
type PresetVM struct {
	ID       string
	Name     string
	Detail   string
	ApplyURL string
}

// DashboardVM is the full dashboard page.
type DashboardVM struct {
	viewdata.BaseVM

	Summary SummaryVM
	Chart   ChartVM

	Ranges  []RangeVM
	Presets []PresetVM

	Selected       bool
	SelectionLabel string
	ClearURL       string
	ChartURL       string

	WindowStart string
	WindowEnd   string

	// Hidden fields for the save-preset form, mirroring the current state.
	SaveKind     string
	SaveLookback string // whole seconds, relative presets
	SaveStart    string // ISO instants, absolute presets
	SaveEnd      string

	SaveError string
}
