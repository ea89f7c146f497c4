// Package timeline resamples backend-supplied request-count histograms onto a
// fixed number of equal-width display bins for the usage chart.
//
// The upstream proxy reports sparse, loosely-labeled buckets at a fixed
// granularity (hour, day, or n-minute). The console lets the operator pick an
// arbitrary absolute window, so bucket edges rarely line up with display-bin
// edges; counts are redistributed proportionally to interval overlap so the
// chart never double-counts and never silently drops in-window traffic.
//
// Everything in this package is a pure function of its inputs: no I/O, no
// shared state, fresh output per call. Handlers invoke it inline during
// rendering and may do so concurrently.
package timeline

import "time"

// DefaultBinCount is the number of display bins used when the caller does not
// configure one.
const DefaultBinCount = 60

// RawBucket is one interval-count pair as reported by the upstream usage API.
// Label denotes the start of an interval whose width is determined by the
// query's bucket granularity (see UnitWidth). Buckets arrive sparse and in no
// particular order.
type RawBucket struct {
	Label        string  `json:"bucket"`
	SuccessCount float64 `json:"success_count"`
	ErrorCount   float64 `json:"error_count"`
}

// Window is the currently selected absolute time range. A Window is only
// meaningful when End is strictly after Start; everything else renders as
// "no data" rather than an error.
type Window struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the window has usable bounds.
func (w Window) Valid() bool {
	return !w.Start.IsZero() && !w.End.IsZero() && w.End.After(w.Start)
}

// Duration returns the window span. Zero for invalid windows.
func (w Window) Duration() time.Duration {
	if !w.Valid() {
		return 0
	}
	return w.End.Sub(w.Start)
}

// Bin is one display-side interval, half-open [Start, End). The full bin set
// for a render is contiguous and equal-width, with the first start and last
// end pinned exactly to the window bounds. Counts stay fractional until
// presentation.
type Bin struct {
	Label        string  `json:"label"`
	SuccessCount float64 `json:"success_count"`
	ErrorCount   float64 `json:"error_count"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Total returns the combined success and error count for the bin.
func (b Bin) Total() float64 {
	return b.SuccessCount + b.ErrorCount
}

// UnitWidth maps the upstream bucket granularity onto the width of each raw
// bucket's source interval. Custom minute granularity takes effect only for
// bucket values other than "hour" and "day".
func UnitWidth(bucket string, bucketMinutes int) time.Duration {
	switch bucket {
	case "day":
		return 24 * time.Hour
	case "hour":
		return time.Hour
	}
	if bucketMinutes > 0 {
		return time.Duration(bucketMinutes) * time.Minute
	}
	return time.Hour
}

// SeriesOptions configures BuildSeries.
type SeriesOptions struct {
	// BinCount is the number of display bins; DefaultBinCount when <= 0.
	BinCount int
	// Unit is the width of each raw bucket's source interval; 1h when <= 0.
	Unit time.Duration
	// Location is used for the local-naive label parse path and for display
	// labels. UTC when nil.
	Location *time.Location
}

// BuildSeries runs the full pipeline: partition the window, redistribute the
// raw counts, and attach display labels. Returns nil for degenerate windows;
// callers render an explicit "no data" state.
func BuildSeries(raw []RawBucket, w Window, opts SeriesOptions) []Bin {
	binCount := opts.BinCount
	if binCount <= 0 {
		binCount = DefaultBinCount
	}
	unit := opts.Unit
	if unit <= 0 {
		unit = time.Hour
	}

	bins := Partition(w, binCount)
	if len(bins) == 0 {
		return nil
	}
	bins = Rebin(raw, w, bins, unit, opts.Location)

	width := w.Duration() / time.Duration(binCount)
	for i := range bins {
		bins[i].Label = FormatLabel(bins[i], width, opts.Location)
	}
	return bins
}
