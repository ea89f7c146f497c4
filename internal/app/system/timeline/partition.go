package timeline

import (
	"math"
	"time"
)

// Partition splits the window into binCount equal-width, half-open display
// bins with their counts zeroed. Bin width is computed in floating-point
// milliseconds so a window that does not divide evenly by binCount does not
// accumulate drift; the final bin's upper edge is clamped to exactly
// window.End to eliminate rounding slack.
//
// Degenerate input (invalid window or binCount <= 0) yields nil. Callers must
// render an explicit "no data" state instead of dividing by zero.
func Partition(w Window, binCount int) []Bin {
	if binCount <= 0 || !w.Valid() {
		return nil
	}

	startMs := float64(w.Start.UnixMilli())
	endMs := float64(w.End.UnixMilli())
	width := (endMs - startMs) / float64(binCount)
	if width <= 0 || math.IsInf(width, 0) || math.IsNaN(width) {
		return nil
	}

	bins := make([]Bin, binCount)
	for i := range bins {
		lo := startMs + float64(i)*width
		hi := startMs + float64(i+1)*width
		bins[i].Start = fromMillis(lo)
		if i == binCount-1 {
			bins[i].End = w.End
		} else {
			bins[i].End = fromMillis(hi)
		}
	}
	bins[0].Start = w.Start
	return bins
}

func fromMillis(ms float64) time.Time {
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}
