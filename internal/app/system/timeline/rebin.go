package timeline

import (
	"math"
	"sort"
	"time"
)

// Rebin redistributes raw bucket counts onto the display bins via interval
// overlap and returns the same bins slice with counts populated.
//
// Each raw bucket covers the half-open source interval [t, t+unit). The part
// of that interval inside the window is split across every display bin it
// touches, each receiving count * segmentOverlap/unit. Redistribution is
// mass-preserving for the in-window portion: a bucket fully inside the window
// contributes exactly its count in total, a bucket half outside contributes
// half, and a bucket that merely touches a bin edge contributes nothing to
// that bin.
//
// Failure semantics: unparseable labels are dropped sample-by-sample, an
// empty bin set short-circuits, and no input can make Rebin fail. The chart
// is a non-critical surface; partial data beats an interrupted page.
func Rebin(raw []RawBucket, w Window, bins []Bin, unit time.Duration, loc *time.Location) []Bin {
	if len(bins) == 0 || !w.Valid() || unit <= 0 {
		return bins
	}

	type sample struct {
		at      time.Time
		success float64
		errors  float64
	}
	samples := make([]sample, 0, len(raw))
	for _, rb := range raw {
		at, ok := ParseBucketLabel(rb.Label, loc)
		if !ok {
			continue
		}
		samples = append(samples, sample{at: at, success: rb.SuccessCount, errors: rb.ErrorCount})
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].at.Before(samples[j].at) })

	startMs := float64(w.Start.UnixMilli())
	endMs := float64(w.End.UnixMilli())
	binWidth := (endMs - startMs) / float64(len(bins))
	unitMs := float64(unit.Milliseconds())

	for _, s := range samples {
		t0 := float64(s.at.UnixMilli())
		t1 := t0 + unitMs

		overlapStart := math.Max(t0, startMs)
		overlapEnd := math.Min(t1, endMs)
		if overlapEnd <= overlapStart {
			continue
		}

		first := clampIndex(int(math.Floor((overlapStart-startMs)/binWidth)), len(bins))
		last := clampIndex(int(math.Floor((overlapEnd-startMs)/binWidth)), len(bins))

		for i := first; i <= last; i++ {
			binLo := startMs + float64(i)*binWidth
			binHi := startMs + float64(i+1)*binWidth
			if i == len(bins)-1 {
				binHi = endMs
			}
			segLo := math.Max(t0, binLo)
			segHi := math.Min(t1, binHi)
			if segHi <= segLo {
				continue
			}
			frac := (segHi - segLo) / unitMs
			bins[i].SuccessCount += s.success * frac
			bins[i].ErrorCount += s.errors * frac
		}
	}
	return bins
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
