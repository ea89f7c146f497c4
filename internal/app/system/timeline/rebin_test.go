package timeline

import (
	"math"
	"testing"
	"time"
)

const epsilon = 1e-6

func sumSuccess(bins []Bin) float64 {
	var total float64
	for _, b := range bins {
		total += b.SuccessCount
	}
	return total
}

func sumErrors(bins []Bin) float64 {
	var total float64
	for _, b := range bins {
		total += b.ErrorCount
	}
	return total
}

// The concrete scenario from the chart contract: a 1-hour raw sample at 00:30
// straddles two 1-hour display bins exactly 50/50.
func TestRebin_StraddleSplit(t *testing.T) {
	w := Window{Start: utcTime(0, 0), End: utcTime(2, 0)}
	raw := []RawBucket{{Label: "2024-01-01T00:30:00Z", SuccessCount: 10}}

	bins := Rebin(raw, w, Partition(w, 2), time.Hour, time.UTC)

	if len(bins) != 2 {
		t.Fatalf("len(bins) = %d, want 2", len(bins))
	}
	if math.Abs(bins[0].SuccessCount-5) > epsilon {
		t.Errorf("bins[0].SuccessCount = %v, want 5", bins[0].SuccessCount)
	}
	if math.Abs(bins[1].SuccessCount-5) > epsilon {
		t.Errorf("bins[1].SuccessCount = %v, want 5", bins[1].SuccessCount)
	}
}

func TestRebin_MassPreservation(t *testing.T) {
	// Window fully contains the raw interval; total out == total in.
	w := Window{Start: utcTime(0, 0), End: utcTime(6, 0)}
	raw := []RawBucket{
		{Label: "2024-01-01T01:17:00Z", SuccessCount: 42, ErrorCount: 7},
	}

	bins := Rebin(raw, w, Partition(w, 60), time.Hour, time.UTC)

	if got := sumSuccess(bins); math.Abs(got-42) > epsilon {
		t.Errorf("success sum = %v, want 42", got)
	}
	if got := sumErrors(bins); math.Abs(got-7) > epsilon {
		t.Errorf("error sum = %v, want 7", got)
	}
}

func TestRebin_PartialOverlapHalfOutside(t *testing.T) {
	// Raw interval [23:30 Dec 31, 00:30 Jan 1); window starts at midnight, so
	// exactly half the interval is visible and exactly half the count lands.
	w := Window{Start: utcTime(0, 0), End: utcTime(4, 0)}
	raw := []RawBucket{{Label: "2023-12-31T23:30:00Z", SuccessCount: 8, ErrorCount: 2}}

	bins := Rebin(raw, w, Partition(w, 4), time.Hour, time.UTC)

	if got := sumSuccess(bins); math.Abs(got-4) > epsilon {
		t.Errorf("success sum = %v, want 4", got)
	}
	if got := sumErrors(bins); math.Abs(got-1) > epsilon {
		t.Errorf("error sum = %v, want 1", got)
	}
	// The visible half sits entirely in the first display bin.
	if math.Abs(bins[0].SuccessCount-4) > epsilon {
		t.Errorf("bins[0].SuccessCount = %v, want 4", bins[0].SuccessCount)
	}
}

func TestRebin_EntirelyOutsideWindow(t *testing.T) {
	w := Window{Start: utcTime(0, 0), End: utcTime(2, 0)}
	raw := []RawBucket{
		{Label: "2023-12-30T00:00:00Z", SuccessCount: 100},
		{Label: "2024-01-05T00:00:00Z", SuccessCount: 100},
	}

	bins := Rebin(raw, w, Partition(w, 2), time.Hour, time.UTC)

	if got := sumSuccess(bins); got != 0 {
		t.Errorf("success sum = %v, want 0", got)
	}
}

func TestRebin_NoDoubleCountingAcrossAdjacentBins(t *testing.T) {
	w := Window{Start: utcTime(0, 0), End: utcTime(3, 0)}
	raw := []RawBucket{{Label: "2024-01-01T00:45:00Z", SuccessCount: 12}}

	bins := Rebin(raw, w, Partition(w, 3), time.Hour, time.UTC)

	for i := 0; i < len(bins)-1; i++ {
		pair := bins[i].SuccessCount + bins[i+1].SuccessCount
		if pair > 12+epsilon {
			t.Errorf("bins %d+%d sum = %v, exceeds source count 12", i, i+1, pair)
		}
	}
	if got := sumSuccess(bins); math.Abs(got-12) > epsilon {
		t.Errorf("success sum = %v, want 12", got)
	}
}

func TestRebin_HalfOpenBoundary(t *testing.T) {
	// Raw interval [00:00, 01:00) ends exactly on the bin-1 boundary; the bin
	// starting at 01:00 must receive nothing.
	w := Window{Start: utcTime(0, 0), End: utcTime(2, 0)}
	raw := []RawBucket{{Label: "2024-01-01T00:00:00Z", SuccessCount: 9}}

	bins := Rebin(raw, w, Partition(w, 2), time.Hour, time.UTC)

	if math.Abs(bins[0].SuccessCount-9) > epsilon {
		t.Errorf("bins[0].SuccessCount = %v, want 9", bins[0].SuccessCount)
	}
	if bins[1].SuccessCount != 0 {
		t.Errorf("bins[1].SuccessCount = %v, want exactly 0", bins[1].SuccessCount)
	}
}

func TestRebin_UnparseableLabelsDropped(t *testing.T) {
	w := Window{Start: utcTime(0, 0), End: utcTime(2, 0)}
	raw := []RawBucket{
		{Label: "garbage", SuccessCount: 100},
		{Label: "2024-01-01T00:00:00Z", SuccessCount: 6},
		{Label: "", SuccessCount: 50},
	}

	bins := Rebin(raw, w, Partition(w, 2), time.Hour, time.UTC)

	if got := sumSuccess(bins); math.Abs(got-6) > epsilon {
		t.Errorf("success sum = %v, want 6 (malformed samples dropped)", got)
	}
}

func TestRebin_UnsortedSparseInput(t *testing.T) {
	w := Window{Start: utcTime(0, 0), End: utcTime(6, 0)}
	raw := []RawBucket{
		{Label: "2024-01-01T04:00:00Z", SuccessCount: 3},
		{Label: "2024-01-01T00:00:00Z", SuccessCount: 1},
		{Label: "2024-01-01T02:00:00Z", SuccessCount: 2},
	}

	bins := Rebin(raw, w, Partition(w, 6), time.Hour, time.UTC)

	wantByBin := []float64{1, 0, 2, 0, 3, 0}
	for i, want := range wantByBin {
		if math.Abs(bins[i].SuccessCount-want) > epsilon {
			t.Errorf("bins[%d].SuccessCount = %v, want %v", i, bins[i].SuccessCount, want)
		}
	}
}

func TestRebin_MinuteGranularity(t *testing.T) {
	// 15-minute raw buckets over a 1-hour window split into 4 bins line up
	// one-to-one.
	w := Window{Start: utcTime(0, 0), End: utcTime(1, 0)}
	unit := UnitWidth("minute", 15)
	raw := []RawBucket{
		{Label: "2024-01-01T00:00:00Z", SuccessCount: 4},
		{Label: "2024-01-01T00:15:00Z", SuccessCount: 5},
		{Label: "2024-01-01T00:30:00Z", SuccessCount: 6},
		{Label: "2024-01-01T00:45:00Z", SuccessCount: 7},
	}

	bins := Rebin(raw, w, Partition(w, 4), unit, time.UTC)

	for i, want := range []float64{4, 5, 6, 7} {
		if math.Abs(bins[i].SuccessCount-want) > epsilon {
			t.Errorf("bins[%d].SuccessCount = %v, want %v", i, bins[i].SuccessCount, want)
		}
	}
}

func TestRebin_EmptyBinSetShortCircuits(t *testing.T) {
	w := Window{Start: utcTime(2, 0), End: utcTime(1, 0)}
	raw := []RawBucket{{Label: "2024-01-01T00:00:00Z", SuccessCount: 5}}

	if bins := Rebin(raw, w, Partition(w, 60), time.Hour, time.UTC); len(bins) != 0 {
		t.Errorf("len(bins) = %d, want 0", len(bins))
	}
}

func TestUnitWidth(t *testing.T) {
	tests := []struct {
		bucket  string
		minutes int
		want    time.Duration
	}{
		{"hour", 0, time.Hour},
		{"day", 0, 24 * time.Hour},
		{"hour", 5, time.Hour}, // named granularity wins over minutes
		{"minute", 5, 5 * time.Minute},
		{"minute", 0, time.Hour},
		{"", 30, 30 * time.Minute},
		{"", 0, time.Hour},
	}
	for _, tt := range tests {
		if got := UnitWidth(tt.bucket, tt.minutes); got != tt.want {
			t.Errorf("UnitWidth(%q, %d) = %v, want %v", tt.bucket, tt.minutes, got, tt.want)
		}
	}
}

func TestBuildSeries_LabelsAndDefaults(t *testing.T) {
	w := Window{Start: utcTime(0, 0), End: utcTime(2, 0)}
	raw := []RawBucket{{Label: "2024-01-01T00:30:00Z", SuccessCount: 10}}

	bins := BuildSeries(raw, w, SeriesOptions{})

	if len(bins) != DefaultBinCount {
		t.Fatalf("len(bins) = %d, want %d", len(bins), DefaultBinCount)
	}
	if got := sumSuccess(bins); math.Abs(got-10) > epsilon {
		t.Errorf("success sum = %v, want 10", got)
	}
	for i, b := range bins {
		if b.Label == "" {
			t.Fatalf("bins[%d].Label empty", i)
		}
	}
}

func TestBuildSeries_DegenerateWindow(t *testing.T) {
	if bins := BuildSeries(nil, Window{}, SeriesOptions{BinCount: 10}); bins != nil {
		t.Errorf("BuildSeries() = %d bins, want nil", len(bins))
	}
}
