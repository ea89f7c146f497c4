package timeline

import (
	"testing"
	"time"
)

func utcTime(hour, min int) time.Time {
	return time.Date(2024, 1, 1, hour, min, 0, 0, time.UTC)
}

func TestPartition_EqualWidthContiguous(t *testing.T) {
	w := Window{Start: utcTime(0, 0), End: utcTime(2, 0)}
	bins := Partition(w, 60)

	if len(bins) != 60 {
		t.Fatalf("len(bins) = %d, want 60", len(bins))
	}
	if !bins[0].Start.Equal(w.Start) {
		t.Errorf("bins[0].Start = %v, want %v", bins[0].Start, w.Start)
	}
	if !bins[len(bins)-1].End.Equal(w.End) {
		t.Errorf("last bin End = %v, want %v", bins[len(bins)-1].End, w.End)
	}
	for i := 1; i < len(bins); i++ {
		if !bins[i].Start.Equal(bins[i-1].End) {
			t.Fatalf("bins not contiguous at %d: %v != %v", i, bins[i].Start, bins[i-1].End)
		}
	}
	want := 2 * time.Minute
	for i, b := range bins {
		if got := b.End.Sub(b.Start); got != want {
			t.Fatalf("bins[%d] width = %v, want %v", i, got, want)
		}
	}
}

func TestPartition_NonDivisibleWindow(t *testing.T) {
	// 100ms window split three ways cannot have integer-ms bins; the edges
	// must still cover the window exactly with no rounding slack at the end.
	w := Window{
		Start: time.UnixMilli(1_700_000_000_000).UTC(),
		End:   time.UnixMilli(1_700_000_000_100).UTC(),
	}
	bins := Partition(w, 3)

	if len(bins) != 3 {
		t.Fatalf("len(bins) = %d, want 3", len(bins))
	}
	if !bins[0].Start.Equal(w.Start) {
		t.Errorf("bins[0].Start = %v, want %v", bins[0].Start, w.Start)
	}
	if !bins[2].End.Equal(w.End) {
		t.Errorf("bins[2].End = %v, want exactly %v", bins[2].End, w.End)
	}
	for i := 1; i < len(bins); i++ {
		if !bins[i].Start.Equal(bins[i-1].End) {
			t.Fatalf("bins not contiguous at %d", i)
		}
	}
}

func TestPartition_CountsStartZeroed(t *testing.T) {
	w := Window{Start: utcTime(0, 0), End: utcTime(1, 0)}
	for _, b := range Partition(w, 4) {
		if b.SuccessCount != 0 || b.ErrorCount != 0 {
			t.Fatalf("bin counts not zeroed: %+v", b)
		}
	}
}

func TestPartition_Degenerate(t *testing.T) {
	tests := []struct {
		name     string
		window   Window
		binCount int
	}{
		{"end equals start", Window{Start: utcTime(1, 0), End: utcTime(1, 0)}, 60},
		{"end before start", Window{Start: utcTime(2, 0), End: utcTime(1, 0)}, 60},
		{"zero window", Window{}, 60},
		{"zero bin count", Window{Start: utcTime(0, 0), End: utcTime(1, 0)}, 0},
		{"negative bin count", Window{Start: utcTime(0, 0), End: utcTime(1, 0)}, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if bins := Partition(tt.window, tt.binCount); bins != nil {
				t.Errorf("Partition() = %d bins, want nil", len(bins))
			}
		})
	}
}
