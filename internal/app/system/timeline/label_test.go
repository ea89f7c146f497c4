package timeline

import (
	"strings"
	"testing"
	"time"
)

func TestFormatLabel_DayWideShowsDateOnly(t *testing.T) {
	b := Bin{
		Start: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
	}
	if got := FormatLabel(b, 24*time.Hour, time.UTC); got != "2024-03-05" {
		t.Errorf("FormatLabel() = %q, want %q", got, "2024-03-05")
	}
	// Wider than a day behaves the same.
	if got := FormatLabel(b, 48*time.Hour, time.UTC); got != "2024-03-05" {
		t.Errorf("FormatLabel() = %q, want %q", got, "2024-03-05")
	}
}

func TestFormatLabel_SubDayRange(t *testing.T) {
	b := Bin{
		Start: time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC),
	}
	got := FormatLabel(b, time.Hour, time.UTC)
	want := "Mar 5 14:00 - 14:59"
	if got != want {
		t.Errorf("FormatLabel() = %q, want %q", got, want)
	}
}

func TestFormatLabel_RangeCrossingMidnight(t *testing.T) {
	b := Bin{
		Start: time.Date(2024, 3, 5, 23, 30, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 6, 0, 30, 0, 0, time.UTC),
	}
	got := FormatLabel(b, time.Hour, time.UTC)
	if !strings.Contains(got, "Mar 5") || !strings.Contains(got, "Mar 6") {
		t.Errorf("FormatLabel() = %q, want both dates present", got)
	}
}

func TestFormatLabel_ViewerLocation(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	b := Bin{
		Start: time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC), // 08:00 in Chicago (CST)
		End:   time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC),
	}
	got := FormatLabel(b, time.Hour, chicago)
	want := "Mar 5 08:00 - 08:59"
	if got != want {
		t.Errorf("FormatLabel() = %q, want %q", got, want)
	}
}

func TestFormatLabel_FallbackOnUnusableBounds(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		bin  Bin
	}{
		{"zero end", Bin{Start: start}},
		{"end not after start", Bin{Start: start, End: start}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatLabel(tt.bin, time.Hour, time.UTC)
			if got != start.Format(time.RFC3339) {
				t.Errorf("FormatLabel() = %q, want RFC3339 fallback %q", got, start.Format(time.RFC3339))
			}
		})
	}
}
