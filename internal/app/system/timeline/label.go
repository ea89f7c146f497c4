package timeline

import "time"

// FormatLabel renders the human-readable label for a display bin, used for
// both axis ticks and tooltips.
//
// Bins a day or wider show the start date alone. Narrower bins show a
// start-end range in the viewer's location, with the end rendered 1ms early
// so the displayed range never implies overlap with the next bin. A bin with
// unusable bounds falls back to a raw ISO rendering of the start.
func FormatLabel(b Bin, binWidth time.Duration, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	if binWidth >= 24*time.Hour {
		return b.Start.In(loc).Format("2006-01-02")
	}

	if b.End.IsZero() || !b.End.After(b.Start) {
		return b.Start.UTC().Format(time.RFC3339)
	}

	start := b.Start.In(loc)
	end := b.End.Add(-time.Millisecond).In(loc)
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return start.Format("Jan 2 15:04") + " - " + end.Format("15:04")
	}
	return start.Format("Jan 2 15:04") + " - " + end.Format("Jan 2 15:04")
}
