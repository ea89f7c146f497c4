package timeline

import (
	"net/url"
	"time"
)

// isoInstant matches the wire encoding the upstream accepts for time filters.
const isoInstant = "2006-01-02T15:04:05.000Z07:00"

// Activate translates a click on a display bin into the drill-down window for
// the next query. The end is pulled back 1ms (floored at the start) so
// drilling into a bin never produces an inverted range, even for the
// narrowest bins.
func Activate(b Bin) Window {
	end := b.End.Add(-time.Millisecond)
	if end.Before(b.Start) {
		end = b.Start
	}
	return Window{Start: b.Start, End: end}
}

// QueryValues encodes the window as the start_time/end_time pair the caller
// re-issues on the next upstream query. Clearing a selection is simply the
// absence of both parameters.
func (w Window) QueryValues() url.Values {
	v := url.Values{}
	v.Set("start_time", w.Start.UTC().Format(isoInstant))
	v.Set("end_time", w.End.UTC().Format(isoInstant))
	return v
}

// ParseWindow decodes a start_time/end_time pair back into a Window.
// Either value missing or malformed, or a non-positive span, yields ok=false:
// the caller treats that as "no selection" and does not invoke the engine.
func ParseWindow(start, end string) (Window, bool) {
	if start == "" || end == "" {
		return Window{}, false
	}
	s, err := time.Parse(time.RFC3339Nano, start)
	if err != nil {
		return Window{}, false
	}
	e, err := time.Parse(time.RFC3339Nano, end)
	if err != nil {
		return Window{}, false
	}
	w := Window{Start: s, End: e}
	if !w.Valid() {
		return Window{}, false
	}
	return w, true
}
