package timeline

import (
	"regexp"
	"strings"
	"time"
)

// offsetSuffix matches an explicit trailing UTC marker or numeric offset.
var offsetSuffix = regexp.MustCompile(`(Z|[+-]\d{2}:?\d{2})$`)

// Layouts for labels carrying an explicit offset.
var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
}

// Layouts reinterpreted as UTC when no offset is present. time.Parse resolves
// these in UTC, which is exactly the implicit-Z behavior we want.
var utcLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// Layouts constructed as local-naive instants in the caller's location.
//
// The upstream emits bare hour labels ("2024-03-05 14:00") and bare date
// labels ("2024-03-05") without any timezone, and the original console parsed
// those in the viewer's local calendar while the ISO/SQL paths above resolve
// to UTC. The asymmetry is deliberate here: unifying it would shift chart
// alignment for operators outside UTC, so it is kept and pinned by tests.
var localLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseBucketLabel parses an upstream bucket label into an absolute instant.
//
// Accepted forms, tried in order:
//   - anything with an explicit Z or numeric offset, taken at face value
//   - ISO date-time without offset, and SQL-style "YYYY-MM-DD HH:mm:ss"
//     (space separator, with seconds), both reinterpreted as UTC
//   - bare hour "YYYY-MM-DD HH:mm" and bare date "YYYY-MM-DD", constructed
//     in loc (UTC when loc is nil)
//
// Returns ok=false for anything else; callers drop the sample instead of
// aborting the whole series.
func ParseBucketLabel(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}

	if offsetSuffix.MatchString(s) {
		for _, layout := range offsetLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}

	for _, layout := range utcLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
