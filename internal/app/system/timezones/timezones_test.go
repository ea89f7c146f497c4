package timezones

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	if err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// Idempotent.
	if err := Load(); err != nil {
		t.Fatalf("Load() second call error = %v", err)
	}
}

func TestAll(t *testing.T) {
	zones, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(zones) == 0 {
		t.Fatal("All() returned empty slice")
	}
	for _, z := range zones {
		if z.ID == "" {
			t.Error("zone with empty ID found")
		}
		if z.Label == "" {
			t.Errorf("zone %s has empty Label", z.ID)
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"America/New_York", true},
		{"America/Chicago", true},
		{"Europe/London", true},
		{"Asia/Tokyo", true},
		{"UTC", true},
		{"Invalid/Timezone", false},
		{"", false},
		{"random", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Valid(tt.id); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if label := Label("America/New_York"); label == "" || label == "America/New_York" {
		t.Errorf("Label(America/New_York) = %q, want human-friendly label", label)
	}
	if label := Label("Invalid/Timezone"); label != "Invalid/Timezone" {
		t.Errorf("Label(Invalid/Timezone) = %q, want the ID back", label)
	}
}

func TestGroups(t *testing.T) {
	groups, err := Groups()
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) == 0 {
		t.Fatal("Groups() returned empty slice")
	}

	totalZones := 0
	for i, g := range groups {
		if g.Region == "" {
			t.Error("group with empty Region found")
		}
		if len(g.Zones) == 0 {
			t.Errorf("group %s has no zones", g.Region)
		}
		if i > 0 && g.Region < groups[i-1].Region {
			t.Errorf("groups not sorted: %q before %q", groups[i-1].Region, g.Region)
		}
		for j := 1; j < len(g.Zones); j++ {
			if g.Zones[j].Label < g.Zones[j-1].Label {
				t.Errorf("zones in %s not sorted: %q before %q", g.Region, g.Zones[j-1].Label, g.Zones[j].Label)
			}
		}
		totalZones += len(g.Zones)
	}

	all, _ := All()
	if totalZones != len(all) {
		t.Errorf("Groups total zones = %d, All() zones = %d", totalZones, len(all))
	}
}

func TestLocation(t *testing.T) {
	if loc := Location("America/Chicago"); loc.String() != "America/Chicago" {
		t.Errorf("Location(America/Chicago) = %v", loc)
	}
	if loc := Location("Not/AZone"); loc != time.UTC {
		t.Errorf("Location(unknown) = %v, want UTC", loc)
	}
	if loc := Location(""); loc != time.UTC {
		t.Errorf("Location(empty) = %v, want UTC", loc)
	}
}
