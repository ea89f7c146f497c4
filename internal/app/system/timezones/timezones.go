// Package timezones carries the curated timezone list offered in the
// console settings for the dashboard's display timezone. The list is
// embedded so the dropdown never depends on the host's zoneinfo layout,
// though resolving an ID to a *time.Location still does.
package timezones

import (
	"embed"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

//go:embed timezonedata/timezones.json
var fsys embed.FS

type Zone struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Region string `json:"region,omitempty"`
}

type ZoneGroup struct {
	Region string
	Zones  []Zone
}

var (
	loadOnce sync.Once
	zones    []Zone
	byID     map[string]Zone
	groups   []ZoneGroup
	loadErr  error
)

func load() {
	loadOnce.Do(func() {
		data, err := fsys.ReadFile("timezonedata/timezones.json")
		if err != nil {
			loadErr = err
			return
		}

		var list []Zone
		if err := json.Unmarshal(data, &list); err != nil {
			loadErr = err
			return
		}

		zones = list
		byID = make(map[string]Zone, len(list))
		byRegion := make(map[string][]Zone)
		for _, z := range list {
			byID[z.ID] = z
			region := z.Region
			if region == "" {
				region = "Other"
			}
			byRegion[region] = append(byRegion[region], z)
		}

		groups = make([]ZoneGroup, 0, len(byRegion))
		for region, zs := range byRegion {
			sort.SliceStable(zs, func(i, j int) bool {
				return zs[i].Label < zs[j].Label
			})
			groups = append(groups, ZoneGroup{Region: region, Zones: zs})
		}
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].Region < groups[j].Region
		})
	})
}

// Load is optional: call it at startup to fail fast on a broken
// embedded list.
func Load() error {
	load()
	return loadErr
}

// All returns the curated list of zones in file order.
func All() ([]Zone, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	return zones, nil
}

// Groups returns the curated zones grouped by region, groups and zones
// both sorted.
func Groups() ([]ZoneGroup, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	return groups, nil
}

// Label returns the human-friendly label for an ID, or the ID itself if
// not found.
func Label(id string) string {
	load()
	if loadErr != nil {
		return id
	}
	if z, ok := byID[id]; ok && z.Label != "" {
		return z.Label
	}
	return id
}

// Valid reports whether the given ID exists in the curated list.
func Valid(id string) bool {
	load()
	if loadErr != nil {
		return false
	}
	_, ok := byID[id]
	return ok
}

// Location resolves a curated ID to a *time.Location, falling back to
// UTC for unknown or unloadable zones.
func Location(id string) *time.Location {
	if !Valid(id) {
		return time.UTC
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return time.UTC
	}
	return loc
}
