// internal/domain/models/consolesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Defaults applied when no settings document exists yet.
const (
	DefaultSiteName    = "StrataRoute Console"
	DefaultFooterHTML  = `<p>StrataRoute routing proxy console</p>`
	DefaultChartBins   = 60
	DefaultTimezone    = "UTC"
	DefaultLogPageSize = 25
	DefaultAuditRetain = 90 * 24 * time.Hour
	MinChartBins       = 12
	MaxChartBins       = 240
)

// ConsoleSettings is the singleton settings document for the console.
// Routing configuration lives in the proxy; these settings only shape
// how the console presents it.
type ConsoleSettings struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	SiteName   string             `bson:"site_name"`
	FooterHTML string             `bson:"footer_html,omitempty"`

	// Dashboard presentation
	ChartBins       int    `bson:"chart_bins"`
	DisplayTimezone string `bson:"display_timezone"`

	// Request log listing
	LogPageSize int `bson:"log_page_size"`

	// Audit event retention; events older than this are pruned.
	AuditRetention time.Duration `bson:"audit_retention_ns"`

	UpdatedAt time.Time `bson:"updated_at"`
}

// DefaultConsoleSettings returns a settings value with every field at
// its default.
func DefaultConsoleSettings() ConsoleSettings {
	return ConsoleSettings{
		SiteName:        DefaultSiteName,
		FooterHTML:      DefaultFooterHTML,
		ChartBins:       DefaultChartBins,
		DisplayTimezone: DefaultTimezone,
		LogPageSize:     DefaultLogPageSize,
		AuditRetention:  DefaultAuditRetain,
	}
}

// Normalize clamps out-of-range values back to usable ones.
func (s *ConsoleSettings) Normalize() {
	if s.SiteName == "" {
		s.SiteName = DefaultSiteName
	}
	if s.ChartBins < MinChartBins || s.ChartBins > MaxChartBins {
		s.ChartBins = DefaultChartBins
	}
	if s.DisplayTimezone == "" {
		s.DisplayTimezone = DefaultTimezone
	}
	if s.LogPageSize <= 0 || s.LogPageSize > 500 {
		s.LogPageSize = DefaultLogPageSize
	}
	if s.AuditRetention <= 0 {
		s.AuditRetention = DefaultAuditRetain
	}
}

// Location resolves the configured display timezone, falling back to
// UTC when the name does not load.
func (s ConsoleSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
