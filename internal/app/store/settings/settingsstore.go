// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"time"

	"github.com/dalemusser/strataroute/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the console_settings collection.
// The console keeps a singleton settings document.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("console_settings")}
}

// Get returns the console settings. When no document exists yet the
// defaults are returned. The result is always normalized.
func (s *Store) Get(ctx context.Context) (*models.ConsoleSettings, error) {
	var settings models.ConsoleSettings
	filter := bson.M{"singleton": true}
	err := s.c.FindOne(ctx, filter).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		def := models.DefaultConsoleSettings()
		return &def, nil
	}
	if err != nil {
		return nil, err
	}
	settings.Normalize()
	return &settings, nil
}

// Save upserts the singleton settings document. The value is normalized
// before writing.
func (s *Store) Save(ctx context.Context, settings models.ConsoleSettings) error {
	settings.Normalize()
	now := time.Now().UTC()

	filter := bson.M{"singleton": true}
	update := bson.M{
		"$set": bson.M{
			"singleton":          true,
			"site_name":          settings.SiteName,
			"footer_html":        settings.FooterHTML,
			"chart_bins":         settings.ChartBins,
			"display_timezone":   settings.DisplayTimezone,
			"log_page_size":      settings.LogPageSize,
			"audit_retention_ns": settings.AuditRetention,
			"updated_at":         now,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}

// Exists reports whether settings have ever been saved.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"singleton": true})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
