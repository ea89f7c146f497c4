// internal/app/store/presets/store.go
//
// Package presets stores saved dashboard time ranges. A preset is either
// relative ("last 6 hours") or absolute (a fixed start and end), and the
// dashboard offers saved presets next to the built-in ranges.
package presets

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/strataroute/internal/app/system/timeline"
)

var (
	ErrNotFound      = errors.New("preset not found")
	ErrDuplicateName = errors.New("preset name already exists")
	ErrInvalid       = errors.New("preset is invalid")
)

// Kind values for Preset.
const (
	KindRelative = "relative"
	KindAbsolute = "absolute"
)

// Preset is one saved time range.
type Preset struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
	Kind string             `bson:"kind"`

	// Relative presets: window ends now and spans Lookback.
	Lookback time.Duration `bson:"lookback_ns,omitempty"`

	// Absolute presets: fixed bounds.
	Start time.Time `bson:"start,omitempty"`
	End   time.Time `bson:"end,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
}

// Validate checks the preset's shape without touching the database.
func (p Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalid
	}
	switch p.Kind {
	case KindRelative:
		if p.Lookback <= 0 {
			return ErrInvalid
		}
	case KindAbsolute:
		w := timeline.Window{Start: p.Start, End: p.End}
		if !w.Valid() {
			return ErrInvalid
		}
	default:
		return ErrInvalid
	}
	return nil
}

// Window resolves the preset to a concrete window at the given instant.
func (p Preset) Window(now time.Time) timeline.Window {
	if p.Kind == KindRelative {
		return timeline.Window{Start: now.Add(-p.Lookback), End: now}
	}
	return timeline.Window{Start: p.Start, End: p.End}
}

// Store manages saved range presets.
type Store struct {
	c *mongo.Collection
}

// New creates a new preset store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("range_presets")}
}

// EnsureIndexes creates the unique name index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("idx_preset_name").SetUnique(true),
	})
	return err
}

// Create stores a preset. Names are unique; ErrDuplicateName on clash.
func (s *Store) Create(ctx context.Context, p Preset) (Preset, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Preset{}, ErrDuplicateName
		}
		return Preset{}, err
	}
	return p, nil
}

// List returns all presets sorted by name.
func (s *Store) List(ctx context.Context) ([]Preset, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []Preset
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one preset by hex ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Preset, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Preset{}, ErrNotFound
	}
	var p Preset
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return Preset{}, ErrNotFound
		}
		return Preset{}, err
	}
	return p, nil
}

// Delete removes a preset by hex ID, or ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
