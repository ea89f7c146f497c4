// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/strataroute/internal/app/upstream"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown.
type DBDeps struct {
	// MongoDB client and database for console-local state
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Upstream is the routing proxy's management API client
	Upstream *upstream.Client
}
