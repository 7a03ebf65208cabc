// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps carries the database handles built during ConnectDB and passed
// to the rest of the hooks.
type DBDeps struct {
	NexusHubMongoClient   *mongo.Client
	NexusHubMongoDatabase *mongo.Database
}
