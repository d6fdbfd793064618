// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/elastic/go-elasticsearch/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// SearchClient is nil when no Elasticsearch node is configured; search then
// runs on the store fallback alone.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	SearchClient  *elasticsearch.Client
}
