// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/elastic/go-elasticsearch/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/system/indexes"
	"github.com/dalemusser/acadhub/internal/app/system/timeouts"
)

// ConnectDB establishes the MongoDB connection and, when configured, the
// Elasticsearch client. Mongo is required; a failed Elasticsearch client
// only logs, since search degrades to the store fallback without it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	if appCfg.ElasticsearchNode != "" {
		es, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{appCfg.ElasticsearchNode},
		})
		if err != nil {
			logger.Warn("elasticsearch client init failed, search will use the store fallback",
				zap.String("node", appCfg.ElasticsearchNode), zap.Error(err))
		} else {
			deps.SearchClient = es
			logger.Info("elasticsearch client configured",
				zap.String("node", appCfg.ElasticsearchNode))
		}
	} else {
		logger.Info("no elasticsearch node configured, search will use the store fallback")
	}

	return deps, nil
}

// EnsureSchema creates the MongoDB indexes the stores rely on.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}
