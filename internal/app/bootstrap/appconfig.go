// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging
// level, CORS). AppConfig is everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Token configuration
	JWTSecret string        // Secret for signing bearer tokens (must be strong in production)
	JWTExpiry time.Duration // Token lifetime

	// File storage configuration
	StorageLocalPath string // Local storage path (e.g., "./uploads/materials")
	StorageLocalURL  string // URL prefix for serving local files

	// Search configuration
	ElasticsearchNode string        // Elasticsearch node URL; blank disables the index
	SearchTimeout     time.Duration // Per-call budget for index operations
	IndexQueueSize    int           // Background index write queue capacity
	ReindexInterval   time.Duration // Full reindex cadence; zero disables the job
}
