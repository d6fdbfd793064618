// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountsfeature "github.com/dalemusser/acadhub/internal/app/features/accounts"
	bookmarksfeature "github.com/dalemusser/acadhub/internal/app/features/bookmarks"
	dashboardfeature "github.com/dalemusser/acadhub/internal/app/features/dashboard"
	healthfeature "github.com/dalemusser/acadhub/internal/app/features/health"
	materialsfeature "github.com/dalemusser/acadhub/internal/app/features/materials"
	progressfeature "github.com/dalemusser/acadhub/internal/app/features/progress"
	requestsfeature "github.com/dalemusser/acadhub/internal/app/features/requests"
	searchfeature "github.com/dalemusser/acadhub/internal/app/features/search"
	subjectsfeature "github.com/dalemusser/acadhub/internal/app/features/subjects"
	viewsfeature "github.com/dalemusser/acadhub/internal/app/features/views"
	searchcore "github.com/dalemusser/acadhub/internal/app/search"
	"github.com/dalemusser/acadhub/internal/app/store/activity"
	bookmarkstore "github.com/dalemusser/acadhub/internal/app/store/bookmarks"
	requeststore "github.com/dalemusser/acadhub/internal/app/store/requests"
	userstore "github.com/dalemusser/acadhub/internal/app/store/users"
	"github.com/dalemusser/acadhub/internal/app/system/auth"
	"github.com/dalemusser/acadhub/internal/app/system/engagement"
	"github.com/dalemusser/acadhub/internal/app/system/ratelimit"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed, so the subject store and search adapter built in
// Startup are available here.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	fileStore, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("local storage init failed", zap.Error(err))
		return nil, err
	}

	authMgr := auth.NewManager(appCfg.JWTSecret, appCfg.JWTExpiry)

	users := userstore.New(deps.MongoDatabase)
	bookmarks := bookmarkstore.New(deps.MongoDatabase)
	requests := requeststore.New(deps.MongoDatabase)
	activities := activity.New(deps.MongoDatabase)

	tracker := engagement.NewTracker(subjectStore, users, activities, logger)
	orchestrator := searchcore.NewOrchestrator(searchIndex, searchcore.NewFallback(subjectStore), logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, searchIndex, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Registration and login are the only unauthenticated routes.
	accountsHandler := accountsfeature.NewHandler(users, authMgr, logger)
	credentialLimiter := ratelimit.New(10, time.Minute)
	r.Mount("/accounts", accountsfeature.Routes(accountsHandler, credentialLimiter))

	r.Group(func(r chi.Router) {
		r.Use(authMgr.Middleware)

		subjectsHandler := subjectsfeature.NewHandler(subjectStore, activities, fileStore, logger)
		r.Mount("/subjects", subjectsfeature.Routes(subjectsHandler))

		materialsHandler := materialsfeature.NewHandler(subjectStore, tracker, fileStore, logger)
		r.Mount("/materials", materialsfeature.Routes(materialsHandler))

		searchHandler := searchfeature.NewHandler(orchestrator, logger)
		r.Mount("/search", searchfeature.Routes(searchHandler))

		bookmarksHandler := bookmarksfeature.NewHandler(bookmarks, subjectStore, logger)
		r.Mount("/bookmarks", bookmarksfeature.Routes(bookmarksHandler))

		requestsHandler := requestsfeature.NewHandler(requests, subjectStore, activities, logger)
		r.Mount("/requests", requestsfeature.Routes(requestsHandler))

		progressHandler := progressfeature.NewHandler(tracker, logger)
		r.Mount("/progress", progressfeature.Routes(progressHandler))

		viewsHandler := viewsfeature.NewHandler(subjectStore, tracker, logger)
		r.Mount("/views", viewsfeature.Routes(viewsHandler))

		dashboardHandler := dashboardfeature.NewHandler(subjectStore, users, bookmarks, requests, activities, logger)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))
	})

	return r, nil
}
