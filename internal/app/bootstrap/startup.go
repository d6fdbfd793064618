// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dalemusser/acadhub/internal/app/search"
	subjectstore "github.com/dalemusser/acadhub/internal/app/store/subjects"
	"github.com/dalemusser/acadhub/internal/app/system/tasks"
	"github.com/dalemusser/acadhub/internal/app/system/timeouts"
)

// Shared state built once at startup and used by BuildHandler and Shutdown.
// The subject store lives here because its index notifier is wired to the
// background runner, which outlives any single request.
var (
	runner       *tasks.Runner
	searchIndex  *search.Adapter
	subjectStore *subjectstore.Store
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{Search: appCfg.SearchTimeout})

	runner = tasks.NewRunner(logger, appCfg.IndexQueueSize, timeouts.Long())
	runner.Start()

	searchIndex = search.NewAdapter(deps.SearchClient, logger)
	syncer := search.NewSyncer(searchIndex, runner)
	subjectStore = subjectstore.New(deps.MongoDatabase).WithNotifier(syncer)

	if appCfg.ReindexInterval > 0 {
		runner.StartPeriodic(search.ReindexJob(searchIndex, subjectStore, appCfg.ReindexInterval))
	}

	logger.Info("startup complete",
		zap.Bool("search_index", searchIndex.Available()),
		zap.Duration("reindex_interval", appCfg.ReindexInterval))
	return nil
}
