// internal/app/search/orchestrator.go
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Orchestrator routes a query to the index engine and falls back to the
// store engine when the index is unavailable or errors. A search never
// fails the caller: when every engine fails the response is empty and
// degraded.
type Orchestrator struct {
	index    Engine
	fallback Engine
	log      *zap.Logger
}

// NewOrchestrator wires the two engines. Either may be nil; a nil engine is
// simply skipped.
func NewOrchestrator(index, fallback Engine, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{index: index, fallback: fallback, log: logger}
}

// Query answers a keyword search. A blank term short-circuits to an empty,
// non-degraded result set without touching either engine.
func (o *Orchestrator) Query(ctx context.Context, term string) Results {
	if strings.TrimSpace(term) == "" {
		return emptyResults(false)
	}

	if o.index != nil && o.index.Available() {
		res, err := o.index.Query(ctx, term)
		if err == nil {
			return res
		}
		o.log.Warn("index search failed, using fallback",
			zap.String("term", term), zap.Error(err))
	}

	if o.fallback != nil && o.fallback.Available() {
		res, err := o.fallback.Query(ctx, term)
		if err == nil {
			res.Degraded = true
			return res
		}
		o.log.Error("fallback search failed",
			zap.String("term", term), zap.Error(err))
	}

	return emptyResults(true)
}
