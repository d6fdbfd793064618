// internal/app/features/search/handler.go
package search

import (
	"net/http"

	"go.uber.org/zap"

	searchcore "github.com/dalemusser/acadhub/internal/app/search"
	"github.com/dalemusser/acadhub/internal/app/system/httpjson"
)

// Handler serves keyword search over subjects and materials.
type Handler struct {
	Search *searchcore.Orchestrator
	Log    *zap.Logger
}

// NewHandler constructs a search Handler.
func NewHandler(orchestrator *searchcore.Orchestrator, logger *zap.Logger) *Handler {
	return &Handler{Search: orchestrator, Log: logger}
}

// Query handles GET /search?q=term. The response is always 200: a blank
// term yields empty results, and engine failures degrade rather than error.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	results := h.Search.Query(r.Context(), term)
	httpjson.Respond(w, http.StatusOK, results)
}
