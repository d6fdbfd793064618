// internal/app/features/search/routes.go
package search

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter for search endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Query)
	return r
}
