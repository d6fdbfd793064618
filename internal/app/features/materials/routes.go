// internal/app/features/materials/routes.go
package materials

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter for direct material access.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{materialID}", h.Get)
	r.Get("/{materialID}/download", h.Download)
	return r
}
