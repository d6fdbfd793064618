// internal/app/features/bookmarks/routes.go
package bookmarks

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/acadhub/internal/app/system/authz"
)

// Routes returns the subrouter for bookmark endpoints. Bookmarks belong to
// students only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireRole(authz.RoleStudent))
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Delete("/{bookmarkID}", h.Delete)
	return r
}
