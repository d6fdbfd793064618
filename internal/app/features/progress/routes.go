// internal/app/features/progress/routes.go
package progress

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/acadhub/internal/app/system/authz"
)

// Routes returns the subrouter for progress endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireRole(authz.RoleStudent))
	r.Post("/toggle", h.Toggle)
	return r
}
