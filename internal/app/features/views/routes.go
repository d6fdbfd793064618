// internal/app/features/views/routes.go
package views

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/acadhub/internal/app/system/authz"
)

// Routes returns the subrouter for view recording.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireRole(authz.RoleStudent))
	r.Post("/", h.Record)
	return r
}
