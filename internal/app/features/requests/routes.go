// internal/app/features/requests/routes.go
package requests

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/acadhub/internal/app/system/authz"
)

// Routes returns the subrouter for material request endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireRole(authz.RoleStudent))
		r.Post("/", h.Create)
		r.Get("/mine", h.ListMine)
	})

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireRole(authz.RoleAdmin, authz.RoleFaculty))
		r.Get("/pending", h.ListPending)
		r.Patch("/{requestID}/resolve", h.Resolve)
	})

	return r
}
