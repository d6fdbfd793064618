// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/acadhub/internal/app/system/authz"
)

// Routes returns the subrouter for dashboard endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(authz.RequireRole(authz.RoleAdmin, authz.RoleFaculty)).Get("/faculty", h.Faculty)
	r.With(authz.RequireRole(authz.RoleStudent)).Get("/student", h.Student)
	return r
}
