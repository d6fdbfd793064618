// internal/app/features/subjects/routes.go
package subjects

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/acadhub/internal/app/system/authz"
)

// Routes returns the subrouter for subject endpoints. Reads are open to any
// authenticated role; writes require admin or faculty.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{subjectID}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authz.RequireRole(authz.RoleAdmin, authz.RoleFaculty))
		r.Post("/", h.Create)
		r.Post("/{subjectID}/units", h.AddUnit)
		r.Post("/{subjectID}/units/{unitID}/materials", h.AddMaterial)
		r.Delete("/{subjectID}/units/{unitID}/materials/{materialID}", h.DeleteMaterial)
	})

	return r
}
