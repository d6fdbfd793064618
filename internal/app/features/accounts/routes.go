// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/acadhub/internal/app/system/ratelimit"
)

// Routes returns the subrouter for account endpoints. These are the only
// unauthenticated API routes, so they sit behind the credential rate
// limiter.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.Use(limiter.Middleware)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}
