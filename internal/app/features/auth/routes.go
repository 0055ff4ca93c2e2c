// internal/app/features/auth/routes.go
package auth

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

// Routes mounts the auth endpoints under the base path (typically "/auth"
// from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Public endpoints.
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/refresh", h.HandleRefresh)

	// Endpoints that need a verified bearer token.
	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
		pr.Put("/me", h.HandleUpdateProfile)
		pr.Post("/change-password", h.HandleChangePassword)
	})

	return r
}
