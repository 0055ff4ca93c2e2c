// internal/app/features/emergency/routes.go
package emergency

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/authz"
)

// Routes wires the emergency request endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)

		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/mine", h.HandleListMine)
		r.Get("/assigned", h.HandleListAssigned)

		// Moderation endpoints are staff territory: a coarse level gate
		// runs before the per-action checks inside each handler.
		r.Route("/{requestID}", func(r chi.Router) {
			r.Use(authz.RequireMinLevel(authz.RoleLevel(authz.RoleNGOManager)))
			r.Post("/assign", h.HandleAssign)
			r.Post("/resolve", h.HandleResolve)
			r.Post("/reject", h.HandleRejectVerification)
		})
	})

	return r
}
