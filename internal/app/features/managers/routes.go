// internal/app/features/managers/routes.go
package managers

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

// Routes wires the manager account endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)

		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)

		r.Route("/{managerID}", func(r chi.Router) {
			r.Put("/permissions", h.HandleUpdatePermissions)
			r.Delete("/", h.HandleDelete)
		})
	})

	return r
}
