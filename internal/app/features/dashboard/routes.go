// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)
		r.Get("/", h.HandleDashboard)
	})

	return r
}
