// internal/app/features/grants/routes.go
package grants

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

// Routes wires the grant endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)

		r.Post("/", h.HandleRequest)
		r.Get("/mine", h.HandleListMine)
		r.Get("/", h.HandleListAll)

		r.Route("/{grantID}", func(r chi.Router) {
			r.Post("/approve", h.HandleApprove)
			r.Post("/reject", h.HandleReject)
			r.Post("/disburse", h.HandleDisburse)
		})
	})

	return r
}
