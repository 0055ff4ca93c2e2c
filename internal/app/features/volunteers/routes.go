// internal/app/features/volunteers/routes.go
package volunteers

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

// Routes wires the volunteer registration endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)

		r.Post("/", h.HandleApply)
		r.Get("/mine", h.HandleListMine)
		r.Get("/ngo", h.HandleListNGO)

		r.Route("/{registrationID}", func(r chi.Router) {
			r.Post("/approve", h.HandleApprove)
			r.Post("/reject", h.HandleReject)
			r.Post("/withdraw", h.HandleWithdraw)
			r.Post("/hours", h.HandleLogHours)
		})
	})

	return r
}
