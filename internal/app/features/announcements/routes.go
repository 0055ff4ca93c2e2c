// internal/app/features/announcements/routes.go
package announcements

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

// Routes wires the announcement endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// The published feed is readable without an account.
	r.Get("/", h.ServePublic)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)

		r.Post("/", h.HandleCreate)
		r.Get("/mine", h.HandleListMine)
		r.Get("/pending", h.HandleListPending)

		r.Route("/{announcementID}", func(r chi.Router) {
			r.Put("/", h.HandleUpdate)
			r.Post("/submit", h.HandleSubmit)
			r.Post("/approve", h.HandleApprove)
			r.Post("/reject", h.HandleReject)
		})
	})

	return r
}
