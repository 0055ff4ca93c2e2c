// internal/app/features/certificates/routes.go
package certificates

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

// Routes wires the certificate endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Serial verification is public: recipients hand the serial to third
	// parties who hold no account.
	r.Get("/verify/{serial}", h.ServeVerify)

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)

		r.Post("/", h.HandleIssue)
		r.Get("/mine", h.HandleListMine)
		r.Get("/issued", h.HandleListNGO)
	})

	return r
}
