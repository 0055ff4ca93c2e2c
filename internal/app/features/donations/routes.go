// internal/app/features/donations/routes.go
package donations

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

// Routes mounts the donation endpoints under the base path (typically
// "/donations" from bootstrap). All endpoints need a signed-in user; the
// gateway webhook lives in the webhooks feature.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		pr.Post("/", h.HandleInitiate)
		pr.Get("/mine", h.HandleListMine)
		pr.Get("/received", h.HandleListNGO)
		pr.Get("/receipt/{receipt}", h.ServeByReceipt)
		pr.Post("/{donationID}/refund", h.HandleRefund)
	})

	return r
}
