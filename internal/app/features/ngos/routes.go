// internal/app/features/ngos/routes.go
package ngos

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

// Routes mounts the NGO endpoints under the base path (typically "/ngos"
// from bootstrap). The public page by slug is mounted separately via
// PublicRoutes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		pr.Post("/", h.HandleRegister)
		pr.Get("/", h.HandleList)

		pr.Route("/{ngoID}", func(nr chi.Router) {
			nr.Get("/", h.ServeGet)
			nr.Put("/", h.HandleUpdate)
			nr.Delete("/", h.HandleDelete)

			nr.Put("/content", h.HandleUpdateHomepage)
			nr.Put("/seo", h.HandleUpdateSEO)

			nr.Post("/kyc/documents", h.HandleUploadDocuments)
			nr.Post("/kyc/verify", h.HandleVerify)
			nr.Post("/kyc/reject", h.HandleReject)
		})
	})

	return r
}

// PublicRoutes mounts the unauthenticated public pages (typically "/ngo"
// from bootstrap).
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{slug}", h.ServePublicPage)
	return r
}
