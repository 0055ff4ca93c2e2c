// internal/app/features/programs/routes.go
package programs

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

// Routes mounts the program endpoints under the base path (typically
// "/programs" from bootstrap). The catalog of active programs is public;
// everything else needs a signed-in user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeActive)

	r.Group(func(pr chi.Router) {
		pr.Use(sysauth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Get("/mine", h.HandleListMine)

		pr.Route("/{programID}", func(er chi.Router) {
			er.Get("/", h.ServeGet)
			er.Put("/", h.HandleUpdate)
			er.Post("/status", h.HandleSetStatus)
			er.Delete("/", h.HandleArchive)
		})
	})

	return r
}
