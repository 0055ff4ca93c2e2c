// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/authz"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)
		r.Use(authz.RequireMinLevel(authz.RoleLevel(authz.RoleSuperAdmin)))
		r.Get("/", h.HandleList)
	})

	return r
}
