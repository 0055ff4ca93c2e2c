// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"

	sysauth "github.com/sevahub/sevahub/internal/app/system/auth"
)

// Routes wires the notification feed endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(sysauth.RequireSignedIn)

		r.Get("/", h.HandleList)
		r.Get("/unread", h.HandleUnreadCount)
		r.Post("/read-all", h.HandleMarkAllRead)
		r.Post("/{notificationID}/read", h.HandleMarkRead)
	})

	return r
}
