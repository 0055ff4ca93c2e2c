// internal/app/features/webhooks/routes.go
package webhooks

import "github.com/go-chi/chi/v5"

// Routes mounts the gateway callback endpoints under the base path
// (typically "/webhooks" from bootstrap). No bearer auth: the gateway
// authenticates with the signature header.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/payments/{provider}", h.HandlePayment)
	return r
}
