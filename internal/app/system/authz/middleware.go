// internal/app/system/authz/middleware.go
package authz

import (
	"net/http"

	"github.com/sevahub/sevahub/internal/app/system/auth"
	"github.com/sevahub/sevahub/internal/app/system/respond"
)

// RequireMinLevel produces a route-group guard admitting only users whose
// role level meets the threshold. It is a coarse filter layered in front of
// the finer per-action RequirePermission checks; both must pass where both
// are mounted.
func RequireMinLevel(threshold int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.CurrentUser(r)
			if !ok {
				respond.Unauthorized(w)
				return
			}
			if !HasMinLevel(u.Role, threshold) {
				respond.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission blocks the request before the handler runs unless the
// current user's role table (or delegated grants) allow action on module.
func RequirePermission(module, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.CurrentUser(r)
			if !ok {
				respond.Unauthorized(w)
				return
			}
			if !CheckPermission(u.Role, module, action, u.Permissions) {
				respond.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
