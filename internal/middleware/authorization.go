package middleware

import (
	"net/http"

	"repairdesk/internal/policy"
	"repairdesk/internal/utils"
)

// RequireAuth blocks when no principal is present (set by WithAuth).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := Principal(r.Context()); !ok {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Require gates a route on one policy capability.
func Require(cap policy.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := Principal(r.Context())
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !policy.Allowed(p, cap) {
				utils.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
