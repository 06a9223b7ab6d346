package middleware

import (
	"context"
	"net/http"
	"strings"

	"repairdesk/internal/config"
	"repairdesk/internal/models"
	"repairdesk/internal/policy"
	"repairdesk/internal/utils"
)

type ctxKey string

const ctxPrincipal ctxKey = "principal"

// Principal returns the authenticated caller, if any.
func Principal(ctx context.Context) (policy.Principal, bool) {
	p, ok := ctx.Value(ctxPrincipal).(policy.Principal)
	return p, ok
}

// WithPrincipal attaches a principal to the context. WithAuth uses it
// after token validation; tests use it to fake a session.
func WithPrincipal(ctx context.Context, p policy.Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipal, p)
}

// WithAuth reads the JWT from the "session" cookie or an Authorization
// Bearer header and, when valid, attaches the principal to the request
// context. Requests without a token pass through unauthenticated; the
// route-level guards decide what needs a login.
func WithAuth(cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tok string
			if c, err := r.Cookie("session"); err == nil {
				tok = c.Value
			} else if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimPrefix(h, "Bearer ")
			}
			if tok == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := utils.ParseJWT(cfg.SessionSecret, tok)
			if err != nil {
				// Expired or tampered cookie: clear it so it stops being sent.
				http.SetCookie(w, &http.Cookie{
					Name:     "session",
					Value:    "",
					Path:     "/",
					HttpOnly: true,
					MaxAge:   -1,
				})
				next.ServeHTTP(w, r)
				return
			}

			p := policy.Principal{
				UserID:  claims.UserID,
				Role:    models.Role(claims.Role),
				IsAdmin: claims.IsAdmin,
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}
