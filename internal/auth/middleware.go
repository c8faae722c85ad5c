package auth

import (
	"net/http"
	"strings"
)

const tokenCookie = "admin_token"

// AdminMiddleware guards the back office. The token is taken from the
// Authorization header or, for browser clients, the admin_token cookie.
func AdminMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := ""
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tok = strings.TrimPrefix(h, "Bearer ")
			} else if c, err := r.Cookie(tokenCookie); err == nil {
				tok = c.Value
			}
			if tok == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			claims, err := a.Parse(tok)
			if err != nil || claims.Role != "admin" {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
