package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/examstack/examstack/internal/auth"
)

// POST /api/admin/login  { "username": "...", "password": "..." }
func AdminLoginHandler(a *auth.AuthService, admins *auth.Admins) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.Username == "" || req.Password == "" {
			http.Error(w, "username and password required", 400)
			return
		}

		ad, err := admins.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrLocked):
				http.Error(w, "account is locked, try again later", http.StatusForbidden)
			case errors.Is(err, auth.ErrBadCredentials):
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
			default:
				http.Error(w, "login failed", 500)
			}
			return
		}

		tok, err := a.IssueJWT(ad.Username, "admin")
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     "admin_token",
			Value:    tok,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(8 * time.Hour),
		})
		writeJSON(w, 200, map[string]string{"access_token": tok, "username": ad.Username})
	}
}

// POST /api/admin/logout clears the browser cookie; the token itself simply
// expires.
func AdminLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     "admin_token",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
		w.WriteHeader(204)
	}
}
