// Package websession is the server-side session collaborator: an opaque blob
// per browser session, keyed by a cookie-delivered session identifier.
package websession

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var ErrNoSession = errors.New("session not found")

// Store holds one opaque blob per session id, durable for the session TTL and
// isolated per id.
type Store interface {
	Get(ctx context.Context, sid string) ([]byte, error)
	Set(ctx context.Context, sid string, blob []byte, ttl time.Duration) error
	Clear(ctx context.Context, sid string) error
	DeleteExpired(ctx context.Context) (int, error)
}

const cookieName = "exam_sid"

// Manager pairs a Store with the cookie that identifies the browser session.
type Manager struct {
	Store Store
	TTL   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{Store: store, TTL: ttl}
}

// SessionID returns the request's session id, issuing a fresh one (and the
// cookie carrying it) when absent. The cookie TTL slides on every call.
func (m *Manager) SessionID(w http.ResponseWriter, r *http.Request) string {
	sid := ""
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		sid = c.Value
	}
	if sid == "" {
		sid = uuid.NewString()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(m.TTL),
	})
	return sid
}
