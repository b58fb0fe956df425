package auth

import (
	"net/http"
)

const SessionName = "bancohoras-session"

// Manager holds the session store and exposes the handful of operations the
// handlers need: sign in, sign out, identify, gate.
type Manager struct {
	store *DBStore
}

func NewManager(store *DBStore) *Manager {
	return &Manager{store: store}
}

// SignIn binds a fresh session to the user. Any session the request already
// carries is destroyed first, so a login always rebinds to the new identity.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, userID int) error {
	session, _ := m.store.Get(r, SessionName)
	if err := m.store.Regenerate(r, session); err != nil {
		return err
	}
	session.Values[userIDKey] = userID
	return session.Save(r, w)
}

// SignOut destroys the server-side session record. A replayed cookie for a
// destroyed session must never authorize again.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, SessionName)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// UserID returns the authenticated user's id, or 0 when the request carries
// no valid session.
func (m *Manager) UserID(r *http.Request) int {
	session, _ := m.store.Get(r, SessionName)
	if session == nil || session.IsNew {
		return 0
	}
	if id, ok := session.Values[userIDKey].(int); ok {
		return id
	}
	return 0
}

// RequireAuth gates a route: unauthenticated requests are redirected to the
// login page, never shown the protected content.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.UserID(r) == 0 {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
