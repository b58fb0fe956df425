package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"bancohoras/db"
	"bancohoras/models"
)

const userIDKey = "userID"

// DBStore implements sessions.Store on top of the sessoes table. The cookie
// carries only the opaque token, encoded with securecookie; everything else
// lives server-side, so sessions survive process restarts.
type DBStore struct {
	store   *db.Store
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

func NewDBStore(store *db.Store, keyPairs ...[]byte) *DBStore {
	return &DBStore{
		store:  store,
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   86400 * 30, // 30 days
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

func (s *DBStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New restores the session referenced by the request cookie. A missing,
// undecodable, unknown or expired token all yield a fresh empty session;
// none of those are errors.
func (s *DBStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, c.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	rec, err := s.store.GetSession(r.Context(), session.ID)
	if errors.Is(err, db.ErrSessionNotFound) {
		session.ID = ""
		return session, nil
	}
	if err != nil {
		return session, err
	}

	now := time.Now().UTC()
	if !rec.ExpiresAt.After(now) {
		_ = s.store.DeleteSession(r.Context(), session.ID)
		session.ID = ""
		return session, nil
	}

	// Sliding window: activity on a valid session pushes its expiry forward.
	// The cookie itself keeps the stamp from login.
	maxAge := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.store.TouchSession(r.Context(), session.ID, now.Add(maxAge)); err != nil {
		return session, err
	}

	session.Values[userIDKey] = rec.UserID
	session.IsNew = false
	return session, nil
}

func (s *DBStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.store.DeleteSession(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	userID, ok := session.Values[userIDKey].(int)
	if !ok {
		return errors.New("session has no user")
	}

	expiresAt := time.Now().UTC().Add(time.Duration(session.Options.MaxAge) * time.Second)
	if session.ID == "" {
		session.ID = generateToken(32)
		err := s.store.CreateSession(r.Context(), models.Session{
			Token:     session.ID,
			UserID:    userID,
			ExpiresAt: expiresAt,
		})
		if err != nil {
			return err
		}
	} else if err := s.store.TouchSession(r.Context(), session.ID, expiresAt); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Regenerate drops the server-side record and clears the session ID so the
// next Save issues a fresh token. Reusing a live token on login would keep
// its previous user binding and leave a fixation window.
func (s *DBStore) Regenerate(r *http.Request, session *sessions.Session) error {
	if session.ID == "" {
		return nil
	}
	if err := s.store.DeleteSession(r.Context(), session.ID); err != nil {
		return err
	}
	session.ID = ""
	return nil
}

func generateToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// Cannot issue sessions without randomness.
		panic(fmt.Sprintf("failed to generate session token: %v", err))
	}
	return base64.URLEncoding.EncodeToString(b)
}
