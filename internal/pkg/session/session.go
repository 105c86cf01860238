package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const userIDKey = "user_id"

// Manager reads and writes the browser session cookie
type Manager struct {
	store sessions.Store
	name  string
}

// NewCookieStore builds the signed cookie store used for browser sessions
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// NewManager creates a Manager over store using the given cookie name
func NewManager(store sessions.Store, name string) *Manager {
	return &Manager{store: store, name: name}
}

// UserID returns the signed-in account, if any. A tampered or expired cookie
// reads as signed out.
func (m *Manager) UserID(r *http.Request) (uuid.UUID, bool) {
	s, err := m.store.Get(r, m.name)
	if err != nil {
		return uuid.Nil, false
	}
	raw, ok := s.Values[userIDKey].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// SignIn stores the account id in the session cookie
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	s, _ := m.store.Get(r, m.name)
	s.Values[userIDKey] = userID.String()
	return s.Save(r, w)
}

// SignOut expires the session cookie
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	s, _ := m.store.Get(r, m.name)
	delete(s.Values, userIDKey)
	s.Options.MaxAge = -1
	return s.Save(r, w)
}
