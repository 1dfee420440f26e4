// Package auth implements cookie-backed sessions and the request-scoped
// identity they establish. Identity is always passed explicitly — through the
// request context into handlers and as an argument into services — never held
// in package state.
package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionKeyUserID    = "user_id"
	sessionKeyStudentID = "student_id"
	sessionKeyIsAdmin   = "is_admin"
)

// Identity is the session-derived caller: who is asking, and with what
// privileges. The zero value is an anonymous caller.
type Identity struct {
	UserID    string
	StudentID string
	IsAdmin   bool
}

type identityContextKey struct{}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// FromContext returns the identity established by the session middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityContextKey{}).(Identity)
	return ident, ok
}

// Manager owns the session cookie store.
type Manager struct {
	store *sessions.CookieStore
	name  string
}

func NewManager(secret, name string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{
		store: store,
		name:  name,
	}
}

// Establish writes a session cookie for the given identity.
func (m *Manager) Establish(w http.ResponseWriter, r *http.Request, ident Identity) error {
	session, _ := m.store.Get(r, m.name)
	session.Values[sessionKeyUserID] = ident.UserID
	session.Values[sessionKeyStudentID] = ident.StudentID
	session.Values[sessionKeyIsAdmin] = ident.IsAdmin
	return session.Save(r, w)
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, m.name)
	session.Options.MaxAge = -1
	session.Values = make(map[any]any)
	return session.Save(r, w)
}

// Identity resolves the caller from the session cookie. A missing or
// undecodable cookie yields (zero, false).
func (m *Manager) Identity(r *http.Request) (Identity, bool) {
	session, err := m.store.Get(r, m.name)
	if err != nil || session.IsNew {
		return Identity{}, false
	}

	userID, okUser := session.Values[sessionKeyUserID].(string)
	studentID, okStudent := session.Values[sessionKeyStudentID].(string)
	isAdmin, _ := session.Values[sessionKeyIsAdmin].(bool)

	if !okUser || !okStudent || userID == "" {
		return Identity{}, false
	}

	return Identity{
		UserID:    userID,
		StudentID: studentID,
		IsAdmin:   isAdmin,
	}, true
}
