package auth

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "studyroom/pkg/errors"
	httputil "studyroom/pkg/http"
)

// RequireSession rejects anonymous callers with 401 and injects the caller's
// identity into the request context for the wrapped handler.
func (m *Manager) RequireSession(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ident, ok := m.Identity(r)
		if !ok {
			_ = httputil.WriteError(w, apperrors.Unauthorized("Login required"))
			return
		}

		r = r.WithContext(WithIdentity(r.Context(), ident))
		next(w, r, ps)
	}
}

// RequireAdmin rejects anonymous callers with 401 and non-administrators
// with 403.
func (m *Manager) RequireAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ident, ok := m.Identity(r)
		if !ok {
			_ = httputil.WriteError(w, apperrors.Unauthorized("Login required"))
			return
		}
		if !ident.IsAdmin {
			_ = httputil.WriteError(w, apperrors.Forbidden("Administrator privileges required"))
			return
		}

		r = r.WithContext(WithIdentity(r.Context(), ident))
		next(w, r, ps)
	}
}

// StudentKeyExtractor keys rate limiting by the session's student identifier.
// Anonymous requests return "" and are not limited.
func (m *Manager) StudentKeyExtractor(r *http.Request) string {
	ident, ok := m.Identity(r)
	if !ok {
		return ""
	}
	return ident.StudentID
}
