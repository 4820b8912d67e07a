package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-survey-gateway/sessions"
)

// contextKeySession stores the request's initialised *sessions.Context
const contextKeySession contextKey = "session"

// RequireSession is middleware for page routes that need a signed-in user. Anonymous
// requests are redirected to the login page.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sc := s.sessionContext(w, r)
			if !sc.Allowed() {
				redirectSuccess(w, r, RouteLogin)
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), contextKeySession, sc)))
		}
	}
}

// sessionFromRequest returns the session attached by RequireSession, or builds one
func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) *sessions.Context {
	if sc, ok := r.Context().Value(contextKeySession).(*sessions.Context); ok {
		return sc
	}
	return s.sessionContext(w, r)
}
