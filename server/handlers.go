package server

import (
	"net/http"

	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

type whoAmIResponse struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	Token      string `json:"token,omitempty"`
}

// LogoutHandler clears the session cookie. It succeeds whether or not a session existed.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(s.cookieStore(w, r)); err != nil {
			log.Err(err).Msg("logout failed")
			writeMessage(w, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		writeMessage(w, http.StatusOK, msgLoggedOut)
	}
}

// MeHandler reports whether the request carries a session (GET /auth/me)
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := s.auth.WhoAmI(s.cookieStore(w, r))
		if errors.Is(err, errors.ErrUnauthenticated) {
			writeJSON(w, http.StatusUnauthorized, whoAmIResponse{IsLoggedIn: false})
			return
		}
		if err != nil {
			log.Err(err).Msg("whoami failed")
			writeMessage(w, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, whoAmIResponse{IsLoggedIn: true, Token: token})
	}
}
