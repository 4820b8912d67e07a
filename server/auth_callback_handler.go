package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

// OAuthLoginHandler redirects to the provider's authorization page (GET /auth/login/{provider})
func (s *Server) OAuthLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := r.PathValue("provider")

		redirectURL, err := s.auth.BeginOAuth(provider)
		switch {
		case err == nil:
			http.Redirect(w, r, redirectURL, http.StatusFound)
		case errors.Is(err, errors.ErrUnknownProvider), errors.Is(err, errors.ErrMissingProvider):
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Invalid provider: %s", provider))
		case errors.Is(err, errors.ErrProviderNotConfigured):
			log.Error().Err(err).Str("provider", provider).Msg("OAuth client id is not configured")
			writeMessage(w, http.StatusInternalServerError, msgServerConfigError)
		default:
			log.Err(err).Str("provider", provider).Msg("failed to begin OAuth login")
			writeMessage(w, http.StatusInternalServerError, msgInternalServerError)
		}
	}
}

// OAuthCallbackHandler exchanges the provider code for a session (GET /auth/callback/{provider}).
// Every outcome is a redirect: home on success, the login page with an error code otherwise.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := r.PathValue("provider")
		code := r.URL.Query().Get("code")

		err := s.auth.HandleCallback(r.Context(), provider, code, s.cookieStore(w, r))
		switch {
		case err == nil:
			redirectSuccess(w, r, "/")
		case errors.Is(err, errors.ErrMissingCode):
			redirectWithError(w, r, RouteLogin, loginErrorCodeNotFound)
		case errors.Is(err, errors.ErrUnknownProvider), errors.Is(err, errors.ErrMissingProvider):
			redirectWithError(w, r, RouteLogin, loginErrorUnknownProvider)
		default:
			log.Err(err).Str("provider", provider).Msg("OAuth callback failed")
			redirectWithError(w, r, RouteLogin, loginErrorGeneric)
		}
	}
}
