package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-survey-gateway/sessions"
	"github.com/jrsteele09/go-survey-gateway/tokenstore"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
)

// Fixed client-facing messages. Upstream error text is never forwarded.
const (
	msgInternalServerError = "Internal Server Error"
	msgServerConfigError   = "Server configuration error"
	msgLoginFailed         = "Login failed"
	msgLoggedOut           = "Logged out successfully"
	msgInvalidRequestBody  = "Invalid request body"
	msgMissingCredentials  = "Username and password are required"
)

// cookieStore returns the token store for this request/response pair
func (s *Server) cookieStore(w http.ResponseWriter, r *http.Request) *tokenstore.CookieStore {
	opts := tokenstore.DefaultCookieOptions(!s.config.IsDevelopment())
	opts.Name = s.config.GetSessionCookieName()
	return tokenstore.NewCookieStore(w, r, opts)
}

// sessionContext builds and initialises the session context for this request
func (s *Server) sessionContext(w http.ResponseWriter, r *http.Request, opts ...sessions.Option) *sessions.Context {
	opts = append([]sessions.Option{sessions.WithTTL(s.config.GetMaxSessionAge())}, opts...)
	sc := sessions.New(s.cookieStore(w, r), opts...)
	if err := sc.Init(r.Context()); err != nil {
		log.Warn().Err(err).Msg("session probe failed")
	}
	return sc
}

// redirectSuccess sends the user agent to path
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

// redirectWithError sends the user agent to path with an ?error= code
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorCode string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(errorCode), http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode JSON response")
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}
