package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/jrsteele09/go-survey-gateway/identity"
	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

const maxLoginBodyBytes = 64 << 10

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	basePageData
	Error    string
	Username string
}

var loginErrorMessages = map[string]string{
	loginErrorCodeNotFound:    "The sign-in provider did not return an authorization code. Please try again.",
	loginErrorUnknownProvider: "That sign-in provider is not supported.",
	loginErrorInvalidInput:    "Please enter both a username and a password.",
	loginErrorBadCredentials:  "Invalid username or password.",
}

const loginErrorFallback = "Sign-in failed. Please try again."

func loginErrorMessage(code string) string {
	if code == "" {
		return ""
	}
	if msg, ok := loginErrorMessages[code]; ok {
		return msg
	}
	return loginErrorFallback
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := s.sessionContext(w, r)
		data := LoginPageData{
			basePageData: s.basePage(http.StatusOK, sc.Allowed()),
			Error:        loginErrorMessage(r.URL.Query().Get("error")),
			Username:     r.URL.Query().Get("username"),
		}
		s.render(w, http.StatusOK, s.pages.login, data)
	}
}

type loginSuccessResponse struct {
	Success bool `json:"success"`
}

// LoginSubmissionHandler handles POST /login. JSON bodies get JSON answers; form posts from
// the login page are answered with redirects.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isFormRequest(r) {
			s.loginFromForm(w, r)
			return
		}

		var creds identity.Credentials
		if err := json.NewDecoder(io.LimitReader(r.Body, maxLoginBodyBytes)).Decode(&creds); err != nil {
			writeMessage(w, http.StatusBadRequest, msgInvalidRequestBody)
			return
		}

		err := s.auth.Login(r.Context(), creds, s.cookieStore(w, r))
		if err == nil {
			writeJSON(w, http.StatusOK, loginSuccessResponse{Success: true})
			return
		}
		if errors.Is(err, errors.ErrInvalidRequest) {
			writeMessage(w, http.StatusBadRequest, msgMissingCredentials)
			return
		}
		if errors.Is(err, errors.ErrLoginFailed) {
			status, ok := errors.StatusCode(err)
			if !ok || status < 400 {
				status = http.StatusUnauthorized
			}
			writeMessage(w, status, msgLoginFailed)
			return
		}
		log.Err(err).Msg("login failed")
		writeMessage(w, http.StatusInternalServerError, msgInternalServerError)
	}
}

func (s *Server) loginFromForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLoginBodyBytes)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, RouteLogin, loginErrorInvalidInput)
		return
	}
	creds := identity.Credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	err := s.auth.Login(r.Context(), creds, s.cookieStore(w, r))
	switch {
	case err == nil:
		redirectSuccess(w, r, "/")
	case errors.Is(err, errors.ErrInvalidRequest):
		redirectWithError(w, r, RouteLogin, loginErrorInvalidInput)
	case errors.Is(err, errors.ErrLoginFailed):
		redirectWithError(w, r, RouteLogin, loginErrorBadCredentials)
	default:
		log.Err(err).Msg("login failed")
		redirectWithError(w, r, RouteLogin, loginErrorGeneric)
	}
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}
