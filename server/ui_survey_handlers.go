package server

import (
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/jrsteele09/go-survey-gateway/sessions"
	"github.com/jrsteele09/go-survey-gateway/surveys"
	"github.com/rs/zerolog/log"
)

const (
	defaultOptionFields = 2
	actionAddOption     = "add-option"
)

// NewSurveyPageData contains data for rendering the survey form
type NewSurveyPageData struct {
	basePageData
	Title   string
	Options []string
	Error   string
}

// NewSurveyPageHandler renders an empty survey form (GET /surveys/new)
func (s *Server) NewSurveyPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, http.StatusOK, s.pages.surveyNew, NewSurveyPageData{
			basePageData: s.basePage(http.StatusOK, true),
			Options:      make([]string, defaultOptionFields),
		})
	}
}

// NewSurveySubmitHandler validates and creates a survey (POST /surveys/new). The
// add-option action re-renders the form with one more empty option field.
func (s *Server) NewSurveySubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxSurveyBodyBytes)
		if err := r.ParseForm(); err != nil {
			s.renderError(w, http.StatusBadRequest, "The form could not be read.", true)
			return
		}
		title := r.PostFormValue("title")
		options := r.PostForm["option"]

		form := NewSurveyPageData{
			basePageData: s.basePage(http.StatusOK, true),
			Title:        title,
			Options:      options,
		}
		if r.PostFormValue("action") == actionAddOption {
			form.Options = append(form.Options, "")
			s.render(w, http.StatusOK, s.pages.surveyNew, form)
			return
		}

		survey := surveys.NewSurvey(title, options)
		if err := survey.Validate(); err != nil {
			form.Error = "A survey needs a title and at least one option."
			form.Status = http.StatusBadRequest
			s.render(w, http.StatusBadRequest, s.pages.surveyNew, form)
			return
		}

		token, _ := s.sessionFromRequest(w, r).Token()
		if _, err := s.surveys.CreateSurvey(r.Context(), survey, token); err != nil {
			log.Err(err).Msg("survey create failed")
			form.Error = "The survey could not be created. Please try again."
			form.Status = http.StatusBadGateway
			s.render(w, http.StatusBadGateway, s.pages.surveyNew, form)
			return
		}
		redirectSuccess(w, r, "/?created=1")
	}
}

type surveyDetailPageData struct {
	basePageData
	Survey surveys.Survey
}

// SurveyDetailHandler renders one survey (GET /surveys/{id})
func (s *Server) SurveyDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := s.sessionContext(w, r)
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil || id <= 0 {
			s.renderError(w, http.StatusNotFound, "Survey not found.", sc.Allowed())
			return
		}

		token, _ := sc.Token()
		survey, err := s.surveys.FindSurvey(r.Context(), id, token)
		if errors.Is(err, surveys.ErrNotFound) {
			s.renderError(w, http.StatusNotFound, "Survey not found.", sc.Allowed())
			return
		}
		if err != nil {
			log.Err(err).Int("survey_id", id).Msg("survey lookup failed")
			s.renderError(w, http.StatusBadGateway, "Surveys are unavailable right now.", sc.Allowed())
			return
		}

		s.render(w, http.StatusOK, s.pages.surveyDetail, surveyDetailPageData{
			basePageData: s.basePage(http.StatusOK, sc.Allowed()),
			Survey:       survey,
		})
	}
}

// LogoutPageHandler ends the session and navigates to the login page (GET /logout)
func (s *Server) LogoutPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		navigate := func(path string) { redirectSuccess(w, r, path) }
		sc := s.sessionContext(w, r, sessions.WithNavigator(navigate))
		if err := sc.Logout(r.Context()); err != nil {
			log.Err(err).Msg("logout failed")
		}
	}
}
