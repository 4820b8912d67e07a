package server

import (
	"net/http"

	"github.com/jrsteele09/go-survey-gateway/surveys"
	"github.com/rs/zerolog/log"
)

// basePageData is shared by every page rendered through the layout
type basePageData struct {
	AppName       string
	Authenticated bool
	Status        int
}

func (s *Server) basePage(status int, authenticated bool) basePageData {
	return basePageData{
		AppName:       s.config.GetAppName(),
		Authenticated: authenticated,
		Status:        status,
	}
}

type indexPageData struct {
	basePageData
	Surveys      []surveys.Survey
	ListFailed   bool
	Created      bool
	CreateSurvey string // where the "create survey" action leads
}

// IndexHandler renders the survey list (GET /)
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := s.sessionContext(w, r)
		token, _ := sc.Token()

		data := indexPageData{
			basePageData: s.basePage(http.StatusOK, sc.Allowed()),
			Created:      r.URL.Query().Get("created") == "1",
			CreateSurvey: RouteLogin,
		}
		if sc.Allowed() {
			data.CreateSurvey = RouteSurveyNew
		}

		list, err := s.surveys.ListSurveys(r.Context(), token)
		if err != nil {
			log.Err(err).Msg("index: survey list failed")
			data.ListFailed = true
		}
		data.Surveys = list

		s.render(w, http.StatusOK, s.pages.index, data)
	}
}
