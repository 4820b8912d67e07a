package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jrsteele09/go-survey-gateway/surveys"
	"github.com/rs/zerolog/log"
)

const maxSurveyBodyBytes = 1 << 20

// ListSurveysHandler relays GET /surveys to the survey backend
func (s *Server) ListSurveysHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bearer, _ := s.cookieStore(w, r).Get()
		resp, err := s.surveys.List(r.Context(), bearer)
		if err != nil {
			log.Err(err).Msg("survey list failed")
			writeMessage(w, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		writeUpstream(w, resp)
	}
}

// CreateSurveyHandler relays POST /surveys. The body must be JSON and is forwarded unchanged.
func (s *Server) CreateSurveyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSurveyBodyBytes))
		if err != nil || !json.Valid(body) {
			writeMessage(w, http.StatusBadRequest, msgInvalidRequestBody)
			return
		}

		bearer, _ := s.cookieStore(w, r).Get()
		resp, err := s.surveys.Create(r.Context(), body, bearer)
		if err != nil {
			log.Err(err).Msg("survey create failed")
			writeMessage(w, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		writeUpstream(w, resp)
	}
}

func writeUpstream(w http.ResponseWriter, resp *surveys.Response) {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = contentTypeJSON
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		log.Err(err).Msg("failed to relay upstream body")
	}
}
