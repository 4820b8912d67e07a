package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-survey-gateway/auth"
	"github.com/jrsteele09/go-survey-gateway/internal/config"
	"github.com/jrsteele09/go-survey-gateway/surveys"
	"github.com/rs/zerolog/log"
)

type Server struct {
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	auth    *auth.GatewayService
	surveys *surveys.Client
	pages   *pageTemplates
}

func New(config config.Config, gateway *auth.GatewayService, surveyClient *surveys.Client) (*Server, error) {
	if gateway == nil {
		return nil, fmt.Errorf("[Server New] gateway service is required")
	}
	if surveyClient == nil {
		return nil, fmt.Errorf("[Server New] survey client is required")
	}

	pages, err := parsePageTemplates()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		mux:     http.NewServeMux(),
		config:  config,
		auth:    gateway,
		surveys: surveyClient,
		pages:   pages,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes returns the registered patterns in registration order
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if !s.config.IsDevelopment() {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
