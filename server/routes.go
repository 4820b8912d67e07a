package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	// Pages
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteLogoutPage, ChainMiddleware(s.LogoutPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSurveyNew, ChainMiddleware(s.NewSurveyPageHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("POST "+RouteSurveyNew, ChainMiddleware(s.NewSurveySubmitHandler(), s.HTMLMiddleWare(s.RequireSession())...))
	s.RegisterRouteHandler("GET "+RouteSurvey, ChainMiddleware(s.SurveyDetailHandler(), s.HTMLMiddleWare()...))

	// Auth gateway
	s.RegisterRouteHandler("GET "+RouteOAuthLogin, ChainMiddleware(s.OAuthLoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteOAuthCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.APIMiddleware()...))

	// Resource proxy
	s.RegisterRouteHandler("GET "+RouteSurveys, ChainMiddleware(s.ListSurveysHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSurveysList, ChainMiddleware(s.ListSurveysHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSurveys, ChainMiddleware(s.CreateSurveyHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(http.NotFound, s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare(s.CacheMiddleware)...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError(r.Method, filePath, err)
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

// HealthHandler answers liveness probes
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

func logError(method, path string, err error) {
	log.Error().Err(err).Msgf("[%-19s] %s", colourMethod(method), Red+path+ResetColor)
}
