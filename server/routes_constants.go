package server

// Route path constants
const (
	// Pages
	RouteIndex      = "/{$}"
	RouteLogin      = "/login"
	RouteLogoutPage = "/logout"
	RouteSurveyNew  = "/surveys/new"
	RouteSurvey     = "/surveys/{id}"

	// Auth gateway
	RouteOAuthLogin    = "/auth/login/{provider}"
	RouteOAuthCallback = "/auth/callback/{provider}"
	RouteAuthLogout    = "/auth/logout"
	RouteAuthMe        = "/auth/me"

	// Resource proxy
	RouteSurveys     = "/surveys"
	RouteSurveysList = "/surveys/list"

	RouteHealth = "/health"

	// Static asset patterns
	RouteStaticCSS = "/css/{file}"
)

// Login page error codes carried in ?error=
const (
	loginErrorCodeNotFound    = "code-not-found"
	loginErrorUnknownProvider = "unknown-provider"
	loginErrorGeneric         = "true"
	loginErrorInvalidInput    = "missing-fields"
	loginErrorBadCredentials  = "invalid-credentials"
)
