package config

type OAuthConfig interface {
	GetGitHubClientID() string
	GetGoogleClientID() string
	GetGoogleIssuerURL() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// Client ids are read on every call so that a missing id only breaks that provider's login.

func (OAuth) GetGitHubClientID() string {
	return GetEnv("GITHUB_CLIENT_ID", "")
}

func (OAuth) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

// GetGoogleIssuerURL enables OIDC discovery of the Google endpoints when set
func (OAuth) GetGoogleIssuerURL() string {
	return GetEnv("GOOGLE_ISSUER_URL", "")
}
