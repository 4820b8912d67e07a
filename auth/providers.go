package auth

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	ProviderGitHub = "github"
	ProviderGoogle = "google"
)

// GoogleCallbackPath is appended to the base URL to form Google's redirect URI
const GoogleCallbackPath = "/auth/callback/google"

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// ProviderSettings is the slice of configuration the registry reads
type ProviderSettings interface {
	GetGitHubClientID() string
	GetGoogleClientID() string
	GetGoogleIssuerURL() string
	GetBaseURL() string
}

type provider struct {
	endpoint    oauth2.Endpoint
	scopes      []string
	redirectURL string
	clientID    func() string
}

// ProviderRegistry builds authorization URLs for the supported OAuth providers.
// It is immutable after construction; client ids are read on each call.
type ProviderRegistry struct {
	providers map[string]provider
}

// NewProviderRegistry resolves the provider endpoints. When an issuer URL is configured the
// Google endpoint comes from OIDC discovery, falling back to the static endpoint on failure.
func NewProviderRegistry(ctx context.Context, settings ProviderSettings) *ProviderRegistry {
	google := googleEndpoint
	if issuer := settings.GetGoogleIssuerURL(); issuer != "" {
		discovered, err := oidc.NewProvider(ctx, issuer)
		if err != nil {
			log.Warn().Err(err).Str("issuer", issuer).Msg("OIDC discovery failed, using static Google endpoint")
		} else {
			google = discovered.Endpoint()
		}
	}

	return &ProviderRegistry{
		providers: map[string]provider{
			ProviderGitHub: {
				endpoint: github.Endpoint,
				scopes:   []string{"read:user", "user:email"},
				clientID: settings.GetGitHubClientID,
			},
			ProviderGoogle: {
				endpoint: google,
				scopes: []string{
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/userinfo.profile",
				},
				redirectURL: settings.GetBaseURL() + GoogleCallbackPath,
				clientID:    settings.GetGoogleClientID,
			},
		},
	}
}

// Has reports whether name is a supported provider
func (r *ProviderRegistry) Has(name string) bool {
	_, ok := r.providers[name]
	return ok
}

// AuthCodeURL returns the provider's authorization URL
func (r *ProviderRegistry) AuthCodeURL(name string) (string, error) {
	p, ok := r.providers[name]
	if !ok {
		return "", errors.Wrapf(errors.ErrUnknownProvider, "[AuthCodeURL] %q", name)
	}
	clientID := p.clientID()
	if clientID == "" {
		return "", errors.Wrapf(errors.ErrProviderNotConfigured, "[AuthCodeURL] %s", name)
	}
	cfg := oauth2.Config{
		ClientID:    clientID,
		Endpoint:    p.endpoint,
		RedirectURL: p.redirectURL,
		Scopes:      p.scopes,
	}
	return cfg.AuthCodeURL(""), nil
}
