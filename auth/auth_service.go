// Package auth is the gateway's authentication surface: OAuth redirects, code exchange,
// credential login and logout. Tokens are written to whichever tokenstore.Store the caller
// supplies; the service itself holds no session state.
package auth

import (
	"context"
	"time"

	"github.com/jrsteele09/go-survey-gateway/identity"
	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/jrsteele09/go-survey-gateway/tokenstore"
)

type GatewayService struct {
	identity  IdentityBackend
	providers *ProviderRegistry
	validator *Validator
	ttl       time.Duration
}

// NewGatewayService requires an identity backend and a provider registry. A non-positive
// ttl means tokenstore.DefaultTTL.
func NewGatewayService(backend IdentityBackend, providers *ProviderRegistry, ttl time.Duration) (*GatewayService, error) {
	if backend == nil {
		return nil, errors.Wrapf(errors.ErrConfig, "[NewGatewayService] identity backend is required")
	}
	if providers == nil {
		return nil, errors.Wrapf(errors.ErrConfig, "[NewGatewayService] provider registry is required")
	}
	if ttl <= 0 {
		ttl = tokenstore.DefaultTTL
	}
	return &GatewayService{
		identity:  backend,
		providers: providers,
		validator: NewValidator(),
		ttl:       ttl,
	}, nil
}

// BeginOAuth returns the URL the user agent should be sent to for provider
func (s *GatewayService) BeginOAuth(provider string) (string, error) {
	if provider == "" {
		return "", errors.ErrMissingProvider
	}
	url, err := s.providers.AuthCodeURL(provider)
	if err != nil {
		return "", errors.Wrapf(err, "[BeginOAuth]")
	}
	return url, nil
}

// HandleCallback exchanges a provider code for a session token and stores it.
// Input is checked before the identity backend is contacted.
func (s *GatewayService) HandleCallback(ctx context.Context, provider, code string, store tokenstore.Store) error {
	if err := s.validator.ValidateCallback(s.providers, provider, code); err != nil {
		return errors.Wrapf(err, "[HandleCallback]")
	}
	token, err := s.identity.ExchangeCode(ctx, provider, code)
	if err != nil {
		return errors.Wrapf(err, "[HandleCallback]")
	}
	if err := store.Set(token, s.ttl); err != nil {
		return errors.Wrapf(err, "[HandleCallback] store token")
	}
	return nil
}

// Login forwards credentials to the identity backend and stores the issued token
func (s *GatewayService) Login(ctx context.Context, creds identity.Credentials, store tokenstore.Store) error {
	if err := s.validator.ValidateCredentials(creds); err != nil {
		return errors.Wrapf(err, "[Login]")
	}
	token, err := s.identity.Login(ctx, creds)
	if err != nil {
		return errors.Wrapf(err, "[Login]")
	}
	if err := store.Set(token, s.ttl); err != nil {
		return errors.Wrapf(err, "[Login] store token")
	}
	return nil
}

func (s *GatewayService) Logout(store tokenstore.Store) error {
	return errors.Wrapf(store.Clear(), "[Logout]")
}

// WhoAmI returns the stored token or ErrUnauthenticated
func (s *GatewayService) WhoAmI(store tokenstore.Store) (string, error) {
	token, ok := store.Get()
	if !ok {
		return "", errors.ErrUnauthenticated
	}
	return token, nil
}
