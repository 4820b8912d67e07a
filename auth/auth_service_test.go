package auth_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-survey-gateway/auth"
	"github.com/jrsteele09/go-survey-gateway/identity"
	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/jrsteele09/go-survey-gateway/tokenstore"
	"github.com/stretchr/testify/require"
)

const (
	testGitHubClientID = "gh-client"
	testGoogleClientID = "google-client"
	testBaseURL        = "http://localhost:3000"
)

type fakeSettings struct {
	github, google, issuer, baseURL string
}

func (f fakeSettings) GetGitHubClientID() string  { return f.github }
func (f fakeSettings) GetGoogleClientID() string  { return f.google }
func (f fakeSettings) GetGoogleIssuerURL() string { return f.issuer }
func (f fakeSettings) GetBaseURL() string         { return f.baseURL }

// fakeIdentity records calls and answers with canned results
type fakeIdentity struct {
	exchangeCalls int
	loginCalls    int
	lastProvider  string
	lastCode      string
	token         string
	err           error
}

func (f *fakeIdentity) ExchangeCode(_ context.Context, provider, code string) (string, error) {
	f.exchangeCalls++
	f.lastProvider = provider
	f.lastCode = code
	return f.token, f.err
}

func (f *fakeIdentity) Login(_ context.Context, _ identity.Credentials) (string, error) {
	f.loginCalls++
	return f.token, f.err
}

type testFixture struct {
	identity *fakeIdentity
	store    tokenstore.Store
	service  *auth.GatewayService
}

func setupTestFixture(t *testing.T, settings fakeSettings) *testFixture {
	t.Helper()

	fi := &fakeIdentity{token: "issued-token"}
	providers := auth.NewProviderRegistry(context.Background(), settings)
	service, err := auth.NewGatewayService(fi, providers, 24*time.Hour)
	require.NoError(t, err)

	return &testFixture{
		identity: fi,
		store:    tokenstore.NewMemoryStore(),
		service:  service,
	}
}

func configuredSettings() fakeSettings {
	return fakeSettings{github: testGitHubClientID, google: testGoogleClientID, baseURL: testBaseURL}
}

func TestNewGatewayServiceRequiresDependencies(t *testing.T) {
	providers := auth.NewProviderRegistry(context.Background(), configuredSettings())

	_, err := auth.NewGatewayService(nil, providers, 0)
	require.ErrorIs(t, err, errors.ErrConfig)

	_, err = auth.NewGatewayService(&fakeIdentity{}, nil, 0)
	require.ErrorIs(t, err, errors.ErrConfig)
}

func TestBeginOAuthGitHub(t *testing.T) {
	f := setupTestFixture(t, configuredSettings())

	redirect, err := f.service.BeginOAuth(auth.ProviderGitHub)
	require.NoError(t, err)

	u, err := url.Parse(redirect)
	require.NoError(t, err)
	require.Equal(t, "github.com", u.Host)
	require.Equal(t, "/login/oauth/authorize", u.Path)
	require.Equal(t, testGitHubClientID, u.Query().Get("client_id"))
	require.Equal(t, "read:user user:email", u.Query().Get("scope"))
	require.False(t, u.Query().Has("redirect_uri"))
}

func TestBeginOAuthGoogle(t *testing.T) {
	f := setupTestFixture(t, configuredSettings())

	redirect, err := f.service.BeginOAuth(auth.ProviderGoogle)
	require.NoError(t, err)

	u, err := url.Parse(redirect)
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", u.Host)
	require.Equal(t, "/o/oauth2/v2/auth", u.Path)
	q := u.Query()
	require.Equal(t, testGoogleClientID, q.Get("client_id"))
	require.Equal(t, testBaseURL+"/auth/callback/google", q.Get("redirect_uri"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t,
		"https://www.googleapis.com/auth/userinfo.email https://www.googleapis.com/auth/userinfo.profile",
		q.Get("scope"))
}

func TestBeginOAuthErrors(t *testing.T) {
	f := setupTestFixture(t, fakeSettings{github: testGitHubClientID, baseURL: testBaseURL})

	_, err := f.service.BeginOAuth("facebook")
	require.ErrorIs(t, err, errors.ErrUnknownProvider)

	_, err = f.service.BeginOAuth("")
	require.ErrorIs(t, err, errors.ErrMissingProvider)

	_, err = f.service.BeginOAuth(auth.ProviderGoogle)
	require.ErrorIs(t, err, errors.ErrProviderNotConfigured)

	// The other provider is unaffected
	_, err = f.service.BeginOAuth(auth.ProviderGitHub)
	require.NoError(t, err)
}

func TestHandleCallback(t *testing.T) {
	f := setupTestFixture(t, configuredSettings())

	err := f.service.HandleCallback(context.Background(), auth.ProviderGitHub, "abc", f.store)
	require.NoError(t, err)
	require.Equal(t, 1, f.identity.exchangeCalls)
	require.Equal(t, "github", f.identity.lastProvider)
	require.Equal(t, "abc", f.identity.lastCode)

	token, ok := f.store.Get()
	require.True(t, ok)
	require.Equal(t, "issued-token", token)
}

func TestHandleCallbackRejectsBeforeUpstream(t *testing.T) {
	f := setupTestFixture(t, configuredSettings())

	err := f.service.HandleCallback(context.Background(), auth.ProviderGoogle, "", f.store)
	require.ErrorIs(t, err, errors.ErrMissingCode)

	err = f.service.HandleCallback(context.Background(), "myspace", "abc", f.store)
	require.ErrorIs(t, err, errors.ErrUnknownProvider)

	require.Zero(t, f.identity.exchangeCalls)
	_, ok := f.store.Get()
	require.False(t, ok)
}

func TestHandleCallbackUpstreamFailureLeavesStoreUntouched(t *testing.T) {
	f := setupTestFixture(t, configuredSettings())
	require.NoError(t, f.store.Set("previous", time.Hour))
	f.identity.err = errors.ErrUpstreamAuth

	err := f.service.HandleCallback(context.Background(), auth.ProviderGitHub, "abc", f.store)
	require.ErrorIs(t, err, errors.ErrUpstreamAuth)

	token, ok := f.store.Get()
	require.True(t, ok)
	require.Equal(t, "previous", token)
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t, configuredSettings())

	err := f.service.Login(context.Background(), identity.Credentials{Username: "alice", Password: "pw"}, f.store)
	require.NoError(t, err)
	token, ok := f.store.Get()
	require.True(t, ok)
	require.Equal(t, "issued-token", token)
}

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		name  string
		creds identity.Credentials
	}{
		{"missing username", identity.Credentials{Password: "pw"}},
		{"missing password", identity.Credentials{Username: "alice"}},
		{"missing both", identity.Credentials{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupTestFixture(t, configuredSettings())
			err := f.service.Login(context.Background(), tt.creds, f.store)
			require.ErrorIs(t, err, errors.ErrInvalidRequest)
			require.Zero(t, f.identity.loginCalls)
		})
	}
}

func TestLoginFailureKeepsStatus(t *testing.T) {
	f := setupTestFixture(t, configuredSettings())
	f.identity.err = errors.WithStatus(errors.ErrLoginFailed, http.StatusUnauthorized)

	err := f.service.Login(context.Background(), identity.Credentials{Username: "a", Password: "b"}, f.store)
	require.ErrorIs(t, err, errors.ErrLoginFailed)
	status, ok := errors.StatusCode(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, status)
	_, ok = f.store.Get()
	require.False(t, ok)
}

func TestLogoutAndWhoAmI(t *testing.T) {
	f := setupTestFixture(t, configuredSettings())

	_, err := f.service.WhoAmI(f.store)
	require.ErrorIs(t, err, errors.ErrUnauthenticated)

	require.NoError(t, f.store.Set("tok", time.Hour))
	token, err := f.service.WhoAmI(f.store)
	require.NoError(t, err)
	require.Equal(t, "tok", token)

	require.NoError(t, f.service.Logout(f.store))
	require.NoError(t, f.service.Logout(f.store))
	_, err = f.service.WhoAmI(f.store)
	require.ErrorIs(t, err, errors.ErrUnauthenticated)
}

func TestGoogleEndpointDiscovery(t *testing.T) {
	var issuer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"issuer":%q,"authorization_endpoint":%q,"token_endpoint":%q,"jwks_uri":%q}`,
			issuer, issuer+"/authorize", issuer+"/token", issuer+"/keys")
	}))
	defer srv.Close()
	issuer = srv.URL

	settings := configuredSettings()
	settings.issuer = issuer
	registry := auth.NewProviderRegistry(context.Background(), settings)

	redirect, err := registry.AuthCodeURL(auth.ProviderGoogle)
	require.NoError(t, err)
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	require.Equal(t, issuer+"/authorize", u.Scheme+"://"+u.Host+u.Path)
}

func TestGoogleEndpointDiscoveryFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	issuer := srv.URL
	srv.Close()

	settings := configuredSettings()
	settings.issuer = issuer
	registry := auth.NewProviderRegistry(context.Background(), settings)

	redirect, err := registry.AuthCodeURL(auth.ProviderGoogle)
	require.NoError(t, err)
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	require.Equal(t, "accounts.google.com", u.Host)
}
