package identity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-survey-gateway/identity"
	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestExchangeCode(t *testing.T) {
	var gotPath, gotCode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCode = r.URL.Query().Get("code")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"jwt-from-backend"}`))
	}))
	defer srv.Close()

	token, err := identity.NewClient(srv.URL, srv.Client()).ExchangeCode(context.Background(), "github", "a&b=c")
	require.NoError(t, err)
	require.Equal(t, "jwt-from-backend", token)
	require.Equal(t, "/auth/github/callback", gotPath)
	require.Equal(t, "a&b=c", gotCode)
}

func TestExchangeCodeFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "code already used: secret detail", http.StatusBadRequest)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
		{"empty token", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"token":""}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := identity.NewClient(srv.URL, srv.Client()).ExchangeCode(context.Background(), "google", "code")
			require.ErrorIs(t, err, errors.ErrUpstreamAuth)
			require.NotContains(t, err.Error(), "secret detail")
		})
	}
}

func TestExchangeCodeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := identity.NewClient(url, nil).ExchangeCode(context.Background(), "github", "code")
	require.ErrorIs(t, err, errors.ErrUpstreamAuth)
}

func TestExchangeCodeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := identity.NewClient(srv.URL, &http.Client{Timeout: 50 * time.Millisecond})
	_, err := client.ExchangeCode(context.Background(), "github", "code")
	require.ErrorIs(t, err, errors.ErrUpstreamAuth)
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		var creds identity.Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Username != "alice" || creds.Password != "pw" {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token":"alice-token"}`))
	}))
	defer srv.Close()
	client := identity.NewClient(srv.URL, srv.Client())

	token, err := client.Login(context.Background(), identity.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "alice-token", token)

	_, err = client.Login(context.Background(), identity.Credentials{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, err, errors.ErrLoginFailed)
	status, ok := errors.StatusCode(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestLoginUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := identity.NewClient(url, nil).Login(context.Background(), identity.Credentials{Username: "a", Password: "b"})
	require.ErrorIs(t, err, errors.ErrUpstreamUnavailable)
	_, ok := errors.StatusCode(err)
	require.False(t, ok)
}
