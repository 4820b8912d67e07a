package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	logoutCalls int
}

func (g *fakeGateway) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Login failed"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "token-" + body.Username, MaxAge: 86400})
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("auth_token")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"isLoggedIn":false}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"isLoggedIn": true, "token": c.Value})
	})
	mux.HandleFunc("GET /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		g.logoutCalls++
		_, _ = w.Write([]byte(`{"message":"Logged out successfully"}`))
	})
	mux.HandleFunc("GET /surveys", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"title":"Lunch","options":[{"text":"Pizza"},{"text":"Tacos"}]}]`))
	})
	mux.HandleFunc("POST /surveys", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Survey created successfully","surveyId":5}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type cli struct {
	t         *testing.T
	gateway   string
	tokenFile string
}

func newCLI(t *testing.T, gatewayURL string) *cli {
	t.Helper()
	return &cli{t: t, gateway: gatewayURL, tokenFile: filepath.Join(t.TempDir(), "surveyctl", "token")}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	full := append([]string{"-gateway", c.gateway, "-token-file", c.tokenFile}, args...)
	err := run(context.Background(), full, &out)
	return out.String(), err
}

func TestSessionLifecycle(t *testing.T) {
	g := &fakeGateway{}
	c := newCLI(t, g.server(t).URL)

	out, err := c.run("whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not logged in.")

	out, err = c.run("login", "-u", "alice", "-p", "pw")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in as alice.")

	out, err = c.run("whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in")

	out, err = c.run("list")
	require.NoError(t, err)
	require.Contains(t, out, "Lunch")
	require.Contains(t, out, "Pizza, Tacos")

	out, err = c.run("create", "-title", "Pets", "-option", "Cat", "-option", "Dog")
	require.NoError(t, err)
	require.Contains(t, out, "Created survey 5.")

	out, err = c.run("logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out.")
	require.Equal(t, 1, g.logoutCalls)

	out, err = c.run("whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Not logged in.")
}

func TestLoginFailureStoresNothing(t *testing.T) {
	g := &fakeGateway{}
	c := newCLI(t, g.server(t).URL)

	_, err := c.run("login", "-u", "alice", "-p", "wrong")
	require.Error(t, err)

	_, err = c.run("create", "-title", "Pets", "-option", "Cat")
	require.ErrorIs(t, err, errNotLoggedIn)
}

func TestLoginWithToken(t *testing.T) {
	g := &fakeGateway{}
	c := newCLI(t, g.server(t).URL)

	out, err := c.run("login", "-token", "pasted-token")
	require.NoError(t, err)
	require.Contains(t, out, "Session stored.")

	out, err = c.run("whoami")
	require.NoError(t, err)
	require.Contains(t, out, "Logged in (token past…oken).")
}

func TestUsageErrors(t *testing.T) {
	c := newCLI(t, "http://127.0.0.1:1")

	out, err := c.run()
	require.EqualError(t, err, "missing command")
	require.Contains(t, out, "Commands:")

	_, err = c.run("frobnicate")
	require.EqualError(t, err, `unknown command "frobnicate"`)
}
