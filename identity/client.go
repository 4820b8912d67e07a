// Package identity talks to the identity backend, which issues session tokens for
// credentials and for OAuth authorization codes.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// Credentials are forwarded once per login attempt and never stored
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// ExchangeCode trades a provider authorization code for a session token.
// The code is single use; replay protection belongs to the identity backend.
func (c *Client) ExchangeCode(ctx context.Context, provider, code string) (string, error) {
	endpoint := fmt.Sprintf("%s/auth/%s/callback?code=%s", c.baseURL, url.PathEscape(provider), url.QueryEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", errors.Wrapf(errors.ErrUpstreamAuth, "[identity ExchangeCode] build request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("provider", provider).Msg("identity: code exchange request failed")
		return "", errors.Wrapf(errors.ErrUpstreamAuth, "[identity ExchangeCode] %s", provider)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logRejectedBody(resp, provider, "identity: code exchange rejected")
		return "", errors.Wrapf(errors.WithStatus(errors.ErrUpstreamAuth, resp.StatusCode), "[identity ExchangeCode] %s", provider)
	}
	token, err := decodeToken(resp.Body)
	if err != nil {
		return "", errors.Wrapf(errors.ErrUpstreamAuth, "[identity ExchangeCode] %s: %v", provider, err)
	}
	return token, nil
}

// Login forwards credentials and returns the issued token. A non-2xx answer yields
// ErrLoginFailed carrying the upstream status.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return "", errors.Wrapf(err, "[identity Login] marshal")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrapf(errors.ErrUpstreamUnavailable, "[identity Login] build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("identity: login request failed")
		return "", errors.Wrapf(errors.ErrUpstreamUnavailable, "[identity Login]")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logRejectedBody(resp, "", "identity: login rejected")
		return "", errors.Wrapf(errors.WithStatus(errors.ErrLoginFailed, resp.StatusCode), "[identity Login]")
	}
	token, err := decodeToken(resp.Body)
	if err != nil {
		return "", errors.Wrapf(errors.ErrUpstreamUnavailable, "[identity Login] %v", err)
	}
	return token, nil
}

func decodeToken(r io.Reader) (string, error) {
	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.Token == "" {
		return "", fmt.Errorf("token response has no token")
	}
	return tr.Token, nil
}

func logRejectedBody(resp *http.Response, provider, msg string) {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	log.Debug().
		Str("provider", provider).
		Int("status", resp.StatusCode).
		Str("body", string(body)).
		Msg(msg)
}
