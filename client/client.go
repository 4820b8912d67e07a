// Package client is a Go client for the gateway's JSON endpoints. It keeps the session
// token in a tokenstore.Store and replays it as the auth_token cookie.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-survey-gateway/identity"
	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/jrsteele09/go-survey-gateway/surveys"
	"github.com/jrsteele09/go-survey-gateway/tokenstore"
	"github.com/pkg/browser"
)

const maxBodyBytes = 4 << 20

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      tokenstore.Store
	CookieName string
}

func New(baseURL string, store tokenstore.Store, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: httpClient,
		Store:      store,
		CookieName: tokenstore.DefaultCookieName,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type whoAmIResponse struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	Token      string `json:"token"`
}

// CreateResult is the survey backend's answer to a create request
type CreateResult struct {
	Message  string `json:"message"`
	SurveyID int    `json:"surveyId"`
}

// Login posts credentials and returns the session token the gateway set as a cookie.
// Storing it is left to the caller's session.
func (c *Client) Login(ctx context.Context, creds identity.Credentials) (string, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("[client Login] marshal: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/login", bytes.NewReader(body), false)
	if err != nil {
		return "", errors.Wrapf(err, "[client Login]")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return "", errors.Wrapf(errors.ErrInvalidRequest, "[client Login] %s", readMessage(resp.Body))
	case resp.StatusCode >= 500:
		return "", errors.Wrapf(errors.WithStatus(errors.ErrUpstreamUnavailable, resp.StatusCode), "[client Login]")
	case resp.StatusCode != http.StatusOK:
		return "", errors.Wrapf(errors.WithStatus(errors.ErrLoginFailed, resp.StatusCode), "[client Login]")
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == c.CookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", errors.Wrapf(errors.ErrUpstream, "[client Login] response carried no session cookie")
}

// WhoAmI asks the gateway whether the stored token is a session. ok is false when the
// gateway answers 401.
func (c *Client) WhoAmI(ctx context.Context) (token string, ok bool, err error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/me", nil, true)
	if err != nil {
		return "", false, errors.Wrapf(err, "[client WhoAmI]")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, errors.Wrapf(errors.WithStatus(errors.ErrUpstreamUnavailable, resp.StatusCode), "[client WhoAmI]")
	}
	var who whoAmIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&who); err != nil {
		return "", false, fmt.Errorf("[client WhoAmI] decode: %w", err)
	}
	return who.Token, who.IsLoggedIn, nil
}

// Logout tells the gateway to clear its cookie. The local store is left to the caller.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/auth/logout", nil, true)
	if err != nil {
		return errors.Wrapf(err, "[client Logout]")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(errors.WithStatus(errors.ErrUpstreamUnavailable, resp.StatusCode), "[client Logout]")
	}
	return nil
}

func (c *Client) ListSurveys(ctx context.Context) ([]surveys.Survey, error) {
	resp, err := c.do(ctx, http.MethodGet, "/surveys", nil, true)
	if err != nil {
		return nil, errors.Wrapf(err, "[client ListSurveys]")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.WithStatus(errors.ErrUpstreamUnavailable, resp.StatusCode), "[client ListSurveys] %s", readMessage(resp.Body))
	}
	var list []surveys.Survey
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&list); err != nil {
		return nil, fmt.Errorf("[client ListSurveys] decode: %w", err)
	}
	return list, nil
}

func (c *Client) CreateSurvey(ctx context.Context, s surveys.Survey) (CreateResult, error) {
	if err := s.Validate(); err != nil {
		return CreateResult{}, errors.Wrapf(errors.ErrInvalidRequest, "[client CreateSurvey] %v", err)
	}
	body, err := json.Marshal(s)
	if err != nil {
		return CreateResult{}, fmt.Errorf("[client CreateSurvey] marshal: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/surveys", bytes.NewReader(body), true)
	if err != nil {
		return CreateResult{}, errors.Wrapf(err, "[client CreateSurvey]")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return CreateResult{}, errors.Wrapf(errors.WithStatus(errors.ErrUpstreamUnavailable, resp.StatusCode), "[client CreateSurvey] %s", readMessage(resp.Body))
	}
	var result CreateResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&result); err != nil {
		return CreateResult{}, fmt.Errorf("[client CreateSurvey] decode: %w", err)
	}
	return result, nil
}

// LoginURL is the gateway route that starts the OAuth flow for provider
func (c *Client) LoginURL(provider string) string {
	return c.join("/auth/login/" + provider)
}

// OpenInBrowser opens path on the gateway in the user's browser. When no browser can be
// started the URL is returned for the caller to print.
func (c *Client) OpenInBrowser(path string) (string, error) {
	target := c.join(path)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		target = path
	}
	if err := browser.OpenURL(target); err != nil {
		return target, fmt.Errorf("[client OpenInBrowser] %w", err)
	}
	return target, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, withSession bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.join(path), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withSession {
		if token, ok := c.Store.Get(); ok {
			req.AddCookie(&http.Cookie{Name: c.CookieName, Value: token})
		}
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "%s %s: %v", method, path, err)
	}
	return resp, nil
}

func (c *Client) join(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(c.BaseURL, "/"), strings.TrimPrefix(path, "/"))
}

func readMessage(r io.Reader) string {
	var msg messageResponse
	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(&msg); err != nil {
		return ""
	}
	return msg.Message
}
