package surveys

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jrsteele09/go-survey-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 4 << 20

var ErrNotFound = fmt.Errorf("survey not found")

// Response is an upstream answer relayed byte for byte
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
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

// List relays GET /surveys. Any transport failure or non-2xx status is ErrUpstreamUnavailable.
func (c *Client) List(ctx context.Context, bearer string) (*Response, error) {
	return c.do(ctx, http.MethodGet, nil, bearer)
}

// Create relays POST /surveys with body passed through unchanged
func (c *Client) Create(ctx context.Context, body []byte, bearer string) (*Response, error) {
	return c.do(ctx, http.MethodPost, body, bearer)
}

func (c *Client) ListSurveys(ctx context.Context, bearer string) ([]Survey, error) {
	resp, err := c.List(ctx, bearer)
	if err != nil {
		return nil, err
	}
	var list []Survey
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "[surveys ListSurveys] decode: %v", err)
	}
	return list, nil
}

func (c *Client) CreateSurvey(ctx context.Context, s Survey, bearer string) (*Response, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "[surveys CreateSurvey] marshal")
	}
	return c.Create(ctx, body, bearer)
}

// FindSurvey looks a survey up in the list; the backend has no single-survey endpoint
func (c *Client) FindSurvey(ctx context.Context, id int, bearer string) (Survey, error) {
	list, err := c.ListSurveys(ctx, bearer)
	if err != nil {
		return Survey{}, err
	}
	for _, s := range list {
		if s.ID == id {
			return s, nil
		}
	}
	return Survey{}, errors.Wrapf(ErrNotFound, "[surveys FindSurvey] id %d", id)
}

func (c *Client) do(ctx context.Context, method string, body []byte, bearer string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/surveys", reader)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "[surveys %s] build request: %v", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("method", method).Msg("surveys: upstream request failed")
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "[surveys %s]", method)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "[surveys %s] read body: %v", method, err)
	}
	if len(respBody) > maxBodyBytes {
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "[surveys %s] body exceeds %d bytes", method, maxBodyBytes)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().
			Str("method", method).
			Int("status", resp.StatusCode).
			Str("body", string(respBody)).
			Msg("surveys: upstream rejected request")
		return nil, errors.Wrapf(errors.WithStatus(errors.ErrUpstreamUnavailable, resp.StatusCode), "[surveys %s]", method)
	}
	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}
