// Package client talks to a LARCH README generation server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/gaspardpetit/larchmock/sdk/contracts/larch"
)

// ErrNoChoices is returned when a generation response carries no choice.
var ErrNoChoices = errors.New("generation response has no choices")

// StatusError reports a non-2xx answer from the server.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d, response=%s", e.Code, e.Body)
}

// Client is a small HTTP client for the generation API.
type Client struct {
	BaseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRateLimit makes every call wait on l before hitting the server.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func New(base string, opts ...Option) *Client {
	c := &Client{BaseURL: strings.TrimRight(base, "/"), httpClient: &http.Client{}}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-Id", uuid.NewString())
	return c.httpClient.Do(req)
}

// decode reads a 2xx JSON body into v, or turns any other status into a
// *StatusError.
func decode(resp *http.Response, v any) error {
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", larch.ErrInvalidResponse, err)
	}
	return nil
}

// Health reports whether GET /health answered with a 2xx status.
func (c *Client) Health(ctx context.Context) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}

// Models lists the generation models offered by the server.
func (c *Client) Models(ctx context.Context) ([]larch.Model, error) {
	resp, err := c.do(ctx, http.MethodGet, "/models", nil)
	if err != nil {
		return nil, err
	}
	var list larch.ModelList
	if err := decode(resp, &list); err != nil {
		return nil, err
	}
	if err := list.Validate(); err != nil {
		return nil, err
	}
	return list.Data, nil
}

// Generate requests a README and returns the first choice's text and edits.
// Edits may be nil when the server does not send any.
func (c *Client) Generate(ctx context.Context, req larch.GenerationRequest) (string, []larch.Edit, error) {
	resp, err := c.do(ctx, http.MethodPost, "/generations", req)
	if err != nil {
		return "", nil, err
	}
	var gen larch.GenerationResponse
	if err := decode(resp, &gen); err != nil {
		return "", nil, err
	}
	if err := gen.Validate(); err != nil {
		return "", nil, err
	}
	if len(gen.Choices) == 0 {
		return "", nil, ErrNoChoices
	}
	return gen.Choices[0].Text, gen.Choices[0].Edits, nil
}
