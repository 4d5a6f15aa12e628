// Package backend talks to the remote cashier REST API. Every response is
// normalized here so the rest of the app only sees domain records.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

const apiPrefix = "/api/v1"

type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[*reply]
}

type reply struct {
	status int
	body   []byte
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	c.cb = gobreaker.NewCircuitBreaker[*reply](gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 4xx itu salah request, bukan backend yang sakit
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			return err == nil || (errors.As(err, &apiErr) && apiErr.Status < 500)
		},
	})
	return c
}

// BaseURL is used to resolve relative image paths.
func (c *Client) BaseURL() string { return c.baseURL }

type meta struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type envelope struct {
	Meta    *meta           `json:"meta"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) getJSON(ctx context.Context, token, path string, out any) error {
	return c.call(ctx, http.MethodGet, token, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, token, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.call(ctx, method, token, path, bytes.NewReader(b), "application/json", out)
}

// call runs one request through the breaker and decodes envelope.data into out.
func (c *Client) call(ctx context.Context, method, token, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rep, err := c.cb.Execute(func() (*reply, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return nil, newAPIError(resp.StatusCode, b)
		}
		return &reply{status: resp.StatusCode, body: b}, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if rep.status < 200 || rep.status > 299 {
		return newAPIError(rep.status, rep.body)
	}
	if out == nil || len(bytes.TrimSpace(rep.body)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(rep.body, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.Meta != nil && env.Meta.Status != "" && env.Meta.Status != "success" {
		return &APIError{Status: rep.status, Message: firstNonEmpty(env.Meta.Message, "respon bukan success")}
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
