package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/keerthikaa27/factory-order-dashboard/credential"
)

// transport is shared between clients derived with WithCredentials so that
// Reconfigure reaches all of them.
type transport struct {
	mu         sync.RWMutex
	baseURL    string
	httpClient *http.Client
}

func (t *transport) current() (string, *http.Client) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.baseURL, t.httpClient
}

// Client talks to the order backend. Every request carries the bearer token
// from its credential store when one is present.
type Client struct {
	t      *transport
	creds  credential.Store
	logger *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, creds credential.Store, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		t: &transport{
			baseURL:    baseURL,
			httpClient: &http.Client{Timeout: timeout},
		},
		creds:  creds,
		logger: logger,
	}
}

// WithCredentials returns a client bound to another credential store that
// shares this client's transport.
func (c *Client) WithCredentials(creds credential.Store) *Client {
	return &Client{t: c.t, creds: creds, logger: c.logger}
}

// Credentials returns the store the client reads its token from.
func (c *Client) Credentials() credential.Store { return c.creds }

// BaseURL returns the client's base URL.
func (c *Client) BaseURL() string {
	base, _ := c.t.current()
	return base
}

// Reconfigure updates the base URL and timeout for hot-reload.
func (c *Client) Reconfigure(baseURL string, timeout time.Duration) {
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	c.t.baseURL = baseURL
	c.t.httpClient = &http.Client{Timeout: timeout, Transport: c.t.httpClient.Transport}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, result any) error {
	base, hc := c.t.current()

	target := base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("api %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if token := c.creds.Get(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return c.decode(method, path, resp, result)
}

func (c *Client) decode(method, path string, resp *http.Response, result any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return newAPIError(method, path, resp.StatusCode, data)
	}
	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("api decode %s: %w", path, err)
		}
	}
	return nil
}
