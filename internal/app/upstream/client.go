// internal/app/upstream/client.go
//
// Package upstream is the HTTP client for the routing proxy's management
// API. The console holds no routing state of its own; providers, model
// mappings, API keys, request logs, and usage data all live in the proxy
// and are read and written through this client.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dalemusser/strataroute/internal/app/system/metrics"
)

// Sentinel errors mapped from management API status codes.
var (
	ErrNotFound     = errors.New("upstream: not found")
	ErrConflict     = errors.New("upstream: conflict")
	ErrUnauthorized = errors.New("upstream: management key rejected")
)

// StatusError is returned for any non-2xx response that does not map to
// a sentinel. It wraps the body the proxy sent back, truncated.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Message)
}

// Config carries what New needs to reach the proxy.
type Config struct {
	BaseURL       string
	ManagementKey string
	Timeout       time.Duration
	Logger        *zap.Logger
}

// Client talks to the proxy's /v0/management endpoints.
type Client struct {
	base    *url.URL
	key     string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New validates cfg and returns a ready client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("upstream: base URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("upstream: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("upstream: base URL must be http or https, got %q", u.Scheme)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:    u,
		key:     cfg.ManagementKey,
		http:    &http.Client{Timeout: timeout},
		log:     logger,
		metrics: metrics.New(),
	}, nil
}

const maxErrBody = 8 << 10

// apiError is the proxy's error envelope.
type apiError struct {
	Error string `json:"error"`
}

// do performs one management API call. in, when non-nil, is sent as the
// JSON body; out, when non-nil, receives the decoded JSON response.
// resource names the endpoint family for metrics.
func (c *Client) do(ctx context.Context, method, path, resource string, query url.Values, in, out any) error {
	ref := &url.URL{Path: path}
	if query != nil {
		ref.RawQuery = query.Encode()
	}
	u := c.base.ResolveReference(ref)

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("upstream: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(resource, "transport_error", time.Since(start))
		return fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveUpstream(resource, fmt.Sprintf("http_%d", resp.StatusCode), time.Since(start))
		return c.statusError(resp, method, path)
	}
	c.metrics.ObserveUpstream(resource, "ok", time.Since(start))

	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrBody))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) statusError(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
	msg := strings.TrimSpace(string(raw))
	var env apiError
	if json.Unmarshal(raw, &env) == nil && env.Error != "" {
		msg = env.Error
	}
	c.log.Warn("management API error",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("body", msg))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return &StatusError{Status: resp.StatusCode, Message: msg}
}

// Ping checks the proxy's health endpoint and updates the health gauge.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, http.MethodGet, "/v0/management/health", "health", nil, nil, nil)
	c.metrics.SetUpstreamHealthy(err == nil)
	return err
}
