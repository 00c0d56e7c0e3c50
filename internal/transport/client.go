// Package transport implements the REST client shared by both reload
// backends: auth header injection, JSON encoding, structured errors, and an
// optional response cache with an explicit bypass for status polling.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is the request surface the reload engine consumes. GetFresh must
// never serve from a cache: polling loops depend on fresh status reads to
// terminate.
type Client interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	GetFresh(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

// APIError is a non-2xx response, carrying enough structure for callers to
// classify it without substring matching.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, body)
}

// AsAPIError unwraps err to an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsNotFound reports whether err is an API error with status 404.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// Config configures an HTTPClient.
type Config struct {
	BaseURL string
	// APIKey is sent as a Bearer token when set.
	APIKey string
	// Headers are added to every request (QRS auth headers go here).
	Headers map[string]string
	// XrfKey enables the QRS cross-site request forgery key: a 16-character
	// value sent both as a query parameter and a header on every call.
	XrfKey bool
	// Timeout bounds a single request; zero means 30s.
	Timeout time.Duration
	// CacheTTL enables the response cache for plain Get calls; zero disables
	// caching entirely.
	CacheTTL time.Duration
}

// HTTPClient is the concrete Client over net/http.
type HTTPClient struct {
	base    *url.URL
	http    *http.Client
	apiKey  string
	headers map[string]string
	xrfKey  string
	cache   *responseCache
	logger  *slog.Logger
}

// NewHTTPClient builds a client for one backend base URL.
func NewHTTPClient(cfg Config, logger *slog.Logger) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &HTTPClient{
		base:    base,
		http:    &http.Client{Timeout: timeout},
		apiKey:  cfg.APIKey,
		headers: cfg.Headers,
		logger:  logger,
	}
	if cfg.XrfKey {
		// QRS requires exactly 16 alphanumeric characters.
		c.xrfKey = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	}
	if cfg.CacheTTL > 0 {
		c.cache = newResponseCache(cfg.CacheTTL)
	}
	return c, nil
}

func (c *HTTPClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, false)
}

// GetFresh bypasses the response cache and asks intermediaries not to serve
// a stale copy either.
func (c *HTTPClient) GetFresh(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, true)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, true)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, true)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body, out any, fresh bool) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if c.xrfKey != "" {
		q.Set("xrfkey", c.xrfKey)
	}
	u.RawQuery = q.Encode()

	cacheKey := method + " " + u.String()
	if !fresh && c.cache != nil {
		if cached, ok := c.cache.get(cacheKey); ok {
			return decode(cached, out)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.xrfKey != "" {
		req.Header.Set("X-Qlik-Xrfkey", c.xrfKey)
	}
	if fresh {
		req.Header.Set("Cache-Control", "no-cache")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       string(data),
		}
	}

	if !fresh && c.cache != nil && method == http.MethodGet {
		c.cache.put(cacheKey, data)
	}
	return decode(data, out)
}

func decode(data []byte, out any) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
