package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/reloads/abc", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.Write([]byte(`{"id":"abc","status":"SUCCEEDED"}`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Config{BaseURL: srv.URL, APIKey: "secret"}, testLogger())
	require.NoError(t, err)

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, c.Get(context.Background(), "/api/v1/reloads/abc", nil, &out))
	assert.Equal(t, "abc", out.ID)
	assert.Equal(t, "SUCCEEDED", out.Status)
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"no such reload"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)

	err = c.Get(context.Background(), "/api/v1/reloads/missing", nil, nil)
	require.Error(t, err)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.True(t, IsNotFound(err))
}

func TestGetFreshBypassesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
		w.Write([]byte(`{"status":"RELOADING"}`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Config{BaseURL: srv.URL, CacheTTL: time.Minute}, testLogger())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.GetFresh(context.Background(), "/status", nil, nil))
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestGetServesFromCacheWithinTTL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"name":"Sales"}`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Config{BaseURL: srv.URL, CacheTTL: time.Minute}, testLogger())
	require.NoError(t, err)

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.Get(context.Background(), "/apps/1", nil, &out))
	require.NoError(t, c.Get(context.Background(), "/apps/1", nil, &out))
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "Sales", out.Name)
}

func TestXrfKeyAppliedToQueryAndHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("xrfkey")
		assert.Len(t, key, 16)
		assert.Equal(t, key, r.Header.Get("X-Qlik-Xrfkey"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Config{BaseURL: srv.URL, XrfKey: true}, testLogger())
	require.NoError(t, err)
	require.NoError(t, c.Get(context.Background(), "/qrs/reloadtask", url.Values{"filter": {"app.id eq x"}}, nil))
}

func TestQueryParametersForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "my-app", r.URL.Query().Get("appId"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, err := NewHTTPClient(Config{BaseURL: srv.URL}, testLogger())
	require.NoError(t, err)
	q := url.Values{"appId": {"my-app"}, "limit": {"1"}}
	require.NoError(t, c.Get(context.Background(), "/api/v1/reloads", q, nil))
}

func TestRelativeBaseURLRejected(t *testing.T) {
	_, err := NewHTTPClient(Config{BaseURL: "tenant.example.com"}, testLogger())
	assert.Error(t, err)
}
