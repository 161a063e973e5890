package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/pydocs-parser/internal/logger"
	"github.com/pfrederiksen/pydocs-parser/internal/storage"
)

// quietLogs routes the default logger into a buffer for the test.
func quietLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := logger.Default()
	var buf bytes.Buffer
	logger.SetDefault(logger.New(logger.LevelDebug, &buf))
	t.Cleanup(func() { logger.SetDefault(prev) })
	return &buf
}

type memCache struct {
	entries map[string]*storage.Entry
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*storage.Entry)}
}

func (m *memCache) Get(_ context.Context, url string) (*storage.Entry, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	e, ok := m.entries[url]
	return e, ok, nil
}

func (m *memCache) Put(_ context.Context, e *storage.Entry) error {
	m.entries[e.URL] = e
	return nil
}

func TestClient_Fetch(t *testing.T) {
	quietLogs(t)

	tests := []struct {
		name            string
		statusCode      int
		body            string
		wantUnavailable bool
		wantTitle       string
	}{
		{
			name:       "successful fetch",
			statusCode: http.StatusOK,
			body:       `<html><head><title>Python 3 docs</title></head><body></body></html>`,
			wantTitle:  "Python 3 docs",
		},
		{
			name:            "not found",
			statusCode:      http.StatusNotFound,
			body:            "missing",
			wantUnavailable: true,
		},
		{
			name:            "server error",
			statusCode:      http.StatusInternalServerError,
			wantUnavailable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ua := r.Header.Get("User-Agent"); !strings.Contains(ua, "pydocs-parser") {
					t.Errorf("User-Agent = %q, should contain 'pydocs-parser'", ua)
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			res := New(nil).Fetch(context.Background(), server.URL)

			assert.Equal(t, tt.wantUnavailable, res.Unavailable())
			assert.Equal(t, server.URL, res.URL)
			if tt.wantUnavailable {
				assert.ErrorIs(t, res.Err, ErrUnexpectedStatus)
				return
			}
			require.NotNil(t, res.Doc)
			assert.Equal(t, tt.wantTitle, res.Doc.Find("title").Text())
		})
	}
}

func TestClient_FetchTransportFailure(t *testing.T) {
	logs := quietLogs(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	res := New(nil, WithTimeout(2*time.Second)).Fetch(context.Background(), url)

	assert.True(t, res.Unavailable())
	assert.Error(t, res.Err)
	assert.Contains(t, logs.String(), "[ERROR] - Page could not be loaded")
	assert.Contains(t, logs.String(), "url="+url)
}

func TestClient_GetUsesCache(t *testing.T) {
	quietLogs(t)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>hello</p>"))
	}))
	defer server.Close()

	cache := newMemCache()
	client := New(cache)

	first, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, "text/html", first.ContentType)

	second, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Body, second.Body)

	assert.Equal(t, int32(1), hits.Load(), "second call should be served from cache")
}

func TestClient_GetDoesNotCacheFailures(t *testing.T) {
	quietLogs(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cache := newMemCache()
	_, err := New(cache).Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Empty(t, cache.entries)
}

func TestClient_GetFallsBackOnCacheError(t *testing.T) {
	logs := quietLogs(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fresh"))
	}))
	defer server.Close()

	cache := newMemCache()
	cache.getErr = errors.New("database is locked")

	resp, err := New(cache).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(resp.Body))
	assert.Contains(t, logs.String(), "Cache read failed")
}

func TestClient_WithSQLiteStorage(t *testing.T) {
	quietLogs(t)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`<html><body><h1>What's New</h1></body></html>`))
	}))
	defer server.Close()

	dir := t.TempDir()

	store, err := storage.New(dir, 0)
	require.NoError(t, err)
	res := New(store).Fetch(context.Background(), server.URL)
	require.False(t, res.Unavailable())
	require.NoError(t, store.Close())

	// a fresh process reuses the on-disk cache
	store, err = storage.New(dir, 0)
	require.NoError(t, err)
	defer store.Close()

	res = New(store).Fetch(context.Background(), server.URL)
	require.False(t, res.Unavailable())
	assert.Equal(t, "What's New", res.Doc.Find("h1").Text())
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_WithUserAgent(t *testing.T) {
	quietLogs(t)

	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	_, err := New(nil, WithUserAgent("custom-agent/2.0")).Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "custom-agent/2.0", got)
}
