package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/pfrederiksen/pydocs-parser/internal/logger"
	"github.com/pfrederiksen/pydocs-parser/internal/storage"
)

const (
	DefaultUserAgent = "pydocs-parser/1.0 (github.com/pfrederiksen/pydocs-parser)"
	DefaultTimeout   = 30 * time.Second
)

// Metric names recorded on the default logger metrics.
const (
	MetricCacheHits = "fetch.cache_hits"
	MetricRequests  = "fetch.requests"
	MetricFailures  = "fetch.failures"
	MetricTiming    = "fetch.request"
)

// ErrUnexpectedStatus marks a response with a non-2xx status code.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Cache is the subset of storage.Storage the client needs.
type Cache interface {
	Get(ctx context.Context, url string) (*storage.Entry, bool, error)
	Put(ctx context.Context, entry *storage.Entry) error
}

// Response is a fetched (or cached) HTTP response body.
type Response struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FromCache   bool
}

// Client fetches pages over HTTP, reading and writing through a Cache.
type Client struct {
	http  *resty.Client
	cache Cache
}

// Option configures a Client.
type Option func(*Client)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.http.SetHeader("User-Agent", ua)
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// New creates a Client. cache may be nil, in which case every call goes to
// the network.
func New(cache Cache, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetTimeout(DefaultTimeout).
			SetHeader("User-Agent", DefaultUserAgent),
		cache: cache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the body for url, from the cache when present. Only 2xx
// responses are cached; anything else is an error wrapping ErrUnexpectedStatus.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	if c.cache != nil {
		entry, ok, err := c.cache.Get(ctx, url)
		if err != nil {
			logger.Warn("Cache read failed, fetching from network", logger.Fields{"url": url, "error": err.Error()})
		} else if ok {
			logger.IncrCounter(MetricCacheHits)
			return &Response{
				URL:         entry.URL,
				StatusCode:  entry.StatusCode,
				ContentType: entry.ContentType,
				Body:        entry.Body,
				FromCache:   true,
			}, nil
		}
	}

	logger.IncrCounter(MetricRequests)
	start := time.Now()

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	logger.RecordTiming(MetricTiming, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("fetching %s: %w: %d", url, ErrUnexpectedStatus, res.StatusCode())
	}

	resp := &Response{
		URL:         url,
		StatusCode:  res.StatusCode(),
		ContentType: res.Header().Get("Content-Type"),
		Body:        res.Body(),
	}

	if c.cache != nil {
		err := c.cache.Put(ctx, &storage.Entry{
			URL:         resp.URL,
			StatusCode:  resp.StatusCode,
			ContentType: resp.ContentType,
			Body:        resp.Body,
		})
		if err != nil {
			logger.Warn("Cache write failed", logger.Fields{"url": url, "error": err.Error()})
		}
	}

	return resp, nil
}

// Fetch retrieves and parses an HTML page. Transport failures, bad statuses
// and unparsable bodies are logged and reported as an unavailable Result;
// they never escape as errors.
func (c *Client) Fetch(ctx context.Context, url string) Result {
	resp, err := c.Get(ctx, url)
	if err != nil {
		logger.IncrCounter(MetricFailures)
		logger.Error("Page could not be loaded", logger.Fields{"url": url}, err)
		return Unavailable(url, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		logger.IncrCounter(MetricFailures)
		logger.Error("Page could not be parsed", logger.Fields{"url": url}, err)
		return Unavailable(url, fmt.Errorf("parsing HTML: %w", err))
	}

	return Available(url, doc)
}
