package scraper

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/pydocs-parser/internal/fetch"
	"github.com/pfrederiksen/pydocs-parser/internal/logger"
)

// fakeSite serves fixed bodies by path; anything else is a 404.
type fakeSite struct {
	mu    sync.Mutex
	pages map[string]string
	hits  map[string]int
	srv   *httptest.Server
}

func newFakeSite(t *testing.T, pages map[string]string) *fakeSite {
	t.Helper()
	site := &fakeSite{pages: pages, hits: make(map[string]int)}
	site.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mu.Lock()
		site.hits[r.URL.Path]++
		body, ok := site.pages[r.URL.Path]
		site.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(site.srv.Close)
	return site
}

func (s *fakeSite) url(path string) string {
	return s.srv.URL + path
}

func (s *fakeSite) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// newSiteScraper points a Scraper at site for both the docs and PEP roots.
func newSiteScraper(site *fakeSite, opts ...Option) *Scraper {
	base := []Option{
		WithDocsURL(site.url("/3/")),
		WithPEPsURL(site.url("/")),
	}
	return New(fetch.New(nil), append(base, opts...)...)
}

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := logger.Default()
	var buf bytes.Buffer
	logger.SetDefault(logger.New(logger.LevelDebug, &buf))
	t.Cleanup(func() { logger.SetDefault(prev) })
	return &buf
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err, "failed to load test fixture")
	return string(data)
}

func parseHTML(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewBufferString(body))
	require.NoError(t, err)
	return doc
}

// recordingProgress counts calls made by the extractors.
type recordingProgress struct {
	labels []string
	totals []int
	steps  int
	done   int
}

func (p *recordingProgress) Start(label string, total int) {
	p.labels = append(p.labels, label)
	p.totals = append(p.totals, total)
}

func (p *recordingProgress) Step() { p.steps++ }
func (p *recordingProgress) Done() { p.done++ }
