package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/pydocs-parser/internal/fetch"
	"github.com/pfrederiksen/pydocs-parser/internal/logger"
	"github.com/pfrederiksen/pydocs-parser/internal/status"
)

const (
	DocsURL      = "https://docs.python.org/3/"
	PEPsURL      = "https://peps.python.org/"
	DownloadsDir = "downloads"
)

// Mode selects an extractor.
type Mode string

const (
	ModeWhatsNew       Mode = "whats-new"
	ModeLatestVersions Mode = "latest-versions"
	ModeDownload       Mode = "download"
	ModePEP            Mode = "pep"
)

// Modes lists every mode in help order.
func Modes() []Mode {
	return []Mode{ModeWhatsNew, ModeLatestVersions, ModeDownload, ModePEP}
}

// ModeNames is Modes as strings.
func ModeNames() []string {
	modes := Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}

// ParseMode validates a mode name.
func ParseMode(name string) (Mode, error) {
	for _, m := range Modes() {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q (choose from %s)", ErrUnknownMode, name, strings.Join(ModeNames(), ", "))
}

// Fetcher is what the extractors need from fetch.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string) fetch.Result
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

// Progress receives per-item progress of the long loops.
type Progress interface {
	Start(label string, total int)
	Step()
	Done()
}

type noProgress struct{}

func (noProgress) Start(string, int) {}
func (noProgress) Step()             {}
func (noProgress) Done()             {}

// Scraper runs the extractors against the documentation sites.
type Scraper struct {
	fetcher      Fetcher
	docsURL      string
	pepsURL      string
	downloadsDir string
	expected     status.Expected
	progress     Progress
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithDocsURL overrides the docs.python.org root.
func WithDocsURL(u string) Option {
	return func(s *Scraper) { s.docsURL = u }
}

// WithPEPsURL overrides the peps.python.org root.
func WithPEPsURL(u string) Option {
	return func(s *Scraper) { s.pepsURL = u }
}

// WithDownloadsDir sets where the download mode saves archives.
func WithDownloadsDir(dir string) Option {
	return func(s *Scraper) { s.downloadsDir = dir }
}

// WithExpected replaces the expected-status table used by the PEP census.
func WithExpected(e status.Expected) Option {
	return func(s *Scraper) { s.expected = e }
}

// WithProgress installs a progress reporter.
func WithProgress(p Progress) Option {
	return func(s *Scraper) {
		if p != nil {
			s.progress = p
		}
	}
}

// New creates a Scraper with production defaults.
func New(f Fetcher, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:      f,
		docsURL:      DocsURL,
		pepsURL:      PEPsURL,
		downloadsDir: DownloadsDir,
		expected:     status.DefaultExpected(),
		progress:     noProgress{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes mode and returns its table. The download mode has nothing to
// render and returns a nil table.
func (s *Scraper) Run(ctx context.Context, mode Mode) (*Table, error) {
	switch mode {
	case ModeWhatsNew:
		rows, err := s.WhatsNew(ctx)
		if err != nil {
			return nil, err
		}
		return NewTable(WhatsNewHeader, rows), nil

	case ModeLatestVersions:
		rows, err := s.LatestVersions(ctx)
		if err != nil {
			return nil, err
		}
		return NewTable(VersionsHeader, rows), nil

	case ModeDownload:
		if _, err := s.Download(ctx); err != nil {
			return nil, err
		}
		return nil, nil

	case ModePEP:
		census, err := s.PEPCensus(ctx)
		if err != nil {
			return nil, err
		}
		return census.Table(), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// entryPage fetches a page the whole mode depends on; unavailable is fatal.
func (s *Scraper) entryPage(ctx context.Context, url string) (*goquery.Document, error) {
	res := s.fetcher.Fetch(ctx, url)
	if res.Unavailable() {
		return nil, fmt.Errorf("%w: %s: %v", ErrPageUnavailable, url, res.Err)
	}
	logger.Debug("Entry page loaded", logger.Fields{"url": url})
	return res.Doc, nil
}
