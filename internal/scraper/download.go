package scraper

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/pfrederiksen/pydocs-parser/internal/logger"
)

var archivePattern = regexp.MustCompile(`.+pdf-a4\.zip$`)

// Download saves the A4 PDF documentation archive into the downloads
// directory and returns the written path.
func (s *Scraper) Download(ctx context.Context) (string, error) {
	pageURL, err := resolve(s.docsURL, "download.html")
	if err != nil {
		return "", err
	}

	doc, err := s.entryPage(ctx, pageURL)
	if err != nil {
		return "", err
	}

	content, err := Locate(doc.Selection, "div", Attr("role", "main"))
	if err != nil {
		return "", err
	}
	table, err := Locate(content, "table", Class("docutils"))
	if err != nil {
		return "", err
	}
	a, err := Locate(table, "a", AttrMatch("href", archivePattern))
	if err != nil {
		return "", err
	}
	ref, err := href(a)
	if err != nil {
		return "", err
	}
	archiveURL, err := resolve(pageURL, ref)
	if err != nil {
		return "", err
	}

	name, err := archiveName(archiveURL)
	if err != nil {
		return "", err
	}

	s.progress.Start("Downloading "+name, 1)
	resp, err := s.fetcher.Get(ctx, archiveURL)
	s.progress.Step()
	s.progress.Done()
	if err != nil {
		logger.Error("Archive could not be downloaded", logger.Fields{"url": archiveURL}, err)
		return "", fmt.Errorf("%w: %s: %v", ErrPageUnavailable, archiveURL, err)
	}

	if err := os.MkdirAll(s.downloadsDir, 0755); err != nil {
		return "", fmt.Errorf("creating downloads directory: %w", err)
	}
	target := filepath.Join(s.downloadsDir, name)
	if err := os.WriteFile(target, resp.Body, 0644); err != nil {
		return "", fmt.Errorf("writing archive: %w", err)
	}

	logger.Info("Archive downloaded and saved", logger.Fields{"path": target, "bytes": len(resp.Body)})
	return target, nil
}

// archiveName is the last path segment of the archive URL.
func archiveName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing archive url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("archive url %q has no file name", rawURL)
	}
	return name, nil
}
