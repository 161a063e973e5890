package scraper

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/pydocs-parser/internal/logger"
)

const allVersionsMarker = "All versions"

var versionPattern = regexp.MustCompile(`Python (?P<version>\d\.\d+) \((?P<status>.*)\)`)

// splitVersion extracts version and status from a sidebar link text. Text
// that does not match is returned whole as the version with an empty status.
func splitVersion(text string) (version, status string) {
	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return text, ""
	}
	return m[versionPattern.SubexpIndex("version")], m[versionPattern.SubexpIndex("status")]
}

// LatestVersions lists the documentation versions from the sidebar of the
// documentation index.
func (s *Scraper) LatestVersions(ctx context.Context) ([]VersionRow, error) {
	doc, err := s.entryPage(ctx, s.docsURL)
	if err != nil {
		return nil, err
	}

	sidebar, err := Locate(doc.Selection, "div", Class("sphinxsidebarwrapper"))
	if err != nil {
		return nil, err
	}

	list := sidebar.Find("ul").FilterFunction(func(_ int, ul *goquery.Selection) bool {
		return strings.Contains(ul.Text(), allVersionsMarker)
	}).First()
	if list.Length() == 0 {
		logger.Error("Version list not found", logger.Fields{"url": s.docsURL}, ErrVersionListNotFound)
		return nil, ErrVersionListNotFound
	}

	var rows []VersionRow
	var firstErr error
	list.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		ref, err := href(a)
		if err != nil {
			firstErr = err
			return false
		}
		link, err := resolve(s.docsURL, ref)
		if err != nil {
			firstErr = err
			return false
		}
		version, status := splitVersion(a.Text())
		rows = append(rows, VersionRow{Link: link, Version: version, Status: status})
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}

	logger.Info("Documentation versions collected", logger.Fields{"rows": len(rows)})
	return rows, nil
}
