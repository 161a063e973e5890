package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/pydocs-parser/internal/logger"
)

// WhatsNew collects one row per release-notes page linked from the
// "What's New in Python" index. Pages that cannot be fetched are skipped.
func (s *Scraper) WhatsNew(ctx context.Context) ([]WhatsNewRow, error) {
	indexURL, err := resolve(s.docsURL, "whatsnew/")
	if err != nil {
		return nil, err
	}

	doc, err := s.entryPage(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	section, err := Locate(doc.Selection, "section", Attr("id", "what-s-new-in-python"))
	if err != nil {
		return nil, err
	}
	wrapper, err := Locate(section, "div", Class("toctree-wrapper"))
	if err != nil {
		return nil, err
	}

	items := wrapper.Find("li").FilterFunction(func(_ int, li *goquery.Selection) bool {
		return li.HasClass("toctree-l1")
	})

	s.progress.Start("What's New pages", items.Length())
	defer s.progress.Done()

	rows := make([]WhatsNewRow, 0, items.Length())
	for i := range items.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, ok, err := s.whatsNewPage(ctx, indexURL, items.Eq(i))
		s.progress.Step()
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, row)
		}
	}

	logger.Info("What's New pages collected", logger.Fields{"rows": len(rows), "links": items.Length()})
	return rows, nil
}

func (s *Scraper) whatsNewPage(ctx context.Context, indexURL string, item *goquery.Selection) (WhatsNewRow, bool, error) {
	a, err := Locate(item, "a")
	if err != nil {
		return WhatsNewRow{}, false, err
	}
	ref, err := href(a)
	if err != nil {
		return WhatsNewRow{}, false, err
	}
	link, err := resolve(indexURL, ref)
	if err != nil {
		return WhatsNewRow{}, false, err
	}

	res := s.fetcher.Fetch(ctx, link)
	if res.Unavailable() {
		return WhatsNewRow{}, false, nil
	}

	h1, err := Locate(res.Doc.Selection, "h1")
	if err != nil {
		return WhatsNewRow{}, false, err
	}
	dl, err := Locate(res.Doc.Selection, "dl")
	if err != nil {
		return WhatsNewRow{}, false, err
	}

	return WhatsNewRow{
		Link:   link,
		Title:  strings.TrimSpace(h1.Text()),
		Author: strings.TrimSpace(strings.ReplaceAll(dl.Text(), "\n", " ")),
	}, true, nil
}
