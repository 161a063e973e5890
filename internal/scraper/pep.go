package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/pydocs-parser/internal/logger"
	"github.com/pfrederiksen/pydocs-parser/internal/status"
)

const statusLabel = "Status"

// PEPCensus walks the numerical PEP index, reads the status declared on each
// PEP page and counts them. Declared statuses outside the set implied by the
// index abbreviation are logged and collected as mismatches.
func (s *Scraper) PEPCensus(ctx context.Context) (*Census, error) {
	doc, err := s.entryPage(ctx, s.pepsURL)
	if err != nil {
		return nil, err
	}

	section, err := Locate(doc.Selection, "section", Attr("id", "numerical-index"))
	if err != nil {
		return nil, err
	}
	table, err := Locate(section, "table", Class("pep-zero-table docutils align-default"))
	if err != nil {
		return nil, err
	}
	tbody, err := Locate(table, "tbody")
	if err != nil {
		return nil, err
	}

	rows := tbody.Find("tr")
	census := &Census{Tally: status.NewTally()}

	s.progress.Start("PEP pages", rows.Length())
	defer s.progress.Done()

	for i := range rows.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := s.censusRow(ctx, census, rows.Eq(i))
		s.progress.Step()
		if err != nil {
			return nil, err
		}
	}

	logger.Info("PEP census complete", logger.Fields{
		"total":      census.Tally.Total(),
		"mismatches": len(census.Mismatches),
		"skipped":    len(census.Skipped),
	})
	return census, nil
}

func (s *Scraper) censusRow(ctx context.Context, census *Census, row *goquery.Selection) error {
	abbr, err := Locate(row, "abbr")
	if err != nil {
		return err
	}
	expected, err := s.expected.Lookup(status.CodeFromAbbr(abbr.Text()))
	if err != nil {
		logger.Error("Unexpected status code in PEP index", logger.Fields{"abbr": abbr.Text()}, err)
		return err
	}

	a, err := Locate(row, "a", HasAttr("href"))
	if err != nil {
		return err
	}
	ref, err := href(a)
	if err != nil {
		return err
	}
	link, err := resolve(s.pepsURL, ref)
	if err != nil {
		return err
	}

	res := s.fetcher.Fetch(ctx, link)
	if res.Unavailable() {
		census.Skipped = append(census.Skipped, link)
		return nil
	}

	observed, err := pageStatus(res.Doc)
	if err != nil {
		logger.Error("Status not found on PEP page", logger.Fields{"link": link}, err)
		return fmt.Errorf("%s: %w", link, err)
	}

	census.Tally.Add(observed)
	if !expected.Contains(observed) {
		census.Mismatches = append(census.Mismatches, status.Mismatch{
			Link:     link,
			Observed: observed,
			Expected: expected.Members(),
		})
		logger.Warn("Status mismatch", logger.Fields{
			"link":     link,
			"status":   observed,
			"expected": expected.String(),
		})
	}
	return nil
}

// pageStatus reads the value next to the "Status" label of a PEP header.
func pageStatus(doc *goquery.Document) (string, error) {
	label := findTextNode(doc.Selection.Nodes[0], statusLabel)
	if label == nil || label.Parent == nil {
		return "", &NotFoundError{Tag: "text", Attrs: fmt.Sprintf("[%q]", statusLabel)}
	}
	value := nextElementSibling(label.Parent)
	if value == nil {
		return "", &NotFoundError{Tag: "*", Attrs: fmt.Sprintf("[after %q]", statusLabel)}
	}
	return strings.TrimSpace(nodeText(value)), nil
}
