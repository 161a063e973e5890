// Package scraper extracts tabular data from the Python documentation and
// PEP sites.
//
// Four modes are available: whats-new lists the release-notes articles with
// their authors, latest-versions reads the documentation version list from
// the sidebar, download saves the A4 PDF archive, and pep counts the statuses
// declared on every PEP page, checking each against the status implied by
// the numerical index. Pages are retrieved through a Fetcher; Locate is the
// single way markup is looked up so that missing structure always surfaces
// as ErrMissingMarkup.
package scraper
