// Package cli implements the command-line interface for pydocs-parser.
//
// The cli package provides the Cobra-based root command taking one mode
// (whats-new, latest-versions, download, pep), renders the resulting table as
// a plain dump, a pretty table, a Markdown table or a CSV file, and wires the
// config, logger, storage, fetch and scraper packages together for one run.
package cli
