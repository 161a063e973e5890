package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nao1215/markdown"

	"github.com/pfrederiksen/pydocs-parser/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatPlain    OutputFormat = ""
	FormatPretty   OutputFormat = "pretty"
	FormatFile     OutputFormat = "file"
	FormatMarkdown OutputFormat = "markdown"
)

// ResultTimeLayout is the timestamp layout in result file names.
const ResultTimeLayout = "2006-01-02_15-04-05"

func outputChoices() []string {
	return []string{string(FormatPretty), string(FormatFile), string(FormatMarkdown)}
}

// ParseOutputFormat validates the --output value. Empty selects the plain dump.
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatPlain, FormatPretty, FormatFile, FormatMarkdown:
		return format, nil
	}
	return "", fmt.Errorf("invalid output: %s (must be one of %s)", s, strings.Join(outputChoices(), ", "))
}

// WriteOutput renders t in the given format. FormatFile writes a CSV file
// under resultsDir and returns its path; the other formats write to w and
// return "".
func WriteOutput(w io.Writer, t *scraper.Table, format OutputFormat, mode scraper.Mode, resultsDir string, now time.Time) (string, error) {
	switch format {
	case FormatPlain:
		return "", writePlain(w, t)
	case FormatPretty:
		return "", writePretty(w, t)
	case FormatMarkdown:
		return "", writeMarkdown(w, t)
	case FormatFile:
		return writeFile(t, mode, resultsDir, now)
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

// writePlain prints one line per row, fields joined by spaces
func writePlain(w io.Writer, t *scraper.Table) error {
	if _, err := fmt.Fprintln(w, strings.Join(t.Header, " ")); err != nil {
		return err
	}
	for _, rec := range t.Records {
		if _, err := fmt.Fprintln(w, strings.Join(rec, " ")); err != nil {
			return err
		}
	}
	return nil
}

// writePretty prints a bordered table with every column left aligned
func writePretty(w io.Writer, t *scraper.Table) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetOutputMirror(w)

	tw.AppendHeader(toRow(t.Header))
	for _, rec := range t.Records {
		tw.AppendRow(toRow(rec))
	}

	configs := make([]table.ColumnConfig, len(t.Header))
	for i := range t.Header {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		}
	}
	tw.SetColumnConfigs(configs)

	tw.Render()
	return nil
}

func toRow(fields []string) table.Row {
	row := make(table.Row, len(fields))
	for i, f := range fields {
		row[i] = f
	}
	return row
}

// writeMarkdown prints a GitHub-flavored Markdown table
func writeMarkdown(w io.Writer, t *scraper.Table) error {
	return markdown.NewMarkdown(w).
		Table(markdown.TableSet{
			Header: t.Header,
			Rows:   t.Records,
		}).
		Build()
}

// writeFile saves the table as <resultsDir>/<mode>_<timestamp>.csv
func writeFile(t *scraper.Table, mode scraper.Mode, resultsDir string, now time.Time) (string, error) {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}

	path := filepath.Join(resultsDir, fmt.Sprintf("%s_%s.csv", mode, now.Format(ResultTimeLayout)))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.UseCRLF = false
	if err := cw.Write(t.Header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteAll(t.Records); err != nil {
		return "", fmt.Errorf("writing rows: %w", err)
	}

	return path, f.Close()
}
