package cli

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/pydocs-parser/internal/scraper"
)

func censusTable() *scraper.Table {
	return scraper.NewTable(scraper.CensusHeader, []scraper.StatusCountRow{
		{Status: "Active", Count: 31},
		{Status: "Final", Count: 392},
		{Status: "Total", Count: 423},
	})
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatPlain, false},
		{"pretty", FormatPretty, false},
		{"FILE", FormatFile, false},
		{" markdown ", FormatMarkdown, false},
		{"json", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteOutput_Plain(t *testing.T) {
	var buf bytes.Buffer
	path, err := WriteOutput(&buf, censusTable(), FormatPlain, scraper.ModePEP, "", time.Now())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "Status Count\nActive 31\nFinal 392\nTotal 423\n", buf.String())
}

func TestWriteOutput_Pretty(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteOutput(&buf, censusTable(), FormatPretty, scraper.ModePEP, "", time.Now())
	require.NoError(t, err)

	out := buf.String()
	for _, cell := range []string{"Active", "Final", "Total", "392", "423"} {
		assert.Contains(t, out, cell)
	}

	// left aligned: numbers start right after the column separator
	var countLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Final") {
			countLine = line
		}
	}
	require.NotEmpty(t, countLine)
	assert.Contains(t, countLine, "│ 392")
}

func TestWriteOutput_Markdown(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteOutput(&buf, censusTable(), FormatMarkdown, scraper.ModePEP, "", time.Now())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.True(t, strings.HasPrefix(lines[0], "|"))
	assert.Contains(t, strings.ToLower(lines[0]), "status")
	assert.Contains(t, lines[1], "-")

	last := lines[len(lines)-1]
	assert.Contains(t, last, "Total")
	assert.Contains(t, last, "423")
}

func TestWriteOutput_File(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	now := time.Date(2026, 10, 17, 9, 5, 3, 0, time.UTC)

	table := scraper.NewTable(scraper.WhatsNewHeader, []scraper.WhatsNewRow{
		{Link: "https://docs.python.org/3/whatsnew/3.13.html", Title: "What's New In Python 3.13", Author: "Editors: Adam Turner, Thomas Wouters"},
	})

	var buf bytes.Buffer
	path, err := WriteOutput(&buf, table, FormatFile, scraper.ModeWhatsNew, dir, now)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
	assert.Equal(t, filepath.Join(dir, "whats-new_2026-10-17_09-05-03.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "\r\n")
	assert.True(t, strings.HasPrefix(string(raw), "Article link,Title,\"Editor, author\"\n"))

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Article link", "Title", "Editor, author"},
		{"https://docs.python.org/3/whatsnew/3.13.html", "What's New In Python 3.13", "Editors: Adam Turner, Thomas Wouters"},
	}, records)
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	_, err := WriteOutput(&bytes.Buffer{}, censusTable(), OutputFormat("xml"), scraper.ModePEP, "", time.Now())
	assert.Error(t, err)
}

func TestProgressBar_DoneReleasesWriter(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressBar(&buf)

	for i := 0; i < 5; i++ {
		p.Start("PEP pages", 2)
		p.Step()
		p.Step()
		p.Done()
		buf.WriteString("Parsing finished\n")
	}

	assert.Nil(t, p.tracker)
	assert.True(t, strings.HasSuffix(buf.String(), "Parsing finished\n"))
}

func TestProgressBar_StepBeforeStartIsNoop(t *testing.T) {
	p := newProgressBar(&bytes.Buffer{})
	p.Step()
	p.Done()
	assert.Nil(t, p.tracker)
}
