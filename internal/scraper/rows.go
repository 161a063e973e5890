package scraper

import (
	"strconv"

	"github.com/pfrederiksen/pydocs-parser/internal/status"
)

// Column headers per mode.
var (
	WhatsNewHeader = []string{"Article link", "Title", "Editor, author"}
	VersionsHeader = []string{"Documentation link", "Version", "Status"}
	CensusHeader   = []string{"Status", "Count"}
)

// Record is implemented by every row type.
type Record interface {
	Record() []string
}

// WhatsNewRow is one release-notes page.
type WhatsNewRow struct {
	Link   string
	Title  string
	Author string
}

func (r WhatsNewRow) Record() []string {
	return []string{r.Link, r.Title, r.Author}
}

// VersionRow is one entry of the "All versions" sidebar list.
type VersionRow struct {
	Link    string
	Version string
	Status  string
}

func (r VersionRow) Record() []string {
	return []string{r.Link, r.Version, r.Status}
}

// StatusCountRow is one line of the PEP census.
type StatusCountRow struct {
	Status string
	Count  int
}

func (r StatusCountRow) Record() []string {
	return []string{r.Status, strconv.Itoa(r.Count)}
}

// Table is the mode-independent form handed to renderers.
type Table struct {
	Header  []string
	Records [][]string
}

// NewTable flattens typed rows under header.
func NewTable[R Record](header []string, rows []R) *Table {
	t := &Table{
		Header:  append([]string(nil), header...),
		Records: make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		t.Records = append(t.Records, r.Record())
	}
	return t
}

// Len is the number of data rows, header excluded.
func (t *Table) Len() int {
	return len(t.Records)
}

// Census is the result of the PEP status census.
type Census struct {
	Tally      *status.Tally
	Mismatches []status.Mismatch
	// Skipped lists PEP pages that could not be fetched.
	Skipped []string
}

// Rows converts the tally, Total row included.
func (c *Census) Rows() []StatusCountRow {
	counts := c.Tally.Rows()
	rows := make([]StatusCountRow, len(counts))
	for i, n := range counts {
		rows[i] = StatusCountRow{Status: n.Status, Count: n.Count}
	}
	return rows
}

// Table renders the census under CensusHeader.
func (c *Census) Table() *Table {
	return NewTable(CensusHeader, c.Rows())
}
