package status

// TotalLabel is the label of the synthesized last row of Tally.Rows.
const TotalLabel = "Total"

// Count is one (status, occurrences) pair.
type Count struct {
	Status string
	Count  int
}

// Tally counts observed statuses, remembering first-seen order.
type Tally struct {
	order  []string
	counts map[string]int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add increments the count for status.
func (t *Tally) Add(status string) {
	if _, ok := t.counts[status]; !ok {
		t.order = append(t.order, status)
	}
	t.counts[status]++
}

// Get returns the count for status.
func (t *Tally) Get(status string) int {
	return t.counts[status]
}

// Total is the sum of all counts.
func (t *Tally) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Len is the number of distinct statuses.
func (t *Tally) Len() int {
	return len(t.order)
}

// Rows returns one Count per status in first-seen order followed by
// a ("Total", sum) row.
func (t *Tally) Rows() []Count {
	rows := make([]Count, 0, len(t.order)+1)
	for _, s := range t.order {
		rows = append(rows, Count{Status: s, Count: t.counts[s]})
	}
	return append(rows, Count{Status: TotalLabel, Count: t.Total()})
}
