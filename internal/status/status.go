package status

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownStatusCode is returned when a code has no entry in the table.
var ErrUnknownStatusCode = errors.New("unknown status code")

// Set is an immutable set of acceptable status strings.
type Set struct {
	members []string
}

// NewSet builds a Set preserving the given order and dropping duplicates.
func NewSet(members ...string) Set {
	seen := make(map[string]bool, len(members))
	out := make([]string, 0, len(members))
	for _, m := range members {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return Set{members: out}
}

// Contains reports whether status is a member.
func (s Set) Contains(status string) bool {
	for _, m := range s.members {
		if m == status {
			return true
		}
	}
	return false
}

// Members returns a copy of the members in declaration order.
func (s Set) Members() []string {
	return append([]string(nil), s.members...)
}

func (s Set) String() string {
	return fmt.Sprintf("%q", s.members)
}

// Expected maps one-letter status codes ("" included) to the set of
// statuses a PEP page may declare. It is fixed at construction time.
type Expected struct {
	table map[string]Set
}

// NewExpected copies table into an Expected.
func NewExpected(table map[string][]string) Expected {
	t := make(map[string]Set, len(table))
	for code, statuses := range table {
		t[code] = NewSet(statuses...)
	}
	return Expected{table: t}
}

// DefaultExpected is the table used against peps.python.org.
func DefaultExpected() Expected {
	return NewExpected(map[string][]string{
		"A": {"Active", "Accepted"},
		"D": {"Deferred"},
		"F": {"Final"},
		"P": {"Provisional"},
		"R": {"Rejected"},
		"S": {"Superseded"},
		"W": {"Withdrawn"},
		"":  {"Draft", "Active"},
	})
}

// Lookup returns the expected set for code, or an error wrapping
// ErrUnknownStatusCode.
func (e Expected) Lookup(code string) (Set, error) {
	set, ok := e.table[code]
	if !ok {
		return Set{}, fmt.Errorf("%w: %q", ErrUnknownStatusCode, code)
	}
	return set, nil
}

// Codes returns the registered codes in sorted order.
func (e Expected) Codes() []string {
	codes := make([]string, 0, len(e.table))
	for c := range e.table {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// CodeFromAbbr extracts the status code from a PEP type/status abbreviation
// such as "SF" or "IA": the second character when the abbreviation is exactly
// two characters long, otherwise "".
func CodeFromAbbr(abbr string) string {
	r := []rune(abbr)
	if len(r) == 2 {
		return string(r[1])
	}
	return ""
}

// Mismatch records a PEP whose page status is outside its expected set.
type Mismatch struct {
	Link     string
	Observed string
	Expected []string
}
