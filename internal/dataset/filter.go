package dataset

import (
	"fmt"
	"strings"
)

// DefaultYear is the school year the report covers.
const DefaultYear = 2023

// DefaultStates are the three states the report covers.
var DefaultStates = []string{"Minas Gerais", "Rio de Janeiro", "São Paulo"}

// Filter selects records by year and geographic unit.
// A zero Year or empty States matches everything on that axis.
type Filter struct {
	Year   int      `json:"year"`
	States []string `json:"states"`
}

// DefaultFilter returns the 2023 / MG-RJ-SP filter.
func DefaultFilter() Filter {
	states := make([]string, len(DefaultStates))
	copy(states, DefaultStates)
	return Filter{Year: DefaultYear, States: states}
}

// Match reports whether r passes the filter. State names compare exactly,
// as the CSV spells them.
func (f Filter) Match(r Record) bool {
	if f.Year != 0 && r.Year != f.Year {
		return false
	}
	if len(f.States) == 0 {
		return true
	}
	for _, s := range f.States {
		if r.State == s {
			return true
		}
	}
	return false
}

// Apply returns the matching records in input order.
func (f Filter) Apply(records []Record) []Record {
	var out []Record
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// ApplyNonEmpty is Apply, but an empty result is an ErrInvalidInput.
func (f Filter) ApplyNonEmpty(records []Record) ([]Record, error) {
	out := f.Apply(records)
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no records match %s", ErrInvalidInput, f)
	}
	return out, nil
}

func (f Filter) String() string {
	year := "any year"
	if f.Year != 0 {
		year = fmt.Sprintf("year %d", f.Year)
	}
	states := "any state"
	if len(f.States) > 0 {
		states = strings.Join(f.States, ", ")
	}
	return year + " and " + states
}
