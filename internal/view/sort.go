package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/deptpulse/deptpulse/pkg/model"
)

// Key identifies one of the supported display orderings.
type Key string

const (
	KeyDefault   Key = "default"
	KeyNameAsc   Key = "name-asc"
	KeyNameDesc  Key = "name-desc"
	KeyScoreAsc  Key = "score-asc"
	KeyScoreDesc Key = "score-desc"
)

// Sorter derives display orderings without mutating its input.
type Sorter struct {
	col *collate.Collator
}

// NewSorter builds a Sorter collating names for the given BCP 47 locale
// tag. Unknown or empty tags fall back to the root collation.
func NewSorter(locale string) *Sorter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Sorter{col: collate.New(tag)}
}

// Sorted returns a new slice ordered by key. KeyDefault and any
// unrecognized key preserve source order. All sorts are stable: records
// with equal keys keep their relative input order.
func (s *Sorter) Sorted(records []model.Department, key Key) []model.Department {
	out := make([]model.Department, len(records))
	copy(out, records)

	switch key {
	case KeyNameAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return s.col.CompareString(out[i].Name, out[j].Name) < 0
		})
	case KeyNameDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return s.col.CompareString(out[i].Name, out[j].Name) > 0
		})
	case KeyScoreDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].TotalScore > out[j].TotalScore
		})
	case KeyScoreAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].TotalScore < out[j].TotalScore
		})
	}
	return out
}
