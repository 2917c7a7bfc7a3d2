// Package tablesort holds the session table's sort state and derives a
// stable comparator from it.
package tablesort

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/strrl/lain/pkg/models"
)

// Column identifies a sortable session column. The string values match the
// JSON field names of a session record.
type Column string

const (
	ColDate        Column = "date"
	ColProject     Column = "project"
	ColTitle       Column = "title"
	ColModels      Column = "models"
	ColAPICalls    Column = "api_calls"
	ColInput       Column = "input_tokens"
	ColOutput      Column = "output_tokens"
	ColCacheRead   Column = "cache_read_tokens"
	ColCacheCreate Column = "cache_create_tokens"
	ColCost        Column = "cost"
)

// Columns lists the table columns in display order.
var Columns = []Column{
	ColDate, ColProject, ColTitle, ColModels, ColAPICalls,
	ColInput, ColOutput, ColCacheRead, ColCacheCreate, ColCost,
}

// Label is the header caption.
func (c Column) Label() string {
	switch c {
	case ColDate:
		return "Date"
	case ColProject:
		return "Project"
	case ColTitle:
		return "Title"
	case ColModels:
		return "Models"
	case ColAPICalls:
		return "Calls"
	case ColInput:
		return "Input"
	case ColOutput:
		return "Output"
	case ColCacheRead:
		return "Cache R"
	case ColCacheCreate:
		return "Cache W"
	case ColCost:
		return "Cost"
	}
	return string(c)
}

// Numeric reports whether the column holds numbers.
func (c Column) Numeric() bool {
	switch c {
	case ColAPICalls, ColInput, ColOutput, ColCacheRead, ColCacheCreate, ColCost:
		return true
	}
	return false
}

// ParseColumn maps a column name to a Column.
func ParseColumn(s string) (Column, error) {
	for _, c := range Columns {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// State is the active sort.
type State struct {
	Column    Column
	Direction Direction
}

// Default sorts newest sessions first.
func Default() State {
	return State{Column: ColDate, Direction: Desc}
}

// Click returns the state after a header click: the active column flips
// direction, any other column becomes active in descending order.
func (s State) Click(c Column) State {
	if s.Column == c {
		if s.Direction == Asc {
			s.Direction = Desc
		} else {
			s.Direction = Asc
		}
		return s
	}
	return State{Column: c, Direction: Desc}
}

// Indicator returns the header arrow for c: an arrow on the active column,
// "" everywhere else.
func (s State) Indicator(c Column) string {
	if c != s.Column {
		return ""
	}
	if s.Direction == Asc {
		return " ▲"
	}
	return " ▼"
}

// Sorter compares sessions under a State. It holds a collator and is not
// safe for concurrent use.
type Sorter struct {
	collator *collate.Collator
}

// NewSorter returns a Sorter that compares strings case-sensitively with
// the root locale's collation rules.
func NewSorter() *Sorter {
	return &Sorter{collator: collate.New(language.Und)}
}

// Sorted returns a sorted copy of sessions. The input is never reordered and
// equal keys keep their original relative order.
func (s *Sorter) Sorted(sessions []models.SessionRecord, st State) []models.SessionRecord {
	out := make([]models.SessionRecord, len(sessions))
	copy(out, sessions)

	sort.SliceStable(out, func(i, j int) bool {
		cmp := s.Compare(out[i], out[j], st.Column)
		if st.Direction == Asc {
			return cmp < 0
		}
		return cmp > 0
	})
	return out
}

// Compare orders a and b on column c, ascending.
func (s *Sorter) Compare(a, b models.SessionRecord, c Column) int {
	va, vb := keyOf(a, c), keyOf(b, c)
	if va.numeric && vb.numeric {
		switch {
		case va.num < vb.num:
			return -1
		case va.num > vb.num:
			return 1
		}
		return 0
	}
	return s.collator.CompareString(va.String(), vb.String())
}

// sortKey is a cell value ready for comparison. Missing values become the
// empty string.
type sortKey struct {
	numeric bool
	num     float64
	str     string
}

func (k sortKey) String() string {
	if k.numeric {
		return strconv.FormatFloat(k.num, 'f', -1, 64)
	}
	return k.str
}

func numKey(v *float64) sortKey {
	if v == nil {
		return sortKey{}
	}
	return sortKey{numeric: true, num: *v}
}

func keyOf(r models.SessionRecord, c Column) sortKey {
	switch c {
	case ColDate:
		return sortKey{str: r.Date}
	case ColProject:
		return sortKey{str: r.Project}
	case ColTitle:
		return sortKey{str: r.Title}
	case ColModels:
		return sortKey{str: strings.Join(r.Models.Names(), ",")}
	case ColAPICalls:
		return numKey(r.APICalls)
	case ColInput:
		return numKey(r.InputTokens)
	case ColOutput:
		return numKey(r.OutputTokens)
	case ColCacheRead:
		return numKey(r.CacheReadTokens)
	case ColCacheCreate:
		return numKey(r.CacheCreateTokens)
	case ColCost:
		return numKey(r.Cost)
	}
	return sortKey{}
}
