// Package query derives the /api/stats query parameters from UI state.
package query

import (
	"net/url"
	"sort"
	"strings"

	"github.com/strrl/lain/internal/daterange"
)

// Query is the parameter set sent to the stats endpoint. Empty fields are
// omitted from the encoded form.
type Query struct {
	Projects string
	Start    string
	End      string
}

// Build joins the selected folders and attaches the resolved range. An empty
// selection yields no projects parameter, which the server reads as "all".
func Build(selected []string, r daterange.Range) Query {
	folders := make([]string, 0, len(selected))
	for _, f := range selected {
		if f != "" {
			folders = append(folders, f)
		}
	}
	sort.Strings(folders)

	return Query{
		Projects: strings.Join(folders, ","),
		Start:    r.Start,
		End:      r.End,
	}
}

// Values returns the non-empty parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Projects != "" {
		v.Set("projects", q.Projects)
	}
	if q.Start != "" {
		v.Set("start", q.Start)
	}
	if q.End != "" {
		v.Set("end", q.End)
	}
	return v
}

// Encode returns the URL-encoded parameters, "" when there are none.
func (q Query) Encode() string {
	return q.Values().Encode()
}

// IsZero reports whether the query carries no parameters at all.
func (q Query) IsZero() bool {
	return len(q.Values()) == 0
}
