package controller

import "strings"

// Change is a kind of state mutation.
type Change int

const (
	ChangeSelection Change = iota
	ChangeDateRange
	ChangeClaudeFilter
	ChangeProjectsLoaded
	ChangeStatsLoaded
	ChangeSort
	ChangeSortCursor
	ChangeTheme
	ChangeSearch
	ChangeCustomPending
	ChangeLayout
	ChangeFetchFailed
)

var changeNames = map[Change]string{
	ChangeSelection:      "selection",
	ChangeDateRange:      "date_range",
	ChangeClaudeFilter:   "claude_filter",
	ChangeProjectsLoaded: "projects_loaded",
	ChangeStatsLoaded:    "stats_loaded",
	ChangeSort:           "sort",
	ChangeSortCursor:     "sort_cursor",
	ChangeTheme:          "theme",
	ChangeSearch:         "search",
	ChangeCustomPending:  "custom_pending",
	ChangeLayout:         "layout",
	ChangeFetchFailed:    "fetch_failed",
}

func (c Change) String() string {
	if s, ok := changeNames[c]; ok {
		return s
	}
	return "unknown"
}

// View is a set of screen regions.
type View uint8

const (
	ViewHeader View = 1 << iota
	ViewProjects
	ViewCards
	ViewChart
	ViewTable

	ViewNone View = 0
	ViewData      = ViewCards | ViewChart | ViewTable
	ViewAll       = ViewHeader | ViewProjects | ViewData
)

// Has reports whether every region in o is in v.
func (v View) Has(o View) bool {
	return v&o == o && o != 0
}

func (v View) String() string {
	if v == ViewNone {
		return "none"
	}
	var parts []string
	for _, r := range []struct {
		v    View
		name string
	}{
		{ViewHeader, "header"},
		{ViewProjects, "projects"},
		{ViewCards, "cards"},
		{ViewChart, "chart"},
		{ViewTable, "table"},
	} {
		if v&r.v != 0 {
			parts = append(parts, r.name)
		}
	}
	return strings.Join(parts, "|")
}

// Effect is what the UI must do after a change: start a stats fetch, repaint
// some views, or both.
type Effect struct {
	Refetch bool
	Repaint View
}

// Merge combines two effects.
func (e Effect) Merge(o Effect) Effect {
	return Effect{Refetch: e.Refetch || o.Refetch, Repaint: e.Repaint | o.Repaint}
}

// IsZero reports whether the effect does nothing.
func (e Effect) IsZero() bool {
	return !e.Refetch && e.Repaint == ViewNone
}

// Decide maps a change to its effect.
//
// Data-affecting changes refetch and repaint only the chrome they touch right
// away; the data views are repainted in full when the response lands
// (ChangeStatsLoaded). View-only changes never refetch and repaint from the
// cached snapshot.
func Decide(c Change) Effect {
	switch c {
	case ChangeSelection:
		return Effect{Refetch: true, Repaint: ViewHeader | ViewProjects}
	case ChangeDateRange:
		return Effect{Refetch: true, Repaint: ViewHeader}
	case ChangeClaudeFilter:
		return Effect{Refetch: true, Repaint: ViewHeader | ViewProjects}
	case ChangeProjectsLoaded:
		return Effect{Refetch: true, Repaint: ViewHeader | ViewProjects}
	case ChangeStatsLoaded:
		return Effect{Repaint: ViewHeader | ViewData}
	case ChangeSort, ChangeSortCursor:
		return Effect{Repaint: ViewTable}
	case ChangeTheme, ChangeLayout:
		// styles and widths are baked into the rendered text
		return Effect{Repaint: ViewAll}
	case ChangeSearch:
		return Effect{Repaint: ViewHeader | ViewProjects}
	case ChangeCustomPending, ChangeFetchFailed:
		return Effect{Repaint: ViewHeader}
	}
	return Effect{}
}
