// Package daterange turns a named date preset into a concrete, inclusive
// [start, end] pair of YYYY-MM-DD strings.
package daterange

import (
	"fmt"
	"time"
)

// Layout is the wire format of every date the dashboard sends or displays.
const Layout = "2006-01-02"

// Preset is a named, relative date range.
type Preset string

const (
	Today     Preset = "today"
	Yesterday Preset = "yesterday"
	Last7     Preset = "last7"
	Last30    Preset = "last30"
	Custom    Preset = "custom"
)

// Presets lists every preset in the order they are offered to the user.
var Presets = []Preset{Today, Yesterday, Last7, Last30, Custom}

// ParsePreset accepts the canonical names plus the short "7d"/"30d" forms.
func ParsePreset(s string) (Preset, error) {
	switch s {
	case "today":
		return Today, nil
	case "yesterday":
		return Yesterday, nil
	case "last7", "7d":
		return Last7, nil
	case "last30", "30d":
		return Last30, nil
	case "custom":
		return Custom, nil
	}
	return "", fmt.Errorf("unknown date preset %q", s)
}

// Label is the short caption shown in the preset bar.
func (p Preset) Label() string {
	switch p {
	case Today:
		return "Today"
	case Yesterday:
		return "Yesterday"
	case Last7:
		return "7 Days"
	case Last30:
		return "30 Days"
	case Custom:
		return "Custom"
	}
	return string(p)
}

// State is the user-facing date selection.
type State struct {
	Preset      Preset
	CustomStart string
	CustomEnd   string
}

// DefaultState starts on today.
func DefaultState() State {
	return State{Preset: Today}
}

// Range is an inclusive pair of dates. Empty strings mean "omit from query".
type Range struct {
	Start string
	End   string
}

// Resolve maps s to a concrete range, computing relative presets against now
// in now's location. Custom bounds pass through verbatim, even when only one
// is set or start is after end.
func Resolve(s State, now time.Time) Range {
	today := startOfDay(now)
	fmtDay := func(t time.Time) string { return t.Format(Layout) }

	switch s.Preset {
	case Today:
		return Range{Start: fmtDay(today), End: fmtDay(today)}
	case Yesterday:
		y := today.AddDate(0, 0, -1)
		return Range{Start: fmtDay(y), End: fmtDay(y)}
	case Last7:
		// "last N days" includes today, so it reaches back N-1 days
		return Range{Start: fmtDay(today.AddDate(0, 0, -6)), End: fmtDay(today)}
	case Last30:
		return Range{Start: fmtDay(today.AddDate(0, 0, -29)), End: fmtDay(today)}
	case Custom:
		return Range{Start: s.CustomStart, End: s.CustomEnd}
	}
	return Range{}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
