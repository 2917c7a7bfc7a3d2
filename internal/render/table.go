package render

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/strrl/lain/internal/tablesort"
	"github.com/strrl/lain/internal/theme"
	"github.com/strrl/lain/pkg/models"
)

// titleFallbackLen is how much of the session id stands in for a missing title.
const titleFallbackLen = 8

// HeaderCell is one column header with its sort indicator.
type HeaderCell struct {
	Column tablesort.Column
	Label  string
}

// Table is the derived session table. Every cell is already escaped.
type Table struct {
	Header []HeaderCell
	Rows   [][]string
}

// TableRows sorts sessions and formats them into cells.
func TableRows(sessions []models.SessionRecord, sorter *tablesort.Sorter, st tablesort.State) Table {
	t := Table{Header: make([]HeaderCell, len(tablesort.Columns))}
	for i, c := range tablesort.Columns {
		t.Header[i] = HeaderCell{Column: c, Label: c.Label() + st.Indicator(c)}
	}

	for _, s := range sorter.Sorted(sessions, st) {
		t.Rows = append(t.Rows, sessionCells(s))
	}
	return t
}

func sessionCells(s models.SessionRecord) []string {
	return []string{
		orPlaceholder(Escape(s.Date)),
		orPlaceholder(Escape(s.Project)),
		Escape(SessionTitle(s)),
		Escape(modelList(s.Models)),
		FormatNumber(s.APICalls),
		FormatNumber(s.InputTokens),
		FormatNumber(s.OutputTokens),
		FormatNumber(s.CacheReadTokens),
		FormatNumber(s.CacheCreateTokens),
		FormatCost(s.Cost),
	}
}

// SessionTitle is the title, or the first characters of the session id
// when the title is missing.
func SessionTitle(s models.SessionRecord) string {
	if s.Title != "" {
		return s.Title
	}
	id := []rune(s.SessionID)
	if len(id) > titleFallbackLen {
		id = id[:titleFallbackLen]
	}
	return string(id)
}

func modelList(mc models.ModelCounts) string {
	names := make([]string, len(mc))
	for i, m := range mc {
		names[i] = AbbreviateModel(m.Name)
	}
	return strings.Join(names, ", ")
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// column widths in cells; the title column takes what is left
var fixedWidths = map[tablesort.Column]int{
	tablesort.ColDate:        10,
	tablesort.ColProject:     16,
	tablesort.ColModels:      18,
	tablesort.ColAPICalls:    7,
	tablesort.ColInput:       8,
	tablesort.ColOutput:      8,
	tablesort.ColCacheRead:   8,
	tablesort.ColCacheCreate: 8,
	tablesort.ColCost:        9,
}

const minTitleWidth = 12

// ColumnWidths lays out the columns for a total width. Columns are separated
// by a single space.
func ColumnWidths(total int) []int {
	widths := make([]int, len(tablesort.Columns))
	used := len(tablesort.Columns) - 1
	titleIdx := 0
	for i, c := range tablesort.Columns {
		if c == tablesort.ColTitle {
			titleIdx = i
			continue
		}
		widths[i] = fixedWidths[c]
		used += widths[i]
	}
	widths[titleIdx] = total - used
	if widths[titleIdx] < minTitleWidth {
		widths[titleIdx] = minTitleWidth
	}
	return widths
}

// FormatTable lays the table out as text. cursor marks the header the user is
// about to sort by; pass "" for none.
func FormatTable(t Table, width int, cursor tablesort.Column, styles theme.Styles) string {
	widths := ColumnWidths(width)

	header := make([]string, len(t.Header))
	for i, h := range t.Header {
		cell := fitCell(h.Label, widths[i], h.Column.Numeric())
		if h.Column == cursor {
			header[i] = styles.Cursor.Render(cell)
		} else {
			header[i] = styles.Title.Render(cell)
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, " "))
	b.WriteString("\n")
	b.WriteString(styles.Divider.Render(strings.Repeat("─", sumInts(widths)+len(widths)-1)))

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fitCell(v, widths[i], tablesort.Columns[i].Numeric())
		}
		b.WriteString("\n")
		b.WriteString(styles.Body.Render(strings.Join(cells, " ")))
	}
	return b.String()
}

// fitCell truncates or pads s to exactly w cells.
func fitCell(s string, w int, alignRight bool) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	if alignRight {
		return runewidth.FillLeft(s, w)
	}
	return runewidth.FillRight(s, w)
}

func sumInts(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
