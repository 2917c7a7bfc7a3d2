// Package selection tracks which projects are selected and which project
// rows are visible under the current search text and claude-hide filter.
package selection

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/strrl/lain/pkg/models"
)

// Classifier reports whether a project folder belongs to a claude
// configuration directory.
type Classifier func(folder string) bool

// IsClaudeFolder matches folders encoded from a home-directory path that
// contains a ".claude" segment. The encoding replaces "/" and "." with "-",
// so /home/me/.claude/x becomes -home-me--claude-x.
func IsClaudeFolder(folder string) bool {
	f := strings.ToLower(folder)
	return strings.HasPrefix(f, "-home-") && strings.Contains(f, "--claude")
}

// Row is one project entry in the sidebar.
type Row struct {
	Project  models.Project
	Selected bool
}

// Model owns the selection state. It is not safe for concurrent use; all
// mutation happens on the UI event loop.
type Model struct {
	rows         []Row
	index        map[string]int
	selected     map[string]struct{}
	search       string
	claudeFilter bool
	isClaude     Classifier
	collator     *collate.Collator
}

// New returns an empty model. A nil classifier falls back to IsClaudeFolder.
func New(isClaude Classifier) *Model {
	if isClaude == nil {
		isClaude = IsClaudeFolder
	}
	return &Model{
		index:    map[string]int{},
		selected: map[string]struct{}{},
		isClaude: isClaude,
		collator: collate.New(language.Und),
	}
}

// Load replaces the project rows and clears the selection. Search text and
// the claude filter survive; rows are ordered by display name using a
// locale-aware collation.
func (m *Model) Load(projects map[string]models.Project) {
	rows := make([]Row, 0, len(projects))
	for folder, p := range projects {
		if p.Folder == "" {
			p.Folder = folder
		}
		rows = append(rows, Row{Project: p})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := m.collator.CompareString(rows[i].Project.Name, rows[j].Project.Name); c != 0 {
			return c < 0
		}
		return rows[i].Project.Folder < rows[j].Project.Folder
	})

	m.rows = rows
	m.index = make(map[string]int, len(rows))
	for i, r := range rows {
		m.index[r.Project.Folder] = i
	}
	m.selected = map[string]struct{}{}
}

// ToggleProject adds or removes folder. Unknown folders are ignored.
// It returns true when the selection changed.
func (m *Model) ToggleProject(folder string, selected bool) bool {
	i, ok := m.index[folder]
	if !ok {
		return false
	}
	_, was := m.selected[folder]
	if was == selected {
		return false
	}
	m.setSelected(i, selected)
	return true
}

// SelectAllVisible selects every currently visible row. Hidden rows keep
// their membership.
func (m *Model) SelectAllVisible() bool {
	return m.setAllVisible(true)
}

// DeselectAllVisible deselects every currently visible row. Hidden rows keep
// their membership.
func (m *Model) DeselectAllVisible() bool {
	return m.setAllVisible(false)
}

func (m *Model) setAllVisible(selected bool) bool {
	changed := false
	for i, r := range m.rows {
		if !m.visible(r.Project) {
			continue
		}
		if r.Selected != selected {
			changed = true
		}
		m.setSelected(i, selected)
	}
	return changed
}

// SetClaudeFilter hides claude rows when active and evicts them from the
// selection. Turning the filter off only unhides; evicted folders stay
// deselected. It returns true when the filter flag changed.
func (m *Model) SetClaudeFilter(active bool) bool {
	changed := m.claudeFilter != active
	m.claudeFilter = active
	if !active {
		return changed
	}
	for i, r := range m.rows {
		if m.isClaude(r.Project.Folder) {
			m.setSelected(i, false)
		}
	}
	return changed
}

// SetSearchQuery updates the search text. It never touches the selection.
func (m *Model) SetSearchQuery(q string) {
	m.search = q
}

// ClaudeFilter reports whether claude rows are hidden.
func (m *Model) ClaudeFilter() bool {
	return m.claudeFilter
}

// SearchQuery returns the current search text.
func (m *Model) SearchQuery() string {
	return m.search
}

// Visible returns the rows that match the search and are not claude-hidden.
func (m *Model) Visible() []Row {
	out := make([]Row, 0, len(m.rows))
	for _, r := range m.rows {
		if m.visible(r.Project) {
			out = append(out, r)
		}
	}
	return out
}

// VisibleCount is len(Visible()) without the allocation.
func (m *Model) VisibleCount() int {
	n := 0
	for _, r := range m.rows {
		if m.visible(r.Project) {
			n++
		}
	}
	return n
}

// Rows returns every row, hidden or not.
func (m *Model) Rows() []Row {
	out := make([]Row, len(m.rows))
	copy(out, m.rows)
	return out
}

// Selected returns the selected folders in sorted order.
func (m *Model) Selected() []string {
	out := make([]string, 0, len(m.selected))
	for f := range m.selected {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// IsSelected reports whether folder is selected.
func (m *Model) IsSelected(folder string) bool {
	_, ok := m.selected[folder]
	return ok
}

// MatchesSearch reports whether p matches the current search text,
// case-insensitively against either the display name or the folder.
func (m *Model) MatchesSearch(p models.Project) bool {
	if m.search == "" {
		return true
	}
	q := strings.ToLower(m.search)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Folder), q)
}

func (m *Model) visible(p models.Project) bool {
	if !m.MatchesSearch(p) {
		return false
	}
	return !(m.claudeFilter && m.isClaude(p.Folder))
}

// setSelected keeps the selected set and the row flag in step.
func (m *Model) setSelected(i int, selected bool) {
	folder := m.rows[i].Project.Folder
	if selected {
		m.selected[folder] = struct{}{}
	} else {
		delete(m.selected, folder)
	}
	m.rows[i].Selected = selected
}
