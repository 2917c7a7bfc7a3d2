package controller

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/lain/internal/daterange"
	"github.com/strrl/lain/internal/prefs"
	"github.com/strrl/lain/internal/tablesort"
	"github.com/strrl/lain/internal/theme"
	"github.com/strrl/lain/pkg/models"
)

const claudeFolder = "-home-me--claude-skills"

var fixedNow = time.Date(2024, 6, 15, 14, 30, 0, 0, time.Local)

func directory() map[string]models.Project {
	return map[string]models.Project{
		"-home-me-git-alpha": {Folder: "-home-me-git-alpha", Name: "alpha", SessionCount: 3},
		"-home-me-git-beta":  {Folder: "-home-me-git-beta", Name: "beta", SessionCount: 1},
		claudeFolder:         {Folder: claudeFolder, Name: "skills", SessionCount: 2},
	}
}

func newController(t *testing.T, store *prefs.Store) *Controller {
	t.Helper()
	if store == nil {
		store = prefs.Memory()
	}
	c := New(Options{Prefs: store, Now: func() time.Time { return fixedNow }})
	c.LoadProjects(c.BeginProjects(), directory())
	return c
}

func stats(calls float64) *models.StatsSnapshot {
	return &models.StatsSnapshot{
		APICalls:    models.Float(calls),
		ModelCounts: models.ModelCounts{{Name: "claude-opus-4", Count: calls}},
		SessionsList: []models.SessionRecord{
			{Date: "2024-06-14", SessionID: "older"},
			{Date: "2024-06-15", SessionID: "newer"},
		},
	}
}

func TestDecideTable(t *testing.T) {
	for _, c := range []Change{ChangeSelection, ChangeDateRange, ChangeClaudeFilter, ChangeProjectsLoaded} {
		assert.True(t, Decide(c).Refetch, c.String())
	}
	for _, c := range []Change{ChangeSort, ChangeSortCursor, ChangeTheme, ChangeSearch, ChangeCustomPending, ChangeStatsLoaded, ChangeLayout, ChangeFetchFailed} {
		assert.False(t, Decide(c).Refetch, c.String())
	}

	assert.Equal(t, Effect{Repaint: ViewTable}, Decide(ChangeSort))
	assert.True(t, Decide(ChangeStatsLoaded).Repaint.Has(ViewData))
	assert.True(t, Decide(ChangeTheme).Repaint.Has(ViewChart))
	assert.False(t, Decide(ChangeSearch).Repaint.Has(ViewCards))
	assert.True(t, Decide(Change(99)).IsZero())
}

func TestViewString(t *testing.T) {
	assert.Equal(t, "none", ViewNone.String())
	assert.Equal(t, "cards|chart|table", ViewData.String())
	assert.False(t, ViewAll.Has(ViewNone))
}

func TestEffectMerge(t *testing.T) {
	e := Effect{Repaint: ViewTable}.Merge(Effect{Refetch: true, Repaint: ViewHeader})
	assert.Equal(t, Effect{Refetch: true, Repaint: ViewTable | ViewHeader}, e)
}

func TestLoadProjectsResetsSelection(t *testing.T) {
	c := newController(t, nil)
	require.False(t, c.ToggleProject("-home-me-git-alpha").IsZero())
	require.Len(t, c.Selected(), 1)

	e := c.LoadProjects(c.BeginProjects(), directory())

	assert.True(t, e.Refetch)
	assert.Empty(t, c.Selected())
	assert.Equal(t, 3, c.ProjectCount())
}

func TestLoadProjectsRestoresClaudeFilter(t *testing.T) {
	store := prefs.Memory()
	require.NoError(t, store.Set(prefs.KeyHideClaude, "1"))

	c := newController(t, store)

	assert.True(t, c.ClaudeFilter())
	assert.Equal(t, 2, c.VisibleCount())
}

func TestToggleProjectBuildsQuery(t *testing.T) {
	c := newController(t, nil)

	e := c.ToggleProject("-home-me-git-beta")
	assert.True(t, e.Refetch)
	c.ToggleProject("-home-me-git-alpha")

	q := c.Query()
	assert.Equal(t, "-home-me-git-alpha,-home-me-git-beta", q.Projects)
	assert.Equal(t, "2024-06-15", q.Start)
	assert.Equal(t, "2024-06-15", q.End)

	c.ToggleProject("-home-me-git-beta")
	assert.Equal(t, []string{"-home-me-git-alpha"}, c.Selected())
}

func TestToggleUnknownProjectIsNoop(t *testing.T) {
	c := newController(t, nil)
	assert.True(t, c.ToggleProject("-home-nobody").IsZero())
}

func TestSelectAllOnlyRefreshesWhenSomethingChanged(t *testing.T) {
	c := newController(t, nil)

	assert.True(t, c.SelectAllVisible().Refetch)
	assert.True(t, c.SelectAllVisible().IsZero())
	assert.True(t, c.DeselectAllVisible().Refetch)
	assert.True(t, c.DeselectAllVisible().IsZero())
}

func TestClaudeFilterPersistsAndEvicts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	store, err := prefs.Open(path)
	require.NoError(t, err)
	c := newController(t, store)
	c.ToggleProject(claudeFolder)

	e := c.ToggleClaudeFilter()

	assert.True(t, e.Refetch)
	assert.NotContains(t, c.Selected(), claudeFolder)
	reopened, err := prefs.Open(path)
	require.NoError(t, err)
	v, ok := reopened.Get(prefs.KeyHideClaude)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	c.ToggleClaudeFilter()
	assert.NotContains(t, c.Selected(), claudeFolder, "eviction is one-way")
	reopened, err = prefs.Open(path)
	require.NoError(t, err)
	_, ok = reopened.Get(prefs.KeyHideClaude)
	assert.False(t, ok)
}

func TestSearchIsViewOnly(t *testing.T) {
	c := newController(t, nil)
	c.ToggleProject("-home-me-git-beta")
	before := c.Query()

	e := c.SetSearch("alp")

	assert.False(t, e.Refetch)
	assert.Equal(t, 1, c.VisibleCount())
	assert.Equal(t, before, c.Query())
	assert.True(t, c.SetSearch("alp").IsZero())
}

func TestPresetsAndCustomApply(t *testing.T) {
	c := newController(t, nil)

	e := c.SetPreset(daterange.Last7)
	assert.True(t, e.Refetch)
	assert.Equal(t, daterange.Range{Start: "2024-06-09", End: "2024-06-15"}, c.Range())

	e = c.SetPreset(daterange.Custom)
	assert.False(t, e.Refetch, "choosing custom waits for apply")

	e = c.ApplyCustom("", "2024-01-01")
	assert.True(t, e.Refetch)
	assert.Equal(t, daterange.Range{Start: "", End: "2024-01-01"}, c.Range())
	assert.Equal(t, "end=2024-01-01", c.Query().Encode())
}

func TestSortIsViewOnly(t *testing.T) {
	c := newController(t, nil)
	c.ApplyStats(c.BeginStats(), stats(1))

	e := c.ClickSort(tablesort.ColDate)

	assert.False(t, e.Refetch)
	assert.Equal(t, tablesort.State{Column: tablesort.ColDate, Direction: tablesort.Asc}, c.Sort())

	e = c.ClickSort(tablesort.ColCost)
	assert.Equal(t, tablesort.State{Column: tablesort.ColCost, Direction: tablesort.Desc}, c.Sort())
	assert.Equal(t, tablesort.ColCost, c.CursorColumn())
}

func TestSortCursorWraps(t *testing.T) {
	c := newController(t, nil)
	require.Equal(t, tablesort.ColDate, c.CursorColumn())

	c.MoveSortCursor(-1)
	assert.Equal(t, tablesort.ColCost, c.CursorColumn())
	c.MoveSortCursor(2)
	assert.Equal(t, tablesort.ColProject, c.CursorColumn())

	c.SortAtCursor()
	assert.Equal(t, tablesort.ColProject, c.Sort().Column)
}

func TestStaleStatsAreDropped(t *testing.T) {
	c := newController(t, nil)
	older := c.BeginStats()
	newer := c.BeginStats()

	assert.False(t, c.ApplyStats(newer, stats(2)).IsZero())
	assert.True(t, c.ApplyStats(older, stats(1)).IsZero())

	assert.Equal(t, 2.0, *c.Snapshot().APICalls)
	assert.Zero(t, c.Pending())
}

func TestRequestsUseInjectedClock(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	c := newController(t, nil)
	req := c.BeginStats()
	c.ApplyStats(req, stats(1))

	assert.Equal(t, fixedNow, req.Started)
	assert.Contains(t, buf.String(), "latency=0s")
	assert.NotContains(t, buf.String(), "latency=-")
}

func TestFetchFailureKeepsSnapshot(t *testing.T) {
	c := newController(t, nil)
	c.ApplyStats(c.BeginStats(), stats(1))

	req := c.BeginStats()
	e := c.FailFetch(req, errors.New("boom"))

	assert.True(t, e.Repaint.Has(ViewHeader))
	assert.EqualError(t, c.Err(), "boom")
	assert.Equal(t, 1.0, *c.Snapshot().APICalls)

	c.ApplyStats(c.BeginStats(), stats(3))
	assert.NoError(t, c.Err())
}

func TestStaleFailureIgnored(t *testing.T) {
	c := newController(t, nil)
	older := c.BeginStats()
	c.BeginStats()

	assert.True(t, c.FailFetch(older, errors.New("late")).IsZero())
	assert.NoError(t, c.Err())
}

func TestRenderFollowsEffect(t *testing.T) {
	c := newController(t, nil)
	c.SetWidth(140)
	frame := c.Render(c.ApplyStats(c.BeginStats(), stats(1)))
	require.NotEmpty(t, frame.Table)
	require.NotEmpty(t, frame.Cards)

	sorted := c.Render(c.ClickSort(tablesort.ColDate))

	assert.Equal(t, frame.Cards, sorted.Cards)
	assert.Equal(t, frame.Chart, sorted.Chart)
	assert.NotEqual(t, frame.Table, sorted.Table)
}

func TestThemePersists(t *testing.T) {
	store := prefs.Memory()
	c := newController(t, store)
	require.Equal(t, theme.Dark, c.Theme())

	e := c.ToggleTheme()
	assert.False(t, e.Refetch)
	assert.Equal(t, theme.Light, c.Theme())
	v, _ := store.Get(prefs.KeyTheme)
	assert.Equal(t, "light", v)

	restored := New(Options{Prefs: store})
	assert.Equal(t, theme.Light, restored.Theme())

	c.ToggleTheme()
	_, ok := store.Get(prefs.KeyTheme)
	assert.False(t, ok)
}
