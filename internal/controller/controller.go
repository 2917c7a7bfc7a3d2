// Package controller owns the dashboard state. Every user action goes through
// a named mutator that leaves the state consistent and returns the Effect the
// UI has to carry out.
package controller

import (
	"log"
	"time"

	"github.com/strrl/lain/internal/datastore"
	"github.com/strrl/lain/internal/daterange"
	"github.com/strrl/lain/internal/prefs"
	"github.com/strrl/lain/internal/query"
	"github.com/strrl/lain/internal/render"
	"github.com/strrl/lain/internal/selection"
	"github.com/strrl/lain/internal/tablesort"
	"github.com/strrl/lain/internal/theme"
	"github.com/strrl/lain/pkg/models"
)

// Options configure a Controller. Zero values pick the defaults.
type Options struct {
	Classifier   selection.Classifier
	Prefs        *prefs.Store
	ChartFactory render.ChartFactory
	Now          func() time.Time
}

// Controller is the single owner of UI state. It is not safe for concurrent
// use; the UI event loop is its only caller.
type Controller struct {
	selection *selection.Model
	dates     daterange.State
	sort      tablesort.State
	cursor    int
	theme     theme.Name
	prefs     *prefs.Store
	store     *datastore.Store
	pipeline  *render.Pipeline
	now       func() time.Time
	err       error
}

// New builds a controller and restores the theme preference.
func New(opts Options) *Controller {
	if opts.Prefs == nil {
		opts.Prefs = prefs.Memory()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Controller{
		selection: selection.New(opts.Classifier),
		dates:     daterange.DefaultState(),
		sort:      tablesort.Default(),
		prefs:     opts.Prefs,
		store:     datastore.NewStore(opts.Now),
		pipeline:  render.NewPipeline(opts.ChartFactory),
		now:       opts.Now,
		theme:     theme.Dark,
	}
	if v, ok := c.prefs.Get(prefs.KeyTheme); ok {
		c.theme = theme.Parse(v)
	}
	c.pipeline.SetTheme(c.theme)
	c.pipeline.SetHeaderCursor(c.CursorColumn())
	return c
}

// BeginProjects registers a project directory fetch.
func (c *Controller) BeginProjects() datastore.Request {
	req := c.store.Begin(datastore.KindProjects, query.Query{})
	log.Printf("FETCH_START | kind=projects seq=%d id=%s", req.Seq, req.ID)
	return req
}

// LoadProjects installs a new project directory. The selection is reset and
// a stored claude-hide preference is reapplied before the first stats fetch.
func (c *Controller) LoadProjects(req datastore.Request, projects map[string]models.Project) Effect {
	c.store.ReplaceProjects(req, projects)
	c.selection.Load(c.store.Projects())
	e := Decide(ChangeProjectsLoaded)
	if v, ok := c.prefs.Get(prefs.KeyHideClaude); ok && v == "1" {
		c.selection.SetClaudeFilter(true)
		e = e.Merge(Decide(ChangeClaudeFilter))
	}
	c.err = nil
	log.Printf("PROJECTS_LOADED | seq=%d id=%s count=%d hide_claude=%t",
		req.Seq, req.ID, len(projects), c.selection.ClaudeFilter())
	return e
}

// BeginStats resolves the current query and registers a stats fetch.
func (c *Controller) BeginStats() datastore.Request {
	req := c.store.Begin(datastore.KindStats, c.Query())
	log.Printf("FETCH_START | kind=stats seq=%d id=%s query=%q", req.Seq, req.ID, req.Query.Encode())
	return req
}

// ApplyStats installs a stats response. A response that has been superseded
// by a newer request is dropped and yields no effect.
func (c *Controller) ApplyStats(req datastore.Request, snap *models.StatsSnapshot) Effect {
	if !c.store.ApplyStats(req, snap) {
		log.Printf("STATS_STALE | seq=%d id=%s latency=%s showing=%d",
			req.Seq, req.ID, c.now().Sub(req.Started), c.store.AppliedSeq())
		return Effect{}
	}
	c.err = nil
	log.Printf("STATS_APPLIED | seq=%d id=%s latency=%s sessions=%d",
		req.Seq, req.ID, c.now().Sub(req.Started), len(snap.SessionsList))
	return Decide(ChangeStatsLoaded)
}

// FailFetch records a failed fetch. Failures of superseded stats requests are
// ignored. The views keep their last rendered state.
func (c *Controller) FailFetch(req datastore.Request, err error) Effect {
	c.store.Finish(req)
	if !c.store.Current(req) {
		log.Printf("FETCH_FAILED_STALE | kind=%s seq=%d id=%s error=%v", req.Kind, req.Seq, req.ID, err)
		return Effect{}
	}
	c.err = err
	log.Printf("FETCH_FAILED | kind=%s seq=%d id=%s error=%v", req.Kind, req.Seq, req.ID, err)
	return Decide(ChangeFetchFailed)
}

// Err is the last fetch error still on display, nil when the latest fetch
// succeeded.
func (c *Controller) Err() error {
	return c.err
}

// ToggleProject flips one project's membership.
func (c *Controller) ToggleProject(folder string) Effect {
	if !c.selection.ToggleProject(folder, !c.selection.IsSelected(folder)) {
		return Effect{}
	}
	return Decide(ChangeSelection)
}

// SelectAllVisible selects every visible project with a single refresh.
func (c *Controller) SelectAllVisible() Effect {
	if !c.selection.SelectAllVisible() {
		return Effect{}
	}
	return Decide(ChangeSelection)
}

// DeselectAllVisible deselects every visible project with a single refresh.
func (c *Controller) DeselectAllVisible() Effect {
	if !c.selection.DeselectAllVisible() {
		return Effect{}
	}
	return Decide(ChangeSelection)
}

// ToggleClaudeFilter flips the claude-hide filter and persists it.
func (c *Controller) ToggleClaudeFilter() Effect {
	return c.SetClaudeFilter(!c.selection.ClaudeFilter())
}

// SetClaudeFilter sets the claude-hide filter and persists it. Turning it off
// removes the stored key.
func (c *Controller) SetClaudeFilter(active bool) Effect {
	if !c.selection.SetClaudeFilter(active) {
		return Effect{}
	}
	var err error
	if active {
		err = c.prefs.Set(prefs.KeyHideClaude, "1")
	} else {
		err = c.prefs.Remove(prefs.KeyHideClaude)
	}
	if err != nil {
		log.Printf("PREFS_ERROR | key=%s error=%v", prefs.KeyHideClaude, err)
	}
	return Decide(ChangeClaudeFilter)
}

// SetSearch updates the project search text.
func (c *Controller) SetSearch(q string) Effect {
	if q == c.selection.SearchQuery() {
		return Effect{}
	}
	c.selection.SetSearchQuery(q)
	return Decide(ChangeSearch)
}

// SetPreset activates a date preset. Choosing custom only opens the bound
// inputs; the fetch happens on ApplyCustom.
func (c *Controller) SetPreset(p daterange.Preset) Effect {
	c.dates.Preset = p
	if p == daterange.Custom {
		return Decide(ChangeCustomPending)
	}
	return Decide(ChangeDateRange)
}

// ApplyCustom sets explicit bounds and activates the custom preset. Bounds
// are passed through as given; either may be empty.
func (c *Controller) ApplyCustom(start, end string) Effect {
	c.dates = daterange.State{Preset: daterange.Custom, CustomStart: start, CustomEnd: end}
	return Decide(ChangeDateRange)
}

// ClickSort is a header click on col.
func (c *Controller) ClickSort(col tablesort.Column) Effect {
	c.sort = c.sort.Click(col)
	for i, cc := range tablesort.Columns {
		if cc == col {
			c.cursor = i
		}
	}
	c.pipeline.SetHeaderCursor(c.CursorColumn())
	return Decide(ChangeSort)
}

// MoveSortCursor moves the header cursor by delta, wrapping around.
func (c *Controller) MoveSortCursor(delta int) Effect {
	n := len(tablesort.Columns)
	c.cursor = ((c.cursor+delta)%n + n) % n
	c.pipeline.SetHeaderCursor(c.CursorColumn())
	return Decide(ChangeSortCursor)
}

// SortAtCursor clicks the header under the cursor.
func (c *Controller) SortAtCursor() Effect {
	return c.ClickSort(c.CursorColumn())
}

// ToggleTheme switches palettes and persists the choice.
func (c *Controller) ToggleTheme() Effect {
	c.theme = c.theme.Toggle()
	c.pipeline.SetTheme(c.theme)

	var err error
	if c.theme == theme.Light {
		err = c.prefs.Set(prefs.KeyTheme, string(theme.Light))
	} else {
		err = c.prefs.Remove(prefs.KeyTheme)
	}
	if err != nil {
		log.Printf("PREFS_ERROR | key=%s error=%v", prefs.KeyTheme, err)
	}
	return Decide(ChangeTheme)
}

// SetWidth sets the width the data views are laid out for.
func (c *Controller) SetWidth(w int) Effect {
	c.pipeline.SetWidth(w)
	return Decide(ChangeLayout)
}

// Render carries out the repaint part of e and returns the committed views.
func (c *Controller) Render(e Effect) render.Frame {
	snap := c.store.Snapshot()
	if e.Repaint.Has(ViewCards) {
		c.pipeline.RenderCards(snap)
	}
	if e.Repaint.Has(ViewChart) {
		c.pipeline.RenderChart(snap)
	}
	if e.Repaint.Has(ViewTable) {
		c.pipeline.RenderTable(snap, c.sort)
	}
	return c.pipeline.Frame()
}

// Query is the stats query for the current state, resolved against now.
func (c *Controller) Query() query.Query {
	return query.Build(c.selection.Selected(), c.Range())
}

// Range is the resolved date range.
func (c *Controller) Range() daterange.Range {
	return daterange.Resolve(c.dates, c.now())
}

// Read accessors for the view layer.

func (c *Controller) Visible() []selection.Row        { return c.selection.Visible() }
func (c *Controller) VisibleCount() int               { return c.selection.VisibleCount() }
func (c *Controller) ProjectCount() int               { return len(c.selection.Rows()) }
func (c *Controller) Selected() []string              { return c.selection.Selected() }
func (c *Controller) ClaudeFilter() bool              { return c.selection.ClaudeFilter() }
func (c *Controller) SearchQuery() string             { return c.selection.SearchQuery() }
func (c *Controller) Dates() daterange.State          { return c.dates }
func (c *Controller) Sort() tablesort.State           { return c.sort }
func (c *Controller) Theme() theme.Name               { return c.theme }
func (c *Controller) Styles() theme.Styles            { return c.pipeline.Styles() }
func (c *Controller) Snapshot() *models.StatsSnapshot { return c.store.Snapshot() }
func (c *Controller) Pending() int                    { return c.store.Pending() }
func (c *Controller) Frame() render.Frame             { return c.pipeline.Frame() }
func (c *Controller) Tooltip(i int) string            { return c.pipeline.Tooltip(i) }
func (c *Controller) ChartModel() render.ChartModel   { return c.pipeline.ChartModel() }

// CursorColumn is the header under the keyboard cursor.
func (c *Controller) CursorColumn() tablesort.Column {
	return tablesort.Columns[c.cursor]
}
