package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/strrl/lain/internal/config"
	"github.com/strrl/lain/internal/controller"
	"github.com/strrl/lain/internal/datastore"
	"github.com/strrl/lain/internal/daterange"
	"github.com/strrl/lain/internal/prefs"
	"github.com/strrl/lain/internal/render"
	"github.com/strrl/lain/internal/selection"
)

type focusMode int

const (
	focusProjects focusMode = iota
	focusSearch
	focusTable
	focusCustom
)

const (
	headerHeight = 2
	footerHeight = 1
	maxLegend    = 8
)

// Options configure the dashboard program.
type Options struct {
	Source       datastore.Source
	Prefs        *prefs.Store
	Classifier   selection.Classifier
	SidebarWidth int
	Now          func() time.Time
}

type model struct {
	ctx          context.Context
	ctl          *controller.Controller
	src          datastore.Source
	exec         *datastore.Executor
	keys         keyMap
	help         help.Model
	search       textinput.Model
	customStart  textinput.Model
	customEnd    textinput.Model
	customField  int
	table        viewport.Model
	focus        focusMode
	cursor       int
	sidebarWidth int
	collapsed    bool
	dragging     bool
	tooltip      int
	loading      *LoadingIndicator
	ticking      bool
	frame        render.Frame
	loaded       bool
	ready        bool
	width        int
	height       int
}

func initialModel(ctx context.Context, opts Options) model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "filter projects"
	search.CharLimit = 128

	start := textinput.New()
	start.Prompt = "from "
	start.Placeholder = daterange.Layout
	start.CharLimit = len(daterange.Layout)

	end := textinput.New()
	end.Prompt = "to "
	end.Placeholder = daterange.Layout
	end.CharLimit = len(daterange.Layout)

	width := opts.SidebarWidth
	if width == 0 {
		width = config.DefaultSidebarWidth
	}

	return model{
		ctx: ctx,
		ctl: controller.New(controller.Options{
			Classifier: opts.Classifier,
			Prefs:      opts.Prefs,
			Now:        opts.Now,
		}),
		src:          opts.Source,
		exec:         datastore.NewExecutor(),
		keys:         defaultKeyMap(),
		help:         help.New(),
		search:       search,
		customStart:  start,
		customEnd:    end,
		sidebarWidth: config.ClampSidebarWidth(width),
		tooltip:      -1,
		loading:      NewLoadingIndicator("Loading projects..."),
		// Init starts the first tick
		ticking: true,
	}
}

func (m model) Init() tea.Cmd {
	req := m.ctl.BeginProjects()
	return tea.Batch(loadProjectsCmd(m.ctx, m.exec, m.src, req), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.table = viewport.New(m.mainWidth(), 1)
			m.ready = true
		}
		return m, m.apply(m.ctl.SetWidth(m.mainWidth()))

	case ProjectsLoadedMsg:
		if msg.Error != nil {
			return m, m.apply(m.ctl.FailFetch(msg.Request, msg.Error))
		}
		m.loaded = true
		m.cursor = 0
		m.loading.SetMessage("Loading stats...")
		return m, m.apply(m.ctl.LoadProjects(msg.Request, msg.Projects))

	case StatsLoadedMsg:
		if msg.Error != nil {
			return m, m.apply(m.ctl.FailFetch(msg.Request, msg.Error))
		}
		return m, m.apply(m.ctl.ApplyStats(msg.Request, msg.Snapshot))

	case TickMsg:
		if m.ctl.Pending() == 0 {
			m.ticking = false
			return m, nil
		}
		m.loading.Tick()
		return m, tickCmd()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.focus {
		case focusSearch:
			return m.updateSearch(msg)
		case focusCustom:
			return m.updateCustom(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return *m, tea.Quit

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		return *m, m.apply(controller.Effect{Repaint: controller.ViewNone})

	case key.Matches(msg, k.Focus):
		if m.focus == focusTable {
			m.focus = focusProjects
		} else {
			m.focus = focusTable
		}
		return *m, nil

	case key.Matches(msg, k.Presets):
		p := daterange.Presets[int(msg.String()[0]-'1')]
		e := m.ctl.SetPreset(p)
		var cmd tea.Cmd
		if p == daterange.Custom {
			d := m.ctl.Dates()
			m.customStart.SetValue(d.CustomStart)
			m.customEnd.SetValue(d.CustomEnd)
			m.customField = 0
			m.focus = focusCustom
			cmd = m.customStart.Focus()
		}
		return *m, tea.Batch(cmd, m.apply(e))

	case key.Matches(msg, k.Claude):
		return *m, m.apply(m.ctl.ToggleClaudeFilter())

	case key.Matches(msg, k.Search):
		m.focus = focusSearch
		return *m, m.search.Focus()

	case key.Matches(msg, k.SelectAll):
		return *m, m.apply(m.ctl.SelectAllVisible())

	case key.Matches(msg, k.DeselectAll):
		return *m, m.apply(m.ctl.DeselectAllVisible())

	case key.Matches(msg, k.Theme):
		return *m, m.apply(m.ctl.ToggleTheme())

	case key.Matches(msg, k.Collapse):
		m.collapsed = !m.collapsed
		return *m, m.apply(m.ctl.SetWidth(m.mainWidth()))

	case key.Matches(msg, k.Narrower):
		return *m, m.resizeSidebar(m.sidebarWidth - 2)

	case key.Matches(msg, k.Wider):
		return *m, m.resizeSidebar(m.sidebarWidth + 2)

	case key.Matches(msg, k.Tooltip):
		n := len(m.ctl.ChartModel().Slices)
		m.tooltip++
		if m.tooltip >= n {
			m.tooltip = -1
		}
		return *m, nil

	case key.Matches(msg, k.Retry):
		if m.ctl.Err() == nil {
			return *m, nil
		}
		if !m.loaded {
			req := m.ctl.BeginProjects()
			return *m, tea.Batch(loadProjectsCmd(m.ctx, m.exec, m.src, req), m.startTicking())
		}
		return *m, m.apply(controller.Effect{Refetch: true})
	}

	if m.focus == focusTable {
		return m.handleTableKey(msg)
	}
	return m.handleProjectKey(msg)
}

func (m *model) handleProjectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.ctl.Visible()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(rows) {
			return *m, m.apply(m.ctl.ToggleProject(rows[m.cursor].Project.Folder))
		}
	}
	return *m, nil
}

func (m *model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SortLeft):
		return *m, m.apply(m.ctl.MoveSortCursor(-1))
	case key.Matches(msg, m.keys.SortRight):
		return *m, m.apply(m.ctl.MoveSortCursor(1))
	case key.Matches(msg, m.keys.Sort):
		return *m, m.apply(m.ctl.SortAtCursor())
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return *m, cmd
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.search.Blur()
		m.focus = focusProjects
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	e := m.ctl.SetSearch(m.search.Value())
	m.clampCursor()
	return m, tea.Batch(cmd, m.apply(e))
}

func (m model) updateCustom(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.customStart.Blur()
		m.customEnd.Blur()
		m.focus = focusProjects
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		m.customField = 1 - m.customField
		if m.customField == 0 {
			m.customEnd.Blur()
			return m, m.customStart.Focus()
		}
		m.customStart.Blur()
		return m, m.customEnd.Focus()
	case tea.KeyEnter:
		m.customStart.Blur()
		m.customEnd.Blur()
		m.focus = focusProjects
		e := m.ctl.ApplyCustom(strings.TrimSpace(m.customStart.Value()), strings.TrimSpace(m.customEnd.Value()))
		return m, m.apply(e)
	}

	var cmd tea.Cmd
	if m.customField == 0 {
		m.customStart, cmd = m.customStart.Update(msg)
	} else {
		m.customEnd, cmd = m.customEnd.Update(msg)
	}
	return m, cmd
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.collapsed {
		return m, nil
	}
	switch msg.Type {
	case tea.MouseLeft:
		if msg.X == m.sidebarWidth {
			m.dragging = true
		}
	case tea.MouseMotion:
		if m.dragging {
			return m, m.resizeSidebar(msg.X)
		}
	case tea.MouseRelease:
		m.dragging = false
	case tea.MouseWheelUp:
		m.table.LineUp(3)
	case tea.MouseWheelDown:
		m.table.LineDown(3)
	}
	return m, nil
}

func (m *model) resizeSidebar(w int) tea.Cmd {
	w = config.ClampSidebarWidth(w)
	if w == m.sidebarWidth {
		return nil
	}
	m.sidebarWidth = w
	return m.apply(m.ctl.SetWidth(m.mainWidth()))
}

// apply carries out an effect: repaint through the controller, then start a
// stats fetch when the change affects the query.
func (m *model) apply(e controller.Effect) tea.Cmd {
	m.frame = m.ctl.Render(e)
	if e.Repaint.Has(controller.ViewProjects) {
		m.clampCursor()
	}
	if e.Repaint.Has(controller.ViewChart) && m.tooltip >= len(m.ctl.ChartModel().Slices) {
		m.tooltip = -1
	}
	m.layoutTable()

	if !e.Refetch {
		return nil
	}
	req := m.ctl.BeginStats()
	return tea.Batch(loadStatsCmd(m.ctx, m.exec, m.src, req), m.startTicking())
}

func (m *model) startTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tickCmd()
}

func (m *model) clampCursor() {
	n := m.ctl.VisibleCount()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// layoutTable gives the session table whatever height the cards, chart and
// legend leave over.
func (m *model) layoutTable() {
	if !m.ready {
		return
	}
	h := m.bodyHeight() - lipgloss.Height(m.frame.Cards) - lipgloss.Height(m.chartBlock()) - 1
	if h < 3 {
		h = 3
	}
	m.table.Width = m.mainWidth()
	m.table.Height = h
	m.table.SetContent(m.frame.Table)
}

func (m model) mainWidth() int {
	if m.collapsed {
		return max(m.width, 20)
	}
	return max(m.width-m.sidebarWidth-1, 20)
}

func (m model) bodyHeight() int {
	h := m.height - headerHeight - footerHeight
	if m.ctl.Err() != nil {
		h -= lipgloss.Height(m.renderBanner())
	}
	if m.help.ShowAll {
		h -= lipgloss.Height(m.help.View(m.keys)) - 1
	}
	return max(h, 5)
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	styles := m.ctl.Styles()

	if !m.loaded && m.ctl.Err() == nil {
		return LoadingOverlay(m.width, m.height, m.loading, styles)
	}

	parts := []string{m.renderHeader()}
	if m.ctl.Err() != nil {
		parts = append(parts, m.renderBanner())
	}
	parts = append(parts, m.renderBody(), m.renderFooter())
	return strings.Join(parts, "\n")
}

func (m model) renderHeader() string {
	styles := m.ctl.Styles()

	title := styles.Header.Render(" lain ")
	var presets []string
	active := m.ctl.Dates().Preset
	for i, p := range daterange.Presets {
		label := fmt.Sprintf("%d %s", i+1, p.Label())
		if p == active {
			presets = append(presets, styles.Selected.Render("["+label+"]"))
		} else {
			presets = append(presets, styles.Muted.Render(" "+label+" "))
		}
	}

	r := m.ctl.Range()
	status := fmt.Sprintf("%s → %s", orDash(r.Start), orDash(r.End))
	if m.ctl.Pending() > 0 {
		status += " " + m.loading.View(styles)
	}

	line1 := lipgloss.JoinHorizontal(lipgloss.Top, title, " ", strings.Join(presets, ""), "  ", styles.Body.Render(status))

	var line2 string
	if m.focus == focusCustom {
		line2 = m.customStart.View() + "  " + m.customEnd.View() + styles.Muted.Render("  enter: apply • tab: switch • esc: cancel")
	} else {
		claude := "off"
		if m.ctl.ClaudeFilter() {
			claude = "on"
		}
		line2 = styles.Muted.Render(fmt.Sprintf("%d/%d projects • %d selected • hide claude: %s • theme: %s",
			m.ctl.VisibleCount(), m.ctl.ProjectCount(), len(m.ctl.Selected()), claude, m.ctl.Theme()))
	}
	return line1 + "\n" + line2
}

func (m model) renderBanner() string {
	styles := m.ctl.Styles()
	// status errors carry the server's response body
	text := fmt.Sprintf("error: %s  (r: retry)", render.Escape(m.ctl.Err().Error()))
	width := m.width - 2
	if width < 20 {
		width = 20
	}
	return styles.Banner.Render(wordwrap.String(text, width))
}

func (m model) renderBody() string {
	main := m.renderMain()
	if m.collapsed {
		return main
	}
	h := m.bodyHeight()
	styles := m.ctl.Styles()

	sidebar := lipgloss.NewStyle().
		Width(m.sidebarWidth).
		Height(h).
		MaxHeight(h).
		Render(m.renderProjects(h))

	divider := styles.Divider.Render(strings.TrimSuffix(strings.Repeat("│\n", h), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, divider, main)
}

func (m model) renderProjects(height int) string {
	styles := m.ctl.Styles()
	var s strings.Builder

	if m.focus == focusSearch || m.search.Value() != "" {
		s.WriteString(m.search.View() + "\n")
		height--
	}

	rows := m.ctl.Visible()
	if len(rows) == 0 {
		s.WriteString(styles.Muted.Render("No projects"))
		return s.String()
	}

	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := min(start+height, len(rows))

	for i := start; i < end; i++ {
		r := rows[i]
		box := "[ ]"
		if r.Selected {
			box = "[x]"
		}
		cursor := "  "
		if i == m.cursor && m.focus != focusTable {
			cursor = "> "
		}
		count := fmt.Sprintf("%d", r.Project.SessionCount)
		nameWidth := m.sidebarWidth - len(cursor) - len(box) - len(count) - 2
		name := runewidth.FillRight(truncate(render.Escape(r.Project.Name), nameWidth), nameWidth)
		line := fmt.Sprintf("%s%s %s %s", cursor, box, name, count)

		style := styles.Body
		switch {
		case i == m.cursor && m.focus != focusTable:
			style = styles.Cursor
		case r.Selected:
			style = styles.Selected
		}
		s.WriteString(style.Render(line))
		if i < end-1 {
			s.WriteString("\n")
		}
	}
	return s.String()
}

func (m model) chartBlock() string {
	styles := m.ctl.Styles()
	legend := m.frame.Legend
	if lines := strings.Split(legend, "\n"); len(lines) > maxLegend {
		legend = strings.Join(lines[:maxLegend], "\n") + "\n" +
			styles.Muted.Render(fmt.Sprintf("… %d more", len(lines)-maxLegend))
	}

	var b strings.Builder
	if m.frame.Chart != "" {
		b.WriteString(m.frame.Chart + "\n")
	}
	b.WriteString(legend)
	if m.tooltip >= 0 {
		if tip := m.ctl.Tooltip(m.tooltip); tip != "" {
			b.WriteString("\n" + tip)
		}
	}
	return b.String()
}

func (m model) renderMain() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.frame.Cards,
		m.chartBlock(),
		"",
		m.table.View(),
	)
}

func (m model) renderFooter() string {
	return m.help.View(m.keys)
}

func orDash(s string) string {
	if s == "" {
		return "…"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxLen, "…")
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := initialModel(ctx, opts)
	defer m.exec.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
