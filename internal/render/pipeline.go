// Package render turns a stats snapshot into the three dashboard views:
// summary cards, the model chart with its legend, and the session table.
//
// The derivation functions (Cards, ChartData, TableRows and the formatters)
// are pure. Pipeline is the commit step: it owns the live chart instance and
// the last rendered text of each view.
package render

import (
	"github.com/strrl/lain/internal/tablesort"
	"github.com/strrl/lain/internal/theme"
	"github.com/strrl/lain/pkg/models"
)

// Frame is the committed output of the last render of each view.
type Frame struct {
	Cards  string
	Chart  string
	Legend string
	Table  string
}

// Pipeline renders views from a snapshot. It is not safe for concurrent use.
type Pipeline struct {
	newChart ChartFactory
	chart    Chart
	chartDS  ChartModel
	sorter   *tablesort.Sorter
	styles   theme.Styles
	width    int
	cursor   tablesort.Column
	frame    Frame
}

// NewPipeline returns a pipeline drawing charts with factory. A nil factory
// uses NewBarChart.
func NewPipeline(factory ChartFactory) *Pipeline {
	if factory == nil {
		factory = NewBarChart
	}
	return &Pipeline{
		newChart: factory,
		sorter:   tablesort.NewSorter(),
		styles:   theme.NewStyles(theme.Dark),
		width:    100,
	}
}

// SetTheme switches palettes. Callers re-render the views that depend on it.
func (p *Pipeline) SetTheme(n theme.Name) {
	p.styles = theme.NewStyles(n)
}

// Styles returns the active styles.
func (p *Pipeline) Styles() theme.Styles {
	return p.styles
}

// SetWidth sets the width views are laid out for.
func (p *Pipeline) SetWidth(w int) {
	if w > 0 {
		p.width = w
	}
}

// SetHeaderCursor marks the table header the keyboard cursor is on.
func (p *Pipeline) SetHeaderCursor(c tablesort.Column) {
	p.cursor = c
}

// RenderAll repaints every view from snap.
func (p *Pipeline) RenderAll(snap *models.StatsSnapshot, st tablesort.State) Frame {
	p.RenderCards(snap)
	p.RenderChart(snap)
	p.RenderTable(snap, st)
	return p.frame
}

// RenderCards repaints the summary cards.
func (p *Pipeline) RenderCards(snap *models.StatsSnapshot) {
	p.frame.Cards = FormatCards(Cards(snap), p.width, p.styles)
}

// RenderChart destroys the current chart and draws a new one. With no models
// it shows the empty placeholder and draws nothing.
func (p *Pipeline) RenderChart(snap *models.StatsSnapshot) {
	if p.chart != nil {
		p.chart.Destroy()
		p.chart = nil
	}

	var counts models.ModelCounts
	if snap != nil {
		counts = snap.ModelCounts
	}
	p.chartDS = ChartData(counts)
	p.frame.Legend = Legend(p.chartDS, p.styles)

	if p.chartDS.Empty {
		p.frame.Chart = ""
		return
	}
	p.chart = p.newChart(p.chartDS.Dataset(), ChartOptions{Width: p.width, Styles: p.styles})
	p.frame.Chart = p.chart.View()
}

// RenderTable repaints the session table.
func (p *Pipeline) RenderTable(snap *models.StatsSnapshot, st tablesort.State) {
	var sessions []models.SessionRecord
	if snap != nil {
		sessions = snap.SessionsList
	}
	t := TableRows(sessions, p.sorter, st)
	p.frame.Table = FormatTable(t, p.width, p.cursor, p.styles)
}

// Frame returns the last committed views.
func (p *Pipeline) Frame() Frame {
	return p.frame
}

// ChartModel returns the dataset behind the current chart.
func (p *Pipeline) ChartModel() ChartModel {
	return p.chartDS
}

// Tooltip describes slice i of the live chart, "" when there is no chart.
func (p *Pipeline) Tooltip(i int) string {
	if p.chart == nil {
		return ""
	}
	return p.chart.Tooltip(i)
}
