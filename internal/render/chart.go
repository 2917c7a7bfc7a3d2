package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/strrl/lain/internal/theme"
	"github.com/strrl/lain/pkg/models"
)

// EmptyChartMessage replaces the chart when there are no models.
const EmptyChartMessage = "No data"

// Slice is one model's share of the chart.
type Slice struct {
	Name    string
	Count   float64
	Percent string
	Color   lipgloss.Color
}

// ChartModel is the derived chart dataset. Slices are ordered by count,
// largest first; ties keep the order the server sent them in.
type ChartModel struct {
	Slices []Slice
	Total  float64
	Empty  bool
}

// ChartData derives the chart dataset from the per-model counts.
func ChartData(counts models.ModelCounts) ChartModel {
	entries := make(models.ModelCounts, len(counts))
	copy(entries, counts)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	var total float64
	for _, e := range entries {
		total += e.Count
	}

	out := ChartModel{Total: total, Empty: len(entries) == 0}
	for i, e := range entries {
		out.Slices = append(out.Slices, Slice{
			Name:    e.Name,
			Count:   e.Count,
			Percent: FormatPercent(e.Count, total),
			Color:   theme.ChartColor(i),
		})
	}
	return out
}

// Dataset is what a chart is drawn from.
type Dataset struct {
	Labels []string
	Values []float64
	Colors []lipgloss.Color
}

// Dataset converts the model into the chart's input shape.
func (c ChartModel) Dataset() Dataset {
	ds := Dataset{
		Labels: make([]string, len(c.Slices)),
		Values: make([]float64, len(c.Slices)),
		Colors: make([]lipgloss.Color, len(c.Slices)),
	}
	for i, s := range c.Slices {
		ds.Labels[i] = s.Name
		ds.Values[i] = s.Count
		ds.Colors[i] = s.Color
	}
	return ds
}

// ChartOptions control how a chart draws itself.
type ChartOptions struct {
	Width  int
	Styles theme.Styles
}

// Chart is a drawn chart instance. A chart is never mutated after it is
// created; a new dataset means a new chart.
type Chart interface {
	View() string
	// Tooltip describes slice i, or "" when i is out of range.
	Tooltip(i int) string
	Destroy()
}

// ChartFactory draws a new chart.
type ChartFactory func(ds Dataset, opts ChartOptions) Chart

// NewBarChart is the default ChartFactory: a single stacked bar whose
// segments are proportional to each value.
func NewBarChart(ds Dataset, opts ChartOptions) Chart {
	return &barChart{ds: ds, opts: opts, total: sum(ds.Values)}
}

type barChart struct {
	ds        Dataset
	opts      ChartOptions
	total     float64
	destroyed bool
}

func (c *barChart) View() string {
	if c.destroyed || len(c.ds.Values) == 0 {
		return ""
	}
	width := c.opts.Width
	if width < 10 {
		width = 10
	}

	var b strings.Builder
	for i, n := range segmentWidths(c.ds.Values, width) {
		if n == 0 {
			continue
		}
		b.WriteString(lipgloss.NewStyle().
			Foreground(c.ds.Colors[i]).
			Render(strings.Repeat("█", n)))
	}
	return b.String()
}

func (c *barChart) Tooltip(i int) string {
	if c.destroyed || i < 0 || i >= len(c.ds.Labels) {
		return ""
	}
	p := c.opts.Styles.Palette
	style := lipgloss.NewStyle().
		Foreground(p.Text).
		Background(p.Border).
		Padding(0, 1)
	return style.Render(fmt.Sprintf("%s: %s (%s%%)",
		Escape(c.ds.Labels[i]),
		FormatCount(c.ds.Values[i]),
		FormatPercent(c.ds.Values[i], c.total)))
}

func (c *barChart) Destroy() {
	c.destroyed = true
}

// segmentWidths splits width cells between values using the largest
// remainder method. Every non-zero value gets at least one cell when there
// is room for it.
func segmentWidths(values []float64, width int) []int {
	out := make([]int, len(values))
	total := sum(values)
	if total <= 0 {
		return out
	}

	type rem struct {
		i    int
		frac float64
	}
	rems := make([]rem, 0, len(values))
	used := 0
	for i, v := range values {
		exact := v / total * float64(width)
		out[i] = int(math.Floor(exact))
		used += out[i]
		rems = append(rems, rem{i, exact - math.Floor(exact)})
	}
	sort.SliceStable(rems, func(a, b int) bool { return rems[a].frac > rems[b].frac })
	for k := 0; used < width && k < len(rems); k++ {
		out[rems[k].i]++
		used++
	}

	for i, v := range values {
		if v <= 0 || out[i] > 0 {
			continue
		}
		// borrow a cell from the widest segment
		widest := 0
		for j := range out {
			if out[j] > out[widest] {
				widest = j
			}
		}
		if out[widest] > 1 {
			out[widest]--
			out[i] = 1
		}
	}
	return out
}

func sum(values []float64) float64 {
	var t float64
	for _, v := range values {
		t += v
	}
	return t
}

// Legend renders one line per slice, in slice order.
func Legend(c ChartModel, styles theme.Styles) string {
	if c.Empty {
		return styles.Muted.Render(EmptyChartMessage)
	}
	nameWidth := 0
	for _, s := range c.Slices {
		if w := lipgloss.Width(Escape(s.Name)); w > nameWidth {
			nameWidth = w
		}
	}
	if nameWidth > 32 {
		nameWidth = 32
	}

	lines := make([]string, 0, len(c.Slices))
	for _, s := range c.Slices {
		lines = append(lines, fmt.Sprintf("%s %s %8s %6s%%",
			theme.Swatch(s.Color),
			styles.Body.Render(fitCell(Escape(s.Name), nameWidth, false)),
			FormatCount(s.Count),
			s.Percent))
	}
	return strings.Join(lines, "\n")
}
