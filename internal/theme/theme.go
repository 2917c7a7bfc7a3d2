// Package theme holds the dark and light palettes used by the dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Name identifies a palette.
type Name string

const (
	Dark  Name = "dark"
	Light Name = "light"
)

// Toggle flips between dark and light.
func (n Name) Toggle() Name {
	if n == Light {
		return Dark
	}
	return Light
}

// Parse accepts "dark" or "light". Anything else, including "", is dark.
func Parse(s string) Name {
	if s == string(Light) {
		return Light
	}
	return Dark
}

// ChartColors is the slice palette, cycled by index.
var ChartColors = []lipgloss.Color{
	"#00ff41",
	"#e63946",
	"#ffa500",
	"#00d4ff",
	"#ff00ff",
	"#ffff00",
	"#7b68ee",
	"#ff6b6b",
}

// ChartColor returns the palette colour for slice i.
func ChartColor(i int) lipgloss.Color {
	if i < 0 {
		i = -i
	}
	return ChartColors[i%len(ChartColors)]
}

// Palette is a set of colours for one theme.
type Palette struct {
	Name      Name
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	Highlight lipgloss.Color
	Border    lipgloss.Color
	HeaderFg  lipgloss.Color
	HeaderBg  lipgloss.Color
	Error     lipgloss.Color
	ErrorBg   lipgloss.Color
}

var dark = Palette{
	Name:      Dark,
	Text:      lipgloss.Color("252"),
	Muted:     lipgloss.Color("241"),
	Accent:    lipgloss.Color("#00ff41"),
	Highlight: lipgloss.Color("212"),
	Border:    lipgloss.Color("238"),
	HeaderFg:  lipgloss.Color("229"),
	HeaderBg:  lipgloss.Color("63"),
	Error:     lipgloss.Color("231"),
	ErrorBg:   lipgloss.Color("160"),
}

var light = Palette{
	Name:      Light,
	Text:      lipgloss.Color("235"),
	Muted:     lipgloss.Color("245"),
	Accent:    lipgloss.Color("28"),
	Highlight: lipgloss.Color("127"),
	Border:    lipgloss.Color("250"),
	HeaderFg:  lipgloss.Color("231"),
	HeaderBg:  lipgloss.Color("25"),
	Error:     lipgloss.Color("231"),
	ErrorBg:   lipgloss.Color("124"),
}

// For returns the palette for n.
func For(n Name) Palette {
	if n == Light {
		return light
	}
	return dark
}

// Styles are the lipgloss styles built from a palette.
type Styles struct {
	Palette  Palette
	Header   lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Selected lipgloss.Style
	Cursor   lipgloss.Style
	Card     lipgloss.Style
	Divider  lipgloss.Style
	Banner   lipgloss.Style
	Footer   lipgloss.Style
}

// NewStyles builds the styles for n.
func NewStyles(n Name) Styles {
	p := For(n)
	return Styles{
		Palette: p,
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.HeaderFg).
			Background(p.HeaderBg),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.HeaderFg),
		Body:     lipgloss.NewStyle().Foreground(p.Text),
		Muted:    lipgloss.NewStyle().Foreground(p.Muted),
		Accent:   lipgloss.NewStyle().Foreground(p.Accent),
		Selected: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Cursor:   lipgloss.NewStyle().Foreground(p.Highlight).Bold(true),
		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Divider: lipgloss.NewStyle().Foreground(p.Border),
		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Error).
			Background(p.ErrorBg).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().Foreground(p.Muted),
	}
}

// Swatch renders a coloured block for legends.
func Swatch(c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render("■")
}

// String implements fmt.Stringer.
func (n Name) String() string {
	return string(n)
}
