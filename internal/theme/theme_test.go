package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleAndParse(t *testing.T) {
	assert.Equal(t, Light, Dark.Toggle())
	assert.Equal(t, Dark, Light.Toggle())

	assert.Equal(t, Light, Parse("light"))
	assert.Equal(t, Dark, Parse("dark"))
	assert.Equal(t, Dark, Parse(""))
	assert.Equal(t, Dark, Parse("solarized"))
}

func TestChartColorCycles(t *testing.T) {
	n := len(ChartColors)
	assert.Equal(t, ChartColors[0], ChartColor(0))
	assert.Equal(t, ChartColors[0], ChartColor(n))
	assert.Equal(t, ChartColors[1], ChartColor(n+1))
	assert.Equal(t, ChartColors[1], ChartColor(-1))
}

func TestPalettesDiffer(t *testing.T) {
	assert.Equal(t, Dark, For(Dark).Name)
	assert.Equal(t, Light, For(Light).Name)
	assert.NotEqual(t, For(Dark).Text, For(Light).Text)
	assert.Equal(t, For(Light), NewStyles(Light).Palette)
}
