package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.Local)

	tests := []struct {
		name  string
		state State
		want  Range
	}{
		{"today", State{Preset: Today}, Range{"2024-06-15", "2024-06-15"}},
		{"yesterday", State{Preset: Yesterday}, Range{"2024-06-14", "2024-06-14"}},
		{"last7 spans seven calendar days", State{Preset: Last7}, Range{"2024-06-09", "2024-06-15"}},
		{"last30", State{Preset: Last30}, Range{"2024-05-17", "2024-06-15"}},
		{"custom passes through", State{Preset: Custom, CustomStart: "2024-01-01", CustomEnd: "2024-02-01"}, Range{"2024-01-01", "2024-02-01"}},
		{"custom missing start is not defaulted", State{Preset: Custom, CustomEnd: "2024-01-01"}, Range{"", "2024-01-01"}},
		{"custom start after end is not validated", State{Preset: Custom, CustomStart: "2024-03-01", CustomEnd: "2024-01-01"}, Range{"2024-03-01", "2024-01-01"}},
		{"unknown preset", State{Preset: "bogus"}, Range{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Resolve(tt.state, now))
		})
	}
}

func TestResolveLast7StartsSixDaysBack(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 15, 0, 0, 1, 0, time.UTC)
	got := Resolve(State{Preset: Last7}, now)

	start, err := time.Parse(Layout, got.Start)
	require.NoError(t, err)
	end, err := time.Parse(Layout, got.End)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-15", got.End)
	assert.Equal(t, 6*24*time.Hour, end.Sub(start))
}

func TestResolveCrossesMonthAndYear(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 3, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, Range{"2023-12-28", "2024-01-03"}, Resolve(State{Preset: Last7}, now))
	assert.Equal(t, Range{"2024-01-02", "2024-01-02"}, Resolve(State{Preset: Yesterday}, now))
}

func TestResolveUsesCallerLocation(t *testing.T) {
	t.Parallel()

	// 01:00 on the 15th in UTC+9 is still the 14th in UTC
	tokyo := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2024, 6, 15, 1, 0, 0, 0, tokyo)

	assert.Equal(t, Range{"2024-06-15", "2024-06-15"}, Resolve(State{Preset: Today}, now))
	assert.Equal(t, Range{"2024-06-14", "2024-06-14"}, Resolve(State{Preset: Today}, now.UTC()))
}

func TestParsePreset(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Preset{
		"today":     Today,
		"yesterday": Yesterday,
		"last7":     Last7,
		"7d":        Last7,
		"last30":    Last30,
		"30d":       Last30,
		"custom":    Custom,
	} {
		got, err := ParsePreset(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePreset("fortnight")
	assert.Error(t, err)
}
