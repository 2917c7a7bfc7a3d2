package tablesort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strrl/lain/pkg/models"
)

func ids(rows []models.SessionRecord) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.SessionID
	}
	return out
}

func reversed(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

func sessions() []models.SessionRecord {
	rows := []models.SessionRecord{
		{SessionID: "s1", Date: "2024-06-10", Project: "beta", Title: "fix", APICalls: models.Float(12), Cost: models.Float(0.5),
			Models: models.ModelCounts{{Name: "claude-opus-4", Count: 3}}},
		{SessionID: "s2", Date: "2024-06-12", Project: "alpha", Title: "Add", APICalls: models.Float(3), Cost: models.Float(2.25),
			Models: models.ModelCounts{{Name: "claude-sonnet-4", Count: 1}}},
		{SessionID: "s3", Date: "2024-06-11", Project: "gamma", Title: "", APICalls: models.Float(100), Cost: nil,
			Models: models.ModelCounts{{Name: "claude-haiku-3", Count: 1}, {Name: "claude-opus-4", Count: 2}}},
		{SessionID: "s4", Date: "2024-06-09", Project: "Alpha", Title: "docs", APICalls: models.Float(7), Cost: models.Float(0.01)},
	}
	for i := range rows {
		n := float64((i*7)%5 + 1)
		rows[i].InputTokens = models.Float(n * 1000)
		rows[i].OutputTokens = models.Float(n * 10)
		rows[i].CacheReadTokens = models.Float(50 - n)
		rows[i].CacheCreateTokens = models.Float(n / 2)
	}
	return rows
}

func TestDefault(t *testing.T) {
	assert.Equal(t, State{Column: ColDate, Direction: Desc}, Default())
}

func TestClick(t *testing.T) {
	s := Default()

	s = s.Click(ColDate)
	assert.Equal(t, State{ColDate, Asc}, s)

	s = s.Click(ColDate)
	assert.Equal(t, State{ColDate, Desc}, s)

	s = s.Click(ColCost).Click(ColCost)
	assert.Equal(t, State{ColCost, Asc}, s)

	s = s.Click(ColTitle)
	assert.Equal(t, State{ColTitle, Desc}, s, "new column resets to descending")
}

func TestIndicatorOnlyOnActiveColumn(t *testing.T) {
	s := State{ColAPICalls, Asc}
	for _, c := range Columns {
		if c == ColAPICalls {
			assert.Equal(t, " ▲", s.Indicator(c))
			continue
		}
		assert.Empty(t, s.Indicator(c), c)
	}
	assert.Equal(t, " ▼", s.Click(ColAPICalls).Indicator(ColAPICalls))
}

func TestSortedDoesNotMutateInput(t *testing.T) {
	in := sessions()
	before := ids(in)

	out := NewSorter().Sorted(in, State{ColDate, Asc})

	assert.Equal(t, before, ids(in))
	assert.Equal(t, []string{"s4", "s1", "s3", "s2"}, ids(out))
}

func TestNumericColumnsCompareNumerically(t *testing.T) {
	out := NewSorter().Sorted(sessions(), State{ColAPICalls, Asc})
	// 3 < 7 < 12 < 100; a string compare would put "100" before "12".
	assert.Equal(t, []string{"s2", "s4", "s1", "s3"}, ids(out))
}

func TestNullCostSortsAsEmptyString(t *testing.T) {
	out := NewSorter().Sorted(sessions(), State{ColCost, Asc})
	require.Len(t, out, 4)
	assert.Equal(t, "s3", out[0].SessionID)
}

// Every column in the fixture has distinct keys, so flipping direction
// must reverse the order exactly.
func TestAscThenDescIsExactReverse(t *testing.T) {
	sorter := NewSorter()
	for _, c := range Columns {
		t.Run(string(c), func(t *testing.T) {
			asc := State{Column: c, Direction: Desc}.Click(c)
			require.Equal(t, Asc, asc.Direction)
			desc := asc.Click(c)

			up := ids(sorter.Sorted(sessions(), asc))
			down := ids(sorter.Sorted(sessions(), desc))

			assert.Equal(t, reversed(up), down)
		})
	}
}

func TestModelsSortByJoinedNames(t *testing.T) {
	rows := []models.SessionRecord{
		{SessionID: "ba", Models: models.ModelCounts{{Name: "b", Count: 1}, {Name: "a", Count: 1}}},
		{SessionID: "a", Models: models.ModelCounts{{Name: "a", Count: 1}}},
	}

	out := NewSorter().Sorted(rows, State{ColModels, Asc})
	assert.Equal(t, []string{"a", "ba"}, ids(out))

	out = NewSorter().Sorted(rows, State{ColModels, Desc})
	assert.Equal(t, []string{"ba", "a"}, ids(out))
}

func TestModelsSortIgnoresCount(t *testing.T) {
	rows := []models.SessionRecord{
		{SessionID: "big", Models: models.ModelCounts{{Name: "z", Count: 1}}},
		{SessionID: "small", Models: models.ModelCounts{{Name: "a", Count: 999}, {Name: "b", Count: 999}}},
	}
	out := NewSorter().Sorted(rows, State{ColModels, Asc})
	assert.Equal(t, []string{"small", "big"}, ids(out))
}

func TestStableForEqualKeys(t *testing.T) {
	rows := []models.SessionRecord{
		{SessionID: "first", Date: "2024-01-01"},
		{SessionID: "second", Date: "2024-01-01"},
		{SessionID: "third", Date: "2024-01-01"},
	}
	sorter := NewSorter()
	assert.Equal(t, []string{"first", "second", "third"}, ids(sorter.Sorted(rows, State{ColDate, Asc})))
	assert.Equal(t, []string{"first", "second", "third"}, ids(sorter.Sorted(rows, State{ColDate, Desc})))
}

func TestParseColumn(t *testing.T) {
	c, err := ParseColumn("cache_read_tokens")
	require.NoError(t, err)
	assert.Equal(t, ColCacheRead, c)

	_, err = ParseColumn("nope")
	assert.Error(t, err)
}
