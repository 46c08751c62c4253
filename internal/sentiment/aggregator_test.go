package sentiment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/optlab/backend/internal/contracts"
)

type fixedScorer map[string]float64

func (f fixedScorer) Score(text string) float64 { return f[text] }

func TestAggregator_DailyMean(t *testing.T) {
	agg := NewAggregator(fixedScorer{"a": 0.5, "b": -0.1, "c": 0.3}, nil)

	daily := agg.Aggregate([]contracts.NewsItem{
		{Date: day("2021-05-02").Add(9 * time.Hour), Title: "c"},
		{Date: day("2021-05-01"), Title: "a"},
		{Date: day("2021-05-01").Add(20 * time.Hour), Title: "b"},
	})

	require.Len(t, daily, 2)
	assert.Equal(t, day("2021-05-01"), daily[0].Date)
	assert.InDelta(t, 0.2, daily[0].Score, 1e-12)
	assert.Equal(t, day("2021-05-02"), daily[1].Date)
	assert.InDelta(t, 0.3, daily[1].Score, 1e-12)
}

func TestAggregator_Empty(t *testing.T) {
	agg := NewAggregator(NewLexiconScorer(nil), nil)
	assert.Empty(t, agg.Aggregate(nil))
}

type stubNews struct {
	items []contracts.NewsItem
	err   error
	calls int
}

func (s *stubNews) FetchNews(ctx context.Context, ticker string, from, to time.Time) ([]contracts.NewsItem, error) {
	s.calls++
	return s.items, s.err
}

func TestLoader_Load(t *testing.T) {
	src := &stubNews{items: []contracts.NewsItem{
		{Date: day("2021-05-01"), Title: "a"},
	}}
	loader := NewLoader(src, NewAggregator(fixedScorer{"a": 0.7}, nil), nil, nil)

	table, err := loader.Load(context.Background(), "NVDA", day("2021-05-01"), day("2021-05-31"))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 0.7, table.ScoreOr(day("2021-05-01")))
	assert.Equal(t, 1, src.calls)
}

func TestLoader_SourceFailureIsNeutral(t *testing.T) {
	src := &stubNews{err: errors.New("upstream down")}
	loader := NewLoader(src, NewAggregator(fixedScorer{}, nil), nil, nil)

	table, err := loader.Load(context.Background(), "NVDA", day("2021-05-01"), day("2021-05-31"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, Neutral, table.ScoreOr(day("2021-05-10")))
}

func TestLoader_NoSource(t *testing.T) {
	loader := NewLoader(nil, NewAggregator(fixedScorer{}, nil), nil, nil)

	table, err := loader.Load(context.Background(), "NVDA", day("2021-05-01"), day("2021-05-31"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}
