package sentiment

import (
	"sort"
	"time"

	"github.com/wonny/optlab/backend/internal/contracts"
)

// Neutral is the score assumed for dates without news
const Neutral = 0.0

// Table is a read-only daily sentiment lookup keyed by calendar date
type Table struct {
	scores map[string]float64
}

// NewTable indexes daily scores by date. A later duplicate date wins.
func NewTable(daily []contracts.DailySentiment) Table {
	scores := make(map[string]float64, len(daily))
	for _, d := range daily {
		scores[contracts.DateKey(d.Date)] = d.Score
	}
	return Table{scores: scores}
}

// Lookup returns the score for date and whether one was recorded
func (t Table) Lookup(date time.Time) (float64, bool) {
	s, ok := t.scores[contracts.DateKey(date)]
	return s, ok
}

// ScoreOr returns the recorded score or Neutral
func (t Table) ScoreOr(date time.Time) float64 {
	if s, ok := t.Lookup(date); ok {
		return s
	}
	return Neutral
}

// Len returns the number of dates with a score
func (t Table) Len() int {
	return len(t.scores)
}

// Daily returns the table as a date-ordered slice
func (t Table) Daily() []contracts.DailySentiment {
	out := make([]contracts.DailySentiment, 0, len(t.scores))
	for key, score := range t.scores {
		d, err := time.Parse(contracts.DateLayout, key)
		if err != nil {
			continue
		}
		out = append(out, contracts.DailySentiment{Date: d, Score: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
