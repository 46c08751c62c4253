package sentiment

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/pkg/logger"
)

// Scorer maps one text item to a compound score in [-1, 1]
type Scorer interface {
	Score(text string) float64
}

// Aggregator averages per-headline scores into one score per calendar date
// ⭐ SSOT: 뉴스 → 일별 감성 점수 집계는 여기서만
type Aggregator struct {
	scorer Scorer
	logger *logger.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(scorer Scorer, log *logger.Logger) *Aggregator {
	return &Aggregator{scorer: scorer, logger: log}
}

// Aggregate scores every item and returns the per-date mean, ordered by date
func (a *Aggregator) Aggregate(items []contracts.NewsItem) []contracts.DailySentiment {
	byDate := make(map[string][]float64)
	dates := make(map[string]time.Time)

	for _, item := range items {
		key := contracts.DateKey(item.Date)
		byDate[key] = append(byDate[key], a.scorer.Score(item.Title))
		dates[key] = contracts.Day(item.Date)
	}

	daily := make([]contracts.DailySentiment, 0, len(byDate))
	for key, scores := range byDate {
		daily = append(daily, contracts.DailySentiment{
			Date:  dates[key],
			Score: stat.Mean(scores, nil),
		})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date.Before(daily[j].Date) })

	if a.logger != nil {
		a.logger.WithFields(map[string]interface{}{
			"items": len(items),
			"days":  len(daily),
		}).Debug("Aggregated daily sentiment")
	}

	return daily
}
