package sentiment

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/pkg/logger"
	"github.com/wonny/optlab/backend/pkg/redis"
)

// Loader builds the daily sentiment table for a ticker and date range.
// Results are cached in Redis when a cache is configured.
type Loader struct {
	source     contracts.NewsSource
	aggregator *Aggregator
	cache      *redis.Cache
	ttl        time.Duration
	logger     *logger.Logger
}

// NewLoader creates a loader. cache may be nil.
func NewLoader(source contracts.NewsSource, aggregator *Aggregator, cache *redis.Cache, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{
		source:     source,
		aggregator: aggregator,
		cache:      cache,
		ttl:        redis.TTLDaily,
		logger:     log,
	}
}

// WithTTL overrides the cache TTL
func (l *Loader) WithTTL(ttl time.Duration) *Loader {
	l.ttl = ttl
	return l
}

// Load returns the daily sentiment table.
// A failing news source yields an empty table (every date neutral), never an error.
func (l *Loader) Load(ctx context.Context, ticker string, from, to time.Time) (Table, error) {
	key := redis.DailySentimentKey(ticker, contracts.DateKey(from), contracts.DateKey(to))

	if l.cache != nil {
		var cached []contracts.DailySentiment
		found, err := l.cache.Get(ctx, key, &cached)
		if err != nil {
			l.logger.WithError(err).Warn("Sentiment cache read failed")
		} else if found {
			l.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"days":   len(cached),
			}).Debug("Sentiment cache hit")
			return NewTable(cached), nil
		}
	}

	if l.source == nil {
		return NewTable(nil), nil
	}

	items, err := l.source.FetchNews(ctx, ticker, from, to)
	if err != nil {
		if ctx.Err() != nil {
			return Table{}, fmt.Errorf("fetch news: %w", ctx.Err())
		}
		l.logger.WithError(err).WithField("ticker", ticker).Warn("News acquisition failed, using neutral sentiment")
		return NewTable(nil), nil
	}

	daily := l.aggregator.Aggregate(items)

	if l.cache != nil && len(daily) > 0 {
		if err := l.cache.Set(ctx, key, daily, l.ttl); err != nil {
			l.logger.WithError(err).Warn("Sentiment cache write failed")
		}
	}

	l.logger.WithFields(map[string]interface{}{
		"ticker":    ticker,
		"headlines": len(items),
		"days":      len(daily),
	}).Info("Daily sentiment loaded")

	return NewTable(daily), nil
}
