package contracts

import (
	"context"
	"time"
)

// PriceSource supplies an ordered daily close series
type PriceSource interface {
	FetchPrices(ctx context.Context, ticker string, from, to time.Time) ([]PricePoint, error)
}

// NewsSource supplies headlines for one ticker and date range
type NewsSource interface {
	FetchNews(ctx context.Context, ticker string, from, to time.Time) ([]NewsItem, error)
}

// ChainSink receives raw chain rows one at a time
// ⭐ SSOT: 필터는 적재 전에 적용 (메모리 = 필터 결과 크기)
type ChainSink interface {
	Add(q RawOptionQuote)
}
