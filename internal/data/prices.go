package data

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/pkg/logger"
)

// Price CSV columns (yfinance export)
const (
	ColPriceDate  = "Date"
	ColPriceClose = "Close"
)

// PriceCSV reads a Date,Close series from a file
type PriceCSV struct {
	path      string
	chunkSize int
	logger    *logger.Logger
}

// NewPriceCSV creates a file-backed price source
func NewPriceCSV(path string, chunkSize int, log *logger.Logger) *PriceCSV {
	if log == nil {
		log = logger.Nop()
	}
	return &PriceCSV{path: path, chunkSize: chunkSize, logger: log}
}

// FetchPrices implements contracts.PriceSource; the ticker is implied by the file
func (p *PriceCSV) FetchPrices(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PricePoint, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()

	prices, err := ReadPrices(ctx, f, from, to, p.chunkSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.path, err)
	}

	p.logger.WithFields(map[string]interface{}{
		"file":   p.path,
		"ticker": ticker,
		"rows":   len(prices),
	}).Info("Loaded price series")

	return prices, nil
}

// ReadPrices parses a Date,Close CSV. Rows with an unparseable date or close are dropped.
// The result is date-ordered with one point per date (the last row for a date wins).
// Zero from/to leave that side of the range open.
func ReadPrices(ctx context.Context, r io.Reader, from, to time.Time, chunkSize int) ([]contracts.PricePoint, error) {
	byDate := make(map[string]contracts.PricePoint)

	_, err := ReadChunks(ctx, r, chunkSize, func(h Header, chunk [][]string) error {
		if err := h.Require(ColPriceDate, ColPriceClose); err != nil {
			return err
		}
		for _, rec := range chunk {
			d, err := contracts.ParseDate(h.Get(rec, ColPriceDate))
			if err != nil || !InRange(d, from, to) {
				continue
			}
			c, ok := h.Float(rec, ColPriceClose)
			if !ok {
				continue
			}
			byDate[contracts.DateKey(d)] = contracts.PricePoint{Date: d, Close: c}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prices := make([]contracts.PricePoint, 0, len(byDate))
	for _, p := range byDate {
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Date.Before(prices[j].Date) })

	return prices, nil
}

// InRange reports from <= d <= to by calendar date; zero bounds are open
func InRange(d, from, to time.Time) bool {
	d = contracts.Day(d)
	if !from.IsZero() && d.Before(contracts.Day(from)) {
		return false
	}
	if !to.IsZero() && d.After(contracts.Day(to)) {
		return false
	}
	return true
}
