package data

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/pkg/logger"
)

// News CSV columns (FNSPID layout)
const (
	ColNewsDate   = "Date"
	ColNewsTitle  = "Article_title"
	ColNewsSymbol = "Stock_symbol"
)

// NewsCSV streams a large headline dump, keeping only one ticker's rows in range
type NewsCSV struct {
	path      string
	chunkSize int
	logger    *logger.Logger
}

// NewNewsCSV creates a file-backed news source
func NewNewsCSV(path string, chunkSize int, log *logger.Logger) *NewsCSV {
	if log == nil {
		log = logger.Nop()
	}
	return &NewsCSV{path: path, chunkSize: chunkSize, logger: log}
}

// FetchNews implements contracts.NewsSource
func (n *NewsCSV) FetchNews(ctx context.Context, ticker string, from, to time.Time) ([]contracts.NewsItem, error) {
	f, err := os.Open(n.path)
	if err != nil {
		return nil, fmt.Errorf("open news file: %w", err)
	}
	defer f.Close()

	items, scanned, err := ReadNews(ctx, f, ticker, from, to, n.chunkSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.path, err)
	}

	n.logger.WithFields(map[string]interface{}{
		"file":    n.path,
		"ticker":  ticker,
		"scanned": scanned,
		"kept":    len(items),
	}).Info("Loaded news headlines")

	return items, nil
}

// ReadNews filters each chunk by symbol and date before retaining it.
// An empty ticker keeps every symbol. Rows with unparseable dates or empty titles are dropped.
func ReadNews(ctx context.Context, r io.Reader, ticker string, from, to time.Time, chunkSize int) ([]contracts.NewsItem, int, error) {
	var items []contracts.NewsItem

	scanned, err := ReadChunks(ctx, r, chunkSize, func(h Header, chunk [][]string) error {
		if err := h.Require(ColNewsDate, ColNewsTitle); err != nil {
			return err
		}
		_, hasSymbol := h[ColNewsSymbol]

		for _, rec := range chunk {
			if ticker != "" && hasSymbol && !strings.EqualFold(h.Get(rec, ColNewsSymbol), ticker) {
				continue
			}
			d, err := contracts.ParseDate(h.Get(rec, ColNewsDate))
			if err != nil || !InRange(d, from, to) {
				continue
			}
			title := h.Get(rec, ColNewsTitle)
			if title == "" {
				continue
			}
			items = append(items, contracts.NewsItem{Date: d, Title: title})
		}
		return nil
	})
	if err != nil {
		return nil, scanned, err
	}

	return items, scanned, nil
}
