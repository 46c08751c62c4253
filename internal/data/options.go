package data

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/pkg/logger"
)

// Option chain CSV columns after bracket cleanup
const (
	ColQuoteDate  = "QUOTE_DATE"
	ColDTE        = "DTE"
	ColStrike     = "STRIKE"
	ColUnderlying = "UNDERLYING_LAST"
	ColCallLast   = "C_LAST"
	ColCallIV     = "C_IV"
	ColPutLast    = "P_LAST"
	ColPutIV      = "P_IV"
)

// ChainCSV streams an end-of-day option chain dump into a ChainSink
type ChainCSV struct {
	path      string
	chunkSize int
	logger    *logger.Logger
}

// NewChainCSV creates a file-backed chain reader
func NewChainCSV(path string, chunkSize int, log *logger.Logger) *ChainCSV {
	if log == nil {
		log = logger.Nop()
	}
	return &ChainCSV{path: path, chunkSize: chunkSize, logger: log}
}

// Stream feeds every parsed row within [from, to] to sink and returns rows scanned and forwarded
func (c *ChainCSV) Stream(ctx context.Context, from, to time.Time, sink contracts.ChainSink) (scanned, forwarded int, err error) {
	f, err := os.Open(c.path)
	if err != nil {
		return 0, 0, fmt.Errorf("open chain file: %w", err)
	}
	defer f.Close()

	scanned, forwarded, err = ReadChain(ctx, f, from, to, c.chunkSize, sink)
	if err != nil {
		return scanned, forwarded, fmt.Errorf("%s: %w", c.path, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"file":      c.path,
		"scanned":   scanned,
		"forwarded": forwarded,
	}).Info("Streamed option chain")

	return scanned, forwarded, nil
}

// ReadChain parses chain rows chunk by chunk. Blank or non-numeric price/IV cells become nil;
// an unparseable quote date becomes nil and is left to the sink's eligibility filter.
// Rows without a numeric DTE, strike or spot are dropped here.
func ReadChain(ctx context.Context, r io.Reader, from, to time.Time, chunkSize int, sink contracts.ChainSink) (int, int, error) {
	forwarded := 0

	scanned, err := ReadChunks(ctx, r, chunkSize, func(h Header, chunk [][]string) error {
		if err := h.Require(ColQuoteDate, ColDTE, ColStrike, ColUnderlying); err != nil {
			return err
		}

		for _, rec := range chunk {
			q, ok := parseChainRow(h, rec)
			if !ok {
				continue
			}
			if q.QuoteDate != nil && !InRange(*q.QuoteDate, from, to) {
				continue
			}
			sink.Add(q)
			forwarded++
		}
		return nil
	})

	return scanned, forwarded, err
}

func parseChainRow(h Header, rec []string) (contracts.RawOptionQuote, bool) {
	dte, ok := h.Float(rec, ColDTE)
	if !ok {
		return contracts.RawOptionQuote{}, false
	}
	strike, ok := h.Float(rec, ColStrike)
	if !ok {
		return contracts.RawOptionQuote{}, false
	}
	spot, ok := h.Float(rec, ColUnderlying)
	if !ok {
		return contracts.RawOptionQuote{}, false
	}

	q := contracts.RawOptionQuote{
		DaysToExpiry:   dte,
		Strike:         strike,
		UnderlyingSpot: spot,
		CallLastPrice:  h.OptionalFloat(rec, ColCallLast),
		CallIV:         h.OptionalFloat(rec, ColCallIV),
		PutLastPrice:   h.OptionalFloat(rec, ColPutLast),
		PutIV:          h.OptionalFloat(rec, ColPutIV),
	}
	if d, err := contracts.ParseDate(h.Get(rec, ColQuoteDate)); err == nil {
		q.QuoteDate = &d
	}

	return q, true
}

// SliceSink collects rows in memory, for small chains and tests
type SliceSink struct {
	Rows []contracts.RawOptionQuote
}

// Add implements contracts.ChainSink
func (s *SliceSink) Add(q contracts.RawOptionQuote) {
	s.Rows = append(s.Rows, q)
}
