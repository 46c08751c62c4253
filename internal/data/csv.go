package data

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// DefaultChunkSize is the number of rows handed to a chunk callback at once
const DefaultChunkSize = 100_000

// Header maps cleaned column names to their index
type Header map[string]int

// CleanColumn trims a header cell and strips bracket decoration ("[QUOTE_DATE]" → "QUOTE_DATE")
func CleanColumn(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.NewReplacer("[", "", "]", "").Replace(name)
	return strings.TrimSpace(name)
}

func newHeader(cells []string) Header {
	h := make(Header, len(cells))
	for i, c := range cells {
		h[CleanColumn(c)] = i
	}
	return h
}

// Require fails if any named column is missing
func (h Header) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if _, ok := h[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Get returns the named cell of a record, or "" when absent
func (h Header) Get(record []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// Float parses the named cell. Blank or non-numeric cells report ok=false.
func (h Header) Float(record []string, col string) (float64, bool) {
	s := h.Get(record, col)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// OptionalFloat is Float as a nullable value
func (h Header) OptionalFloat(record []string, col string) *float64 {
	v, ok := h.Float(record, col)
	if !ok {
		return nil
	}
	return &v
}

// ChunkFunc receives one bounded chunk of records.
// The chunk slice is reused after fn returns; records themselves may be retained.
type ChunkFunc func(h Header, chunk [][]string) error

// ReadChunks reads a headered CSV sequentially, calling fn with at most chunkSize records at a time.
// Oversized or loosely quoted text fields are accepted. Malformed rows are skipped.
// ⭐ SSOT: 대용량 CSV는 청크 단위로만 읽음
func ReadChunks(ctx context.Context, r io.Reader, chunkSize int, fn ChunkFunc) (int, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	header := newHeader(first)

	total := 0
	chunk := make([][]string, 0, min(chunkSize, 4096))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return total, fmt.Errorf("read csv: %w", err)
		}

		chunk = append(chunk, record)
		if len(chunk) == chunkSize {
			if err := ctx.Err(); err != nil {
				return total, err
			}
			if err := fn(header, chunk); err != nil {
				return total, err
			}
			total += len(chunk)
			chunk = chunk[:0]
		}
	}

	if len(chunk) > 0 {
		if err := fn(header, chunk); err != nil {
			return total, err
		}
		total += len(chunk)
	}

	return total, nil
}
