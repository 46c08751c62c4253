package data

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/optlab/backend/internal/chain"
	"github.com/wonny/optlab/backend/internal/contracts"
)

func mustDate(s string) time.Time {
	t, err := time.Parse(contracts.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestReadPrices(t *testing.T) {
	input := `Date,Open,Close
2021-01-05,1,131.0
2021-01-04,1,130.0
bad-date,1,129.0
2021-01-06,1,
2021-01-07 00:00:00-05:00,1,133.5
`
	prices, err := ReadPrices(context.Background(), strings.NewReader(input), time.Time{}, time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.Equal(t, mustDate("2021-01-04"), prices[0].Date)
	assert.Equal(t, 130.0, prices[0].Close)
	assert.Equal(t, mustDate("2021-01-07"), prices[2].Date)
	assert.Equal(t, 133.5, prices[2].Close)
}

func TestReadPrices_Range(t *testing.T) {
	input := "Date,Close\n2021-01-04,1\n2021-01-05,2\n2021-01-06,3\n"
	prices, err := ReadPrices(context.Background(), strings.NewReader(input),
		mustDate("2021-01-05"), mustDate("2021-01-05"), 0)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, 2.0, prices[0].Close)
}

func TestReadPrices_MissingColumn(t *testing.T) {
	_, err := ReadPrices(context.Background(), strings.NewReader("Date,Open\n2021-01-04,1\n"), time.Time{}, time.Time{}, 0)
	assert.Error(t, err)
}

func TestReadNews(t *testing.T) {
	input := `Date,Article_title,Stock_symbol,Url
2021-03-01 10:00:00 UTC,"Nvidia beats, shares rise",NVDA,http://a
2021-03-01 12:00:00 UTC,Apple slips,AAPL,http://b
2021-03-02 09:00:00 UTC,"A ""quoted"" headline",nvda,http://c
2021-04-01 09:00:00 UTC,Out of range,NVDA,http://d
garbage,No date,NVDA,http://e
`
	items, scanned, err := ReadNews(context.Background(), strings.NewReader(input), "NVDA",
		mustDate("2021-03-01"), mustDate("2021-03-31"), 2)
	require.NoError(t, err)
	assert.Equal(t, 5, scanned)
	require.Len(t, items, 2)
	assert.Equal(t, "Nvidia beats, shares rise", items[0].Title)
	assert.Equal(t, mustDate("2021-03-01"), items[0].Date)
	assert.Equal(t, `A "quoted" headline`, items[1].Title)
}

func TestReadChain(t *testing.T) {
	input := `[QUOTE_UNIXTIME], [QUOTE_DATE], [UNDERLYING_LAST], [DTE], [C_LAST], [C_IV], [STRIKE], [P_LAST], [P_IV]
1, 2023-01-03, 143.15, 30.0, 5.10, 0.55, 145.0, 7.00, 0.56
1, 2023-01-03, 143.15, 30.0, , , 140.0, 3.20, 0.57
1, 2023-01-03, 143.15, x, 1.0, 0.5, 150.0, 1.0, 0.5
1, 2022-12-30, 146.00, 31.0, 5.00, 0.50, 145.0, 4.00, 0.51
`
	sink := &SliceSink{}
	scanned, forwarded, err := ReadChain(context.Background(), strings.NewReader(input),
		mustDate("2023-01-01"), time.Time{}, 0, sink)
	require.NoError(t, err)
	assert.Equal(t, 4, scanned)
	assert.Equal(t, 2, forwarded)
	require.Len(t, sink.Rows, 2)

	first := sink.Rows[0]
	require.NotNil(t, first.QuoteDate)
	assert.Equal(t, mustDate("2023-01-03"), *first.QuoteDate)
	assert.Equal(t, 145.0, first.Strike)
	assert.Equal(t, 143.15, first.UnderlyingSpot)
	assert.Equal(t, 30.0, first.DaysToExpiry)
	require.NotNil(t, first.CallIV)
	assert.Equal(t, 0.55, *first.CallIV)

	second := sink.Rows[1]
	assert.Nil(t, second.CallLastPrice)
	assert.Nil(t, second.CallIV)
	require.NotNil(t, second.PutIV)
}

// one quote date spread over many chunks must still yield one call and one put
const splitChain = `[QUOTE_DATE], [UNDERLYING_LAST], [DTE], [STRIKE], [C_LAST], [C_IV], [P_LAST], [P_IV]
2023-01-03, 100.0, 30, 98.0, 3.50, 0.40, 1.80, 0.41
2023-01-03, 100.0, 30, 103.0, 1.60, 0.38, 4.40, 0.39
2023-01-04, 101.0, 30, 101.0, 2.90, 0.37, 2.70, 0.38
2023-01-03, 100.0, 30, 100.5, 2.40, 0.39, , 
2023-01-03, 100.0, 30, 99.0, , , 2.20, 0.40
2023-01-03, 100.0, 60, 100.0, 9.00, 0.40, 8.00, 0.40
`

func TestReadChain_SelectionAcrossChunks(t *testing.T) {
	for _, chunkSize := range []int{1, 2, 3, DefaultChunkSize} {
		sel := chain.NewSelector(chain.DefaultConfig(), nil)
		scanned, forwarded, err := ReadChain(context.Background(), strings.NewReader(splitChain),
			time.Time{}, time.Time{}, chunkSize, sel)
		require.NoError(t, err, "chunk size %d", chunkSize)
		assert.Equal(t, 6, scanned)
		assert.Equal(t, 6, forwarded)

		got := sel.Finish()
		require.Len(t, got, 4, "chunk size %d", chunkSize)

		call, put := got[0], got[1]
		assert.Equal(t, mustDate("2023-01-03"), call.Date)
		assert.Equal(t, contracts.Call, call.Type)
		assert.Equal(t, 100.5, call.Strike, "chunk size %d", chunkSize)
		assert.Equal(t, 2.40, call.MarketPrice)

		assert.Equal(t, mustDate("2023-01-03"), put.Date)
		assert.Equal(t, contracts.Put, put.Type)
		assert.Equal(t, 99.0, put.Strike, "chunk size %d", chunkSize)
		assert.Equal(t, 0.40, put.ImpliedVol)

		assert.Equal(t, mustDate("2023-01-04"), got[2].Date)
		assert.Equal(t, 101.0, got[2].Strike)
		assert.Equal(t, contracts.Put, got[3].Type)
	}
}

func TestFileSources(t *testing.T) {
	dir := t.TempDir()
	pricePath := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(pricePath, []byte("Date,Close\n2021-01-04,10\n2021-01-05,11\n"), 0o600))

	prices, err := NewPriceCSV(pricePath, 0, nil).FetchPrices(context.Background(), "NVDA", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, prices, 2)

	_, err = NewNewsCSV(filepath.Join(dir, "missing.csv"), 0, nil).
		FetchNews(context.Background(), "NVDA", time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestInRange(t *testing.T) {
	d := mustDate("2021-01-05")
	assert.True(t, InRange(d, time.Time{}, time.Time{}))
	assert.True(t, InRange(d, d, d))
	assert.True(t, InRange(d.Add(23*time.Hour), d, d))
	assert.False(t, InRange(d, mustDate("2021-01-06"), time.Time{}))
	assert.False(t, InRange(d, time.Time{}, mustDate("2021-01-04")))
}
