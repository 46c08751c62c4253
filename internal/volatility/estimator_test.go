package volatility

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/optlab/backend/internal/contracts"
)

func series(closes ...float64) []contracts.PricePoint {
	start := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	out := make([]contracts.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = contracts.PricePoint{Date: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

func constant(n int, v float64) []contracts.PricePoint {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = v
	}
	return series(closes...)
}

func TestEstimate_ConstantSeriesIsZero(t *testing.T) {
	points, err := Estimate(constant(40, 123.45), DefaultConfig())
	require.NoError(t, err)
	require.Len(t, points, 10)

	for _, p := range points {
		assert.Equal(t, 0.0, p.AnnualizedVolatility)
		assert.Equal(t, 0.0, p.LogReturn)
	}
}

func TestEstimate_ShortSeries(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"empty", 0, 0},
		{"single", 1, 0},
		{"window minus one", cfg.Window - 1, 0},
		{"exactly window", cfg.Window, 0},
		{"window plus one", cfg.Window + 1, 1},
		{"window plus five", cfg.Window + 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := Estimate(constant(tt.n, 10), cfg)
			require.NoError(t, err)
			assert.Len(t, points, tt.want)
		})
	}
}

func TestEstimate_KnownValues(t *testing.T) {
	// alternating +/- log returns of equal size: sample stdev is known
	cfg := Config{Window: 2, TradingDays: 252}
	up := math.Exp(0.01)
	prices := series(100, 100*up, 100, 100*up)

	points, err := Estimate(prices, cfg)
	require.NoError(t, err)
	require.Len(t, points, 2)

	// returns: +0.01, -0.01, +0.01 → stdev of (0.01, -0.01) with ddof=1 = 0.01*sqrt(2)
	want := 0.01 * math.Sqrt(2) * math.Sqrt(252)
	assert.InDelta(t, want, points[0].AnnualizedVolatility, 1e-12)
	assert.InDelta(t, want, points[1].AnnualizedVolatility, 1e-12)

	assert.Equal(t, prices[2].Date, points[0].Date)
	assert.Equal(t, prices[3].Date, points[1].Date)
	assert.InDelta(t, -0.01, points[0].LogReturn, 1e-12)
	assert.InDelta(t, 0.01, points[1].LogReturn, 1e-12)
}

func TestEstimate_OutputStartsAfterFullWindow(t *testing.T) {
	cfg := Config{Window: 5, TradingDays: 252}
	prices := series(10, 11, 10.5, 12, 11.5, 11.8, 12.2, 12.0)

	points, err := Estimate(prices, cfg)
	require.NoError(t, err)
	require.Len(t, points, len(prices)-cfg.Window)
	assert.Equal(t, prices[cfg.Window].Date, points[0].Date)

	for _, p := range points {
		assert.False(t, math.IsNaN(p.AnnualizedVolatility))
		assert.GreaterOrEqual(t, p.AnnualizedVolatility, 0.0)
	}
}

func TestEstimate_NonPositivePrice(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
	}{
		{"zero", []float64{10, 0, 11}},
		{"negative", []float64{10, 11, -1}},
		{"nan", []float64{math.NaN(), 11, 12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Estimate(series(tt.closes...), DefaultConfig())
			assert.ErrorIs(t, err, ErrNonPositivePrice)
		})
	}
}

func TestEstimate_InvalidConfig(t *testing.T) {
	_, err := Estimate(constant(10, 1), Config{Window: 1, TradingDays: 252})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Estimate(constant(10, 1), Config{Window: 3, TradingDays: 0})
	assert.Error(t, err)
}

func TestEstimator_NilLogger(t *testing.T) {
	e := NewEstimator(DefaultConfig(), nil)
	points, err := e.Estimate(constant(31, 50))
	require.NoError(t, err)
	assert.Len(t, points, 1)
}
