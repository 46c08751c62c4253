package evaluation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/optlab/backend/internal/contracts"
)

func TestMAE(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"constant offset", []float64{1, 2, 3}, []float64{2, 3, 4}, 1},
		{"mixed signs", []float64{0, 0}, []float64{3, -4}, 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MAE(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestRMSE(t *testing.T) {
	got, err := RMSE([]float64{0, 0}, []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(12.5), got, 1e-12)
	assert.InDelta(t, 3.5355, got, 1e-4)

	got, err = RMSE([]float64{1, 2, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestMetrics_Errors(t *testing.T) {
	_, err := MAE([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = RMSE(nil, nil)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = Summarize("x", []float64{1}, []float64{})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize("call baseline vs adjusted", []float64{0, 0}, []float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, "call baseline vs adjusted", s.Label)
	assert.Equal(t, 2, s.SampleCount)
	assert.InDelta(t, 3.5, s.MAE, 1e-12)
	assert.InDelta(t, 3.5355, s.RMSE, 1e-4)
	assert.GreaterOrEqual(t, s.RMSE, s.MAE)
}

func TestSummarizePriced(t *testing.T) {
	d1 := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	market := []contracts.PricedResult{
		{Date: d1, Type: contracts.Call, Price: 5},
		{Date: d2, Type: contracts.Call, Price: 6},
	}
	model := []contracts.PricedResult{
		{Date: d1, Type: contracts.Call, Price: 4},
		{Date: d2, Type: contracts.Call, Price: 8},
	}

	s, err := SummarizePriced("call market vs baseline", market, model)
	require.NoError(t, err)
	assert.Equal(t, 2, s.SampleCount)
	assert.InDelta(t, 1.5, s.MAE, 1e-12)

	t.Run("misaligned date", func(t *testing.T) {
		_, err := SummarizePriced("x", market, []contracts.PricedResult{model[1], model[0]})
		assert.ErrorIs(t, err, ErrMisaligned)
	})

	t.Run("misaligned type", func(t *testing.T) {
		put := []contracts.PricedResult{
			{Date: d1, Type: contracts.Put, Price: 4},
			{Date: d2, Type: contracts.Call, Price: 8},
		}
		_, err := SummarizePriced("x", market, put)
		assert.ErrorIs(t, err, ErrMisaligned)
	})

	t.Run("length", func(t *testing.T) {
		_, err := SummarizePriced("x", market, model[:1])
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := SummarizePriced("x", nil, nil)
		assert.ErrorIs(t, err, ErrEmptySeries)
	})
}
