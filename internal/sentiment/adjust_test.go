package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustVolatility(t *testing.T) {
	tests := []struct {
		name  string
		base  float64
		score float64
		alpha float64
		want  float64
	}{
		{"positive sentiment", 0.3, 0.5, 0.1, 0.315},
		{"negative sentiment", 0.3, -1.0, 0.1, 0.27},
		{"neutral", 0.3, 0, 0.1, 0.3},
		{"zero alpha", 0.3, 1.0, 0, 0.3},
		{"floored", 0.2, -1.0, 2.0, MinAdjustedVol},
		{"zero base", 0, 0.5, 0.1, MinAdjustedVol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AdjustVolatility(tt.base, tt.score, tt.alpha), 1e-12)
		})
	}
}

func TestAdjustVolatility_MonotonicInScore(t *testing.T) {
	prev := AdjustVolatility(0.25, -1, 0.1)
	for s := -0.9; s <= 1.0; s += 0.1 {
		cur := AdjustVolatility(0.25, s, 0.1)
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestAdjustVolatility_NeverBelowFloor(t *testing.T) {
	for _, base := range []float64{0, 1e-6, 0.1, 1} {
		for _, score := range []float64{-1, 0, 1} {
			for _, alpha := range []float64{0, 0.1, 5} {
				assert.GreaterOrEqual(t, AdjustVolatility(base, score, alpha), MinAdjustedVol)
			}
		}
	}
}
