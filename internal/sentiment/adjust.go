package sentiment

import "math"

// MinAdjustedVol floors the adjusted volatility so pricing never sees sigma <= 0
const MinAdjustedVol = 1e-4

// AdjustVolatility scales a base volatility by the day's sentiment:
// adjusted = base * (1 + alpha*score), floored at MinAdjustedVol.
func AdjustVolatility(base, score, alpha float64) float64 {
	return math.Max(base*(1+alpha*score), MinAdjustedVol)
}
