package pricing

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wonny/optlab/backend/internal/contracts"
)

// ErrInvalidInput is returned for inputs the model cannot price (negative spot or strike, NaN)
var ErrInvalidInput = errors.New("invalid pricing input")

// Inputs holds the model parameters for one contract
type Inputs struct {
	Type   contracts.ContractType `json:"type"`
	Spot   float64                `json:"spot"`
	Strike float64                `json:"strike"`
	TTM    float64                `json:"ttm"`  // years
	Rate   float64                `json:"rate"` // annualized, continuous
	Vol    float64                `json:"vol"`  // annualized, decimal
}

// Price returns the European Black-Scholes price of a call or put.
//
// Expired (T <= 0) or zero-uncertainty (sigma <= 0) contracts price at 0.0
// before any other check. The result is always finite and non-negative.
// ⭐ SSOT: 옵션 가격 계산은 여기서만
func Price(ct contracts.ContractType, S, K, T, r, sigma float64) (float64, error) {
	if T <= 0 || sigma <= 0 {
		return 0.0, nil
	}

	if err := validate(ct, S, K, T, r, sigma); err != nil {
		return 0, err
	}

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	discountedK := K * math.Exp(-r*T)

	var value float64
	if ct == contracts.Call {
		value = S*normCDF(d1) - discountedK*normCDF(d2)
	} else {
		value = discountedK*normCDF(-d2) - S*normCDF(-d1)
	}

	// cancellation deep out of the money can leave a tiny negative residue
	if value < 0 || math.IsNaN(value) {
		return 0.0, nil
	}
	return value, nil
}

// PriceInputs is Price over an Inputs value
func PriceInputs(in Inputs) (float64, error) {
	return Price(in.Type, in.Spot, in.Strike, in.TTM, in.Rate, in.Vol)
}

// Call prices a European call
func Call(S, K, T, r, sigma float64) (float64, error) {
	return Price(contracts.Call, S, K, T, r, sigma)
}

// Put prices a European put
func Put(S, K, T, r, sigma float64) (float64, error) {
	return Price(contracts.Put, S, K, T, r, sigma)
}

func validate(ct contracts.ContractType, S, K, T, r, sigma float64) error {
	if ct != contracts.Call && ct != contracts.Put {
		return fmt.Errorf("%w: contract type %q", ErrInvalidInput, ct)
	}
	if !(S > 0) || math.IsInf(S, 0) {
		return fmt.Errorf("%w: spot=%v", ErrInvalidInput, S)
	}
	if !(K > 0) || math.IsInf(K, 0) {
		return fmt.Errorf("%w: strike=%v", ErrInvalidInput, K)
	}
	if math.IsNaN(r) || math.IsInf(r, 0) || math.IsInf(T, 0) || math.IsInf(sigma, 0) || math.IsNaN(T) || math.IsNaN(sigma) {
		return fmt.Errorf("%w: ttm=%v rate=%v vol=%v", ErrInvalidInput, T, r, sigma)
	}
	return nil
}

// normCDF is the standard normal cumulative distribution function
func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}
