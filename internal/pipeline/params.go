package pipeline

import (
	"github.com/wonny/optlab/backend/internal/chain"
	"github.com/wonny/optlab/backend/internal/runconfig"
	"github.com/wonny/optlab/backend/internal/volatility"
)

// Params carries every constant the two pricing paths need
type Params struct {
	RiskFreeRate     float64
	TimeToMaturity   float64 // years, historical path only
	StrikeMultiplier float64 // K = S * multiplier, historical path only
	Alpha            float64
	Volatility       volatility.Config
	Chain            chain.Config
}

// DefaultParams mirrors runconfig.Default()
func DefaultParams() Params {
	return ParamsFrom(runconfig.Default())
}

// ParamsFrom maps a run file onto pipeline parameters
func ParamsFrom(rc *runconfig.Config) Params {
	return Params{
		RiskFreeRate:     rc.Pricing.RiskFreeRate,
		TimeToMaturity:   rc.Pricing.TimeToMaturityYears,
		StrikeMultiplier: rc.Pricing.StrikeMultiplier,
		Alpha:            rc.Sentiment.Alpha,
		Volatility: volatility.Config{
			Window:      rc.Volatility.Window,
			TradingDays: rc.Volatility.TradingDays,
		},
		Chain: chain.Config{
			MinDTE:             rc.Chain.MinDTE,
			MaxDTE:             rc.Chain.MaxDTE,
			MoneynessTolerance: rc.Chain.MoneynessTolerance,
		},
	}
}
