package pipeline

import (
	"fmt"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/evaluation"
	"github.com/wonny/optlab/backend/internal/pricing"
	"github.com/wonny/optlab/backend/internal/sentiment"
	"github.com/wonny/optlab/backend/internal/volatility"
)

// Summary labels for the historical-volatility path
const (
	LabelCallBaselineVsAdjusted = "call baseline vs adjusted"
	LabelPutBaselineVsAdjusted  = "put baseline vs adjusted"
)

// PriceHistorical prices a synthetic ATM call and put for every volatility point,
// once with the historical vol and once with the sentiment-adjusted vol.
func PriceHistorical(points []contracts.VolatilityPoint, table sentiment.Table, p Params) ([]contracts.HistoricalRow, error) {
	rows := make([]contracts.HistoricalRow, 0, len(points))

	for _, pt := range points {
		spot := pt.Close
		strike := spot * p.StrikeMultiplier
		score := table.ScoreOr(pt.Date)
		adjusted := sentiment.AdjustVolatility(pt.AnnualizedVolatility, score, p.Alpha)

		row := contracts.HistoricalRow{
			Date:           pt.Date,
			Spot:           spot,
			Strike:         strike,
			TimeToMaturity: p.TimeToMaturity,
			HistoricalVol:  pt.AnnualizedVolatility,
			Sentiment:      score,
			AdjustedVol:    adjusted,
		}

		var err error
		if row.BaselineCallPrice, err = pricing.Call(spot, strike, p.TimeToMaturity, p.RiskFreeRate, pt.AnnualizedVolatility); err != nil {
			return nil, fmt.Errorf("%s: %w", contracts.DateKey(pt.Date), err)
		}
		if row.AdjustedCallPrice, err = pricing.Call(spot, strike, p.TimeToMaturity, p.RiskFreeRate, adjusted); err != nil {
			return nil, fmt.Errorf("%s: %w", contracts.DateKey(pt.Date), err)
		}
		if row.BaselinePutPrice, err = pricing.Put(spot, strike, p.TimeToMaturity, p.RiskFreeRate, pt.AnnualizedVolatility); err != nil {
			return nil, fmt.Errorf("%s: %w", contracts.DateKey(pt.Date), err)
		}
		if row.AdjustedPutPrice, err = pricing.Put(spot, strike, p.TimeToMaturity, p.RiskFreeRate, adjusted); err != nil {
			return nil, fmt.Errorf("%s: %w", contracts.DateKey(pt.Date), err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// SummarizeHistorical compares baseline (y_true) against adjusted (y_pred) per contract type
func SummarizeHistorical(rows []contracts.HistoricalRow) ([]contracts.EvaluationSummary, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	summaries := make([]contracts.EvaluationSummary, 0, 2)
	for _, leg := range []struct {
		ct    contracts.ContractType
		label string
	}{
		{contracts.Call, LabelCallBaselineVsAdjusted},
		{contracts.Put, LabelPutBaselineVsAdjusted},
	} {
		baseline := make([]contracts.PricedResult, len(rows))
		adjusted := make([]contracts.PricedResult, len(rows))
		for i, r := range rows {
			baseline[i], adjusted[i] = r.Baseline(leg.ct), r.Adjusted(leg.ct)
		}

		s, err := evaluation.SummarizePriced(leg.label, baseline, adjusted)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Historical runs the whole historical path over an in-memory price series
func Historical(prices []contracts.PricePoint, table sentiment.Table, p Params) ([]contracts.HistoricalRow, []contracts.EvaluationSummary, error) {
	points, err := volatility.Estimate(prices, p.Volatility)
	if err != nil {
		return nil, nil, fmt.Errorf("volatility: %w", err)
	}

	rows, err := PriceHistorical(points, table, p)
	if err != nil {
		return nil, nil, fmt.Errorf("pricing: %w", err)
	}

	summaries, err := SummarizeHistorical(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluation: %w", err)
	}
	return rows, summaries, nil
}
