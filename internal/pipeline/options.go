package pipeline

import (
	"fmt"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/evaluation"
	"github.com/wonny/optlab/backend/internal/pricing"
	"github.com/wonny/optlab/backend/internal/sentiment"
)

// Comparison names for the option-chain path; labels are "<type> <comparison>"
const (
	CompareBaselineVsAdjusted = "baseline vs adjusted"
	CompareMarketVsBaseline   = "market vs baseline"
	CompareMarketVsAdjusted   = "market vs adjusted"
)

// PriceOptions prices every selected quote with its implied vol and with the adjusted vol
func PriceOptions(quotes []contracts.SelectedOptionQuote, table sentiment.Table, p Params) ([]contracts.OptionRow, error) {
	rows := make([]contracts.OptionRow, 0, len(quotes))

	for _, q := range quotes {
		score := table.ScoreOr(q.Date)
		adjusted := sentiment.AdjustVolatility(q.ImpliedVol, score, p.Alpha)

		baseline, err := pricing.Price(q.Type, q.Spot, q.Strike, q.TimeToMaturity, p.RiskFreeRate, q.ImpliedVol)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", contracts.DateKey(q.Date), q.Type, err)
		}
		adj, err := pricing.Price(q.Type, q.Spot, q.Strike, q.TimeToMaturity, p.RiskFreeRate, adjusted)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", contracts.DateKey(q.Date), q.Type, err)
		}

		rows = append(rows, contracts.OptionRow{
			Quote:         q,
			Sentiment:     score,
			AdjustedVol:   adjusted,
			BaselinePrice: baseline,
			AdjustedPrice: adj,
		})
	}

	return rows, nil
}

// SummarizeOptions emits three comparisons per contract type present in rows.
// Market price is y_true wherever it participates.
func SummarizeOptions(rows []contracts.OptionRow) ([]contracts.EvaluationSummary, error) {
	var summaries []contracts.EvaluationSummary

	for _, ct := range []contracts.ContractType{contracts.Call, contracts.Put} {
		var market, baseline, adjusted []contracts.PricedResult
		for _, r := range rows {
			if r.Quote.Type != ct {
				continue
			}
			market = append(market, r.Market())
			baseline = append(baseline, r.Baseline())
			adjusted = append(adjusted, r.Adjusted())
		}
		if len(market) == 0 {
			continue
		}

		pairs := []struct {
			label string
			yTrue []contracts.PricedResult
			yPred []contracts.PricedResult
		}{
			{CompareBaselineVsAdjusted, baseline, adjusted},
			{CompareMarketVsBaseline, market, baseline},
			{CompareMarketVsAdjusted, market, adjusted},
		}
		for _, pair := range pairs {
			s, err := evaluation.SummarizePriced(fmt.Sprintf("%s %s", ct, pair.label), pair.yTrue, pair.yPred)
			if err != nil {
				return nil, err
			}
			summaries = append(summaries, s)
		}
	}

	return summaries, nil
}

// Options runs pricing and evaluation over already-selected quotes
func Options(quotes []contracts.SelectedOptionQuote, table sentiment.Table, p Params) ([]contracts.OptionRow, []contracts.EvaluationSummary, error) {
	rows, err := PriceOptions(quotes, table, p)
	if err != nil {
		return nil, nil, fmt.Errorf("pricing: %w", err)
	}

	summaries, err := SummarizeOptions(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("evaluation: %w", err)
	}
	return rows, summaries, nil
}
