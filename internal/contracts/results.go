package contracts

import "time"

// PricedResult is one price keyed by date and contract type.
// Model prices and observed market prices share this shape so they can be aligned.
type PricedResult struct {
	Date  time.Time    `json:"date"`
	Type  ContractType `json:"type"`
	Price float64      `json:"price"`
}

// EvaluationSummary compares two aligned price series
type EvaluationSummary struct {
	Label       string  `json:"label"`
	SampleCount int     `json:"sample_count"`
	MAE         float64 `json:"mae"`
	RMSE        float64 `json:"rmse"`
}

// HistoricalRow is one date of the historical-volatility pricing path
type HistoricalRow struct {
	Date              time.Time `json:"date"`
	Spot              float64   `json:"spot"`
	Strike            float64   `json:"strike"`
	TimeToMaturity    float64   `json:"time_to_maturity"`
	HistoricalVol     float64   `json:"historical_vol"`
	Sentiment         float64   `json:"sentiment"`
	AdjustedVol       float64   `json:"adjusted_vol"`
	BaselineCallPrice float64   `json:"baseline_call_price"`
	AdjustedCallPrice float64   `json:"adjusted_call_price"`
	BaselinePutPrice  float64   `json:"baseline_put_price"`
	AdjustedPutPrice  float64   `json:"adjusted_put_price"`
}

// OptionRow is one selected market quote priced both ways
type OptionRow struct {
	Quote         SelectedOptionQuote `json:"quote"`
	Sentiment     float64             `json:"sentiment"`
	AdjustedVol   float64             `json:"adjusted_vol"`
	BaselinePrice float64             `json:"baseline_price"`
	AdjustedPrice float64             `json:"adjusted_price"`
}

// Baseline returns the historical-vol price of one leg
func (r HistoricalRow) Baseline(ct ContractType) PricedResult {
	if ct == Put {
		return PricedResult{Date: r.Date, Type: Put, Price: r.BaselinePutPrice}
	}
	return PricedResult{Date: r.Date, Type: Call, Price: r.BaselineCallPrice}
}

// Adjusted returns the sentiment-adjusted price of one leg
func (r HistoricalRow) Adjusted(ct ContractType) PricedResult {
	if ct == Put {
		return PricedResult{Date: r.Date, Type: Put, Price: r.AdjustedPutPrice}
	}
	return PricedResult{Date: r.Date, Type: Call, Price: r.AdjustedCallPrice}
}

// Market returns the observed quote
func (r OptionRow) Market() PricedResult {
	return PricedResult{Date: r.Quote.Date, Type: r.Quote.Type, Price: r.Quote.MarketPrice}
}

// Baseline returns the implied-vol model price
func (r OptionRow) Baseline() PricedResult {
	return PricedResult{Date: r.Quote.Date, Type: r.Quote.Type, Price: r.BaselinePrice}
}

// Adjusted returns the sentiment-adjusted model price
func (r OptionRow) Adjusted() PricedResult {
	return PricedResult{Date: r.Quote.Date, Type: r.Quote.Type, Price: r.AdjustedPrice}
}
