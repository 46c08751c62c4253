package contracts

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ContractType is the option right
type ContractType string

const (
	Call ContractType = "call"
	Put  ContractType = "put"
)

// ParseContractType accepts call/put in any case, plus c/p
func ParseContractType(s string) (ContractType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	default:
		return "", fmt.Errorf("unknown contract type %q", s)
	}
}

// RawOptionQuote is one strike row of an option chain snapshot
// Price/vol fields are optional: nil means the cell was blank or unparseable.
type RawOptionQuote struct {
	QuoteDate      *time.Time `json:"quote_date"`
	DaysToExpiry   float64    `json:"days_to_expiry"`
	Strike         float64    `json:"strike"`
	UnderlyingSpot float64    `json:"underlying_spot"`
	CallLastPrice  *float64   `json:"call_last_price"`
	CallIV         *float64   `json:"call_iv"`
	PutLastPrice   *float64   `json:"put_last_price"`
	PutIV          *float64   `json:"put_iv"`
}

// Moneyness returns |K-S|/S
func (q RawOptionQuote) Moneyness() float64 {
	return math.Abs(q.Strike-q.UnderlyingSpot) / q.UnderlyingSpot
}

// Leg returns the last price and implied vol for one side of the row
func (q RawOptionQuote) Leg(ct ContractType) (price, iv *float64) {
	if ct == Call {
		return q.CallLastPrice, q.CallIV
	}
	return q.PutLastPrice, q.PutIV
}

// SelectedOptionQuote is the near-the-money contract chosen for a date
type SelectedOptionQuote struct {
	Date           time.Time    `json:"date"`
	Type           ContractType `json:"type"`
	MarketPrice    float64      `json:"market_price"`
	ImpliedVol     float64      `json:"implied_vol"` // decimal after normalization
	Strike         float64      `json:"strike"`
	Spot           float64      `json:"spot"`
	TimeToMaturity float64      `json:"time_to_maturity"` // years
}

// Float returns a pointer to v, used for optional quote fields
func Float(v float64) *float64 {
	return &v
}
