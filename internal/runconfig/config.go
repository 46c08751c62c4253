package runconfig

import (
	"time"

	"github.com/wonny/optlab/backend/internal/contracts"
)

// Config is one experiment run: what to load and how to price it
type Config struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Data       Data       `yaml:"data" json:"data"`
	Pricing    Pricing    `yaml:"pricing" json:"pricing"`
	Sentiment  Sentiment  `yaml:"sentiment" json:"sentiment"`
	Volatility Volatility `yaml:"volatility" json:"volatility"`
	Chain      Chain      `yaml:"chain" json:"chain"`
}

// Meta identifies the run
type Meta struct {
	RunID  string `yaml:"run_id" json:"run_id"`
	Ticker string `yaml:"ticker" json:"ticker" validate:"required"`
	From   string `yaml:"from" json:"from" validate:"required,datetime=2006-01-02"`
	To     string `yaml:"to" json:"to" validate:"required,datetime=2006-01-02"`
}

// Price and news source kinds
const (
	SourceCSV      = "csv"
	SourceYahoo    = "yahoo"
	SourcePostgres = "postgres"
	SourceNone     = "none"
)

// Data selects the input adapters
type Data struct {
	PriceSource string `yaml:"price_source" json:"price_source" validate:"oneof=csv yahoo postgres"`
	NewsSource  string `yaml:"news_source" json:"news_source" validate:"oneof=csv yahoo none"`
	PricesFile  string `yaml:"prices_file" json:"prices_file"`
	NewsFile    string `yaml:"news_file" json:"news_file"`
	ChainFile   string `yaml:"chain_file" json:"chain_file"`
	ChunkSize   int    `yaml:"chunk_size" json:"chunk_size" validate:"gt=0"`
}

// Pricing holds Black-Scholes constants for the historical path
type Pricing struct {
	RiskFreeRate        float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
	TimeToMaturityYears float64 `yaml:"time_to_maturity_years" json:"time_to_maturity_years" validate:"gt=0"`
	StrikeMultiplier    float64 `yaml:"strike_multiplier" json:"strike_multiplier" validate:"gt=0"`
}

// Sentiment holds the volatility transform sensitivity
type Sentiment struct {
	Alpha float64 `yaml:"alpha" json:"alpha" validate:"gte=0"`
}

// Volatility holds rolling-window parameters
type Volatility struct {
	Window      int `yaml:"window" json:"window" validate:"gte=2"`
	TradingDays int `yaml:"trading_days" json:"trading_days" validate:"gt=0"`
}

// Chain holds option-selection filters
type Chain struct {
	MinDTE             float64 `yaml:"min_dte" json:"min_dte" validate:"gte=0"`
	MaxDTE             float64 `yaml:"max_dte" json:"max_dte" validate:"gtefield=MinDTE"`
	MoneynessTolerance float64 `yaml:"moneyness_tolerance" json:"moneyness_tolerance" validate:"gte=0"`
}

// Default returns the reference experiment: NVDA, 30-day ATM, alpha 0.1
func Default() *Config {
	return &Config{
		Meta: Meta{
			RunID:  "default",
			Ticker: "NVDA",
			From:   "2020-01-01",
			To:     "2022-12-31",
		},
		Data: Data{
			PriceSource: SourceCSV,
			NewsSource:  SourceNone,
			ChunkSize:   100_000,
		},
		Pricing: Pricing{
			RiskFreeRate:        0.05,
			TimeToMaturityYears: 30.0 / 365.0,
			StrikeMultiplier:    1.0,
		},
		Sentiment: Sentiment{
			Alpha: 0.1,
		},
		Volatility: Volatility{
			Window:      30,
			TradingDays: 252,
		},
		Chain: Chain{
			MinDTE:             20,
			MaxDTE:             40,
			MoneynessTolerance: 0.05,
		},
	}
}

// FromDate returns Meta.From as a date; zero if unparseable
func (c *Config) FromDate() time.Time {
	t, _ := time.Parse(contracts.DateLayout, c.Meta.From)
	return t
}

// ToDate returns Meta.To as a date; zero if unparseable
func (c *Config) ToDate() time.Time {
	t, _ := time.Parse(contracts.DateLayout, c.Meta.To)
	return t
}
