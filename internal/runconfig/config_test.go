package runconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, 0.05, cfg.Pricing.RiskFreeRate)
	assert.InDelta(t, 30.0/365.0, cfg.Pricing.TimeToMaturityYears, 1e-12)
	assert.Equal(t, 1.0, cfg.Pricing.StrikeMultiplier)
	assert.Equal(t, 0.1, cfg.Sentiment.Alpha)
	assert.Equal(t, 30, cfg.Volatility.Window)
	assert.Equal(t, 252, cfg.Volatility.TradingDays)
	assert.Equal(t, 20.0, cfg.Chain.MinDTE)
	assert.Equal(t, 40.0, cfg.Chain.MaxDTE)
	assert.Equal(t, 0.05, cfg.Chain.MoneynessTolerance)
	assert.Equal(t, 100_000, cfg.Data.ChunkSize)
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
meta:
  ticker: AAPL
  from: "2021-01-01"
  to: "2021-06-30"
sentiment:
  alpha: 0.25
chain:
  min_dte: 10
  max_dte: 50
`))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", cfg.Meta.Ticker)
	assert.Equal(t, 0.25, cfg.Sentiment.Alpha)
	assert.Equal(t, 10.0, cfg.Chain.MinDTE)
	// untouched sections keep defaults
	assert.Equal(t, 30, cfg.Volatility.Window)
	assert.Equal(t, 2021, cfg.FromDate().Year())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse([]byte("pricing:\n  risk_free: 0.03\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing ticker", func(c *Config) { c.Meta.Ticker = "" }, "meta.ticker"},
		{"bad date", func(c *Config) { c.Meta.From = "01/02/2021" }, "meta.from"},
		{"reversed range", func(c *Config) { c.Meta.From, c.Meta.To = "2022-01-01", "2021-01-01" }, "meta.to"},
		{"window too small", func(c *Config) { c.Volatility.Window = 1 }, "volatility.window"},
		{"negative alpha", func(c *Config) { c.Sentiment.Alpha = -0.1 }, "sentiment.alpha"},
		{"zero ttm", func(c *Config) { c.Pricing.TimeToMaturityYears = 0 }, "pricing.time_to_maturity_years"},
		{"dte bounds", func(c *Config) { c.Chain.MaxDTE = 10 }, "chain.max_dte"},
		{"unknown source", func(c *Config) { c.Data.PriceSource = "bloomberg" }, "data.price_source"},
		{"zero chunk", func(c *Config) { c.Data.ChunkSize = 0 }, "data.chunk_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var ve ValidationError
			require.True(t, errors.As(err, &ve), "got %T", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestRequireInputs(t *testing.T) {
	cfg := Default()
	assert.Error(t, RequireHistoricalInputs(cfg))
	assert.Error(t, RequireOptionInputs(cfg))

	cfg.Data.PricesFile = "prices.csv"
	cfg.Data.ChainFile = "chain.csv"
	assert.NoError(t, RequireHistoricalInputs(cfg))
	assert.NoError(t, RequireOptionInputs(cfg))

	cfg.Data.NewsSource = SourceCSV
	assert.Error(t, RequireOptionInputs(cfg))
}

func TestLoadAndHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("meta:\n  ticker: NVDA\n  from: \"2020-01-01\"\n  to: \"2020-12-31\"\n"), 0o600))

	cfg, raw, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	h1, err := Hash(cfg)
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, _ := Hash(cfg)
	assert.Equal(t, h1, h2)

	cfg.Sentiment.Alpha = 0.2
	h3, _ := Hash(cfg)
	assert.NotEqual(t, h1, h3)
}
