package volatility

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/pkg/logger"
)

var (
	// ErrNonPositivePrice is returned when a close cannot produce a real log return
	ErrNonPositivePrice = errors.New("non-positive price in series")
	// ErrInvalidWindow is returned for a rolling window that cannot yield a sample stdev
	ErrInvalidWindow = errors.New("rolling window must be at least 2")
)

// Config holds estimator parameters
type Config struct {
	Window      int // rolling window of log returns
	TradingDays int // annualization factor
}

// DefaultConfig returns the 30-day / 252-trading-day configuration
func DefaultConfig() Config {
	return Config{
		Window:      30,
		TradingDays: 252,
	}
}

// Estimator turns a close series into annualized rolling volatility
// ⭐ SSOT: 역사적 변동성 계산은 여기서만
type Estimator struct {
	cfg    Config
	logger *logger.Logger
}

// NewEstimator creates a new estimator
func NewEstimator(cfg Config, log *logger.Logger) *Estimator {
	return &Estimator{cfg: cfg, logger: log}
}

// Estimate returns one point per date with a full window of prior log returns.
// A series with fewer than Window+1 prices yields an empty result.
func (e *Estimator) Estimate(prices []contracts.PricePoint) ([]contracts.VolatilityPoint, error) {
	points, err := Estimate(prices, e.cfg)
	if err != nil {
		return nil, err
	}

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"prices": len(prices),
			"points": len(points),
			"window": e.cfg.Window,
		}).Debug("Estimated historical volatility")
	}

	return points, nil
}

// Estimate is the pure form of Estimator.Estimate
func Estimate(prices []contracts.PricePoint, cfg Config) ([]contracts.VolatilityPoint, error) {
	if cfg.Window < 2 {
		return nil, ErrInvalidWindow
	}
	if cfg.TradingDays <= 0 {
		return nil, fmt.Errorf("trading days must be positive, got %d", cfg.TradingDays)
	}

	returns, err := LogReturns(prices)
	if err != nil {
		return nil, err
	}

	// returns[i] is the log return ending at prices[i+1]
	if len(returns) < cfg.Window {
		return []contracts.VolatilityPoint{}, nil
	}

	scale := math.Sqrt(float64(cfg.TradingDays))
	points := make([]contracts.VolatilityPoint, 0, len(returns)-cfg.Window+1)

	for end := cfg.Window; end <= len(returns); end++ {
		window := returns[end-cfg.Window : end]
		p := prices[end]

		points = append(points, contracts.VolatilityPoint{
			Date:                 p.Date,
			Close:                p.Close,
			LogReturn:            returns[end-1],
			AnnualizedVolatility: stat.StdDev(window, nil) * scale,
		})
	}

	return points, nil
}

// LogReturns returns ln(p[t]/p[t-1]) for t >= 1
func LogReturns(prices []contracts.PricePoint) ([]float64, error) {
	for i, p := range prices {
		if !(p.Close > 0) || math.IsInf(p.Close, 0) {
			return nil, fmt.Errorf("%w: index %d (%s) close=%v",
				ErrNonPositivePrice, i, contracts.DateKey(p.Date), p.Close)
		}
	}

	if len(prices) < 2 {
		return []float64{}, nil
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = math.Log(prices[i].Close / prices[i-1].Close)
	}
	return returns, nil
}
