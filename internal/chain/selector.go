package chain

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/pkg/logger"
)

// DaysPerYear converts days-to-expiry into years
const DaysPerYear = 365.0

// percentIVThreshold: a mean IV above this means the feed quotes percent points
const percentIVThreshold = 2.0

// Config controls which chain rows are eligible
type Config struct {
	MinDTE             float64 `json:"min_dte"`
	MaxDTE             float64 `json:"max_dte"`
	MoneynessTolerance float64 `json:"moneyness_tolerance"`
}

// DefaultConfig returns the 20-40 DTE, 5% moneyness window
func DefaultConfig() Config {
	return Config{
		MinDTE:             20,
		MaxDTE:             40,
		MoneynessTolerance: 0.05,
	}
}

// Eligible reports whether a raw row passes the date, DTE and moneyness filters
func (c Config) Eligible(q contracts.RawOptionQuote) bool {
	if q.QuoteDate == nil {
		return false
	}
	if math.IsNaN(q.DaysToExpiry) || q.DaysToExpiry < c.MinDTE || q.DaysToExpiry > c.MaxDTE {
		return false
	}
	if !(q.UnderlyingSpot > 0) || math.IsInf(q.UnderlyingSpot, 0) || math.IsNaN(q.Strike) {
		return false
	}
	return q.Moneyness() <= c.MoneynessTolerance
}

// group holds the eligible rows of one quote date in arrival order
type group struct {
	date time.Time
	spot float64
	rows []contracts.RawOptionQuote
}

// Selector picks one near-the-money call and put per quote date.
// Rows are filtered on arrival, so memory tracks the eligible subset only.
// ⭐ SSOT: 옵션 체인 선택 로직은 여기서만
type Selector struct {
	cfg    Config
	logger *logger.Logger

	groups map[string]*group
	order  []string
	seen   int
}

// NewSelector creates a streaming selector
func NewSelector(cfg Config, log *logger.Logger) *Selector {
	if log == nil {
		log = logger.Nop()
	}
	return &Selector{
		cfg:    cfg,
		logger: log,
		groups: make(map[string]*group),
	}
}

// Add offers one raw row; ineligible rows are discarded immediately
func (s *Selector) Add(q contracts.RawOptionQuote) {
	s.seen++
	if !s.cfg.Eligible(q) {
		return
	}

	date := contracts.Day(*q.QuoteDate)
	key := contracts.DateKey(date)
	g, ok := s.groups[key]
	if !ok {
		// first eligible row fixes the group's reference spot
		g = &group{date: date, spot: q.UnderlyingSpot}
		s.groups[key] = g
		s.order = append(s.order, key)
	}
	g.rows = append(g.rows, q)
}

// Finish selects per date and type, drops non-finite values and normalizes percent IVs
func (s *Selector) Finish() []contracts.SelectedOptionQuote {
	selected := make([]contracts.SelectedOptionQuote, 0, 2*len(s.order))

	// output is date-ordered regardless of input order
	keys := append([]string(nil), s.order...)
	sort.Strings(keys)

	for _, key := range keys {
		g := s.groups[key]
		for _, ct := range []contracts.ContractType{contracts.Call, contracts.Put} {
			q, ok := pickNearest(g, ct)
			if ok {
				selected = append(selected, q)
			}
		}
	}

	selected = dropNonFinite(selected)
	normalized := NormalizeImpliedVol(selected)

	fields := map[string]interface{}{
		"rows_seen":  s.seen,
		"dates":      len(s.order),
		"selected":   len(selected),
		"normalized": normalized,
	}
	if len(selected) > 0 {
		fields["mean_iv"] = meanIV(selected)
	}
	s.logger.WithFields(fields).Info("Option chain selection complete")

	return selected
}

// pickNearest returns the leg with minimum |strike - spot|; the earliest row wins ties
func pickNearest(g *group, ct contracts.ContractType) (contracts.SelectedOptionQuote, bool) {
	var (
		best     contracts.SelectedOptionQuote
		bestDist = math.Inf(1)
		found    bool
	)

	for _, row := range g.rows {
		price, iv := row.Leg(ct)
		if price == nil || iv == nil {
			continue
		}
		dist := math.Abs(row.Strike - g.spot)
		if dist < bestDist {
			bestDist = dist
			found = true
			best = contracts.SelectedOptionQuote{
				Date:           g.date,
				Type:           ct,
				MarketPrice:    *price,
				ImpliedVol:     *iv,
				Strike:         row.Strike,
				Spot:           g.spot,
				TimeToMaturity: row.DaysToExpiry / DaysPerYear,
			}
		}
	}

	return best, found
}

func dropNonFinite(in []contracts.SelectedOptionQuote) []contracts.SelectedOptionQuote {
	out := in[:0]
	for _, q := range in {
		if finite(q.MarketPrice) && finite(q.ImpliedVol) && finite(q.Strike) &&
			finite(q.Spot) && finite(q.TimeToMaturity) {
			out = append(out, q)
		}
	}
	return out
}

// NormalizeImpliedVol divides every IV by 100 when the set's mean exceeds 2.
// Returns whether the rescale was applied.
func NormalizeImpliedVol(quotes []contracts.SelectedOptionQuote) bool {
	if len(quotes) == 0 || meanIV(quotes) <= percentIVThreshold {
		return false
	}
	for i := range quotes {
		quotes[i].ImpliedVol /= 100
	}
	return true
}

func meanIV(quotes []contracts.SelectedOptionQuote) float64 {
	ivs := make([]float64, len(quotes))
	for i, q := range quotes {
		ivs[i] = q.ImpliedVol
	}
	return stat.Mean(ivs, nil)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Select runs the selector over an in-memory chain
func Select(rows []contracts.RawOptionQuote, cfg Config, log *logger.Logger) []contracts.SelectedOptionQuote {
	s := NewSelector(cfg, log)
	for _, row := range rows {
		s.Add(row)
	}
	return s.Finish()
}
