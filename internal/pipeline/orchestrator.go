package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/optlab/backend/internal/chain"
	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/sentiment"
	"github.com/wonny/optlab/backend/internal/volatility"
	"github.com/wonny/optlab/backend/pkg/logger"
)

// ChainStreamer pushes raw chain rows within a date range into a sink
type ChainStreamer interface {
	Stream(ctx context.Context, from, to time.Time, sink contracts.ChainSink) (scanned, forwarded int, err error)
}

// SentimentLoader builds the daily sentiment lookup
type SentimentLoader interface {
	Load(ctx context.Context, ticker string, from, to time.Time) (sentiment.Table, error)
}

// RunConfig identifies one run
type RunConfig struct {
	RunID  string
	Ticker string
	From   time.Time
	To     time.Time
	Params Params
}

// RunResult holds everything one run produced
type RunResult struct {
	RunID           string
	Ticker          string
	CompletedStages []contracts.Stage
	Stages          []contracts.StageResult
	Volatility      []contracts.VolatilityPoint
	Selected        []contracts.SelectedOptionQuote
	Historical      []contracts.HistoricalRow
	Options         []contracts.OptionRow
	Summaries       []contracts.EvaluationSummary
	SentimentDays   int
	Duration        time.Duration

	table sentiment.Table
}

// Orchestrator wires the data sources to the pricing paths
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	prices    contracts.PriceSource
	chain     ChainStreamer
	sentiment SentimentLoader
	logger    *logger.Logger
}

// NewOrchestrator creates an orchestrator. Any source may be nil when its path is unused;
// a nil sentiment loader means every date is neutral.
func NewOrchestrator(prices contracts.PriceSource, chainSrc ChainStreamer, sent SentimentLoader, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		prices:    prices,
		chain:     chainSrc,
		sentiment: sent,
		logger:    log,
	}
}

// RunHistorical: prices → volatility → sentiment → baseline/adjusted pricing → evaluation
func (o *Orchestrator) RunHistorical(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	start := time.Now()
	result := o.newResult(cfg, "historical")

	if o.prices == nil {
		return nil, fmt.Errorf("historical run needs a price source")
	}

	// S0: prices
	stageStart := time.Now()
	prices, err := o.prices.FetchPrices(ctx, cfg.Ticker, cfg.From, cfg.To)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		o.logger.WithError(err).Warn("Price acquisition failed, continuing with an empty series")
		prices = nil
	}
	result.record(contracts.StagePrices, 0, len(prices), stageStart, err)

	// S1: volatility
	stageStart = time.Now()
	points, err := volatility.NewEstimator(cfg.Params.Volatility, o.logger).Estimate(prices)
	if err != nil {
		return nil, fmt.Errorf("volatility stage failed: %w", err)
	}
	result.Volatility = points
	result.record(contracts.StageVolatility, len(prices), len(points), stageStart, nil)

	// S3: sentiment
	if err := o.sentimentStage(ctx, cfg, result); err != nil {
		return nil, err
	}

	// S4: pricing
	stageStart = time.Now()
	rows, err := PriceHistorical(points, result.table, cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("pricing stage failed: %w", err)
	}
	result.Historical = rows
	result.record(contracts.StagePricing, len(points), len(rows), stageStart, nil)

	// S5: evaluation
	if len(rows) == 0 {
		o.logger.WithField("prices", len(prices)).Warn("No volatility points, skipping evaluation")
	} else {
		stageStart = time.Now()
		summaries, err := SummarizeHistorical(rows)
		if err != nil {
			return nil, fmt.Errorf("evaluation stage failed: %w", err)
		}
		result.Summaries = summaries
		result.record(contracts.StageEvaluation, len(rows), len(summaries), stageStart, nil)
	}

	return o.finish(result, start), nil
}

// RunOptions: chain → selection → sentiment → baseline/adjusted pricing → evaluation vs market
func (o *Orchestrator) RunOptions(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	start := time.Now()
	result := o.newResult(cfg, "options")

	if o.chain == nil {
		return nil, fmt.Errorf("options run needs a chain source")
	}

	// S2: chain
	stageStart := time.Now()
	selector := chain.NewSelector(cfg.Params.Chain, o.logger)
	scanned, _, err := o.chain.Stream(ctx, cfg.From, cfg.To, selector)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// rows already forwarded are kept; selection runs over what was read
		o.logger.WithError(err).Warn("Chain acquisition failed, selecting from rows read so far")
	}
	result.Selected = selector.Finish()
	result.record(contracts.StageChain, scanned, len(result.Selected), stageStart, err)

	// S3: sentiment
	if err := o.sentimentStage(ctx, cfg, result); err != nil {
		return nil, err
	}

	// S4: pricing
	stageStart = time.Now()
	rows, err := PriceOptions(result.Selected, result.table, cfg.Params)
	if err != nil {
		return nil, fmt.Errorf("pricing stage failed: %w", err)
	}
	result.Options = rows
	result.record(contracts.StagePricing, len(result.Selected), len(rows), stageStart, nil)

	// S5: evaluation
	if len(rows) == 0 {
		o.logger.Warn("No option quotes selected, skipping evaluation")
	} else {
		stageStart = time.Now()
		summaries, err := SummarizeOptions(rows)
		if err != nil {
			return nil, fmt.Errorf("evaluation stage failed: %w", err)
		}
		result.Summaries = summaries
		result.record(contracts.StageEvaluation, len(rows), len(summaries), stageStart, nil)
	}

	return o.finish(result, start), nil
}

// sentimentStage loads the daily table; a nil loader means every date is neutral
func (o *Orchestrator) sentimentStage(ctx context.Context, cfg RunConfig, result *RunResult) error {
	stageStart := time.Now()
	table := sentiment.NewTable(nil)
	if o.sentiment != nil {
		loaded, err := o.sentiment.Load(ctx, cfg.Ticker, cfg.From, cfg.To)
		if err != nil {
			return fmt.Errorf("sentiment stage failed: %w", err)
		}
		table = loaded
	}
	result.table = table
	result.SentimentDays = table.Len()
	result.record(contracts.StageSentiment, 0, table.Len(), stageStart, nil)
	return nil
}

// record appends a completed stage. A non-nil err marks an upstream failure
// that was downgraded to an empty stage.
func (r *RunResult) record(stage contracts.Stage, in, out int, started time.Time, err error) {
	sr := contracts.StageResult{
		Stage:       stage,
		Success:     err == nil,
		InputCount:  in,
		OutputCount: out,
		Duration:    time.Since(started).Milliseconds(),
	}
	if err != nil {
		sr.Error = err.Error()
	}
	r.CompletedStages = append(r.CompletedStages, stage)
	r.Stages = append(r.Stages, sr)
}

func (o *Orchestrator) newResult(cfg RunConfig, path string) *RunResult {
	o.logger.WithFields(map[string]interface{}{
		"run_id": cfg.RunID,
		"path":   path,
		"ticker": cfg.Ticker,
		"from":   contracts.DateKey(cfg.From),
		"to":     contracts.DateKey(cfg.To),
		"alpha":  cfg.Params.Alpha,
	}).Info("Starting pipeline run")

	return &RunResult{
		RunID:           cfg.RunID,
		Ticker:          cfg.Ticker,
		CompletedStages: make([]contracts.Stage, 0, 5),
		Stages:          make([]contracts.StageResult, 0, 5),
	}
}

func (o *Orchestrator) finish(result *RunResult, start time.Time) *RunResult {
	result.Duration = time.Since(start)

	o.logger.WithFields(map[string]interface{}{
		"run_id":    result.RunID,
		"stages":    result.CompletedStages,
		"summaries": len(result.Summaries),
		"duration":  result.Duration.String(),
	}).Info("Pipeline run completed")

	return result
}
