package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/data"
	"github.com/wonny/optlab/backend/internal/external/yahoo"
	"github.com/wonny/optlab/backend/internal/pipeline"
	"github.com/wonny/optlab/backend/internal/runconfig"
	"github.com/wonny/optlab/backend/internal/sentiment"
	"github.com/wonny/optlab/backend/pkg/config"
	"github.com/wonny/optlab/backend/pkg/database"
	"github.com/wonny/optlab/backend/pkg/httputil"
	"github.com/wonny/optlab/backend/pkg/logger"
	"github.com/wonny/optlab/backend/pkg/redis"
)

// runFlags are the per-run overrides shared by historical and options
type runFlags struct {
	ticker      string
	from        string
	to          string
	alpha       float64
	pricesFile  string
	newsFile    string
	chainFile   string
	priceSource string
	newsSource  string
	rows        int
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ticker, "ticker", "", "ticker symbol (overrides meta.ticker)")
	cmd.Flags().StringVar(&f.from, "from", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "end date YYYY-MM-DD")
	cmd.Flags().Float64Var(&f.alpha, "alpha", 0, "sentiment sensitivity (overrides sentiment.alpha)")
	cmd.Flags().StringVar(&f.newsFile, "news", "", "news CSV (Date, Article_title, Stock_symbol); sets news source to csv")
	cmd.Flags().StringVar(&f.newsSource, "news-source", "", "news source: csv | yahoo | none")
	cmd.Flags().IntVar(&f.rows, "rows", 10, "number of trailing rows to print (0 = all)")
}

// apply merges explicitly set flags into the run config
func (f *runFlags) apply(cmd *cobra.Command, rc *runconfig.Config) {
	changed := cmd.Flags().Changed
	if changed("ticker") {
		rc.Meta.Ticker = f.ticker
	}
	if changed("from") {
		rc.Meta.From = f.from
	}
	if changed("to") {
		rc.Meta.To = f.to
	}
	if changed("alpha") {
		rc.Sentiment.Alpha = f.alpha
	}
	if changed("prices") {
		rc.Data.PricesFile = f.pricesFile
		rc.Data.PriceSource = runconfig.SourceCSV
	}
	if changed("source") {
		rc.Data.PriceSource = f.priceSource
	}
	if changed("chain") {
		rc.Data.ChainFile = f.chainFile
	}
	if changed("news") {
		rc.Data.NewsFile = f.newsFile
		rc.Data.NewsSource = runconfig.SourceCSV
	}
	if changed("news-source") {
		rc.Data.NewsSource = f.newsSource
	}
}

// runtimeEnv bundles everything a command needs after startup
type runtimeEnv struct {
	cfg  *config.Config
	log  *logger.Logger
	run  *runconfig.Config
	hash string

	closers []func()
}

func (e *runtimeEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// loadEnv loads env config and logger only
func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// bootstrap loads env config, the run file and applies flag overrides
func bootstrap(cmd *cobra.Command, flags *runFlags) (*runtimeEnv, error) {
	cfg, log, err := loadEnv()
	if err != nil {
		return nil, err
	}

	rc := runconfig.Default()
	rc.Data.ChunkSize = cfg.Data.ChunkSize
	if configFile != "" {
		// run file wins over DATA_CHUNK_SIZE
		rc, _, err = runconfig.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load run config: %w", err)
		}
	}

	if flags != nil {
		flags.apply(cmd, rc)
	}
	if err := runconfig.Validate(rc); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}

	hash, err := runconfig.Hash(rc)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"run_id":      rc.Meta.RunID,
		"ticker":      rc.Meta.Ticker,
		"config_hash": hash,
	}).Debug("Run config loaded")

	return &runtimeEnv{cfg: cfg, log: log, run: rc, hash: hash}, nil
}

func (e *runtimeEnv) runConfig() pipeline.RunConfig {
	return pipeline.RunConfig{
		RunID:  e.run.Meta.RunID,
		Ticker: e.run.Meta.Ticker,
		From:   e.run.FromDate(),
		To:     e.run.ToDate(),
		Params: pipeline.ParamsFrom(e.run),
	}
}

func (e *runtimeEnv) yahooClient() *yahoo.Client {
	return yahoo.NewClient(httputil.New(e.cfg, e.log), e.cfg.Yahoo, e.log)
}

// priceSource builds the configured contracts.PriceSource
func (e *runtimeEnv) priceSource(ctx context.Context) (contracts.PriceSource, error) {
	switch e.run.Data.PriceSource {
	case runconfig.SourceCSV:
		return data.NewPriceCSV(e.run.Data.PricesFile, e.run.Data.ChunkSize, e.log), nil
	case runconfig.SourceYahoo:
		return e.yahooClient(), nil
	case runconfig.SourcePostgres:
		db, err := database.New(ctx, e.cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		e.closers = append(e.closers, db.Close)
		return data.NewPriceRepository(db.Pool), nil
	default:
		return nil, fmt.Errorf("unknown price source %q", e.run.Data.PriceSource)
	}
}

// sentimentLoader builds the news source, scorer and optional Redis cache
func (e *runtimeEnv) sentimentLoader() (*sentiment.Loader, error) {
	var source contracts.NewsSource
	switch e.run.Data.NewsSource {
	case runconfig.SourceCSV:
		source = data.NewNewsCSV(e.run.Data.NewsFile, e.run.Data.ChunkSize, e.log)
	case runconfig.SourceYahoo:
		source = e.yahooClient()
	case runconfig.SourceNone:
		source = nil
	default:
		return nil, fmt.Errorf("unknown news source %q", e.run.Data.NewsSource)
	}

	var cache *redis.Cache
	if source != nil && e.cfg.Redis.Enabled {
		client, err := redis.New(e.cfg)
		if err != nil {
			// 캐시는 선택 사항: 연결 실패 시 캐시 없이 진행
			e.log.WithError(err).Warn("Redis unavailable, sentiment cache disabled")
		} else {
			e.closers = append(e.closers, func() { client.Close() })
			cache = redis.NewCache(client, "optlab")
		}
	}

	aggregator := sentiment.NewAggregator(sentiment.NewDefaultScorer(), e.log)
	return sentiment.NewLoader(source, aggregator, cache, e.log).WithTTL(e.cfg.Redis.TTL), nil
}
