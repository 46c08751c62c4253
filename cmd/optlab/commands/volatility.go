package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/runconfig"
	"github.com/wonny/optlab/backend/internal/volatility"
)

// volatilityCmd represents the volatility command
var volatilityCmd = &cobra.Command{
	Use:   "volatility",
	Short: "Rolling annualized historical volatility",
	Long: `Loads a close series and prints the tail of the rolling volatility series
(window and trading days from the run config).

Example:
  go run ./cmd/optlab volatility --prices data/nvda.csv
  go run ./cmd/optlab volatility --source yahoo --ticker NVDA --from 2023-01-01 --to 2023-12-31 --rows 20`,
	RunE: runVolatility,
}

var volatilityFlags runFlags

func init() {
	rootCmd.AddCommand(volatilityCmd)

	volatilityCmd.Flags().StringVar(&volatilityFlags.pricesFile, "prices", "", "price CSV (Date, Close); sets price source to csv")
	volatilityCmd.Flags().StringVar(&volatilityFlags.priceSource, "source", "", "price source: csv | yahoo | postgres")
	volatilityCmd.Flags().StringVar(&volatilityFlags.ticker, "ticker", "", "ticker symbol")
	volatilityCmd.Flags().StringVar(&volatilityFlags.from, "from", "", "start date YYYY-MM-DD")
	volatilityCmd.Flags().StringVar(&volatilityFlags.to, "to", "", "end date YYYY-MM-DD")
	volatilityCmd.Flags().IntVar(&volatilityFlags.rows, "rows", 10, "number of trailing rows to print (0 = all)")
}

func runVolatility(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd, &volatilityFlags)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.run.Data.PriceSource == runconfig.SourceCSV && rt.run.Data.PricesFile == "" {
		return runconfig.ValidationError{Field: "data.prices_file", Message: "required when price_source is csv"}
	}

	ctx := cmd.Context()
	source, err := rt.priceSource(ctx)
	if err != nil {
		return err
	}
	prices, err := source.FetchPrices(ctx, rt.run.Meta.Ticker, rt.run.FromDate(), rt.run.ToDate())
	if err != nil {
		return fmt.Errorf("fetch prices: %w", err)
	}

	cfg := volatility.Config{Window: rt.run.Volatility.Window, TradingDays: rt.run.Volatility.TradingDays}
	points, err := volatility.NewEstimator(cfg, rt.log).Estimate(prices)
	if err != nil {
		return err
	}

	PrintRunHeader(RunMetadata{
		Title:      "Historical Volatility",
		RunID:      rt.run.Meta.RunID,
		Ticker:     rt.run.Meta.Ticker,
		Period:     &Period{StartDate: rt.run.Meta.From, EndDate: rt.run.Meta.To},
		ConfigHash: rt.hash,
	})
	PrintKeyValue("Prices", fmt.Sprintf("%d", len(prices)), 8)
	PrintKeyValue("Points", fmt.Sprintf("%d", len(points)), 8)
	PrintKeyValue("Window", fmt.Sprintf("%d", cfg.Window), 8)

	if len(points) == 0 {
		PrintWarning(fmt.Sprintf("Need at least %d prices for one volatility point", cfg.Window+1))
		return nil
	}

	widths := []int{10, 10, 12, 10}
	fmt.Println()
	PrintTableHeader([]string{"DATE", "CLOSE", "LOG_RETURN", "ANN_VOL"}, widths)
	for _, p := range points[tail(len(points), volatilityFlags.rows):] {
		PrintTableRow([]string{
			contracts.DateKey(p.Date),
			fmt.Sprintf("%.2f", p.Close),
			fmt.Sprintf("%+.6f", p.LogReturn),
			fmt.Sprintf("%.4f", p.AnnualizedVolatility),
		}, widths)
	}
	return nil
}
