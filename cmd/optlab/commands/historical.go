package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/pipeline"
	"github.com/wonny/optlab/backend/internal/runconfig"
)

// historicalCmd represents the historical command
var historicalCmd = &cobra.Command{
	Use:   "historical",
	Short: "Historical-volatility path (baseline vs sentiment-adjusted)",
	Long: `Prices an at-the-money call and put for every date of the volatility series,
once with the historical volatility and once with the sentiment-adjusted volatility,
then reports MAE / RMSE between the two.

Steps:
  1. Load closes (csv | yahoo | postgres)
  2. Rolling annualized volatility
  3. Daily sentiment from headlines (missing dates are neutral)
  4. Baseline and adjusted Black-Scholes prices
  5. Evaluation

Example:
  go run ./cmd/optlab historical --prices data/nvda.csv
  go run ./cmd/optlab historical --prices data/nvda.csv --news data/nasdaq_news.csv --alpha 0.2
  go run ./cmd/optlab historical --source yahoo --news-source yahoo --ticker NVDA --from 2023-01-01 --to 2023-12-31`,
	RunE: runHistorical,
}

var (
	historicalFlags runFlags
	historicalJSON  bool
)

func init() {
	rootCmd.AddCommand(historicalCmd)

	historicalFlags.register(historicalCmd)
	historicalCmd.Flags().StringVar(&historicalFlags.pricesFile, "prices", "", "price CSV (Date, Close); sets price source to csv")
	historicalCmd.Flags().StringVar(&historicalFlags.priceSource, "source", "", "price source: csv | yahoo | postgres")
	historicalCmd.Flags().BoolVar(&historicalJSON, "json", false, "print the full run result as JSON")
}

func runHistorical(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd, &historicalFlags)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := runconfig.RequireHistoricalInputs(rt.run); err != nil {
		return err
	}

	ctx := cmd.Context()
	prices, err := rt.priceSource(ctx)
	if err != nil {
		return err
	}
	loader, err := rt.sentimentLoader()
	if err != nil {
		return err
	}

	orch := pipeline.NewOrchestrator(prices, nil, loader, rt.log)
	result, err := orch.RunHistorical(ctx, rt.runConfig())
	if err != nil {
		return fmt.Errorf("historical run: %w", err)
	}

	if historicalJSON {
		return printJSON(result)
	}

	PrintRunHeader(RunMetadata{
		Title:      "Historical Volatility Path",
		RunID:      result.RunID,
		Ticker:     result.Ticker,
		Period:     &Period{StartDate: rt.run.Meta.From, EndDate: rt.run.Meta.To},
		ConfigHash: rt.hash,
	})
	PrintKeyValue("Volatility points", fmt.Sprintf("%d", len(result.Volatility)), 18)
	PrintKeyValue("Sentiment days", fmt.Sprintf("%d", result.SentimentDays), 18)
	PrintKeyValue("Alpha", fmt.Sprintf("%.4f", rt.run.Sentiment.Alpha), 18)

	printHistoricalRows(result.Historical, historicalFlags.rows)
	PrintSummaries(result.Summaries)
	PrintStages(result.Stages)

	fmt.Println()
	PrintSuccess(fmt.Sprintf("Completed %d stages in %s", len(result.CompletedStages), result.Duration))
	return nil
}

func printHistoricalRows(rows []contracts.HistoricalRow, n int) {
	if len(rows) == 0 {
		PrintWarning("No priced rows: price series shorter than the volatility window")
		return
	}

	widths := []int{10, 10, 8, 8, 8, 10, 10, 10, 10}
	fmt.Println()
	PrintTableHeader([]string{"DATE", "SPOT", "HV", "SENT", "ADJ_HV", "CALL", "CALL_ADJ", "PUT", "PUT_ADJ"}, widths)
	for _, r := range rows[tail(len(rows), n):] {
		PrintTableRow([]string{
			contracts.DateKey(r.Date),
			fmt.Sprintf("%.2f", r.Spot),
			fmt.Sprintf("%.4f", r.HistoricalVol),
			fmt.Sprintf("%+.3f", r.Sentiment),
			fmt.Sprintf("%.4f", r.AdjustedVol),
			fmt.Sprintf("%.4f", r.BaselineCallPrice),
			fmt.Sprintf("%.4f", r.AdjustedCallPrice),
			fmt.Sprintf("%.4f", r.BaselinePutPrice),
			fmt.Sprintf("%.4f", r.AdjustedPutPrice),
		}, widths)
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
