package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/data"
	"github.com/wonny/optlab/backend/internal/pipeline"
	"github.com/wonny/optlab/backend/internal/runconfig"
)

// optionsCmd represents the options command
var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Option-chain path (market vs baseline vs sentiment-adjusted)",
	Long: `Streams an end-of-day option chain, keeps the near-the-money call and put per
quote date (DTE and moneyness filters), prices each with its implied volatility
and with the sentiment-adjusted volatility, and compares both against the market.

Chain CSV columns ([QUOTE_DATE] style headers accepted):
  QUOTE_DATE, DTE, STRIKE, UNDERLYING_LAST, C_LAST, C_IV, P_LAST, P_IV

Example:
  go run ./cmd/optlab options --chain data/nvda_eod_2023.csv
  go run ./cmd/optlab options --chain data/nvda_eod_2023.csv --news data/nasdaq_news.csv --from 2023-01-01 --to 2023-06-30`,
	RunE: runOptions,
}

var (
	optionsFlags runFlags
	optionsJSON  bool
)

func init() {
	rootCmd.AddCommand(optionsCmd)

	optionsFlags.register(optionsCmd)
	optionsCmd.Flags().StringVar(&optionsFlags.chainFile, "chain", "", "option chain CSV")
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "print the full run result as JSON")
}

func runOptions(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap(cmd, &optionsFlags)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := runconfig.RequireOptionInputs(rt.run); err != nil {
		return err
	}

	loader, err := rt.sentimentLoader()
	if err != nil {
		return err
	}
	chainSrc := data.NewChainCSV(rt.run.Data.ChainFile, rt.run.Data.ChunkSize, rt.log)

	orch := pipeline.NewOrchestrator(nil, chainSrc, loader, rt.log)
	result, err := orch.RunOptions(cmd.Context(), rt.runConfig())
	if err != nil {
		return fmt.Errorf("options run: %w", err)
	}

	if optionsJSON {
		return printJSON(result)
	}

	PrintRunHeader(RunMetadata{
		Title:      "Option Chain Path",
		RunID:      result.RunID,
		Ticker:     result.Ticker,
		Period:     &Period{StartDate: rt.run.Meta.From, EndDate: rt.run.Meta.To},
		ConfigHash: rt.hash,
	})
	PrintKeyValue("Selected quotes", fmt.Sprintf("%d", len(result.Selected)), 16)
	PrintKeyValue("Sentiment days", fmt.Sprintf("%d", result.SentimentDays), 16)
	PrintKeyValue("DTE range", fmt.Sprintf("%.0f ~ %.0f", rt.run.Chain.MinDTE, rt.run.Chain.MaxDTE), 16)
	PrintKeyValue("Moneyness tol", fmt.Sprintf("%.2f%%", rt.run.Chain.MoneynessTolerance*100), 16)

	printOptionRows(result.Options, optionsFlags.rows)
	PrintSummaries(result.Summaries)
	PrintStages(result.Stages)

	fmt.Println()
	PrintSuccess(fmt.Sprintf("Completed %d stages in %s", len(result.CompletedStages), result.Duration))
	return nil
}

func printOptionRows(rows []contracts.OptionRow, n int) {
	if len(rows) == 0 {
		PrintWarning("No option quotes passed the DTE / moneyness filters")
		return
	}

	widths := []int{10, 4, 9, 9, 8, 8, 10, 10, 10}
	fmt.Println()
	PrintTableHeader([]string{"DATE", "TYPE", "SPOT", "STRIKE", "IV", "ADJ_IV", "MARKET", "BASELINE", "ADJUSTED"}, widths)
	for _, r := range rows[tail(len(rows), n):] {
		PrintTableRow([]string{
			contracts.DateKey(r.Quote.Date),
			string(r.Quote.Type),
			fmt.Sprintf("%.2f", r.Quote.Spot),
			fmt.Sprintf("%.2f", r.Quote.Strike),
			fmt.Sprintf("%.4f", r.Quote.ImpliedVol),
			fmt.Sprintf("%.4f", r.AdjustedVol),
			fmt.Sprintf("%.4f", r.Quote.MarketPrice),
			fmt.Sprintf("%.4f", r.BaselinePrice),
			fmt.Sprintf("%.4f", r.AdjustedPrice),
		}, widths)
	}
}
