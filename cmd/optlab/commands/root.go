package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "optlab",
	Short: "optlab - sentiment-adjusted option pricing lab",
	Long: `optlab Unified CLI

Black-Scholes pricing with a news-sentiment volatility overlay.
Compares baseline vs sentiment-adjusted prices, and both against market quotes.

Usage:
  go run ./cmd/optlab [command]

Examples:
  go run ./cmd/optlab historical --prices data/nvda.csv --news data/nasdaq_news.csv
  go run ./cmd/optlab options --chain data/nvda_eod_2023.csv
  go run ./cmd/optlab price --type call --spot 100 --strike 100 --ttm 0.0822 --vol 0.3
  go run ./cmd/optlab api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "run config YAML (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production|test)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}
