package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/pricing"
	"github.com/wonny/optlab/backend/internal/sentiment"
)

// priceCmd represents the price command
var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a single European option",
	Long: `Black-Scholes price of one European call or put.

With --sentiment the volatility is first adjusted:
  adjusted_vol = max(vol * (1 + alpha * sentiment), 0)

Example:
  go run ./cmd/optlab price --type call --spot 100 --strike 100 --ttm 0.0822 --vol 0.3
  go run ./cmd/optlab price --type put --spot 100 --strike 105 --ttm 0.25 --rate 0.03 --vol 0.25 --sentiment -0.4`,
	RunE: runPrice,
}

var (
	priceType      string
	priceSpot      float64
	priceStrike    float64
	priceTTM       float64
	priceRate      float64
	priceVol       float64
	priceSentiment float64
	priceAlpha     float64
)

func init() {
	rootCmd.AddCommand(priceCmd)

	priceCmd.Flags().StringVar(&priceType, "type", "call", "contract type: call | put")
	priceCmd.Flags().Float64Var(&priceSpot, "spot", 0, "underlying price")
	priceCmd.Flags().Float64Var(&priceStrike, "strike", 0, "strike price")
	priceCmd.Flags().Float64Var(&priceTTM, "ttm", 30.0/365.0, "time to maturity in years")
	priceCmd.Flags().Float64Var(&priceRate, "rate", 0.05, "risk-free rate (annualized, continuous)")
	priceCmd.Flags().Float64Var(&priceVol, "vol", 0, "annualized volatility (decimal)")
	priceCmd.Flags().Float64Var(&priceSentiment, "sentiment", 0, "compound sentiment in [-1, 1]")
	priceCmd.Flags().Float64Var(&priceAlpha, "alpha", 0.1, "sentiment sensitivity")

	_ = priceCmd.MarkFlagRequired("spot")
	_ = priceCmd.MarkFlagRequired("strike")
	_ = priceCmd.MarkFlagRequired("vol")
}

func runPrice(cmd *cobra.Command, args []string) error {
	ct, err := contracts.ParseContractType(priceType)
	if err != nil {
		return err
	}

	baseline, err := pricing.Price(ct, priceSpot, priceStrike, priceTTM, priceRate, priceVol)
	if err != nil {
		return fmt.Errorf("baseline price: %w", err)
	}

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Black-Scholes %s\n", ct)
	PrintSeparator()
	PrintKeyValue("Spot", fmt.Sprintf("%.4f", priceSpot), 12)
	PrintKeyValue("Strike", fmt.Sprintf("%.4f", priceStrike), 12)
	PrintKeyValue("TTM (years)", fmt.Sprintf("%.6f", priceTTM), 12)
	PrintKeyValue("Rate", fmt.Sprintf("%.4f", priceRate), 12)
	PrintKeyValue("Vol", fmt.Sprintf("%.4f", priceVol), 12)
	PrintKeyValue("Price", fmt.Sprintf("%.6f", baseline), 12)

	if cmd.Flags().Changed("sentiment") {
		adjVol := sentiment.AdjustVolatility(priceVol, priceSentiment, priceAlpha)
		adjusted, err := pricing.Price(ct, priceSpot, priceStrike, priceTTM, priceRate, adjVol)
		if err != nil {
			return fmt.Errorf("adjusted price: %w", err)
		}
		PrintSeparator()
		PrintKeyValue("Sentiment", fmt.Sprintf("%+.4f", priceSentiment), 12)
		PrintKeyValue("Alpha", fmt.Sprintf("%.4f", priceAlpha), 12)
		PrintKeyValue("Adj vol", fmt.Sprintf("%.4f", adjVol), 12)
		PrintKeyValue("Adj price", fmt.Sprintf("%.6f", adjusted), 12)
	}

	PrintDoubleSeparator()
	return nil
}
