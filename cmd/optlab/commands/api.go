package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/optlab/backend/internal/api"
	"github.com/wonny/optlab/backend/internal/api/handlers"
	"github.com/wonny/optlab/backend/internal/sentiment"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the request-response pricing API.

Endpoints:
  GET  /health          - Health check
  POST /api/price       - Black-Scholes price
  POST /api/adjust      - Sentiment-adjusted volatility
  POST /api/evaluate    - MAE / RMSE of two series
  POST /api/sentiment   - Daily sentiment from headlines

Example:
  go run ./cmd/optlab api
  go run ./cmd/optlab api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default: PORT env)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== optlab API Server ===")

	// 1. Load config + logger
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 2. Create handlers
	aggregator := sentiment.NewAggregator(sentiment.NewDefaultScorer(), log)
	pricingHandler := handlers.NewPricingHandler(log)
	sentimentHandler := handlers.NewSentimentHandler(aggregator, log)

	// 3. Create router + server
	router := api.NewRouter(pricingHandler, sentimentHandler, log)
	server := api.New(cfg, log, router)

	// 4. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/price")
	fmt.Println("  POST /api/adjust")
	fmt.Println("  POST /api/evaluate")
	fmt.Println("  POST /api/sentiment")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a listen failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-quit:
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
