package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/optlab/backend/internal/contracts"
	"github.com/wonny/optlab/backend/internal/data"
	"github.com/wonny/optlab/backend/pkg/database"
)

// checkDBCmd represents the check-db command
var checkDBCmd = &cobra.Command{
	Use:   "check-db",
	Short: "PostgreSQL 연결 테스트",
	Long: `Checks the database used by the postgres price source.

이 명령어는:
- config에서 DATABASE_URL 로드
- 데이터베이스 연결 생성
- Health Check 실행
- Connection Pool 통계 표시
- (--ticker) 최신 종가 조회

Example:
  go run ./cmd/optlab check-db
  go run ./cmd/optlab check-db --ticker NVDA`,
	RunE: runCheckDB,
}

var checkDBTicker string

func init() {
	rootCmd.AddCommand(checkDBCmd)

	checkDBCmd.Flags().StringVar(&checkDBTicker, "ticker", "", "also read the latest close for this ticker")
}

func runCheckDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== optlab Database Connection Test ===")

	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	fmt.Println("Connecting to database...")
	db, err := database.New(ctx, cfg)
	if errors.Is(err, database.ErrNotConfigured) {
		PrintWarning("DATABASE_URL is not set; the postgres price source is unavailable")
		return nil
	}
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection established")

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}

	fmt.Println("✅ Health Check Results:")
	fmt.Printf("   Healthy: %v\n", status.Healthy)
	fmt.Printf("   Response Time: %v\n", status.ResponseTime)
	fmt.Printf("   Timestamp: %v\n\n", status.Timestamp.Format(time.RFC3339))

	fmt.Println("📊 Connection Pool Statistics:")
	fmt.Printf("   Max Connections: %d\n", status.Stats.MaxConns)
	fmt.Printf("   Total Connections: %d\n", status.Stats.TotalConns)
	fmt.Printf("   Acquired Connections: %d\n", status.Stats.AcquiredConns)
	fmt.Printf("   Idle Connections: %d\n", status.Stats.IdleConns)
	fmt.Printf("   Acquire Count: %d\n", status.Stats.AcquireCount)
	fmt.Printf("   Acquire Duration: %v\n", status.Stats.AcquireDuration)

	if checkDBTicker != "" {
		latest, err := data.NewPriceRepository(db.Pool).Latest(ctx, checkDBTicker)
		if err != nil {
			log.WithError(err).WithField("ticker", checkDBTicker).Warn("Latest close lookup failed")
			PrintWarning(fmt.Sprintf("No close found for %s", checkDBTicker))
		} else {
			fmt.Printf("\n📈 Latest close %s: %.4f (%s)\n", checkDBTicker, latest.Close, contracts.DateKey(latest.Date))
		}
	}

	fmt.Println("\n✅ All checks passed!")
	return nil
}

// maskPassword hides the password in a database URL for display
func maskPassword(raw string) string {
	if raw == "" {
		return "(not set)"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable)"
	}
	return u.Redacted()
}
