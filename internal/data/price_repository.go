package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/optlab/backend/internal/contracts"
)

// PriceRepository reads close series from data.daily_prices
// ⭐ SSOT: DB 가격 조회는 여기서만
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// FetchPrices implements contracts.PriceSource
func (r *PriceRepository) FetchPrices(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PricePoint, error) {
	query := `
		SELECT trade_date, close_price::float8
		FROM data.daily_prices
		WHERE stock_code = $1 AND trade_date BETWEEN $2 AND $3
		  AND close_price IS NOT NULL
		ORDER BY trade_date ASC
	`

	if to.IsZero() {
		to = time.Now()
	}

	rows, err := r.pool.Query(ctx, query, strings.ToUpper(ticker), contracts.Day(from), contracts.Day(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var prices []contracts.PricePoint
	for rows.Next() {
		var p contracts.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		p.Date = contracts.Day(p.Date)
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// Latest returns the most recent close for ticker
func (r *PriceRepository) Latest(ctx context.Context, ticker string) (*contracts.PricePoint, error) {
	query := `
		SELECT trade_date, close_price::float8
		FROM data.daily_prices
		WHERE stock_code = $1
		ORDER BY trade_date DESC
		LIMIT 1
	`

	var p contracts.PricePoint
	if err := r.pool.QueryRow(ctx, query, strings.ToUpper(ticker)).Scan(&p.Date, &p.Close); err != nil {
		return nil, err
	}
	p.Date = contracts.Day(p.Date)
	return &p, nil
}
