package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wonny/optlab/backend/internal/contracts"
)

// chartResponse mirrors the subset of /v8/finance/chart we read
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchPrices implements contracts.PriceSource with daily closes from the chart API
func (c *Client) FetchPrices(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PricePoint, error) {
	if to.IsZero() {
		to = time.Now()
	}

	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", contracts.Day(from).Unix()))
	// period2 is exclusive
	params.Set("period2", fmt.Sprintf("%d", contracts.Day(to).AddDate(0, 0, 1).Unix()))
	params.Set("interval", "1d")
	params.Set("events", "history")

	fullURL := fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.chartURL, "/"), url.PathEscape(strings.ToUpper(ticker)), params.Encode())

	body, err := c.httpClient.GetBody(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch chart %s: %w", ticker, err)
	}

	prices, err := parseChart(body)
	if err != nil {
		return nil, fmt.Errorf("parse chart %s: %w", ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(prices),
	}).Debug("Fetched price history")

	return prices, nil
}

// parseChart converts chart JSON into a date-ordered close series.
// Null closes are dropped; non-positive closes are kept for the estimator to reject.
func parseChart(body []byte) ([]contracts.PricePoint, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	r := resp.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil, nil
	}
	closes := r.Indicators.Quote[0].Close

	byDate := make(map[string]contracts.PricePoint, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		// 거래소 현지 날짜 기준
		d := contracts.Day(time.Unix(ts+r.Meta.GMTOffset, 0).UTC())
		byDate[contracts.DateKey(d)] = contracts.PricePoint{Date: d, Close: *closes[i]}
	}

	prices := make([]contracts.PricePoint, 0, len(byDate))
	for _, p := range byDate {
		prices = append(prices, p)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Date.Before(prices[j].Date) })

	return prices, nil
}
