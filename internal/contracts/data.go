package contracts

import "time"

// DateLayout is the calendar-date layout used for keys and CSV dates
const DateLayout = "2006-01-02"

// PricePoint is one trading day's close
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// VolatilityPoint is a fully defined rolling-volatility observation
// ⭐ SSOT: 윈도우가 채워지지 않은 날짜는 시리즈에 포함되지 않음
type VolatilityPoint struct {
	Date                 time.Time `json:"date"`
	Close                float64   `json:"close"`
	LogReturn            float64   `json:"log_return"`
	AnnualizedVolatility float64   `json:"annualized_volatility"`
}

// NewsItem is a single headline for the tracked ticker
type NewsItem struct {
	Date  time.Time `json:"date"`
	Title string    `json:"title"`
}

// DailySentiment is the mean compound score for one calendar date
type DailySentiment struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"` // [-1, 1]
}

// Day truncates t to its calendar date in UTC
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey returns the calendar-date key of t
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a calendar date, accepting a trailing time component
func ParseDate(s string) (time.Time, error) {
	layouts := []string{
		DateLayout,
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05 MST",
		"2006-01-02 15:04:05-07:00",
		time.RFC3339,
		"2006/01/02",
		"01/02/2006",
	}

	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Day(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
