package yahoo

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/optlab/backend/internal/contracts"
)

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
}

// FetchNews implements contracts.NewsSource using the headline RSS feed.
// The feed only carries recent items; anything outside [from, to] is dropped.
func (c *Client) FetchNews(ctx context.Context, ticker string, from, to time.Time) ([]contracts.NewsItem, error) {
	params := url.Values{}
	params.Set("s", strings.ToUpper(ticker))
	params.Set("region", "US")
	params.Set("lang", "en-US")

	fullURL := fmt.Sprintf("%s?%s", c.newsURL, params.Encode())

	body, err := c.httpClient.GetBody(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch headlines %s: %w", ticker, err)
	}

	items, err := parseRSS(body, from, to)
	if err != nil {
		return nil, fmt.Errorf("parse headlines %s: %w", ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(items),
	}).Debug("Fetched headlines")

	return items, nil
}

// parseRSS extracts (pubDate, title) pairs from an RSS 2.0 document
func parseRSS(body []byte, from, to time.Time) ([]contracts.NewsItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var items []contracts.NewsItem
	doc.Find("item").Each(func(_ int, s *goquery.Selection) {
		title := cleanText(s.Find("title").First().Text())
		if title == "" {
			return
		}
		// HTML 파서는 태그명을 소문자로 바꿈
		published, ok := parsePubDate(cleanText(s.Find("pubdate").First().Text()))
		if !ok {
			return
		}
		d := contracts.Day(published)
		if !inRange(d, from, to) {
			return
		}
		items = append(items, contracts.NewsItem{Date: d, Title: title})
	})

	return items, nil
}

func cleanText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "<![CDATA[")
	s = strings.TrimSuffix(s, "]]>")
	return strings.TrimSpace(s)
}

func parsePubDate(s string) (time.Time, bool) {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func inRange(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(contracts.Day(from)) {
		return false
	}
	if !to.IsZero() && d.After(contracts.Day(to)) {
		return false
	}
	return true
}
