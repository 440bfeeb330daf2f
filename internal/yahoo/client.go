// Package yahoo fetches daily closing prices from the Yahoo Finance
// chart API for runs that do not have a price database available.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"foliosim/internal/marketdata"
	"foliosim/types"
)

var defaultHosts = []string{
	"https://query1.finance.yahoo.com",
	"https://query2.finance.yahoo.com",
}

var backoffs = []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15"

// Client is a Yahoo Finance chart API client.
type Client struct {
	hosts  []string
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a new Yahoo Finance client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		hosts: defaultHosts,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "yahoo").Logger(),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// GetDailyCloses fetches the daily close series of a single symbol for
// the inclusive date range. Hosts are rotated and transient failures
// retried with backoff before giving up.
func (c *Client) GetDailyCloses(ctx context.Context, symbol string, start, end time.Time) ([]marketdata.DailyClose, error) {
	var yc chartResponse
	var lastErr error
	for attempt := 0; attempt < len(backoffs)+1; attempt++ {
		for _, host := range c.hosts {
			url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
				host, symbol, start.Unix(), end.AddDate(0, 0, 1).Unix())
			body, err := c.get(ctx, url)
			if err != nil {
				c.log.Debug().Err(err).Str("symbol", symbol).Msg("chart request failed")
				lastErr = err
				continue
			}
			if err := json.Unmarshal(body, &yc); err != nil {
				lastErr = fmt.Errorf("parse chart json for %s: %w", symbol, err)
				continue
			}
			lastErr = nil
			break
		}
		if lastErr == nil {
			break
		}
		if attempt < len(backoffs) {
			time.Sleep(backoffs[attempt])
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	if len(yc.Chart.Result) == 0 || len(yc.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}
	ts := yc.Chart.Result[0].Timestamp
	closes := yc.Chart.Result[0].Indicators.Quote[0].Close

	out := make([]marketdata.DailyClose, 0, len(ts))
	for i, t := range ts {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		out = append(out, marketdata.DailyClose{
			Day:   time.Unix(t, 0).UTC().Format(types.DateFormat),
			Close: *closes[i],
		})
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("read response: %w", readErr)
	}
	if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
		return nil, fmt.Errorf("yahoo returned 429: Edge: Too Many Requests")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo returned %d: %s", resp.StatusCode, preview(body))
	}
	if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
		return nil, fmt.Errorf("yahoo returned non-json body: %s", preview(body))
	}
	return body, nil
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
