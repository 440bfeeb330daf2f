package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"foliosim/internal/marketdata"
	"foliosim/types"
)

// Source adapts the chart client to the aligned record sequence the
// valuation engine consumes, one ticker per request.
type Source struct {
	client   *Client
	progress bool
}

// NewSource wraps the given client. When progress is true a terminal
// progress bar tracks the per-ticker downloads.
func NewSource(client *Client, progress bool) *Source {
	return &Source{client: client, progress: progress}
}

// GetDailyCloses downloads and aligns the daily closes of every ticker
// in the range. A ticker that Yahoo knows nothing about fails the whole
// fetch; partial portfolios are worse than no portfolio.
func (s *Source) GetDailyCloses(ctx context.Context, tickers []string, start, end time.Time) ([]types.PriceRecord, error) {
	var bar *progressbar.ProgressBar
	if s.progress {
		bar = initProgressBar(len(tickers))
	}

	series := make(map[string][]marketdata.DailyClose, len(tickers))
	for _, ticker := range tickers {
		closes, err := s.client.GetDailyCloses(ctx, ticker, start, end)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", ticker, err)
		}
		series[ticker] = closes
		if bar != nil {
			bar.Add(1)
		}
	}
	return marketdata.Align(series), nil
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Downloading prices..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
