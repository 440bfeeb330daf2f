package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"foliosim/internal/marketdata"
	"foliosim/types"
)

// GetDailyCloses loads the stored closes for the requested tickers and
// returns them as the aligned, forward-filled record sequence the
// valuation engine consumes. Tickers with no stored prices in the range
// appear in every record with price 0 ("no market yet"); only a range
// with no prices at all for any ticker is an error.
func (db *Database) GetDailyCloses(ctx context.Context, tickers []string, start, end time.Time) ([]types.PriceRecord, error) {
	rows, err := db.prices.GetDailyCloses(ctx, tickers, start, end)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoPrices
	}

	series := make(map[string][]marketdata.DailyClose, len(tickers))
	for _, ticker := range tickers {
		series[ticker] = nil
	}
	for _, r := range rows {
		series[r.Ticker] = append(series[r.Ticker], marketdata.DailyClose{
			Day:   r.Day.Format(types.DateFormat),
			Close: r.Close.InexactFloat64(),
		})
	}
	return marketdata.Align(series), nil
}

// SaveDailyCloses stores a fetched close series for a ticker, creating
// the asset on first use. It reports how many closes were written.
func (db *Database) SaveDailyCloses(ctx context.Context, ticker string, assetType types.AssetType, closes []marketdata.DailyClose) (int, error) {
	asset, err := db.EnsureAsset(ctx, ticker, ticker, assetType)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, c := range closes {
		if c.Close <= 0 {
			continue
		}
		day, err := time.Parse(types.DateFormat, c.Day)
		if err != nil {
			return saved, fmt.Errorf("bad day %q for %s: %w", c.Day, ticker, err)
		}
		if err := db.prices.UpsertDailyClose(ctx, int32(asset.Id), day, decimal.NewFromFloat(c.Close)); err != nil {
			return saved, fmt.Errorf("save close %s %s: %w", ticker, c.Day, err)
		}
		saved++
	}
	return saved, nil
}
