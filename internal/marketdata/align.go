// Package marketdata holds the shared shapes and helpers for raw daily
// price series before they become the aligned records the valuation
// engine consumes.
package marketdata

import (
	"sort"

	"foliosim/types"
)

// DailyClose is one observed closing price of a single ticker.
type DailyClose struct {
	Day   string  // YYYY-MM-DD
	Close float64 // > 0 for a real observation
}

// Align merges per-ticker close series into a chronologically sorted,
// date-aligned PriceRecord sequence: one record per day observed by any
// ticker, every record carrying every ticker key. Missing observations
// are forward-filled from the last known close; days before a ticker's
// first observation stay 0, which the engine reads as "no market yet".
// Non-positive observations are dropped rather than carried forward.
func Align(series map[string][]DailyClose) []types.PriceRecord {
	latest := make(map[string]map[string]float64, len(series))
	daySet := make(map[string]struct{})
	for ticker, closes := range series {
		byDay := make(map[string]float64, len(closes))
		for _, c := range closes {
			if c.Close <= 0 {
				continue
			}
			byDay[c.Day] = c.Close
			daySet[c.Day] = struct{}{}
		}
		latest[ticker] = byDay
	}
	if len(daySet) == 0 {
		return nil
	}

	days := make([]string, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Strings(days)

	carry := make(map[string]float64, len(series))
	records := make([]types.PriceRecord, 0, len(days))
	for _, day := range days {
		prices := make(map[string]float64, len(series))
		for ticker := range series {
			if close, ok := latest[ticker][day]; ok {
				carry[ticker] = close
			}
			prices[ticker] = carry[ticker]
		}
		records = append(records, types.PriceRecord{Date: day, Prices: prices})
	}
	return records
}

// ToValuePoints converts a single ticker's aligned closes into the value
// series shape used for benchmarks.
func ToValuePoints(records []types.PriceRecord, ticker string) []types.ValuePoint {
	points := make([]types.ValuePoint, 0, len(records))
	for _, r := range records {
		points = append(points, types.ValuePoint{Date: r.Date, Value: r.PriceOn(ticker)})
	}
	return points
}
