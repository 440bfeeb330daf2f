package engine

import (
	"time"

	"foliosim/types"
)

// ComputeValueSeries turns target weights, a starting capital and an
// aligned daily price sequence into a daily portfolio-value series.
//
// Units are allocated on the first date: a ticker with a positive price
// gets (investment * weight/100) / price units, any other ticker gets 0
// units. Capital notionally assigned to a zero-priced ticker is NOT
// redistributed; it stays unrepresented until a rebalance re-derives
// units while the price is positive.
//
// The function is total: an empty price sequence yields an empty series,
// zero or missing prices contribute 0 to a day's value, and no input
// causes an error.
func ComputeValueSeries(prices []types.PriceRecord, weights types.WeightMap, initialInvestment float64, policy types.RebalancePolicy) []types.ValuePoint {
	if len(prices) == 0 {
		return nil
	}

	tickers := weights.Tickers()
	units := allocateUnits(tickers, weights, initialInvestment, prices[0].Prices)
	lastRebalance := prices[0].Date

	series := make([]types.ValuePoint, 0, len(prices))
	for i, rec := range prices {
		if i > 0 && shouldRebalance(policy, rec.Date, lastRebalance) {
			value := markToMarket(tickers, units, rec.Prices)
			units = allocateUnits(tickers, weights, value, rec.Prices)
			lastRebalance = rec.Date
		}
		series = append(series, types.ValuePoint{
			Date:  rec.Date,
			Value: markToMarket(tickers, units, rec.Prices),
		})
	}
	return series
}

// allocateUnits derives unit holdings from the capital being allocated.
// Tickers without a usable positive price get 0 units.
func allocateUnits(tickers []string, weights types.WeightMap, capital float64, prices map[string]float64) map[string]float64 {
	units := make(map[string]float64, len(tickers))
	for _, ticker := range tickers {
		price := prices[ticker]
		if price > 0 {
			units[ticker] = capital * weights[ticker] / 100 / price
		} else {
			units[ticker] = 0
		}
	}
	return units
}

// markToMarket values the holdings at the given day's prices. Tickers
// whose price is not positive contribute 0, never an error.
func markToMarket(tickers []string, units map[string]float64, prices map[string]float64) float64 {
	var value float64
	for _, ticker := range tickers {
		if price := prices[ticker]; price > 0 {
			value += units[ticker] * price
		}
	}
	return value
}

// shouldRebalance decides whether the current date triggers a rebalance
// relative to the last rebalance date. Quarterly triggers on a strictly
// greater (year, quarter) pair, annually on a strictly greater year.
func shouldRebalance(policy types.RebalancePolicy, current, lastRebalance string) bool {
	switch policy {
	case types.RebalanceQuarterly:
		cy, cq, ok := yearQuarter(current)
		ly, lq, ok2 := yearQuarter(lastRebalance)
		if !ok || !ok2 {
			return false
		}
		return cy > ly || (cy == ly && cq > lq)
	case types.RebalanceAnnually:
		cy, _, ok := yearQuarter(current)
		ly, _, ok2 := yearQuarter(lastRebalance)
		if !ok || !ok2 {
			return false
		}
		return cy > ly
	default:
		return false
	}
}

// yearQuarter parses an ISO date into its year and zero-based quarter
// index. A malformed date reports ok=false and never triggers a rebalance.
func yearQuarter(date string) (year, quarter int, ok bool) {
	t, err := time.Parse(types.DateFormat, date)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), (int(t.Month()) - 1) / 3, true
}
