package types

import "sort"

// WeightMap maps a ticker to its target percentage weight (0-100).
// Weights are used literally as weight/100 of the capital being allocated;
// the engine never normalizes them, so callers that want a fully invested
// portfolio should make them sum to 100.
type WeightMap map[string]float64

// Tickers returns the weighted tickers in sorted order. Iterating weights
// through this keeps every valuation run deterministic.
func (w WeightMap) Tickers() []string {
	tickers := make([]string, 0, len(w))
	for t := range w {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
