package engine

import "foliosim/types"

// ValidateAssetsForDateRange flags weighted tickers that have no positive
// price on the first date of the range, and finds the earliest date on
// which every weighted ticker trades at a positive price simultaneously.
// The result is purely advisory: the valuation engine accepts invalid
// assets and simply allocates them 0 units.
func ValidateAssetsForDateRange(prices []types.PriceRecord, weights types.WeightMap) types.AssetValidation {
	v := types.AssetValidation{Valid: true}
	tickers := weights.Tickers()
	if len(tickers) == 0 {
		return v
	}
	if len(prices) == 0 {
		v.Valid = false
		v.InvalidAssets = tickers
		return v
	}

	for _, ticker := range tickers {
		if prices[0].PriceOn(ticker) > 0 {
			v.ValidAssets = append(v.ValidAssets, ticker)
		} else {
			v.InvalidAssets = append(v.InvalidAssets, ticker)
			v.Valid = false
		}
	}

	for _, rec := range prices {
		all := true
		for _, ticker := range tickers {
			if rec.PriceOn(ticker) <= 0 {
				all = false
				break
			}
		}
		if all {
			v.EarliestValidDate = rec.Date
			break
		}
	}
	return v
}
