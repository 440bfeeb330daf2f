package types

// DateFormat is the layout used for all day-granularity dates in the system.
const DateFormat = "2006-01-02"

// PriceRecord holds the closing prices of a set of tickers on a single day.
// A zero (or absent) price means the asset had no market on that day.
// Callers are expected to supply chronologically sorted, date-aligned
// sequences where every record carries the same set of ticker keys.
type PriceRecord struct {
	Date   string             `json:"date"`
	Prices map[string]float64 `json:"prices"`
}

// PriceOn returns the price of a ticker on this record, or 0 when the
// ticker is absent.
func (r PriceRecord) PriceOn(ticker string) float64 {
	return r.Prices[ticker]
}
