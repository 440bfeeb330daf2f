package types

// ValuePoint is the portfolio's mark-to-market value on a single day.
type ValuePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}
