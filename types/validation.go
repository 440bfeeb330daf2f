package types

// AssetValidation is the advisory result of checking weighted tickers
// against a price range. It never blocks a simulation; the surrounding
// application may surface it as a warning or use it to filter weights.
type AssetValidation struct {
	Valid             bool     `json:"valid"`
	InvalidAssets     []string `json:"invalidAssets"`
	ValidAssets       []string `json:"validAssets"`
	EarliestValidDate string   `json:"earliestValidDate"`
}
