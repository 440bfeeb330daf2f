package types

// Metrics is the immutable snapshot of statistics derived from a value
// series. Ratios are fractions, not percentages: a TotalReturn of 0.21
// means +21%. MaxDrawdown is reported as a non-negative fraction; turning
// it into a conventional negative percentage is a presentation concern.
type Metrics struct {
	InitialInvestment float64 `json:"initialInvestment"`
	FinalBalance      float64 `json:"finalBalance"`
	TotalReturn       float64 `json:"totalReturn"`
	CAGR              float64 `json:"cagr"`
	Volatility        float64 `json:"volatility"`
	SharpeRatio       float64 `json:"sharpeRatio"`
	BestDay           float64 `json:"bestDay"`
	WorstDay          float64 `json:"worstDay"`
	MaxDrawdown       float64 `json:"maxDrawdown"`

	// Monthly is nil for degenerate (fewer than 2 point) series.
	Monthly *MonthlyStats `json:"monthly,omitempty"`

	// BenchmarkCorrelation is nil when no benchmark was supplied or the
	// paired-sample requirements of the correlation strategies were not met.
	BenchmarkCorrelation *float64 `json:"benchmarkCorrelation,omitempty"`
}

// MonthlyPerformance describes one calendar month present in the series.
type MonthlyPerformance struct {
	Month      string  `json:"month"` // YYYY-MM
	Return     float64 `json:"return"`
	StartValue float64 `json:"startValue"`
	EndValue   float64 `json:"endValue"`
}

// MonthlyStats aggregates the per-month breakdown. A month with a return
// of exactly zero counts as a down month.
type MonthlyStats struct {
	Months        []MonthlyPerformance `json:"months"`
	AverageReturn float64              `json:"averageReturn"`
	UpMonths      int                  `json:"upMonths"`
	DownMonths    int                  `json:"downMonths"`
	Best          MonthlyPerformance   `json:"best"`
	Worst         MonthlyPerformance   `json:"worst"`
}
