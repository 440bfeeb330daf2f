package engine

import (
	"time"

	"foliosim/types"
)

// SimulationConfig describes one portfolio simulation: the weighted
// basket, the starting capital, the rebalancing policy and the price
// range to simulate over.
type SimulationConfig struct {
	weights           types.WeightMap
	initialInvestment float64
	policy            types.RebalancePolicy
	start             time.Time
	end               time.Time
	benchmark         string
}

func NewSimulationConfig(weights types.WeightMap, initialInvestment float64, policy types.RebalancePolicy, start, end time.Time) *SimulationConfig {
	return &SimulationConfig{
		weights:           weights,
		initialInvestment: initialInvestment,
		policy:            policy,
		start:             start,
		end:               end,
	}
}

// WithBenchmark adds a benchmark ticker whose aligned closes feed the
// correlation metric.
func (c *SimulationConfig) WithBenchmark(ticker string) *SimulationConfig {
	c.benchmark = ticker
	return c
}

func (c *SimulationConfig) Weights() types.WeightMap      { return c.weights }
func (c *SimulationConfig) InitialInvestment() float64    { return c.initialInvestment }
func (c *SimulationConfig) Policy() types.RebalancePolicy { return c.policy }
func (c *SimulationConfig) Range() (time.Time, time.Time) { return c.start, c.end }
func (c *SimulationConfig) Benchmark() string             { return c.benchmark }

// ReportingConfig controls the optional outputs of a run. Empty paths
// disable the corresponding export.
type ReportingConfig struct {
	reportName     string
	valueCSVPath   string
	monthlyCSVPath string
	chartPath      string
}

func NewReportingConfig(reportName, valueCSVPath, monthlyCSVPath, chartPath string) *ReportingConfig {
	return &ReportingConfig{
		reportName:     reportName,
		valueCSVPath:   valueCSVPath,
		monthlyCSVPath: monthlyCSVPath,
		chartPath:      chartPath,
	}
}
