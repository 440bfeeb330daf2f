package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"foliosim/internal/marketdata"
	"foliosim/types"
)

var (
	ErrNoAssets = errors.New("simulation requires at least one weighted asset")
	ErrNoPrices = errors.New("no prices found for the requested range")
)

// PriceSource supplies chronologically ordered, date-aligned daily price
// records for a set of tickers. Implementations own fetching, alignment
// and forward-filling; the engine consumes the records as-is.
type PriceSource interface {
	GetDailyCloses(ctx context.Context, tickers []string, start, end time.Time) ([]types.PriceRecord, error)
}

// Engine wires a price source to the valuation and metrics computations.
type Engine struct {
	source    PriceSource
	sim       *SimulationConfig
	reporting *ReportingConfig
	log       zerolog.Logger
}

func NewEngine(source PriceSource, sim *SimulationConfig, reporting *ReportingConfig, log zerolog.Logger) *Engine {
	return &Engine{
		source:    source,
		sim:       sim,
		reporting: reporting,
		log:       log.With().Str("component", "engine").Logger(),
	}
}

// Result bundles everything a single run produces.
type Result struct {
	Series     []types.ValuePoint    `json:"series"`
	Benchmark  []types.ValuePoint    `json:"benchmark,omitempty"`
	Metrics    types.Metrics         `json:"metrics"`
	Validation types.AssetValidation `json:"validation"`
}

// Run fetches prices, values the portfolio day by day and derives the
// metrics. The only failure modes are empty configuration and price
// source errors; the computations themselves cannot fail.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	tickers := e.sim.weights.Tickers()
	if len(tickers) == 0 {
		return nil, ErrNoAssets
	}

	prices, err := e.source.GetDailyCloses(ctx, tickers, e.sim.start, e.sim.end)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	if len(prices) == 0 {
		return nil, ErrNoPrices
	}
	e.log.Info().
		Int("tickers", len(tickers)).
		Int("days", len(prices)).
		Str("policy", e.sim.policy.String()).
		Msg("prices loaded")

	validation := ValidateAssetsForDateRange(prices, e.sim.weights)
	if !validation.Valid {
		e.log.Warn().
			Strs("assets", validation.InvalidAssets).
			Str("earliest_valid", validation.EarliestValidDate).
			Msg("assets without a price at range start stay unallocated")
	}

	series := ComputeValueSeries(prices, e.sim.weights, e.sim.initialInvestment, e.sim.policy)

	var benchmark []types.ValuePoint
	if e.sim.benchmark != "" {
		benchmark, err = e.loadBenchmark(ctx)
		if err != nil {
			// The benchmark only feeds an optional metric; a run should
			// not die because an index series is unavailable.
			e.log.Warn().Err(err).Str("ticker", e.sim.benchmark).Msg("benchmark unavailable, skipping correlation")
			benchmark = nil
		}
	}

	metrics := ComputeMetrics(series, e.sim.initialInvestment, benchmark)

	return &Result{
		Series:     series,
		Benchmark:  benchmark,
		Metrics:    metrics,
		Validation: validation,
	}, nil
}

func (e *Engine) loadBenchmark(ctx context.Context) ([]types.ValuePoint, error) {
	records, err := e.source.GetDailyCloses(ctx, []string{e.sim.benchmark}, e.sim.start, e.sim.end)
	if err != nil {
		return nil, err
	}
	return marketdata.ToValuePoints(records, e.sim.benchmark), nil
}
