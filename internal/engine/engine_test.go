package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foliosim/types"
)

type stubSource struct {
	records   map[string][]types.PriceRecord // keyed by first requested ticker
	err       error
	lastCalls [][]string
}

func (s *stubSource) GetDailyCloses(_ context.Context, tickers []string, _, _ time.Time) ([]types.PriceRecord, error) {
	s.lastCalls = append(s.lastCalls, tickers)
	if s.err != nil {
		return nil, s.err
	}
	return s.records[tickers[0]], nil
}

func testRange(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start, err := time.Parse(types.DateFormat, "2024-01-01")
	require.NoError(t, err)
	return start, start.AddDate(0, 0, 2)
}

func TestEngineRun(t *testing.T) {
	source := &stubSource{records: map[string][]types.PriceRecord{
		"X": {
			record("2024-01-01", map[string]float64{"X": 100}),
			record("2024-01-02", map[string]float64{"X": 110}),
			record("2024-01-03", map[string]float64{"X": 121}),
		},
	}}
	start, end := testRange(t)
	sim := NewSimulationConfig(types.WeightMap{"X": 100}, 1000, types.RebalanceNone, start, end)
	eng := NewEngine(source, sim, NewReportingConfig("test", "", "", ""), zerolog.Nop())

	result, err := eng.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Series, 3)
	assert.InDelta(t, 1000, result.Series[0].Value, 1e-9)
	assert.InDelta(t, 1210, result.Series[2].Value, 1e-9)
	assert.InDelta(t, 0.21, result.Metrics.TotalReturn, 1e-9)
	assert.True(t, result.Validation.Valid)
	assert.Nil(t, result.Metrics.BenchmarkCorrelation)
}

func TestEngineRunFetchesBenchmarkSeparately(t *testing.T) {
	source := &stubSource{records: map[string][]types.PriceRecord{
		"X": {
			record("2024-01-01", map[string]float64{"X": 100}),
			record("2024-01-02", map[string]float64{"X": 110}),
		},
		"SPY": {
			record("2024-01-01", map[string]float64{"SPY": 470}),
			record("2024-01-02", map[string]float64{"SPY": 472}),
		},
	}}
	start, end := testRange(t)
	sim := NewSimulationConfig(types.WeightMap{"X": 100}, 1000, types.RebalanceNone, start, end).
		WithBenchmark("SPY")
	eng := NewEngine(source, sim, NewReportingConfig("test", "", "", ""), zerolog.Nop())

	result, err := eng.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, source.lastCalls, 2)
	assert.Equal(t, []string{"X"}, source.lastCalls[0])
	assert.Equal(t, []string{"SPY"}, source.lastCalls[1])
	require.Len(t, result.Benchmark, 2)
	assert.Equal(t, 470.0, result.Benchmark[0].Value)
	// Two portfolio points produce nowhere near enough correlation pairs.
	assert.Nil(t, result.Metrics.BenchmarkCorrelation)
}

func TestEngineRunErrors(t *testing.T) {
	start, end := testRange(t)

	t.Run("no weights", func(t *testing.T) {
		eng := NewEngine(&stubSource{}, NewSimulationConfig(types.WeightMap{}, 1000, types.RebalanceNone, start, end), NewReportingConfig("t", "", "", ""), zerolog.Nop())
		_, err := eng.Run(context.Background())
		assert.ErrorIs(t, err, ErrNoAssets)
	})

	t.Run("source failure", func(t *testing.T) {
		boom := errors.New("connection refused")
		eng := NewEngine(&stubSource{err: boom}, NewSimulationConfig(types.WeightMap{"X": 100}, 1000, types.RebalanceNone, start, end), NewReportingConfig("t", "", "", ""), zerolog.Nop())
		_, err := eng.Run(context.Background())
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty range", func(t *testing.T) {
		eng := NewEngine(&stubSource{}, NewSimulationConfig(types.WeightMap{"X": 100}, 1000, types.RebalanceNone, start, end), NewReportingConfig("t", "", "", ""), zerolog.Nop())
		_, err := eng.Run(context.Background())
		assert.ErrorIs(t, err, ErrNoPrices)
	})
}
