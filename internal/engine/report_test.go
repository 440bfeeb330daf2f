package engine

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foliosim/types"
)

func TestWriteValueSeriesCSV(t *testing.T) {
	series := []types.ValuePoint{
		{Date: "2024-01-01", Value: 1000},
		{Date: "2024-01-02", Value: 1100.5},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteValueSeriesCSV(&buf, series))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "value"}, rows[0])
	assert.Equal(t, []string{"2024-01-01", "1000"}, rows[1])
	assert.Equal(t, []string{"2024-01-02", "1100.5"}, rows[2])
}

func TestWriteMonthlyCSV(t *testing.T) {
	stats := &types.MonthlyStats{
		Months: []types.MonthlyPerformance{
			{Month: "2024-01", Return: 0.1, StartValue: 1000, EndValue: 1100},
			{Month: "2024-02", Return: -0.05, StartValue: 1100, EndValue: 1045},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyCSV(&buf, stats))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"month", "return", "start_value", "end_value"}, rows[0])
	assert.Equal(t, []string{"2024-01", "0.1", "1000", "1100"}, rows[1])
	assert.Equal(t, []string{"2024-02", "-0.05", "1100", "1045"}, rows[2])
}

func TestPrintReportSections(t *testing.T) {
	series := []types.ValuePoint{
		{Date: "2024-01-01", Value: 1000},
		{Date: "2024-01-02", Value: 1100},
		{Date: "2024-01-03", Value: 1210},
	}
	result := &Result{
		Series:     series,
		Metrics:    ComputeMetrics(series, 1000, nil),
		Validation: types.AssetValidation{Valid: true},
	}

	var buf bytes.Buffer
	PrintReport(&buf, "crypto 60/40", result)
	out := buf.String()

	assert.Contains(t, out, "Portfolio Report: crypto 60/40")
	assert.Contains(t, out, "Total Return:          21.00%")
	assert.Contains(t, out, "-- Monthly --")
	assert.NotContains(t, out, "-- Warnings --")
	// No benchmark was supplied, so no correlation section.
	assert.False(t, strings.Contains(out, "-- Benchmark --"))
}

func TestPrintReportWarnsOnInvalidAssets(t *testing.T) {
	result := &Result{
		Series:  []types.ValuePoint{{Date: "2024-01-01", Value: 500}},
		Metrics: ComputeMetrics(nil, 1000, nil),
		Validation: types.AssetValidation{
			Valid:             false,
			InvalidAssets:     []string{"NEW"},
			EarliestValidDate: "2024-03-01",
		},
	}

	var buf bytes.Buffer
	PrintReport(&buf, "late listing", result)

	assert.Contains(t, buf.String(), "-- Warnings --")
	assert.Contains(t, buf.String(), "NEW")
	assert.Contains(t, buf.String(), "2024-03-01")
}
