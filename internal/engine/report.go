package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"foliosim/types"
)

// PrintReport writes the human-readable run summary. Percentages are
// formatted here; the Metrics values themselves stay fractions.
func PrintReport(w io.Writer, name string, r *Result) {
	m := r.Metrics

	fmt.Fprintf(w, "===== Portfolio Report: %s =====\n", name)
	if len(r.Series) > 0 {
		fmt.Fprintf(w, "Period:                %s .. %s (%d days)\n",
			r.Series[0].Date, r.Series[len(r.Series)-1].Date, len(r.Series))
	}

	fmt.Fprintln(w, "\n-- Performance --")
	fmt.Fprintf(w, "Initial Investment:    %.2f\n", m.InitialInvestment)
	fmt.Fprintf(w, "Final Balance:         %.2f\n", m.FinalBalance)
	fmt.Fprintf(w, "Total Return:          %.2f%%\n", m.TotalReturn*100)
	fmt.Fprintf(w, "CAGR:                  %.2f%%\n", m.CAGR*100)

	fmt.Fprintln(w, "\n-- Risk --")
	fmt.Fprintf(w, "Volatility (ann.):     %.2f%%\n", m.Volatility*100)
	fmt.Fprintf(w, "Sharpe Ratio:          %.2f\n", m.SharpeRatio)
	fmt.Fprintf(w, "Best Day:              %.2f%%\n", m.BestDay*100)
	fmt.Fprintf(w, "Worst Day:             %.2f%%\n", m.WorstDay*100)
	fmt.Fprintf(w, "Max Drawdown:          -%.2f%%\n", m.MaxDrawdown*100)

	if m.Monthly != nil {
		fmt.Fprintln(w, "\n-- Monthly --")
		fmt.Fprintf(w, "Average Return:        %.2f%%\n", m.Monthly.AverageReturn*100)
		fmt.Fprintf(w, "Up / Down Months:      %d / %d\n", m.Monthly.UpMonths, m.Monthly.DownMonths)
		fmt.Fprintf(w, "Best Month:            %s (%.2f%%)\n", m.Monthly.Best.Month, m.Monthly.Best.Return*100)
		fmt.Fprintf(w, "Worst Month:           %s (%.2f%%)\n", m.Monthly.Worst.Month, m.Monthly.Worst.Return*100)
	}

	if m.BenchmarkCorrelation != nil {
		fmt.Fprintln(w, "\n-- Benchmark --")
		fmt.Fprintf(w, "Correlation:           %.3f\n", *m.BenchmarkCorrelation)
	}

	if !r.Validation.Valid {
		fmt.Fprintln(w, "\n-- Warnings --")
		fmt.Fprintf(w, "Unpriced at start:     %v\n", r.Validation.InvalidAssets)
		if r.Validation.EarliestValidDate != "" {
			fmt.Fprintf(w, "All assets priced from: %s\n", r.Validation.EarliestValidDate)
		}
	}

	fmt.Fprintln(w, "================================")
}

// WriteValueSeriesCSVFile writes the value series to a CSV file at path.
func WriteValueSeriesCSVFile(path string, series []types.ValuePoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create value series file: %w", err)
	}
	defer f.Close()

	return WriteValueSeriesCSV(f, series)
}

// WriteValueSeriesCSV writes the value series to any io.Writer as CSV.
func WriteValueSeriesCSV(w io.Writer, series []types.ValuePoint) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"date", "value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range series {
		record := []string{p.Date, strconv.FormatFloat(p.Value, 'f', -1, 64)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteMonthlyCSVFile writes the monthly breakdown to a CSV file at path.
func WriteMonthlyCSVFile(path string, stats *types.MonthlyStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create monthly file: %w", err)
	}
	defer f.Close()

	return WriteMonthlyCSV(f, stats)
}

// WriteMonthlyCSV writes the monthly breakdown to any io.Writer as CSV.
func WriteMonthlyCSV(w io.Writer, stats *types.MonthlyStats) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"month", "return", "start_value", "end_value"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if stats == nil {
		return nil
	}
	for _, mp := range stats.Months {
		record := []string{
			mp.Month,
			strconv.FormatFloat(mp.Return, 'f', -1, 64),
			strconv.FormatFloat(mp.StartValue, 'f', -1, 64),
			strconv.FormatFloat(mp.EndValue, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteReports emits every export enabled by the reporting config and
// prints the summary to stdout.
func (e *Engine) WriteReports(r *Result) error {
	if e.reporting == nil {
		return nil
	}
	PrintReport(os.Stdout, e.reporting.reportName, r)

	if e.reporting.valueCSVPath != "" {
		if err := WriteValueSeriesCSVFile(e.reporting.valueCSVPath, r.Series); err != nil {
			return err
		}
		e.log.Info().Str("path", e.reporting.valueCSVPath).Msg("value series exported")
	}
	if e.reporting.monthlyCSVPath != "" && r.Metrics.Monthly != nil {
		if err := WriteMonthlyCSVFile(e.reporting.monthlyCSVPath, r.Metrics.Monthly); err != nil {
			return err
		}
		e.log.Info().Str("path", e.reporting.monthlyCSVPath).Msg("monthly breakdown exported")
	}
	if e.reporting.chartPath != "" {
		if err := WriteValueChartPNG(e.reporting.chartPath, e.reporting.reportName, r); err != nil {
			return err
		}
		e.log.Info().Str("path", e.reporting.chartPath).Msg("chart exported")
	}
	return nil
}
