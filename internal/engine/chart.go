package engine

import (
	"fmt"
	"os"

	charts "github.com/vicanso/go-charts/v2"
)

// RenderValueChart renders the portfolio value series (and, when present,
// the benchmark rescaled to the same starting value) as a PNG line chart.
func RenderValueChart(title string, r *Result) ([]byte, error) {
	if len(r.Series) == 0 {
		return nil, fmt.Errorf("render chart: empty value series")
	}

	xLabels := make([]string, 0, len(r.Series))
	values := make([]float64, 0, len(r.Series))
	for _, p := range r.Series {
		xLabels = append(xLabels, p.Date)
		values = append(values, p.Value)
	}
	seriesList := [][]float64{values}
	legend := []string{"Portfolio"}

	if len(r.Benchmark) == len(r.Series) && len(r.Benchmark) > 0 && r.Benchmark[0].Value > 0 {
		// Rescale so both lines start at the initial investment.
		scale := r.Series[0].Value / r.Benchmark[0].Value
		bench := make([]float64, len(r.Benchmark))
		for i, p := range r.Benchmark {
			bench[i] = p.Value * scale
		}
		seriesList = append(seriesList, bench)
		legend = append(legend, "Benchmark")
	}

	subtitle := fmt.Sprintf("Return: %.2f%% | CAGR: %.2f%% | Sharpe: %.2f | MaxDD: -%.2f%%",
		r.Metrics.TotalReturn*100, r.Metrics.CAGR*100, r.Metrics.SharpeRatio, r.Metrics.MaxDrawdown*100)

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = len(xLabels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	p, err := charts.LineRender(
		seriesList,
		charts.TitleTextOptionFunc(title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.LegendOptionFunc(charts.LegendOption{Data: legend}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf, nil
}

// WriteValueChartPNG renders the chart and writes it to path.
func WriteValueChartPNG(path, title string, r *Result) error {
	buf, err := RenderValueChart(title, r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
