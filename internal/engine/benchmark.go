package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"foliosim/types"
)

const (
	// weeklyStride samples the portfolio series every 5 points for the
	// primary correlation strategy.
	weeklyStride = 5
	// minWeeklyPairs is the sample count the weekly strategy needs before
	// its correlation is trusted.
	minWeeklyPairs = 10
	// minDailyPairs is the (stricter) sample count the day-by-day fallback
	// needs before its correlation is trusted.
	minDailyPairs = 20
)

// benchmarkIndex is a backward-looking lookup over a benchmark series.
// Only dates with a positive value participate; "nearest" means the date
// itself when present, otherwise the greatest benchmark date before it.
type benchmarkIndex struct {
	dates  []string
	values map[string]float64
}

func newBenchmarkIndex(points []types.ValuePoint) *benchmarkIndex {
	idx := &benchmarkIndex{values: make(map[string]float64, len(points))}
	for _, p := range points {
		if p.Value <= 0 {
			continue
		}
		if _, seen := idx.values[p.Date]; !seen {
			idx.dates = append(idx.dates, p.Date)
		}
		idx.values[p.Date] = p.Value
	}
	sort.Strings(idx.dates)
	return idx
}

// nearest returns the closest benchmark date at or before the target date
// along with its value. It never looks forward. ISO dates compare
// lexicographically in chronological order, so a binary search suffices.
func (b *benchmarkIndex) nearest(date string) (string, float64, bool) {
	i := sort.SearchStrings(b.dates, date)
	if i < len(b.dates) && b.dates[i] == date {
		return date, b.values[date], true
	}
	if i == 0 {
		return "", 0, false
	}
	d := b.dates[i-1]
	return d, b.values[d], true
}

// benchmarkCorrelation estimates the Pearson correlation between the
// portfolio series and a benchmark series. The weekly stride strategy is
// tried first; the day-by-day walk is only a fallback. When neither
// produces enough paired samples the correlation is undefined (nil).
func benchmarkCorrelation(values, benchmark []types.ValuePoint) *float64 {
	idx := newBenchmarkIndex(benchmark)
	if len(idx.dates) == 0 {
		return nil
	}

	if xs, ys := idx.strideReturns(values, weeklyStride); len(xs) >= minWeeklyPairs {
		r := pearson(xs, ys)
		return &r
	}
	if xs, ys := idx.dailyReturns(values); len(xs) >= minDailyPairs {
		r := pearson(xs, ys)
		return &r
	}
	return nil
}

// strideReturns pairs the portfolio return over each stride of the series
// with the benchmark return between the nearest benchmark dates of the
// stride's endpoints. Strides whose endpoints resolve to the same
// benchmark date carry no benchmark movement and are skipped.
func (b *benchmarkIndex) strideReturns(values []types.ValuePoint, stride int) (xs, ys []float64) {
	for i := stride; i < len(values); i += stride {
		start, end := values[i-stride], values[i]
		sd, sv, ok := b.nearest(start.Date)
		if !ok {
			continue
		}
		ed, ev, ok := b.nearest(end.Date)
		if !ok || sd == ed {
			continue
		}
		if start.Value == 0 || sv == 0 {
			continue
		}
		xs = append(xs, end.Value/start.Value-1)
		ys = append(ys, ev/sv-1)
	}
	return xs, ys
}

// dailyReturns walks the series point by point, emitting a pair each time
// the nearest benchmark date advances. Points that map to the same
// benchmark date as the previous sample are skipped.
func (b *benchmarkIndex) dailyReturns(values []types.ValuePoint) (xs, ys []float64) {
	if len(values) == 0 {
		return nil, nil
	}
	lastDate, lastBench, ok := b.nearest(values[0].Date)
	lastValue := values[0].Value
	if !ok {
		lastDate = ""
	}
	for _, p := range values[1:] {
		d, bv, ok := b.nearest(p.Date)
		if !ok || d == lastDate {
			continue
		}
		if lastDate != "" && lastValue != 0 && lastBench != 0 {
			xs = append(xs, p.Value/lastValue-1)
			ys = append(ys, bv/lastBench-1)
		}
		lastDate, lastBench, lastValue = d, bv, p.Value
	}
	return xs, ys
}

// pearson is the sample Pearson correlation, with a flat series (zero sum
// of squares on either side) mapping to 0 rather than NaN.
func pearson(xs, ys []float64) float64 {
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}
