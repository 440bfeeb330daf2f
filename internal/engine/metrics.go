package engine

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"foliosim/types"
)

// RiskFreeRate is the fixed annual rate used for the Sharpe ratio.
// 3% is the constant the primary valuation path has always used; the 2%
// figure that appears in some presentation code is not applied here.
const RiskFreeRate = 0.03

// daysPerYear uses the 24/7 crypto convention of a fixed 365-day year for
// both CAGR elapsed time and volatility annualization, not the 252
// trading-day convention.
const daysPerYear = 365.0

// ComputeMetrics derives summary statistics from a value series and an
// optional benchmark series. It is a pure function: the same inputs always
// produce the same Metrics, and no input makes it fail.
//
// A series with fewer than 2 points is the defined degenerate case, not an
// error: FinalBalance echoes the initial investment and every ratio is 0.
func ComputeMetrics(values []types.ValuePoint, initialInvestment float64, benchmark []types.ValuePoint) types.Metrics {
	m := types.Metrics{
		InitialInvestment: initialInvestment,
		FinalBalance:      initialInvestment,
	}
	if len(values) < 2 {
		return m
	}

	m.FinalBalance = values[len(values)-1].Value
	if initialInvestment != 0 {
		m.TotalReturn = (m.FinalBalance - initialInvestment) / initialInvestment
	}

	years := daysBetween(values[0].Date, values[len(values)-1].Date) / daysPerYear
	if years > 0 && initialInvestment > 0 && m.FinalBalance > 0 {
		m.CAGR = math.Pow(m.FinalBalance/initialInvestment, 1/years) - 1
	}

	returns := dailyReturns(values)
	m.Volatility = stat.PopStdDev(returns, nil) * math.Sqrt(daysPerYear)
	if m.Volatility != 0 {
		m.SharpeRatio = (m.CAGR - RiskFreeRate) / m.Volatility
	}

	m.BestDay, m.WorstDay = extremes(returns)
	m.MaxDrawdown = maxDrawdown(values)
	m.Monthly = monthlyStats(values)

	if len(benchmark) >= 2 {
		m.BenchmarkCorrelation = benchmarkCorrelation(values, benchmark)
	}
	return m
}

// dailyReturns computes the n-1 simple returns of an n-point series.
// A zero previous value yields a 0 return for that day.
func dailyReturns(values []types.ValuePoint) []float64 {
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1].Value
		if prev != 0 {
			returns = append(returns, values[i].Value/prev-1)
		} else {
			returns = append(returns, 0)
		}
	}
	return returns
}

func extremes(returns []float64) (best, worst float64) {
	if len(returns) == 0 {
		return 0, 0
	}
	best, worst = returns[0], returns[0]
	for _, r := range returns[1:] {
		if r > best {
			best = r
		}
		if r < worst {
			worst = r
		}
	}
	return best, worst
}

// maxDrawdown runs the classic running-peak algorithm and reports the
// deepest peak-to-trough decline as a non-negative fraction.
func maxDrawdown(values []types.ValuePoint) float64 {
	if len(values) == 0 {
		return 0
	}
	peak := values[0].Value
	var maxDD float64
	for _, p := range values[1:] {
		if p.Value > peak {
			peak = p.Value
			continue
		}
		if peak > 0 {
			if dd := (peak - p.Value) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// monthlyStats groups consecutive points by calendar month and aggregates
// the per-month returns. A month holding a single point has return 0, and
// a month with a return of exactly 0 counts as a down month.
func monthlyStats(values []types.ValuePoint) *types.MonthlyStats {
	months := make([]types.MonthlyPerformance, 0, 8)
	for i := 0; i < len(values); {
		month := monthOf(values[i].Date)
		j := i
		for j < len(values) && monthOf(values[j].Date) == month {
			j++
		}
		start, end := values[i].Value, values[j-1].Value
		var ret float64
		if start != 0 {
			ret = end/start - 1
		}
		months = append(months, types.MonthlyPerformance{
			Month:      month,
			Return:     ret,
			StartValue: start,
			EndValue:   end,
		})
		i = j
	}
	if len(months) == 0 {
		return nil
	}

	stats := &types.MonthlyStats{
		Months: months,
		Best:   months[0],
		Worst:  months[0],
	}
	returns := make([]float64, len(months))
	for i, mp := range months {
		returns[i] = mp.Return
		if mp.Return > 0 {
			stats.UpMonths++
		} else {
			stats.DownMonths++
		}
		// First occurrence wins ties, hence the strict comparisons.
		if mp.Return > stats.Best.Return {
			stats.Best = mp
		}
		if mp.Return < stats.Worst.Return {
			stats.Worst = mp
		}
	}
	stats.AverageReturn = stat.Mean(returns, nil)
	return stats
}

// monthOf returns the YYYY-MM prefix of an ISO date.
func monthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// daysBetween returns the elapsed calendar days between two ISO dates.
// Malformed dates count as zero elapsed time.
func daysBetween(from, to string) float64 {
	a, err := time.Parse(types.DateFormat, from)
	if err != nil {
		return 0
	}
	b, err := time.Parse(types.DateFormat, to)
	if err != nil {
		return 0
	}
	return b.Sub(a).Hours() / 24
}
