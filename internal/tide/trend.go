package tide

import (
	"math"

	"github.com/bbernstein/tidegauge/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SeaLevelRise fits sea level = slope*t + intercept by ordinary least squares,
// with t from DateNum, so the slope is in sea-level units per day. PValue is
// the two-sided p-value of the null hypothesis slope = 0.
//
// Fewer than two readings, or readings that all share one timestamp, cannot
// define a line and return an InsufficientDataError.
func SeaLevelRise(t models.Table) (models.TrendResult, error) {
	xs := make([]float64, 0, t.Len())
	ys := make([]float64, 0, t.Len())
	for _, r := range t.Rows() {
		v, ok := r.SeaLevel.Value()
		if !ok || !r.HasTime() {
			continue
		}
		xs = append(xs, DateNum(r.Time))
		ys = append(ys, v)
	}

	n := len(xs)
	if n < 2 {
		return models.TrendResult{}, NewInsufficientDataError(2, n, "a trend needs two sea level readings")
	}

	if floats.Min(xs) == floats.Max(xs) {
		return models.TrendResult{}, NewInsufficientDataError(2, 1, "all readings share one timestamp")
	}
	sxx := stat.Variance(xs, nil) * float64(n-1)

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	residuals := make([]float64, n)
	floats.AddScaledTo(residuals, ys, -slope, xs)
	floats.AddConst(-intercept, residuals)
	rss := floats.Dot(residuals, residuals)

	result := models.TrendResult{
		Slope:     slope,
		Intercept: intercept,
		Samples:   n,
		RSquared:  stat.RSquared(xs, ys, nil, intercept, slope),
	}

	dof := float64(n - 2)
	if dof == 0 || rss == 0 {
		// A line through every point: the slope is either exact or exactly zero.
		result.PValue = 1
		if slope != 0 {
			result.PValue = 0
		}
		if math.IsNaN(result.RSquared) {
			result.RSquared = 1
		}
		return result, nil
	}

	result.StdErr = math.Sqrt(rss / dof / sxx)
	tStat := slope / result.StdErr
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
	result.PValue = 2 * dist.Survival(math.Abs(tStat))
	return result, nil
}
