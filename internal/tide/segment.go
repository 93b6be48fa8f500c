package tide

import (
	"time"

	"github.com/bbernstein/tidegauge/internal/models"
	"gonum.org/v1/gonum/stat"
)

// ExtractYear selects every row of the given calendar year (UTC) and removes
// the mean sea level of the selection. All of 31 December is included.
func ExtractYear(t models.Table, year int) (models.Table, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return ExtractSection(t, start, end)
}

// ExtractSection selects rows with start <= time <= end and removes the mean
// sea level of the selection. Missing readings stay missing and residuals are
// left untouched.
func ExtractSection(t models.Table, start, end time.Time) (models.Table, error) {
	var selected []models.Row
	var levels []float64
	for _, r := range t.Rows() {
		if !r.HasTime() || r.Time.Before(start) || r.Time.After(end) {
			continue
		}
		selected = append(selected, r)
		if v, ok := r.SeaLevel.Value(); ok {
			levels = append(levels, v)
		}
	}

	if len(levels) == 0 {
		return models.Table{}, NewEmptySegmentError(start, end, len(selected))
	}

	mean := stat.Mean(levels, nil)
	for i := range selected {
		selected[i].SeaLevel = selected[i].SeaLevel.Shift(mean)
	}
	return models.NewTable(selected), nil
}
