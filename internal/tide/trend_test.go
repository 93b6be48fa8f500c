package tide

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bbernstein/tidegauge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyTable(start time.Time, levels []float64) models.Table {
	rows := make([]models.Row, len(levels))
	for i, v := range levels {
		rows[i] = models.Row{
			Time:     start.AddDate(0, 0, i),
			SeaLevel: models.Reading(v),
		}
	}
	return models.NewTable(rows)
}

func TestDateNum(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want float64
	}{
		{name: "unix epoch", in: time.Unix(0, 0), want: 0},
		{name: "midday next day", in: time.Date(1970, 1, 2, 12, 0, 0, 0, time.UTC), want: 1.5},
		{name: "before epoch", in: time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC), want: -1},
		{name: "offset zone", in: time.Date(2000, 1, 1, 1, 0, 0, 0, time.FixedZone("CET", 3600)), want: 10957},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, DateNum(tt.in), 1e-6)
		})
	}
}

func TestSeaLevelRiseRecoversSlope(t *testing.T) {
	levels := make([]float64, 1000)
	for i := range levels {
		wobble := 0.01
		if i%2 == 1 {
			wobble = -0.01
		}
		levels[i] = 3 + 0.001*float64(i) + wobble
	}
	data := dailyTable(epoch, levels)

	result, err := SeaLevelRise(data)
	require.NoError(t, err)

	assert.InDelta(t, 0.001, result.Slope, 1e-6)
	assert.Less(t, result.PValue, 1e-6)
	assert.Greater(t, result.RSquared, 0.99)
	assert.Equal(t, 1000, result.Samples)
	assert.Greater(t, result.StdErr, 0.0)
}

func TestSeaLevelRiseNoTrend(t *testing.T) {
	levels := make([]float64, 1000)
	for i := range levels {
		levels[i] = 1
		if i%2 == 1 {
			levels[i] = -1
		}
	}

	result, err := SeaLevelRise(dailyTable(epoch, levels))
	require.NoError(t, err)

	assert.InDelta(t, 0, result.Slope, 1e-4)
	assert.Greater(t, result.PValue, 0.05)
}

func TestSeaLevelRiseIgnoresMissing(t *testing.T) {
	levels := []float64{1, 2, 3, 4, 5, 6}
	clean, err := SeaLevelRise(dailyTable(epoch, levels))
	require.NoError(t, err)

	rows := dailyTable(epoch, levels).Rows()
	gappy := append(rows[:3:3], models.Row{Time: epoch.AddDate(0, 0, 10)}, models.Row{Cycle: "bad"})
	gappy = append(gappy, rows[3:]...)

	result, err := SeaLevelRise(models.NewTable(gappy))
	require.NoError(t, err)
	assert.InDelta(t, clean.Slope, result.Slope, 1e-12)
	assert.Equal(t, 6, result.Samples)
}

func TestSeaLevelRiseExactFit(t *testing.T) {
	rising, err := SeaLevelRise(dailyTable(epoch, []float64{1, 2}))
	require.NoError(t, err)
	assert.InDelta(t, 1, rising.Slope, 1e-9)
	assert.Equal(t, 0.0, rising.PValue)

	flat, err := SeaLevelRise(dailyTable(epoch, []float64{2, 2, 2}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, flat.Slope)
	assert.Equal(t, 1.0, flat.PValue)
}

func TestSeaLevelRiseErrors(t *testing.T) {
	sameTime := models.NewTable([]models.Row{
		{Time: epoch, SeaLevel: models.Reading(1)},
		{Time: epoch, SeaLevel: models.Reading(2)},
	})

	tests := []struct {
		name     string
		table    models.Table
		wantHave int
	}{
		{name: "empty table", table: models.EmptyTable(), wantHave: 0},
		{name: "single reading", table: dailyTable(epoch, []float64{1}), wantHave: 1},
		{name: "only missing", table: table(epoch, math.NaN(), math.NaN()), wantHave: 0},
		{name: "one timestamp", table: sameTime, wantHave: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := SeaLevelRise(tt.table)
			var insufficient *InsufficientDataError
			require.True(t, errors.As(err, &insufficient))
			assert.Equal(t, tt.wantHave, insufficient.Have)
		})
	}
}

func TestSeaLevelRiseStandardError(t *testing.T) {
	// x = 0..3 days: sxx = 5, slope = 0.9, residuals (0.1, 0.2, -0.7, 0.4).
	result, err := SeaLevelRise(dailyTable(epoch, []float64{0, 1, 1, 3}))
	require.NoError(t, err)

	assert.InDelta(t, 0.9, result.Slope, 1e-9)
	assert.InDelta(t, math.Sqrt(0.7/2/5), result.StdErr, 1e-9)
	assert.InDelta(t, 1-0.7/4.75, result.RSquared, 1e-9)
	assert.Greater(t, result.PValue, 0.0)
	assert.Less(t, result.PValue, 0.1)
}
