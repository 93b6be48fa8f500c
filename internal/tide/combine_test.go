package tide

import (
	"math"
	"testing"
	"time"

	"github.com/bbernstein/tidegauge/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine(t *testing.T) {
	early := table(epoch, 1, 2, 3)
	late := table(epoch.Add(3*time.Hour), 4, 5)

	tests := []struct {
		name string
		a, b models.Table
		want []float64
	}{
		{name: "in order", a: early, b: late, want: []float64{1, 2, 3, 4, 5}},
		{name: "reversed arguments", a: late, b: early, want: []float64{1, 2, 3, 4, 5}},
		{name: "empty left", a: models.EmptyTable(), b: late, want: []float64{4, 5}},
		{name: "empty right", a: early, b: models.EmptyTable(), want: []float64{1, 2, 3}},
		{name: "overlapping timestamps keep duplicates", a: early, b: early, want: []float64{1, 1, 2, 2, 3, 3}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Combine(tt.a, tt.b)
			assert.Equal(t, tt.want, seaLevels(got))
			assert.True(t, got.IsSorted())
		})
	}
}

func TestCombineSortsUnsortedInput(t *testing.T) {
	rows := table(epoch, 1, 2, 3).Rows()
	rows[0], rows[2] = rows[2], rows[0]
	unsorted := models.NewTable(rows)

	got := Combine(models.EmptyTable(), unsorted)
	assert.Equal(t, []float64{1, 2, 3}, seaLevels(got))
	assert.False(t, unsorted.IsSorted(), "input must not be reordered")
}

func TestCombineIsOrderIndependent(t *testing.T) {
	a := table(epoch, 1, math.NaN(), 3)
	b := table(epoch.Add(time.Hour), 7, 8)
	c := table(epoch.Add(30*time.Minute), 9)

	// Same timestamps with different readings must still land in a fixed order.
	b2 := table(epoch, 6)

	assert.Equal(t, Combine(a, b).Rows(), Combine(b, a).Rows())
	assert.Equal(t, Combine(a, b2).Rows(), Combine(b2, a).Rows())
	assert.Equal(t,
		Combine(Combine(a, b), c).Rows(),
		Combine(a, Combine(b, c)).Rows())
	assert.Equal(t, CombineAll(a, b, c).Rows(), CombineAll(c, b, a).Rows())
}

func TestCombineAllEmpty(t *testing.T) {
	got := CombineAll()
	require.NotNil(t, got.Rows())
	assert.True(t, got.IsEmpty())
}

func TestCompareLevels(t *testing.T) {
	assert.Equal(t, 0, compareLevels(models.Missing(), models.Missing()))
	assert.Equal(t, -1, compareLevels(models.Missing(), models.Reading(0)))
	assert.Equal(t, 1, compareLevels(models.Reading(0), models.Missing()))
	assert.Equal(t, -1, compareLevels(models.Reading(1), models.Reading(2)))
	assert.Equal(t, 0, compareLevels(models.Reading(2), models.Reading(2)))
}
