package tide

import (
	"sort"
	"strings"

	"github.com/bbernstein/tidegauge/internal/models"
)

// Combine merges two tables into a new table ordered by time. Duplicate
// timestamps are all kept. Rows sharing a timestamp are ordered by their
// contents, so the result does not depend on the argument order.
func Combine(a, b models.Table) models.Table {
	rows := make([]models.Row, 0, a.Len()+b.Len())
	rows = append(rows, a.Rows()...)
	rows = append(rows, b.Rows()...)

	sort.SliceStable(rows, func(i, j int) bool {
		return rowLess(rows[i], rows[j])
	})
	return models.NewTable(rows)
}

// CombineAll folds tables with Combine, starting from the empty table.
func CombineAll(tables ...models.Table) models.Table {
	combined := models.EmptyTable()
	for _, t := range tables {
		combined = Combine(combined, t)
	}
	return combined
}

func rowLess(a, b models.Row) bool {
	if !a.Time.Equal(b.Time) {
		return a.Time.Before(b.Time)
	}
	if c := strings.Compare(a.Cycle, b.Cycle); c != 0 {
		return c < 0
	}
	if c := compareLevels(a.SeaLevel, b.SeaLevel); c != 0 {
		return c < 0
	}
	if c := compareLevels(a.Residual, b.Residual); c != 0 {
		return c < 0
	}
	return a.Flag < b.Flag
}

// compareLevels orders missing readings before present ones.
func compareLevels(a, b models.Level) int {
	av, aok := a.Value()
	bv, bok := b.Value()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	case av < bv:
		return -1
	case av > bv:
		return 1
	}
	return 0
}
