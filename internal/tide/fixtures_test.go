package tide

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bbernstein/tidegauge/internal/models"
	"github.com/stretchr/testify/require"
)

const stationHeader = `Port:              P035
Site:              Aberdeen
Latitude:          57.14405
Longitude:         -2.08071
Start Date:        2000/01/01 00:00:00
End Date:          2000/12/31 23:00:00
Contributor:       National Oceanography Centre, Liverpool
Datum information: The data refer to Admiralty Chart Datum (ACD)
Parameter code:    ASLVTD02 = Surface elevation (unspecified datum) of the water body
  Cycle    Date      Time    ASLVTD02     Residual
 Number yyyy mm dd hh mi ssf           f            f
`

var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func dataLine(cycle int, ts time.Time, level, residual string) string {
	return fmt.Sprintf("%6d) %s %s %10s %10s", cycle, ts.Format("2006/01/02"), ts.Format("15:04:05"), level, residual)
}

func stationFile(lines ...string) string {
	return stationHeader + strings.Join(lines, "\n") + "\n"
}

// hourlyFile renders one reading per hour from start.
func hourlyFile(start time.Time, levels ...float64) string {
	lines := make([]string, len(levels))
	for i, v := range levels {
		lines[i] = dataLine(i+1, start.Add(time.Duration(i)*time.Hour), fmt.Sprintf("%.4f", v), "0.0000")
	}
	return stationFile(lines...)
}

func writeStationFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// table builds an hourly table from start; NaN marks a missing reading.
func table(start time.Time, levels ...float64) models.Table {
	rows := make([]models.Row, len(levels))
	for i, v := range levels {
		rows[i] = models.Row{
			Cycle:    fmt.Sprint(i + 1),
			Time:     start.Add(time.Duration(i) * time.Hour),
			SeaLevel: models.Reading(v),
			Residual: models.Reading(0),
		}
	}
	return models.NewTable(rows)
}

func seaLevels(t models.Table) []float64 {
	out := make([]float64, t.Len())
	for i, r := range t.Rows() {
		v, ok := r.SeaLevel.Value()
		if !ok {
			v = -999
		}
		out[i] = v
	}
	return out
}
