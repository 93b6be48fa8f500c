package tide

import (
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// unixEpochJD is the Julian date of 1970-01-01T00:00:00Z.
const unixEpochJD = 2440587.5

// DateNum converts an instant to days since 1970-01-01T00:00:00Z, including
// the fraction of the day.
func DateNum(t time.Time) float64 {
	return julian.TimeToJD(t.UTC()) - unixEpochJD
}
