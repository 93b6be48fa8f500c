package tide

import (
	"math"
	"sort"
	"strings"
)

// constituentSpeeds holds the angular speed of the NOAA harmonic constituents
// in degrees per mean solar hour.
var constituentSpeeds = map[string]float64{
	"M2":   28.9841042,
	"S2":   30.0,
	"N2":   28.4397295,
	"K1":   15.0410686,
	"M4":   57.9682084,
	"O1":   13.9430356,
	"M6":   86.9523127,
	"MK3":  44.0251729,
	"S4":   60.0,
	"MN4":  57.4238337,
	"NU2":  28.5125831,
	"S6":   90.0,
	"MU2":  27.9682084,
	"2N2":  27.8953548,
	"OO1":  16.1391017,
	"LAM2": 29.4556253,
	"S1":   15.0,
	"M1":   14.4966939,
	"J1":   15.5854433,
	"MM":   0.5443747,
	"SSA":  0.0821373,
	"SA":   0.0410686,
	"MSF":  1.0158958,
	"MF":   1.0980331,
	"RHO":  13.4715145,
	"Q1":   13.3986609,
	"T2":   29.9589333,
	"R2":   30.0410667,
	"2Q1":  12.8542862,
	"P1":   14.9589314,
	"2SM2": 31.0158958,
	"M3":   43.4761563,
	"L2":   29.5284789,
	"2MK3": 42.9271398,
	"K2":   30.0821373,
	"M8":   115.9364166,
	"MS4":  58.9841042,
}

// SpeedOf returns a constituent's speed in degrees per hour. Names are
// matched case-insensitively.
func SpeedOf(name string) (float64, error) {
	speed, ok := constituentSpeeds[strings.ToUpper(name)]
	if !ok {
		return 0, NewUnknownConstituentError(name)
	}
	return speed, nil
}

// FrequencyOf returns a constituent's angular frequency in radians per second.
func FrequencyOf(name string) (float64, error) {
	speed, err := SpeedOf(name)
	if err != nil {
		return 0, err
	}
	return speed * math.Pi / 180 / 3600, nil
}

// KnownConstituents lists the catalogue names in alphabetical order.
func KnownConstituents() []string {
	names := make([]string, 0, len(constituentSpeeds))
	for name := range constituentSpeeds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
