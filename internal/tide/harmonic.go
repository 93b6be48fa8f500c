package tide

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bbernstein/tidegauge/internal/models"
	"gonum.org/v1/gonum/mat"
)

// TidalAnalysis fits h(t) = Σ a_i cos(ω_i t) + b_i sin(ω_i t) to the present
// sea levels of t in one least-squares solve, with t in seconds since start.
// Each constituent is reported as amplitude hypot(a, b) and phase atan2(b, a)
// in [0, 2π), i.e. h(t) = Σ A_i cos(ω_i t - φ_i). No mean term is fitted, so
// the series is expected to be demeaned (see ExtractSection).
func TidalAnalysis(t models.Table, constituents []string, start time.Time) (models.HarmonicResult, error) {
	omegas, err := resolveFrequencies(constituents)
	if err != nil {
		return models.HarmonicResult{}, err
	}

	var seconds, levels []float64
	startUTC := start.UTC()
	for _, r := range t.Rows() {
		v, ok := r.SeaLevel.Value()
		if !ok || !r.HasTime() {
			continue
		}
		seconds = append(seconds, r.Time.UTC().Sub(startUTC).Seconds())
		levels = append(levels, v)
	}

	n, k := len(levels), len(omegas)
	if n < 2*k {
		return models.HarmonicResult{}, NewInsufficientDataError(2*k, n,
			fmt.Sprintf("%d constituents need two readings each", k))
	}

	design := mat.NewDense(n, 2*k, nil)
	for i, s := range seconds {
		for j, w := range omegas {
			design.Set(i, 2*j, math.Cos(w*s))
			design.Set(i, 2*j+1, math.Sin(w*s))
		}
	}
	y := mat.NewVecDense(n, levels)

	var qr mat.QR
	qr.Factorize(design)

	coeffs := mat.NewVecDense(2*k, nil)
	if err := qr.SolveVecTo(coeffs, false, y); err != nil {
		return models.HarmonicResult{}, fmt.Errorf("solving harmonic system: %w", err)
	}

	result := models.HarmonicResult{
		Constituents: append([]string(nil), constituents...),
		Amplitudes:   make([]float64, k),
		Phases:       make([]float64, k),
		StartTime:    startUTC,
		Samples:      n,
	}
	for j := 0; j < k; j++ {
		a, b := coeffs.AtVec(2*j), coeffs.AtVec(2*j+1)
		result.Amplitudes[j] = math.Hypot(a, b)
		result.Phases[j] = normalizePhase(math.Atan2(b, a))
	}
	return result, nil
}

// Predict evaluates a fitted harmonic result at the given instants.
func Predict(h models.HarmonicResult, times []time.Time) ([]float64, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	omegas, err := resolveFrequencies(h.Constituents)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(times))
	for i, ts := range times {
		s := ts.UTC().Sub(h.StartTime.UTC()).Seconds()
		for j, w := range omegas {
			out[i] += h.Amplitudes[j] * math.Cos(w*s-h.Phases[j])
		}
	}
	return out, nil
}

func resolveFrequencies(constituents []string) ([]float64, error) {
	if len(constituents) == 0 {
		return nil, ErrNoConstituents
	}

	seen := make(map[string]bool, len(constituents))
	omegas := make([]float64, len(constituents))
	for i, name := range constituents {
		key := strings.ToUpper(name)
		if seen[key] {
			return nil, &DuplicateConstituentError{Name: name}
		}
		seen[key] = true

		w, err := FrequencyOf(name)
		if err != nil {
			return nil, err
		}
		omegas[i] = w
	}
	return omegas, nil
}

func normalizePhase(p float64) float64 {
	p = math.Mod(p, 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	return p
}
