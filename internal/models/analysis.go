package models

import (
	"fmt"
	"math"
	"time"
)

// TrendResult is an ordinary least-squares fit of sea level against time.
// Slope is in sea-level units per day.
type TrendResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	PValue    float64 `json:"pValue"`
	StdErr    float64 `json:"stdErr"`
	RSquared  float64 `json:"rSquared"`
	Samples   int     `json:"samples"`
}

// HarmonicResult holds one amplitude and phase per requested constituent, in
// request order. Phases are radians in [0, 2π) for h(t) = A cos(ωt - φ), with t
// measured in seconds from StartTime.
type HarmonicResult struct {
	Constituents []string  `json:"constituents"`
	Amplitudes   []float64 `json:"amplitudes"`
	Phases       []float64 `json:"phases"`
	StartTime    time.Time `json:"startTime"`
	Samples      int       `json:"samples"`
}

// PhaseDegrees returns the phases converted to degrees.
func (h HarmonicResult) PhaseDegrees() []float64 {
	out := make([]float64, len(h.Phases))
	for i, p := range h.Phases {
		out[i] = p * 180 / math.Pi
	}
	return out
}

func (h HarmonicResult) Validate() error {
	if len(h.Amplitudes) != len(h.Constituents) || len(h.Phases) != len(h.Constituents) {
		return fmt.Errorf("harmonic result has %d constituents, %d amplitudes and %d phases",
			len(h.Constituents), len(h.Amplitudes), len(h.Phases))
	}
	return nil
}

// Span describes a stretch of a table.
type Span struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Rows  int       `json:"rows"`
}

// GapSummary describes the missing readings of a table.
type GapSummary struct {
	TotalRows      int   `json:"totalRows"`
	MissingRows    int   `json:"missingRows"`
	MissingRuns    int   `json:"missingRuns"`
	LongestMissing *Span `json:"longestMissing,omitempty"`
	LongestPresent *Span `json:"longestPresent,omitempty"`
}

// FileFailure records a station file that could not be read.
type FileFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// AnalysisReport is the outcome of one pipeline run over a station source.
type AnalysisReport struct {
	Source      string          `json:"source"`
	Station     StationInfo     `json:"station"`
	Files       []string        `json:"files"`
	Failures    []FileFailure   `json:"failures,omitempty"`
	Rows        int             `json:"rows"`
	Preview     []Row           `json:"preview"`
	Longest     Span            `json:"longestContiguous"`
	Gaps        GapSummary      `json:"gaps"`
	Trend       TrendResult     `json:"trend"`
	Segment     string          `json:"segment,omitempty"`
	Harmonics   *HarmonicResult `json:"harmonics,omitempty"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

func (r *AnalysisReport) Validate() error {
	if r.Source == "" {
		return fmt.Errorf("source is required")
	}
	if r.Trend.Samples < 2 {
		return fmt.Errorf("trend needs at least 2 samples, got %d", r.Trend.Samples)
	}
	if r.Harmonics != nil {
		if err := r.Harmonics.Validate(); err != nil {
			return fmt.Errorf("invalid harmonics: %w", err)
		}
	}
	return nil
}
