package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHarmonicResultPhaseDegrees(t *testing.T) {
	h := HarmonicResult{
		Constituents: []string{"M2", "S2"},
		Amplitudes:   []float64{1, 0.5},
		Phases:       []float64{math.Pi, math.Pi / 2},
	}
	deg := h.PhaseDegrees()
	assert.InDelta(t, 180, deg[0], 1e-9)
	assert.InDelta(t, 90, deg[1], 1e-9)
}

func TestAnalysisReportValidate(t *testing.T) {
	valid := func() *AnalysisReport {
		return &AnalysisReport{
			Source: "data/station",
			Trend:  TrendResult{Samples: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *AnalysisReport)
		wantErr string
	}{
		{name: "valid", mutate: func(r *AnalysisReport) {}},
		{
			name:    "missing source",
			mutate:  func(r *AnalysisReport) { r.Source = "" },
			wantErr: "source is required",
		},
		{
			name:    "too few trend samples",
			mutate:  func(r *AnalysisReport) { r.Trend.Samples = 1 },
			wantErr: "at least 2 samples",
		},
		{
			name: "misaligned harmonics",
			mutate: func(r *AnalysisReport) {
				r.Harmonics = &HarmonicResult{Constituents: []string{"M2"}, Amplitudes: []float64{1}}
			},
			wantErr: "invalid harmonics",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := valid()
			tt.mutate(r)
			err := r.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestStationInfoID(t *testing.T) {
	assert.Equal(t, "BAR", StationInfo{Port: "BAR", Site: "Barmouth"}.ID())
	assert.Equal(t, "Barmouth", StationInfo{Site: "Barmouth"}.ID())
}
