package api

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		endOfDay bool
		want     time.Time
		wantErr  bool
	}{
		{
			name:  "date",
			value: "1946-01-15",
			want:  time.Date(1946, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "date as end of day",
			value:    "1947-12-31",
			endOfDay: true,
			want:     time.Date(1947, 12, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:     "date-time ignores end of day",
			value:    "1947-12-31T06:30:00",
			endOfDay: true,
			want:     time.Date(1947, 12, 31, 6, 30, 0, 0, time.UTC),
		},
		{
			name:  "space separated without seconds",
			value: "2000-06-01 12:15",
			want:  time.Date(2000, 6, 1, 12, 15, 0, 0, time.UTC),
		},
		{
			name:  "RFC 3339 with offset",
			value: "2000-06-01T12:00:00+02:00",
			want:  time.Date(2000, 6, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "not a date",
			value:   "last tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDate(tt.value, tt.endOfDay)
			if tt.wantErr {
				var dateErr InvalidDateError
				require.True(t, errors.As(err, &dateErr))
				assert.Equal(t, tt.value, dateErr.Value)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := ParseOptionalDate("  ", false)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalDate("2000-01-01", false)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2000, got.Year())

	_, err = ParseOptionalDate("2000-13-01", false)
	assert.Error(t, err)
}

func TestParseConstituents(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{value: "M2,S2", want: []string{"M2", "S2"}},
		{value: " m2 , k1,,", want: []string{"M2", "K1"}},
		{value: "", want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseConstituents(tt.value))
		})
	}
}

func TestValidateYear(t *testing.T) {
	assert.NoError(t, ValidateYear(1946))
	assert.Error(t, ValidateYear(0))
	assert.Error(t, ValidateYear(10000))
}
