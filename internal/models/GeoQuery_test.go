package models_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-explorer/internal/models"
)

func TestParseGeoQuery_Valid(t *testing.T) {
	q, err := models.ParseGeoQuery(35.6762, 139.6503, "2024-01-01", "2024-01-07")
	require.NoError(t, err)

	assert.Equal(t, 35.6762, q.Latitude)
	assert.Equal(t, 139.6503, q.Longitude)
	assert.Equal(t, "2024-01-01", q.StartDate.Format(models.DateLayout))
	assert.Equal(t, "2024-01-07", q.EndDate.Format(models.DateLayout))
	assert.Equal(t, 6, q.Days())
}

func TestParseGeoQuery_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		start    string
		end      string
		contains string
	}{
		{"latitude too high", 95, 0, "2024-01-01", "2024-01-02", "latitude"},
		{"latitude too low", -90.5, 0, "2024-01-01", "2024-01-02", "latitude"},
		{"longitude too high", 0, 180.1, "2024-01-01", "2024-01-02", "longitude"},
		{"latitude NaN", math.NaN(), 0, "2024-01-01", "2024-01-02", "latitude"},
		{"end before start", 0, 0, "2024-01-05", "2024-01-01", "start_date must be less than or equal to end_date"},
		{"range too long", 0, 0, "2024-01-01", "2024-02-02", "cannot exceed 31 days"},
		{"bad start format", 0, 0, "01/01/2024", "2024-01-02", "start_date must be in ISO format"},
		{"bad end format", 0, 0, "2024-01-01", "2024-13-01", "end_date must be in ISO format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := models.ParseGeoQuery(tt.lat, tt.lon, tt.start, tt.end)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrValidation))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParseGeoQuery_Boundaries(t *testing.T) {
	_, err := models.ParseGeoQuery(90, -180, "2024-01-01", "2024-02-01")
	assert.NoError(t, err, "31 days and edge coordinates are allowed")

	_, err = models.ParseGeoQuery(-90, 180, "2024-01-01", "2024-01-01")
	assert.NoError(t, err, "single-day range is allowed")
}

func TestFilterByDate(t *testing.T) {
	series := models.CanonicalSeries{
		{Date: "2024-01-01", TempMax: models.Float(5.1)},
		{Date: "2024-01-02", TempMax: models.Float(6.2)},
	}

	assert.Equal(t, 1, models.FilterByDate(series, "2024-01-02"))
	assert.Equal(t, -1, models.FilterByDate(series, "2024-01-03"))
}
