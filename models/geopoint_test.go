package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		lat  float64
	}{
		{"origin", 0, 0},
		{"max_bounds", 180, 90},
		{"min_bounds", -180, -90},
		{"manhattan", -74.0060, 40.7128},
		{"helsinki", 24.9384, 60.1699},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, err := NewGeoPoint(tt.lon, tt.lat)
			require.NoError(t, err)

			assert.Equal(t, "Point", point.Type)
			assert.Equal(t, tt.lon, point.Longitude())
			assert.Equal(t, tt.lat, point.Latitude())
		})
	}
}

func TestNewGeoPoint_InvalidGeometry(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		lat  float64
	}{
		{"nan_longitude", math.NaN(), 10},
		{"nan_latitude", 10, math.NaN()},
		{"inf_longitude", math.Inf(1), 10},
		{"inf_latitude", 10, math.Inf(-1)},
		{"longitude_too_large", 180.1, 0},
		{"longitude_too_small", -181, 0},
		{"latitude_too_large", 0, 90.5},
		{"latitude_too_small", 0, -91},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGeoPoint(tt.lon, tt.lat)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidGeometry)
		})
	}
}

func TestGeoPoint_ZeroValueCoordinates(t *testing.T) {
	var point GeoPoint
	assert.Equal(t, 0.0, point.Longitude())
	assert.Equal(t, 0.0, point.Latitude())
}
