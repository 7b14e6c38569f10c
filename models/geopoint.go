package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when coordinates cannot form a valid
// WGS84 point.
var ErrInvalidGeometry = errors.New("invalid geometry")

// GeoPoint is a WGS84 coordinate pair stored as a GeoJSON Point so the
// issues collection can carry a 2dsphere index.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// NewGeoPoint validates and encodes a longitude/latitude pair.
func NewGeoPoint(longitude, latitude float64) (GeoPoint, error) {
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) ||
		math.IsNaN(latitude) || math.IsInf(latitude, 0) {
		return GeoPoint{}, fmt.Errorf("%w: coordinates must be finite numbers", ErrInvalidGeometry)
	}
	if longitude < -180 || longitude > 180 {
		return GeoPoint{}, fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrInvalidGeometry, longitude)
	}
	if latitude < -90 || latitude > 90 {
		return GeoPoint{}, fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrInvalidGeometry, latitude)
	}
	return GeoPoint{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}, nil
}

// Longitude returns the first coordinate of the point.
func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[0]
}

// Latitude returns the second coordinate of the point.
func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) != 2 {
		return 0
	}
	return p.Coordinates[1]
}
