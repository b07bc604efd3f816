package geo

import (
	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
)

// DistanceKm returns the great-circle (haversine) distance between two
// coordinates in kilometers.
func DistanceKm(a, b models.Coordinate) float64 {
	p1 := orb.Point{a.Longitude, a.Latitude}
	p2 := orb.Point{b.Longitude, b.Latitude}
	return orbgeo.DistanceHaversine(p1, p2) / 1000.0
}
