package geometry

import (
	"math"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
)

// ZoneMapper renders the zone-reference table as GeoJSON for the back-office
// map view: radius zones become circle polygons, city-wide zones become
// point markers.
type ZoneMapper struct {
	logger *logrus.Logger
}

func NewZoneMapper(logger *logrus.Logger) *ZoneMapper {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &ZoneMapper{logger: logger}
}

const circleSegments = 48

// BuildCoverage converts the active references into a feature collection.
// Misconfigured references (no rule at all) produce no feature; the store
// health check reports those.
func (m *ZoneMapper) BuildCoverage(refs []models.ZoneReference) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i := range refs {
		ref := &refs[i]
		if !ref.Active {
			continue
		}

		if ref.RadiusCapable() {
			ring := circleRing(*ref.Center(), *ref.RadiusKm)
			feature := geojson.NewFeature(orb.Polygon{ring})
			feature.Properties = geojson.Properties{
				"symbol":    ref.Symbol,
				"name":      ref.Name,
				"radius_km": *ref.RadiusKm,
				"coverage":  "radius",
			}
			fc.Append(feature)
		}

		if ref.CityWideCapable() {
			props := geojson.Properties{
				"symbol":    ref.Symbol,
				"name":      ref.Name,
				"city_name": ref.CityName,
				"coverage":  "city",
			}
			if center := ref.Center(); center != nil {
				feature := geojson.NewFeature(orb.Point{center.Longitude, center.Latitude})
				feature.Properties = props
				fc.Append(feature)
			}
		}
	}

	fc.ExtraMembers = map[string]interface{}{
		"generated": time.Now().Format(time.RFC3339),
		"zones":     len(fc.Features),
	}

	m.logger.WithField("features", len(fc.Features)).Info("Built zone coverage collection")
	return fc
}

// circleRing approximates a radius circle as a closed ring. Good enough for
// a map overlay; membership checks use real haversine distance, not this
// approximation.
func circleRing(center models.Coordinate, radiusKm float64) orb.Ring {
	latRad := center.Latitude * math.Pi / 180
	degPerKmLat := 1.0 / 110.574
	degPerKmLng := 1.0 / (111.320 * math.Cos(latRad))

	ring := make(orb.Ring, 0, circleSegments+1)
	for i := 0; i < circleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / circleSegments
		lat := center.Latitude + radiusKm*math.Sin(theta)*degPerKmLat
		lng := center.Longitude + radiusKm*math.Cos(theta)*degPerKmLng
		ring = append(ring, orb.Point{lng, lat})
	}
	// Close the ring
	ring = append(ring, ring[0])
	return ring
}
