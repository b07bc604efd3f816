package zone

import (
	"strings"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/geo"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
)

// NormalizeCity trims ASCII and full-width whitespace from a city name so
// spreadsheet-entered values compare reliably.
func NormalizeCity(name string) string {
	return strings.TrimSpace(name)
}

// Assign returns the set of zone symbols a property belongs to, given its
// coordinate (nil when ungeocoded) and city name.
//
// A reference contributes its symbol when either rule holds:
//   - radius rule: haversine distance from the center is <= the radius,
//     distance ties counting as inside;
//   - city rule: the normalized city names are equal, regardless of distance.
//
// An empty result is not an error. A property with no coordinate and no city
// legitimately maps to no zone; the caller reports that as a data-quality
// signal.
func Assign(coord *models.Coordinate, city string, refs []models.ZoneReference) SymbolSet {
	set := make(SymbolSet)
	normCity := NormalizeCity(city)

	for i := range refs {
		ref := &refs[i]
		if !ref.Active {
			continue
		}
		sym, ok := SymbolOf(ref.Symbol)
		if !ok {
			continue
		}

		if coord != nil && ref.RadiusCapable() {
			if geo.DistanceKm(*coord, *ref.Center()) <= *ref.RadiusKm {
				set.Add(sym)
				continue
			}
		}
		if normCity != "" && ref.CityWideCapable() {
			if NormalizeCity(ref.CityName) == normCity {
				set.Add(sym)
			}
		}
	}
	return set
}
