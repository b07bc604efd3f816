package models

import "time"

// PropertyType is the coarse listing category used by buyer preferences.
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeLand      PropertyType = "land"
	PropertyTypeOther     PropertyType = "other"
)

// Coordinate is a WGS 84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Property struct {
	ID           int64        `json:"id"`
	Number       string       `json:"number"`
	Address      string       `json:"address"`
	City         string       `json:"city"`
	PropertyType PropertyType `json:"property_type"`
	Price        *int         `json:"price"` // yen
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`

	// ZoneCodes is derived from the coordinate and city on every matching
	// run, never taken from input. Canonical form: symbols concatenated in
	// alphabet order with no separator.
	ZoneCodes string `json:"zone_codes"`

	GeocodingAttempted bool      `json:"geocoding_attempted"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Coordinate returns the property's location, or nil when it has not been
// geocoded yet.
func (p *Property) Coordinate() *Coordinate {
	if p.Latitude == nil || p.Longitude == nil {
		return nil
	}
	return &Coordinate{Latitude: *p.Latitude, Longitude: *p.Longitude}
}
