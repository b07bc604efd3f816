package models

import "time"

// ZoneReference describes one distribution zone: a single symbol from the
// zone alphabet plus the rules that decide membership. A reference may match
// by radius from a center point, by whole-city name, or by either.
type ZoneReference struct {
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	CenterLat *float64 `json:"center_lat"`
	CenterLng *float64 `json:"center_lng"`
	RadiusKm  *float64 `json:"radius_km"`
	CityName  string   `json:"city_name"`
	Active    bool     `json:"active"`
}

// RadiusCapable reports whether the reference can match by distance.
func (z *ZoneReference) RadiusCapable() bool {
	return z.CenterLat != nil && z.CenterLng != nil && z.RadiusKm != nil
}

// CityWideCapable reports whether the reference can match a whole city.
func (z *ZoneReference) CityWideCapable() bool {
	return z.CityName != ""
}

// Misconfigured reports a reference that can never match anything. These are
// surfaced by the store health check rather than silently skipped.
func (z *ZoneReference) Misconfigured() bool {
	return !z.RadiusCapable() && !z.CityWideCapable()
}

// Center returns the reference point for radius matching, or nil.
func (z *ZoneReference) Center() *Coordinate {
	if z.CenterLat == nil || z.CenterLng == nil {
		return nil
	}
	return &Coordinate{Latitude: *z.CenterLat, Longitude: *z.CenterLng}
}

// ZoneHealth summarizes the state of the loaded zone-reference table.
type ZoneHealth struct {
	Total                int       `json:"total"`
	Active               int       `json:"active"`
	RadiusCapable        int       `json:"radius_capable"`
	CityWideCapable      int       `json:"city_wide_capable"`
	Misconfigured        int       `json:"misconfigured"`
	InvalidSymbol        int       `json:"invalid_symbol"`
	MisconfiguredSymbols []string  `json:"misconfigured_symbols"`
	InvalidSymbols       []string  `json:"invalid_symbols"`
	LoadedAt             time.Time `json:"loaded_at"`
}

// Healthy reports whether every loaded reference is usable as configured.
func (h ZoneHealth) Healthy() bool {
	return h.Misconfigured == 0 && h.InvalidSymbol == 0
}
