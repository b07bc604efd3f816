package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/geocoding"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) GetProperty(id int64) (*models.Property, error) {
	query := `
        SELECT
            id,
            COALESCE(number, '') as number,
            COALESCE(address, '') as address,
            COALESCE(city, '') as city,
            COALESCE(property_type, 'other') as property_type,
            price,
            latitude,
            longitude,
            COALESCE(zone_codes, '') as zone_codes,
            COALESCE(geocoding_attempted, 0) as geocoding_attempted,
            COALESCE(created_at, CURRENT_TIMESTAMP) as created_at,
            COALESCE(updated_at, CURRENT_TIMESTAMP) as updated_at
        FROM properties
        WHERE id = ?
    `

	var p models.Property
	var price sql.NullInt64
	var latitude, longitude sql.NullFloat64
	var createdAt, updatedAt string

	err := d.db.QueryRow(query, id).Scan(
		&p.ID,
		&p.Number,
		&p.Address,
		&p.City,
		&p.PropertyType,
		&price,
		&latitude,
		&longitude,
		&p.ZoneCodes,
		&p.GeocodingAttempted,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if price.Valid {
		v := int(price.Int64)
		p.Price = &v
	}
	if latitude.Valid {
		lat := latitude.Float64
		p.Latitude = &lat
	}
	if longitude.Valid {
		lng := longitude.Float64
		p.Longitude = &lng
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		p.UpdatedAt = t
	}

	return &p, nil
}

func (d *Database) ListBuyers() ([]models.RawBuyerRecord, error) {
	query := `
        SELECT
            COALESCE(buyer_number, '') as buyer_number,
            COALESCE(email, '') as email,
            COALESCE(desired_zones, '') as desired_zones,
            COALESCE(desired_property_types, '') as desired_property_types,
            COALESCE(price_range_house, '') as price_range_house,
            COALESCE(price_range_apartment, '') as price_range_apartment,
            COALESCE(price_range_land, '') as price_range_land,
            COALESCE(price_range_other, '') as price_range_other,
            COALESCE(status, '') as status,
            COALESCE(distribution_flag, '') as distribution_flag
        FROM buyers
    `

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.RawBuyerRecord
	for rows.Next() {
		var r models.RawBuyerRecord
		err := rows.Scan(
			&r.BuyerNumber,
			&r.Email,
			&r.DesiredZones,
			&r.DesiredPropertyTypes,
			&r.PriceRangeHouse,
			&r.PriceRangeApartment,
			&r.PriceRangeLand,
			&r.PriceRangeOther,
			&r.StatusCode,
			&r.DistributionFlag,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (d *Database) ListZoneReferences() ([]models.ZoneReference, error) {
	query := `
        SELECT
            COALESCE(symbol, '') as symbol,
            COALESCE(name, '') as name,
            center_lat,
            center_lng,
            radius_km,
            COALESCE(city_name, '') as city_name,
            COALESCE(active, 1) as active
        FROM zone_references
    `

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.ZoneReference
	for rows.Next() {
		var ref models.ZoneReference
		var centerLat, centerLng, radiusKm sql.NullFloat64

		err := rows.Scan(
			&ref.Symbol,
			&ref.Name,
			&centerLat,
			&centerLng,
			&radiusKm,
			&ref.CityName,
			&ref.Active,
		)
		if err != nil {
			return nil, err
		}

		if centerLat.Valid {
			v := centerLat.Float64
			ref.CenterLat = &v
		}
		if centerLng.Valid {
			v := centerLng.Float64
			ref.CenterLng = &v
		}
		if radiusKm.Valid {
			v := radiusKm.Float64
			ref.RadiusKm = &v
		}

		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// UpdatePropertyZones persists the recomputed canonical zone string.
func (d *Database) UpdatePropertyZones(id int64, zoneCodes string) error {
	_, err := d.db.Exec(`
		UPDATE properties
		SET zone_codes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, zoneCodes, id)
	if err != nil {
		return fmt.Errorf("failed to update zone codes: %v", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// UpdateMissingCoordinates geocodes properties that have an address but no
// coordinate yet. Every property is marked as attempted, success or not, so
// the sweep never re-hammers the geocoder for known-bad addresses.
func (d *Database) UpdateMissingCoordinates(geocoder *geocoding.Geocoder) error {
	var totalCount int
	err := d.db.QueryRow(`
		SELECT COUNT(*)
		FROM properties
		WHERE (latitude IS NULL OR longitude IS NULL)
		AND geocoding_attempted = 0
		AND address IS NOT NULL
		AND address != ''
	`).Scan(&totalCount)
	if err != nil {
		return fmt.Errorf("failed to count properties: %v", err)
	}

	if totalCount == 0 {
		return nil
	}

	var processed, failed int
	batchSize := 10

	for processed+failed < totalCount {
		tx, err := d.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %v", err)
		}

		rows, err := tx.Query(`
			SELECT id, address
			FROM properties
			WHERE (latitude IS NULL OR longitude IS NULL)
			AND geocoding_attempted = 0
			AND address IS NOT NULL
			AND address != ''
			LIMIT ?
		`, batchSize)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to query properties: %v", err)
		}

		type target struct {
			id      int64
			address string
		}
		var targets []target
		for rows.Next() {
			var t target
			if err := rows.Scan(&t.id, &t.address); err != nil {
				rows.Close()
				tx.Rollback()
				return fmt.Errorf("failed to scan row: %v", err)
			}
			targets = append(targets, t)
		}
		rows.Close()

		if len(targets) == 0 {
			tx.Rollback()
			return fmt.Errorf("no properties processed in batch, possible data inconsistency. Total processed: %d/%d",
				processed+failed, totalCount)
		}

		for _, t := range targets {
			coord, err := geocoder.Resolve(t.address)
			if err != nil || coord == nil {
				if _, err := tx.Exec(`
					UPDATE properties SET geocoding_attempted = 1 WHERE id = ?
				`, t.id); err != nil {
					tx.Rollback()
					return fmt.Errorf("failed to mark geocoding attempt: %v", err)
				}
				failed++
				continue
			}

			if _, err := tx.Exec(`
				UPDATE properties
				SET latitude = ?, longitude = ?, geocoding_attempted = 1
				WHERE id = ?
			`, coord.Latitude, coord.Longitude, t.id); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to update coordinates: %v", err)
			}
			processed++
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %v", err)
		}
	}

	return nil
}
